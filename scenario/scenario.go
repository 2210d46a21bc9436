// Package scenario loads battle descriptions from YAML.
package scenario

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nstehr/skirmish/catalog"
	"github.com/nstehr/skirmish/model"
	"github.com/nstehr/skirmish/objective"
	"github.com/nstehr/skirmish/rules"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtin embed.FS

// File is a scenario document.
type File struct {
	Name      string     `yaml:"name"`
	First     model.Side `yaml:"first"`
	TurnLimit int        `yaml:"turn_limit"`
	Defender  model.Side `yaml:"defender"`
	Map       []string   `yaml:"map"`
	Units     []Unit     `yaml:"units"`
	// Capabilities defines custom passive combat hooks units may list.
	Capabilities []catalog.HookSpec   `yaml:"capabilities"`
	Objectives   objective.Objectives `yaml:"objectives"`
}

// Unit places one unit. Omitted attacks and capabilities come from the
// class preset; an omitted id is generated.
type Unit struct {
	ID           string               `yaml:"id"`
	Name         string               `yaml:"name"`
	Side         model.Side           `yaml:"side"`
	Class        model.Class          `yaml:"class"`
	At           []int                `yaml:"at"`
	HP           int                  `yaml:"hp"`
	Capabilities []model.CapabilityID `yaml:"capabilities"`
	Attacks      []model.AttackID     `yaml:"attacks"`
}

// Parse decodes a scenario. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Builtin returns a scenario shipped with the binary.
func Builtin(name string) (*File, error) {
	data, err := builtin.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no builtin scenario %q (have %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	return Parse(data)
}

// BuiltinNames lists the shipped scenarios.
func BuiltinNames() []string {
	entries, _ := builtin.ReadDir("builtin")
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

func (f *File) validate() error {
	if len(f.Map) == 0 {
		return fmt.Errorf("scenario %q has no map", f.Name)
	}
	if f.First == "" {
		f.First = model.Blue
	}
	if f.Defender == "" {
		f.Defender = f.First.Opponent()
	}
	if !f.First.Valid() || !f.Defender.Valid() {
		return fmt.Errorf("scenario %q: invalid side (first %q, defender %q)", f.Name, f.First, f.Defender)
	}
	if f.TurnLimit < 0 {
		return fmt.Errorf("scenario %q: negative turn limit", f.Name)
	}
	for i, u := range f.Units {
		if len(u.At) != 2 {
			return fmt.Errorf("unit %d (%s): at must be [x, y]", i, u.Name)
		}
	}
	return nil
}

// Build creates the battle, attaches its objectives and begins the first
// side's turn.
func (f *File) Build() (*rules.Battle, error) {
	cat := catalog.New()
	for _, spec := range f.Capabilities {
		if err := cat.RegisterHook(spec); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", f.Name, err)
		}
	}
	grid, err := model.ParseGrid(f.Map)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", f.Name, err)
	}
	b := rules.NewBattle(grid, cat.MovementProfiles())
	b.TurnLimit = f.TurnLimit
	b.Defender = f.Defender
	for i, entry := range f.Units {
		u, err := cat.NewUnit(catalog.UnitSpec{
			ID:           entry.ID,
			Name:         entry.Name,
			Side:         entry.Side,
			Class:        entry.Class,
			HP:           entry.HP,
			Attacks:      entry.Attacks,
			Capabilities: entry.Capabilities,
		})
		if err != nil {
			return nil, fmt.Errorf("scenario %q unit %d: %w", f.Name, i, err)
		}
		if err := b.Deploy(u, model.Square{X: entry.At[0], Y: entry.At[1]}); err != nil {
			return nil, fmt.Errorf("scenario %q unit %d: %w", f.Name, i, err)
		}
	}
	eng, err := objective.Build(f.Objectives, cat)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", f.Name, err)
	}
	if eng != nil {
		eng.Attach(b)
	}
	b.BeginTurn(f.First)
	return b, nil
}
