// Package catalog holds the concrete capabilities, attacks and unit
// classes a battle is assembled from.
package catalog

import (
	"fmt"
	"sort"

	"github.com/nstehr/skirmish/model"
)

// Def builds fresh instances of one capability. Every unit gets its own
// instance so usage counters are never shared.
type Def struct {
	ID  model.CapabilityID
	New func() model.Capability
}

// Catalog is a registry of capability definitions.
type Catalog struct {
	defs map[model.CapabilityID]Def
}

// New returns a catalog with every built-in capability registered.
func New() *Catalog {
	c := &Catalog{defs: make(map[model.CapabilityID]Def)}
	for _, d := range builtinDefs() {
		c.defs[d.ID] = d
	}
	for _, spec := range builtinHooks {
		if err := c.RegisterHook(spec); err != nil {
			panic(err)
		}
	}
	return c
}

// Register adds or replaces a definition.
func (c *Catalog) Register(d Def) error {
	if d.ID == "" || d.New == nil {
		return fmt.Errorf("capability definition %q is incomplete", d.ID)
	}
	c.defs[d.ID] = d
	return nil
}

// RegisterHook compiles spec and registers it as a passive combat
// capability. Nothing is registered if either expression fails to compile.
func (c *Catalog) RegisterHook(spec HookSpec) error {
	code, err := compileHook(spec)
	if err != nil {
		return err
	}
	proto := &Hook{code: code}
	c.defs[spec.ID] = Def{ID: spec.ID, New: proto.newInstance}
	return nil
}

// Capability instantiates id.
func (c *Catalog) Capability(id model.CapabilityID) (model.Capability, error) {
	d, ok := c.defs[id]
	if !ok {
		return nil, fmt.Errorf("unknown capability %q", id)
	}
	return d.New(), nil
}

// IDs lists registered capability ids in sorted order.
func (c *Catalog) IDs() []model.CapabilityID {
	ids := make([]model.CapabilityID, 0, len(c.defs))
	for id := range c.defs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MovementProfiles lists the ids of capabilities that key their own
// distance map.
func (c *Catalog) MovementProfiles() []model.CapabilityID {
	var out []model.CapabilityID
	for _, id := range c.IDs() {
		if m, ok := c.defs[id].New().(model.MovementModifier); ok && m.MovementProfile() {
			out = append(out, id)
		}
	}
	return out
}
