package model

import "fmt"

// Terrain classifies a tile. The zero value is Plain.
type Terrain byte

const (
	Plain    Terrain = iota // open ground
	Sand                    // slow, hurts speed
	Wall                    // solid, ghosts only
	Forest                  // slow, hurts speed
	Mountain                // plain for now; mounted classes would pay more
	Water                   // levitation only
	Goal                    // objective, exposed position
	Snow                    // forest with a different palette
	Wood                    // plain with a different palette
)

var terrainNames = [...]string{"plain", "sand", "wall", "forest", "mountain", "water", "goal", "snow", "wood"}

// glyphs used in scenario map rows.
var terrainGlyphs = map[rune]Terrain{
	'.': Plain,
	's': Sand,
	'#': Wall,
	'f': Forest,
	'^': Mountain,
	'~': Water,
	'G': Goal,
	'*': Snow,
	'w': Wood,
}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return fmt.Sprintf("terrain(%d)", t)
}

// Glyph returns the map character for t.
func (t Terrain) Glyph() rune {
	for r, tt := range terrainGlyphs {
		if tt == t {
			return r
		}
	}
	return '?'
}

// TerrainFromGlyph maps a scenario map character to its terrain.
func TerrainFromGlyph(r rune) (Terrain, bool) {
	t, ok := terrainGlyphs[r]
	return t, ok
}

// NewTile returns the standard tile for terrain t.
func NewTile(t Terrain) Tile {
	tile := Tile{
		Terrain:  t,
		Passable: Always(),
		Landable: Always(),
		MoveCost: 1,
	}
	switch t {
	case Sand:
		tile.MoveCost = 2
		tile.CostWaivers = []CapabilityID{CapLevitate}
		tile.Combat.Speed = -5
	case Wall:
		tile.Passable = RequiresAnyOf(CapGhost)
		tile.Landable = Never()
	case Forest, Snow:
		tile.MoveCost = 1.5
		tile.Combat.Speed = -2
	case Water:
		tile.Passable = RequiresAnyOf(CapLevitate)
		tile.Landable = RequiresAnyOf(CapLevitate)
	case Goal:
		tile.Combat.Defense = -3
		tile.Combat.Resistance = -3
		tile.Combat.Evasion = -10
	}
	return tile
}
