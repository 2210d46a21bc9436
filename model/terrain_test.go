package model

import "testing"

func TestNewTileInvariants(t *testing.T) {
	for _, terrain := range []Terrain{Plain, Sand, Wall, Forest, Mountain, Water, Goal, Snow, Wood} {
		tile := NewTile(terrain)
		if err := tile.Validate(); err != nil {
			t.Errorf("NewTile(%s) invalid: %v", terrain, err)
		}
		if tile.Terrain != terrain {
			t.Errorf("NewTile(%s).Terrain = %s", terrain, tile.Terrain)
		}
	}
}

func TestTileValidateRejectsLandableWall(t *testing.T) {
	tile := Tile{Terrain: Wall, Passable: Never(), Landable: Always(), MoveCost: 1}
	if err := tile.Validate(); err == nil {
		t.Error("never-passable tile with always-landable should be invalid")
	}
}

func TestAccessAllows(t *testing.T) {
	tests := []struct {
		name   string
		access Access
		caps   CapabilitySet
		want   bool
	}{
		{"always, no caps", Always(), nil, true},
		{"never, with caps", Never(), CapabilitySet{CapGhost}, false},
		{"requires ghost, has ghost", RequiresAnyOf(CapGhost), CapabilitySet{CapSneak, CapGhost}, true},
		{"requires ghost, has sneak", RequiresAnyOf(CapGhost), CapabilitySet{CapSneak}, false},
		{"requires any of two", RequiresAnyOf(CapGhost, CapLevitate), CapabilitySet{CapLevitate}, true},
	}
	for _, tc := range tests {
		if got := tc.access.Allows(tc.caps); got != tc.want {
			t.Errorf("%s: Allows = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCostFor(t *testing.T) {
	sand := NewTile(Sand)
	if got := sand.CostFor(nil); got != 2 {
		t.Errorf("sand cost without levitate = %v, want 2", got)
	}
	if got := sand.CostFor(CapabilitySet{CapLevitate}); got != 1 {
		t.Errorf("sand cost with levitate = %v, want 1", got)
	}
	forest := NewTile(Forest)
	if got := forest.CostFor(CapabilitySet{CapLevitate}); got != 1.5 {
		t.Errorf("forest cost with levitate = %v, want 1.5", got)
	}
}

func TestTerrainGlyphRoundTrip(t *testing.T) {
	for r, want := range terrainGlyphs {
		got, ok := TerrainFromGlyph(r)
		if !ok || got != want {
			t.Errorf("TerrainFromGlyph(%q) = %s, %v", r, got, ok)
		}
		if want.Glyph() != r {
			t.Errorf("%s.Glyph() = %q, want %q", want, want.Glyph(), r)
		}
	}
	if _, ok := TerrainFromGlyph('Z'); ok {
		t.Error("unknown glyph should not parse")
	}
}
