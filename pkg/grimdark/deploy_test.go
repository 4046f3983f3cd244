package grimdark

import "testing"

// scriptedPlacer returns a fixed spot per cluster id, shifting right on
// every retry.
type scriptedPlacer struct {
	spots map[int]Point
}

func (p *scriptedPlacer) Place(c *Cluster, attempt int) Point {
	s := p.spots[c.ID]
	s.X += float64(attempt) * 20
	return s
}

func TestDeployArmiesPlacesEveryGroup(t *testing.T) {
	red := &Army{Name: "Red", Groups: []*UnitGroup{
		groupOf(meleeDef("Red A", 2, 4, 4, 1)),
		groupOf(meleeDef("Red B", 2, 4, 4, 1)),
	}}
	blue := &Army{Name: "Blue", Groups: []*UnitGroup{
		groupOf(meleeDef("Blue A", 2, 4, 4, 1)),
	}}

	gs := NewGameState(DefaultMaxRounds)
	placer := &scriptedPlacer{spots: map[int]Point{
		1: {10, 10},
		2: {30, 10},
		3: {10, 40},
	}}
	DeployArmies(gs, red, blue, placer)

	if len(gs.Clusters) != 3 {
		t.Fatalf("clusters = %d, want 3", len(gs.Clusters))
	}
	wantSides := []Side{SideRed, SideRed, SideBlue}
	for i, c := range gs.Clusters {
		if c.ID != i+1 {
			t.Errorf("cluster %d id = %d, want %d", i, c.ID, i+1)
		}
		if c.Side != wantSides[i] {
			t.Errorf("cluster %d side = %q, want %q", i, c.Side, wantSides[i])
		}
	}
	if c := gs.Clusters[1]; !almostEq(c.Center.X, 30) || !almostEq(c.Center.Y, 10) {
		t.Errorf("Red B center = %v, want (30,10)", c.Center)
	}
}

func TestDeployArmiesRetriesOverlap(t *testing.T) {
	red := &Army{Name: "Red", Groups: []*UnitGroup{
		groupOf(meleeDef("Red A", 2, 4, 4, 1)),
		groupOf(meleeDef("Red B", 2, 4, 4, 1)),
	}}

	gs := NewGameState(DefaultMaxRounds)
	// Both groups propose the same spot; the second must take its retry
	placer := &scriptedPlacer{spots: map[int]Point{
		1: {10, 10},
		2: {10, 10},
	}}
	DeployArmies(gs, red, nil, placer)

	a, b := gs.Clusters[0], gs.Clusters[1]
	if !almostEq(a.Center.X, 10) {
		t.Errorf("Red A center = %v, want the first proposal", a.Center)
	}
	if !almostEq(b.Center.X, 30) {
		t.Errorf("Red B center = %v, want the shifted retry", b.Center)
	}
	if a.Gap(b) < 0 {
		t.Error("deployed clusters still overlap")
	}
}

func TestDeployArmiesAvoidsTerrain(t *testing.T) {
	red := &Army{Name: "Red", Groups: []*UnitGroup{
		groupOf(meleeDef("Red A", 2, 4, 4, 1)),
	}}

	gs := NewGameState(DefaultMaxRounds)
	gs.Terrain = []Rect{{X: 8, Y: 8, W: 4, H: 4}}
	placer := &scriptedPlacer{spots: map[int]Point{1: {10, 10}}}
	DeployArmies(gs, red, nil, placer)

	c := gs.Clusters[0]
	if !almostEq(c.Center.X, 30) {
		t.Errorf("center = %v, want the retry clear of terrain", c.Center)
	}
}

func TestEdgePlacerDepth(t *testing.T) {
	red := clusterAt(1, SideRed, Point{36, 24}, meleeDef("Red A", 1, 4, 4, 1))
	blue := clusterAt(2, SideBlue, Point{36, 24}, meleeDef("Blue A", 1, 4, 4, 1))
	scoutDef := meleeDef("Scouts", 1, 4, 4, 1)
	scoutDef.Rules.Scout = true
	scouts := clusterAt(3, SideRed, Point{36, 24}, scoutDef)

	p := NewEdgePlacer(1)
	wantDepth := 2 + red.Radius()

	spot := p.Place(red, 0)
	if !almostEq(spot.Y, wantDepth) {
		t.Errorf("red deploys at y=%v, want %v", spot.Y, wantDepth)
	}
	if spot.X < 4 || spot.X > BoardWidth-4 {
		t.Errorf("red x=%v outside the lateral band", spot.X)
	}

	spot = p.Place(blue, 0)
	if !almostEq(spot.Y, BoardHeight-wantDepth) {
		t.Errorf("blue deploys at y=%v, want %v", spot.Y, BoardHeight-wantDepth)
	}

	spot = p.Place(scouts, 0)
	if !almostEq(spot.Y, wantDepth+9) {
		t.Errorf("scouts deploy at y=%v, want %v further up", spot.Y, wantDepth+9)
	}
}
