package grimdark

import "math/rand"

// Placer proposes deployment centers. The engine only consumes coordinates;
// where they come from is the scenario's concern.
type Placer interface {
	Place(c *Cluster, attempt int) Point
}

const maxPlaceAttempts = 40

// DeployArmies expands both armies into clusters and places them. A
// placement that overlaps terrain or an already placed cluster re-queues
// the unit for another proposal; after exhausting retries the last proposal
// stands, cramped or not, so deployment always completes.
func DeployArmies(gs *GameState, red, blue *Army, placer Placer) {
	id := 1
	deploySide := func(a *Army, side Side) {
		if a == nil {
			return
		}
		for _, g := range a.Groups {
			c := NewClusterAt(id, g, side, Point{X: BoardWidth / 2, Y: BoardHeight / 2})
			if c == nil {
				continue
			}
			id++
			for attempt := 0; attempt < maxPlaceAttempts; attempt++ {
				c.MoveCenterTo(placer.Place(c, attempt))
				if !gs.placementBlocked(c) {
					break
				}
			}
			gs.Clusters = append(gs.Clusters, c)
		}
	}
	deploySide(red, SideRed)
	deploySide(blue, SideBlue)
}

// placementBlocked reports whether the cluster's footprint overlaps terrain
// or an already placed cluster.
func (gs *GameState) placementBlocked(c *Cluster) bool {
	for _, t := range gs.Terrain {
		for _, p := range c.Positions {
			if t.Contains(p) {
				return true
			}
		}
	}
	for _, other := range gs.Clusters {
		if other != c && c.Gap(other) < 0 {
			return true
		}
	}
	return false
}

// EdgePlacer deploys Red along the top edge and Blue along the bottom,
// with random lateral spread. Scouts set up further up the board.
type EdgePlacer struct {
	rng *rand.Rand
}

// NewEdgePlacer returns the default placer for the given seed.
func NewEdgePlacer(seed int64) *EdgePlacer {
	return &EdgePlacer{rng: rand.New(rand.NewSource(seed))}
}

func (p *EdgePlacer) Place(c *Cluster, attempt int) Point {
	depth := 2.0 + c.Radius()
	if c.AnyRule(func(r SpecialRules) bool { return r.Scout }) {
		depth += 9
	}
	x := 4 + p.rng.Float64()*(BoardWidth-8)
	y := depth
	if c.Side == SideBlue {
		y = BoardHeight - depth
	}
	return Point{X: x, Y: y}
}
