package grimdark

// Side identifies one of the two forces. The empty side doubles as "no
// controller" for objectives.
type Side string

const (
	SideNone Side = ""
	SideRed  Side = "Red"
	SideBlue Side = "Blue"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	switch s {
	case SideRed:
		return SideBlue
	case SideBlue:
		return SideRed
	}
	return SideNone
}

// DefaultMaxRounds is the game length when the scenario doesn't override it.
const DefaultMaxRounds = 4

// GameState is the complete battlefield state. It is created once
// deployment completes and mutated only through Battle's action and
// resolution entry points.
type GameState struct {
	Round      int
	ActiveSide Side

	// FirstFinisher is the side that ran out of activations first in the
	// previous round; it acts first in the next one.
	FirstFinisher Side

	Clusters   []*Cluster
	Objectives []*Objective
	Terrain    []Rect

	MaxRounds int
}

// NewGameState returns an empty state for the given number of rounds
// (DefaultMaxRounds when maxRounds <= 0), with Red acting first.
func NewGameState(maxRounds int) *GameState {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &GameState{
		Round:         1,
		ActiveSide:    SideRed,
		FirstFinisher: SideRed,
		MaxRounds:     maxRounds,
	}
}

// ClustersOf returns all surviving clusters of a side.
func (gs *GameState) ClustersOf(side Side) []*Cluster {
	var out []*Cluster
	for _, c := range gs.Clusters {
		if c.Side == side {
			out = append(out, c)
		}
	}
	return out
}

// EnemiesOf returns all surviving clusters opposing a side.
func (gs *GameState) EnemiesOf(side Side) []*Cluster {
	return gs.ClustersOf(side.Opponent())
}

// ClusterByID returns the cluster with the given id, or nil.
func (gs *GameState) ClusterByID(id int) *Cluster {
	for _, c := range gs.Clusters {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// RemoveCluster drops a destroyed cluster from the roster.
func (gs *GameState) RemoveCluster(c *Cluster) {
	for i, x := range gs.Clusters {
		if x == c {
			gs.Clusters = append(gs.Clusters[:i], gs.Clusters[i+1:]...)
			return
		}
	}
}

// ObjectivesHeld counts objectives currently controlled by a side.
func (gs *GameState) ObjectivesHeld(side Side) int {
	n := 0
	for _, o := range gs.Objectives {
		if o.Controller == side {
			n++
		}
	}
	return n
}

// TargetInCover reports whether shooting from attacker to target crosses or
// ends in terrain. Blast-spawned hits ignore the resulting save bonus.
func (gs *GameState) TargetInCover(attacker, target *Cluster) bool {
	for _, t := range gs.Terrain {
		if t.Contains(target.Center) || t.IntersectsSegment(attacker.Center, target.Center) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the state. Mutations to the clone do not
// affect the original, which is needed for bots that evaluate speculative
// positions.
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		Round:         gs.Round,
		ActiveSide:    gs.ActiveSide,
		FirstFinisher: gs.FirstFinisher,
		MaxRounds:     gs.MaxRounds,
	}
	if gs.Terrain != nil {
		c.Terrain = make([]Rect, len(gs.Terrain))
		copy(c.Terrain, gs.Terrain)
	}
	if gs.Objectives != nil {
		c.Objectives = make([]*Objective, len(gs.Objectives))
		for i, o := range gs.Objectives {
			oc := *o
			c.Objectives[i] = &oc
		}
	}
	if gs.Clusters != nil {
		c.Clusters = make([]*Cluster, len(gs.Clusters))
		for i, cl := range gs.Clusters {
			c.Clusters[i] = cloneCluster(cl)
		}
	}
	return c
}

// cloneCluster deep-copies a cluster. The group template is shared since it
// is immutable.
func cloneCluster(c *Cluster) *Cluster {
	cc := *c
	cc.Positions = make([]Point, len(c.Positions))
	copy(cc.Positions, c.Positions)
	cc.SubUnits = make([]*SubUnitState, len(c.SubUnits))
	for i, su := range c.SubUnits {
		sc := *su
		sc.Loadout = make([]Weapon, len(su.Loadout))
		copy(sc.Loadout, su.Loadout)
		cc.SubUnits[i] = &sc
	}
	return &cc
}
