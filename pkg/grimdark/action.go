package grimdark

// Action is the single thing a unit does with its activation.
type Action int

const (
	ActionIdle Action = iota
	ActionHold
	ActionAdvance
	ActionRush
	ActionCharge
)

func (a Action) String() string {
	switch a {
	case ActionIdle:
		return "idle"
	case ActionHold:
		return "hold"
	case ActionAdvance:
		return "advance"
	case ActionRush:
		return "rush"
	case ActionCharge:
		return "charge"
	}
	return "unknown"
}

// TargetKind tags the Target variant.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetObjective
	TargetEnemy
	TargetPoint
)

// Target is a tagged movement target: an objective marker, an enemy
// cluster, or a bare board position. Callers dispatch on Kind instead of
// sniffing shapes.
type Target struct {
	Kind      TargetKind
	Objective *Objective
	Enemy     *Cluster
	Pos       Point
}

// NoTarget is the zero target.
var NoTarget = Target{}

// ObjectiveTarget wraps an objective marker.
func ObjectiveTarget(o *Objective) Target {
	return Target{Kind: TargetObjective, Objective: o}
}

// EnemyTarget wraps an enemy cluster.
func EnemyTarget(c *Cluster) Target {
	return Target{Kind: TargetEnemy, Enemy: c}
}

// PointTarget wraps a bare position, used for computed stopping points such
// as firing positions.
func PointTarget(p Point) Target {
	return Target{Kind: TargetPoint, Pos: p}
}

// Point returns the target's board position.
func (t Target) Point() Point {
	switch t.Kind {
	case TargetObjective:
		return t.Objective.Pos
	case TargetEnemy:
		return t.Enemy.Center
	case TargetPoint:
		return t.Pos
	}
	return Point{}
}

// Decision is the terminal output of the decision engine for one
// activation.
type Decision struct {
	Action      Action
	Move        Target
	ShootTarget *Cluster
	Reason      string
}

// Decider chooses one action per cluster per activation. Implementations
// live outside the engine; the engine owns execution.
type Decider interface {
	Name() string
	Decide(gs *GameState, c *Cluster) Decision
}
