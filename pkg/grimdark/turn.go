package grimdark

import (
	"fmt"
	"math"
	"math/rand"
)

// Movement allowances in inches; the Fast and Slow keywords shift them.
const (
	baseAdvance = 6.0
	baseRush    = 12.0
)

const maxSelectRetries = 24

// AdvanceDistance is the move-and-shoot allowance.
func (c *Cluster) AdvanceDistance() float64 {
	d := baseAdvance
	if c.HasKeyword("Fast") {
		d += 2
	}
	if c.HasKeyword("Slow") {
		d -= 2
	}
	return d
}

// RushDistance is the full-move allowance, also used for charges.
func (c *Cluster) RushDistance() float64 {
	d := baseRush
	if c.HasKeyword("Fast") {
		d += 4
	}
	if c.HasKeyword("Slow") {
		d -= 4
	}
	return d
}

// ChargeDistance equals the rush allowance.
func (c *Cluster) ChargeDistance() float64 { return c.RushDistance() }

// CanShoot reports whether any ranged weapon reaches the enemy from the
// current position, by nearest-model distance.
func (c *Cluster) CanShoot(e *Cluster) bool {
	return c.BestRange > 0 && c.NearestModelDist(e) <= c.BestRange
}

// CanCharge reports whether the cluster can close to contact this
// activation.
func CanCharge(c, e *Cluster) bool {
	return c.Gap(e) <= c.ChargeDistance()
}

// ShootRangeFrom estimates the firing distance against e if the cluster's
// center stood at p. Planning uses footprint radii instead of per-model
// positions.
func ShootRangeFrom(p Point, c, e *Cluster) float64 {
	d := Dist(p, e.Center) - c.Radius() - e.Radius()
	if d < 0 {
		d = 0
	}
	return d
}

// MoveDestination resolves where a move of up to budget inches toward the
// target actually stops: at the objective itself, at a one-inch stand-off
// from an enemy, or at edge-to-edge contact for a charge.
func MoveDestination(c *Cluster, t Target, action Action, budget float64) Point {
	from := c.Center
	to := t.Point()
	dist := Dist(from, to)

	var move float64
	switch {
	case t.Kind == TargetObjective, t.Kind == TargetPoint:
		move = math.Min(budget, dist)
	case t.Kind == TargetEnemy && action == ActionCharge:
		gap := dist - c.Radius() - t.Enemy.Radius()
		if gap < 0 {
			gap = 0
		}
		move = math.Min(budget, gap)
	case t.Kind == TargetEnemy:
		standoff := c.Radius() + t.Enemy.Radius() + 1
		allowed := dist - standoff
		if allowed < 0 {
			allowed = 0
		}
		move = math.Min(budget, allowed)
	default:
		return from
	}
	return Toward(from, to, move)
}

// Battle owns a GameState's lifecycle and is its single mutator. All rule
// resolution happens synchronously on the calling goroutine; collaborators
// are notified before the next read.
type Battle struct {
	State  *GameState
	Roller Roller

	// Deciders supplies one decision engine per side.
	Deciders map[Side]Decider

	rng      *rand.Rand
	narrator Narrator
	renderer Renderer
}

// NewBattle wires a state to its collaborators. Nil narrator and renderer
// are replaced with no-ops; the seed drives both dice and activation
// selection.
func NewBattle(gs *GameState, seed int64, narrator Narrator, renderer Renderer) *Battle {
	if narrator == nil {
		narrator = NopNarrator{}
	}
	if renderer == nil {
		renderer = NopRenderer{}
	}
	return &Battle{
		State:    gs,
		Roller:   NewRoller(seed),
		Deciders: make(map[Side]Decider),
		rng:      rand.New(rand.NewSource(seed + 1)),
		narrator: narrator,
		renderer: renderer,
	}
}

func (b *Battle) say(line string) { b.narrator.Say(line) }

func (b *Battle) notifyRender(activeID int) {
	b.renderer.StateChanged(BuildSnapshot(b.State, activeID))
}

// destroyCluster zeroes a cluster and drops it from the roster.
func (b *Battle) destroyCluster(c *Cluster) {
	for _, su := range c.SubUnits {
		su.Models = 0
		su.WoundsOnModel = 0
		su.Loadout = nil
	}
	c.Models = 0
	b.State.RemoveCluster(c)
}

// eligibleOf returns the side's clusters that have not yet activated.
func (gs *GameState) eligibleOf(side Side) []*Cluster {
	var out []*Cluster
	for _, c := range gs.ClustersOf(side) {
		if !c.Activated {
			out = append(out, c)
		}
	}
	return out
}

// pickActivation selects a random not-yet-activated cluster of the side.
// Random picks over the full roster retry a bounded number of times;
// exhaustion is surfaced and the first eligible unit is taken so the round
// always makes progress.
func (b *Battle) pickActivation(side Side) *Cluster {
	roster := b.State.ClustersOf(side)
	eligible := b.State.eligibleOf(side)
	if len(eligible) == 0 {
		return nil
	}
	for i := 0; i < maxSelectRetries; i++ {
		c := roster[b.rng.Intn(len(roster))]
		if !c.Activated {
			return c
		}
	}
	b.say(fmt.Sprintf("%s activation selection stalled, taking the first ready unit", side))
	return eligible[0]
}

// moveCluster translates the footprint and narrates the move.
func (b *Battle) moveCluster(c *Cluster, dest Point, verb string) {
	moved := Dist(c.Center, dest)
	c.MoveCenterTo(dest)
	b.say(fmt.Sprintf("%s %s %.1f\" to (%.1f, %.1f)", c.Name, verb, moved, c.Center.X, c.Center.Y))
}

// ExecuteDecision carries out one decision: movement first, then combat,
// then the activation flag and a render notification.
func (b *Battle) ExecuteDecision(c *Cluster, d Decision) {
	if c == nil || c.Models <= 0 {
		return
	}
	gs := b.State

	switch d.Action {
	case ActionIdle:
		if c.Shaken {
			c.Shaken = false
			b.say(fmt.Sprintf("%s regroups and recovers its nerve", c.Name))
		} else {
			b.say(fmt.Sprintf("%s idles", c.Name))
		}

	case ActionHold:
		if d.ShootTarget != nil && gs.ClusterByID(d.ShootTarget.ID) != nil {
			b.say(fmt.Sprintf("%s holds and fires", c.Name))
			b.ResolveShooting(c, d.ShootTarget, ActionHold)
		} else {
			b.say(fmt.Sprintf("%s holds position", c.Name))
		}

	case ActionAdvance:
		dest := MoveDestination(c, d.Move, ActionAdvance, c.AdvanceDistance())
		b.moveCluster(c, dest, "advances")
		if d.ShootTarget != nil && gs.ClusterByID(d.ShootTarget.ID) != nil {
			b.ResolveShooting(c, d.ShootTarget, ActionAdvance)
		}

	case ActionRush:
		dest := MoveDestination(c, d.Move, ActionRush, c.RushDistance())
		b.moveCluster(c, dest, "rushes")

	case ActionCharge:
		if d.Move.Kind != TargetEnemy || d.Move.Enemy == nil || d.Move.Enemy.Models <= 0 {
			b.say(fmt.Sprintf("%s has no one left to charge and holds", c.Name))
			break
		}
		enemy := d.Move.Enemy
		if c.Gap(enemy) <= c.ChargeDistance() {
			dest := MoveDestination(c, d.Move, ActionCharge, c.ChargeDistance())
			b.moveCluster(c, dest, "charges")
			b.ResolveMelee(c, enemy, true)
		} else {
			dest := Toward(c.Center, enemy.Center, c.ChargeDistance())
			b.moveCluster(c, dest, "surges forward but falls short of")
		}
	}

	c.Activated = true
	b.notifyRender(c.ID)
}

// PlayRound alternates activations until both sides have activated every
// unit, then updates objective control and resets per-round flags. The side
// that finished first acts first next round.
func (b *Battle) PlayRound() {
	gs := b.State
	gs.ActiveSide = gs.FirstFinisher
	finishedFirst := SideNone

	for {
		if len(gs.eligibleOf(SideRed)) == 0 && len(gs.eligibleOf(SideBlue)) == 0 {
			break
		}

		side := gs.ActiveSide
		if len(gs.eligibleOf(side)) == 0 {
			gs.ActiveSide = side.Opponent()
			continue
		}

		if c := b.pickActivation(side); c != nil {
			d := b.decideFor(side, c)
			if d.Reason != "" {
				b.say(fmt.Sprintf("%s (%s) %s: %s", c.Name, c.Class, d.Action, d.Reason))
			}
			b.ExecuteDecision(c, d)
		}

		if finishedFirst == SideNone && len(gs.eligibleOf(side)) == 0 {
			finishedFirst = side
		}
		if len(gs.eligibleOf(side.Opponent())) > 0 {
			gs.ActiveSide = side.Opponent()
		}
	}

	gs.UpdateObjectives()
	b.say(fmt.Sprintf("round %d ends: %s holds %d objectives, %s holds %d",
		gs.Round, SideRed, gs.ObjectivesHeld(SideRed), SideBlue, gs.ObjectivesHeld(SideBlue)))

	for _, c := range gs.Clusters {
		c.Activated = false
		c.FoughtThisRound = false
	}
	if finishedFirst != SideNone {
		gs.FirstFinisher = finishedFirst
	}
	gs.Round++
	b.notifyRender(0)
}

// decideFor asks the side's decider for a decision, falling back to a plain
// hold-and-shoot-if-possible so an activation always terminates.
func (b *Battle) decideFor(side Side, c *Cluster) Decision {
	dec := b.Deciders[side]
	if dec == nil {
		return fallbackDecision(b.State, c)
	}
	return dec.Decide(b.State, c)
}

// fallbackDecision is the engine's own terminal default.
func fallbackDecision(gs *GameState, c *Cluster) Decision {
	if c.Shaken {
		return Decision{Action: ActionIdle, Reason: "shaken, recovering"}
	}
	for _, e := range gs.EnemiesOf(c.Side) {
		if c.CanShoot(e) {
			return Decision{Action: ActionHold, ShootTarget: e, Reason: "holding fire position"}
		}
	}
	return Decision{Action: ActionHold, Reason: "holding"}
}

// Result summarizes a finished battle.
type Result struct {
	Winner         Side
	Rounds         int
	ObjectivesRed  int
	ObjectivesBlue int
	RedModels      int
	BlueModels     int
	RedClusters    int
	BlueClusters   int
}

// Run plays rounds until a side is tabled or MaxRounds complete, then
// scores objectives. Equal holdings are a draw.
func (b *Battle) Run() *Result {
	gs := b.State
	for gs.Round <= gs.MaxRounds {
		if r := b.tabledResult(); r != nil {
			return r
		}
		b.say(fmt.Sprintf("--- Round %d ---", gs.Round))
		b.PlayRound()
	}
	if r := b.tabledResult(); r != nil {
		return r
	}

	res := b.summary()
	switch {
	case res.ObjectivesRed > res.ObjectivesBlue:
		res.Winner = SideRed
	case res.ObjectivesBlue > res.ObjectivesRed:
		res.Winner = SideBlue
	}
	b.sayResult(res)
	return res
}

// tabledResult ends the game early when a side has nothing left.
func (b *Battle) tabledResult() *Result {
	gs := b.State
	red := len(gs.ClustersOf(SideRed))
	blue := len(gs.ClustersOf(SideBlue))
	if red > 0 && blue > 0 {
		return nil
	}
	res := b.summary()
	if red > 0 {
		res.Winner = SideRed
	} else if blue > 0 {
		res.Winner = SideBlue
	}
	b.sayResult(res)
	return res
}

func (b *Battle) summary() *Result {
	gs := b.State
	res := &Result{
		Rounds:         gs.Round - 1,
		ObjectivesRed:  gs.ObjectivesHeld(SideRed),
		ObjectivesBlue: gs.ObjectivesHeld(SideBlue),
	}
	for _, c := range gs.ClustersOf(SideRed) {
		res.RedClusters++
		res.RedModels += c.Models
	}
	for _, c := range gs.ClustersOf(SideBlue) {
		res.BlueClusters++
		res.BlueModels += c.Models
	}
	return res
}

func (b *Battle) sayResult(res *Result) {
	if res.Winner == SideNone {
		b.say(fmt.Sprintf("battle ends in a draw after %d rounds", res.Rounds))
		return
	}
	b.say(fmt.Sprintf("%s wins after %d rounds (%d vs %d objectives)",
		res.Winner, res.Rounds, res.ObjectivesRed, res.ObjectivesBlue))
}
