package bot

import (
	"math"
	"sort"

	"github.com/cepsu/cFork-OPR/pkg/grimdark"
)

// blockRadius is how close an enemy model must sit to the path before a
// melee unit treats its route to a marker as blocked.
const blockRadius = 6.0

// TacticalStrategy is the standard heuristic planner. It recovers shaken
// units, defends contested markers in place, lets Relentless units stand
// and shoot, and otherwise maneuvers by battlefield role: shooters kite for
// firing positions, melee units clear or bypass blockers on the way to the
// nearest unclaimed marker, and everyone falls back to straight engagement
// when no marker needs taking.
type TacticalStrategy struct{}

func (TacticalStrategy) Name() string { return "tactical" }

func (TacticalStrategy) Decide(gs *grimdark.GameState, c *grimdark.Cluster) grimdark.Decision {
	if c.Shaken {
		return grimdark.Decision{Action: grimdark.ActionIdle, Reason: "shaken, recovering"}
	}

	obj, contested := nearestActionableObjective(gs, c)
	if obj != nil && contested {
		return defendObjective(gs, c, obj)
	}

	// Relentless units prefer standing fire over repositioning
	if c.AnyRule(func(r grimdark.SpecialRules) bool { return r.Relentless }) {
		if e := bestShootTarget(gs, c); e != nil {
			return grimdark.Decision{
				Action:      grimdark.ActionHold,
				ShootTarget: e,
				Reason:      "relentless, standing fire",
			}
		}
	}

	if obj != nil {
		switch c.Class {
		case grimdark.ClassShooting, grimdark.ClassShootingFocus:
			return shootingApproach(gs, c, obj)
		case grimdark.ClassHybrid:
			if pathBlocked(gs, c, obj.Pos) {
				return meleeApproach(gs, c, obj)
			}
			return shootingApproach(gs, c, obj)
		default:
			return meleeApproach(gs, c, obj)
		}
	}

	return engage(gs, c)
}

// nearestActionableObjective finds the closest marker worth this unit's
// activation: not already counted as held by its side, and either
// completely unattended or attended only by this unit while an enemy
// contests it. The second return reports that contested case.
func nearestActionableObjective(gs *grimdark.GameState, c *grimdark.Cluster) (*grimdark.Objective, bool) {
	var best *grimdark.Objective
	bestContested := false
	bestD := math.MaxFloat64

	for _, o := range gs.Objectives {
		ok, contested := objectiveActionable(gs, c, o)
		if !ok {
			continue
		}
		if d := grimdark.Dist(c.Center, o.Pos); d < bestD {
			best, bestContested, bestD = o, contested, d
		}
	}
	return best, bestContested
}

func objectiveActionable(gs *grimdark.GameState, c *grimdark.Cluster, o *grimdark.Objective) (actionable, contested bool) {
	if gs.ControlledBy(o, c.Side) {
		return false, false
	}

	friends := 0
	selfNear := false
	for _, f := range gs.ClustersOf(c.Side) {
		if f.Shaken || f.Models <= 0 {
			continue
		}
		if f.DistToPoint(o.Pos) <= grimdark.ObjectiveRadius {
			friends++
			if f == c {
				selfNear = true
			}
		}
	}
	if friends == 0 {
		return true, false
	}

	enemies := 0
	for _, e := range gs.EnemiesOf(c.Side) {
		if e.Shaken || e.Models <= 0 {
			continue
		}
		if e.DistToPoint(o.Pos) <= grimdark.ObjectiveRadius {
			enemies++
		}
	}
	// Sole defender of a contested marker stays actionable; anything else
	// already covered by friends is someone else's problem
	if selfNear && friends == 1 && enemies > 0 {
		return true, true
	}
	return false, false
}

// defendObjective decides for the lone defender of a contested marker:
// melee-capable units throw the intruder off, shooters gun it down, and
// either way the unit stays put.
func defendObjective(gs *grimdark.GameState, c *grimdark.Cluster, obj *grimdark.Objective) grimdark.Decision {
	ranged := c.Class == grimdark.ClassShooting || c.Class == grimdark.ClassShootingFocus

	if !ranged {
		var best *grimdark.Cluster
		bestGap := math.MaxFloat64
		for _, e := range gs.EnemiesOf(c.Side) {
			if e.DistToPoint(obj.Pos) > grimdark.ObjectiveRadius {
				continue
			}
			if !grimdark.CanCharge(c, e) {
				continue
			}
			if g := c.Gap(e); g < bestGap {
				best, bestGap = e, g
			}
		}
		if best != nil {
			return grimdark.Decision{
				Action: grimdark.ActionCharge,
				Move:   grimdark.EnemyTarget(best),
				Reason: "driving intruders off the marker",
			}
		}
		return grimdark.Decision{Action: grimdark.ActionHold, Reason: "standing on the marker"}
	}

	if e := bestShootTarget(gs, c); e != nil && e.DistToPoint(obj.Pos) <= grimdark.ObjectiveRadius {
		return grimdark.Decision{
			Action:      grimdark.ActionHold,
			ShootTarget: e,
			Reason:      "defending the marker with fire",
		}
	}
	return grimdark.Decision{Action: grimdark.ActionHold, Reason: "standing on the marker"}
}

// meleeApproach moves a melee unit onto the marker, fighting through
// whatever stands in the way.
func meleeApproach(gs *grimdark.GameState, c *grimdark.Cluster, obj *grimdark.Objective) grimdark.Decision {
	if !pathBlocked(gs, c, obj.Pos) {
		return grimdark.Decision{
			Action: grimdark.ActionRush,
			Move:   grimdark.ObjectiveTarget(obj),
			Reason: "claiming the marker",
		}
	}

	if t := bestChargeTarget(gs, c); t != nil {
		dest := grimdark.MoveDestination(c, grimdark.EnemyTarget(t), grimdark.ActionCharge, c.ChargeDistance())
		if grimdark.Dist(dest, obj.Pos) <= c.Radius()+grimdark.ObjectiveRadius {
			return grimdark.Decision{
				Action: grimdark.ActionCharge,
				Move:   grimdark.EnemyTarget(t),
				Reason: "charging onto the marker",
			}
		}
		return grimdark.Decision{
			Action: grimdark.ActionCharge,
			Move:   grimdark.EnemyTarget(t),
			Reason: "clearing the path",
		}
	}

	if e := nearestEnemy(gs, c); e != nil {
		return grimdark.Decision{
			Action: grimdark.ActionRush,
			Move:   grimdark.EnemyTarget(e),
			Reason: "pushing through the block",
		}
	}
	return grimdark.Decision{
		Action: grimdark.ActionRush,
		Move:   grimdark.ObjectiveTarget(obj),
		Reason: "claiming the marker",
	}
}

// shootingApproach moves a shooter toward the marker, preferring a kiting
// position that keeps it outside the enemy's reach, then an ordinary
// advance with fire, then a flat run.
func shootingApproach(gs *grimdark.GameState, c *grimdark.Cluster, obj *grimdark.Objective) grimdark.Decision {
	if e, spot, ok := firingPosition(gs, c); ok {
		if grimdark.Dist(spot, obj.Pos) < grimdark.Dist(c.Center, obj.Pos) {
			return grimdark.Decision{
				Action:      grimdark.ActionAdvance,
				Move:        grimdark.PointTarget(spot),
				ShootTarget: e,
				Reason:      "advancing to a firing position",
			}
		}
	}

	dest := grimdark.MoveDestination(c, grimdark.ObjectiveTarget(obj), grimdark.ActionAdvance, c.AdvanceDistance())
	if e := shootTargetFrom(gs, c, dest); e != nil {
		return grimdark.Decision{
			Action:      grimdark.ActionAdvance,
			Move:        grimdark.ObjectiveTarget(obj),
			ShootTarget: e,
			Reason:      "advancing on the marker",
		}
	}
	return grimdark.Decision{
		Action: grimdark.ActionRush,
		Move:   grimdark.ObjectiveTarget(obj),
		Reason: "running for the marker",
	}
}

// engage is the no-marker branch: pick a fight with whatever is closest.
func engage(gs *grimdark.GameState, c *grimdark.Cluster) grimdark.Decision {
	if t := bestChargeTarget(gs, c); t != nil {
		return grimdark.Decision{
			Action: grimdark.ActionCharge,
			Move:   grimdark.EnemyTarget(t),
			Reason: "charging the nearest threat",
		}
	}
	if e, spot, ok := firingPosition(gs, c); ok {
		return grimdark.Decision{
			Action:      grimdark.ActionAdvance,
			Move:        grimdark.PointTarget(spot),
			ShootTarget: e,
			Reason:      "advancing to a firing position",
		}
	}
	if e := nearestEnemy(gs, c); e != nil {
		dest := grimdark.MoveDestination(c, grimdark.EnemyTarget(e), grimdark.ActionAdvance, c.AdvanceDistance())
		if s := shootTargetFrom(gs, c, dest); s != nil {
			return grimdark.Decision{
				Action:      grimdark.ActionAdvance,
				Move:        grimdark.EnemyTarget(e),
				ShootTarget: s,
				Reason:      "closing to fire",
			}
		}
		return grimdark.Decision{
			Action: grimdark.ActionRush,
			Move:   grimdark.EnemyTarget(e),
			Reason: "closing the distance",
		}
	}
	return grimdark.Decision{Action: grimdark.ActionHold, Reason: "nothing left to fight"}
}

// pathBlocked reports whether any enemy model sits within blockRadius of
// the straight line from the cluster's center to the destination.
func pathBlocked(gs *grimdark.GameState, c *grimdark.Cluster, to grimdark.Point) bool {
	for _, e := range gs.EnemiesOf(c.Side) {
		for _, p := range e.Positions {
			if grimdark.SegDist(p, c.Center, to) <= blockRadius {
				return true
			}
		}
	}
	return false
}

// bestShootTarget picks the target to fire on from the current position:
// fresh targets before activated ones, exposed before cover, then nearest.
func bestShootTarget(gs *grimdark.GameState, c *grimdark.Cluster) *grimdark.Cluster {
	type candidate struct {
		e     *grimdark.Cluster
		cover bool
		dist  float64
	}
	var cands []candidate
	for _, e := range gs.EnemiesOf(c.Side) {
		if !c.CanShoot(e) {
			continue
		}
		cands = append(cands, candidate{e, gs.TargetInCover(c, e), c.NearestModelDist(e)})
	}
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].e.Activated != cands[j].e.Activated {
			return !cands[i].e.Activated
		}
		if cands[i].cover != cands[j].cover {
			return !cands[i].cover
		}
		return cands[i].dist < cands[j].dist
	})
	return cands[0].e
}

// shootTargetFrom estimates whether a shot would exist from a hypothetical
// position, using footprint radii instead of per-model distances.
func shootTargetFrom(gs *grimdark.GameState, c *grimdark.Cluster, from grimdark.Point) *grimdark.Cluster {
	if c.BestRange <= 0 {
		return nil
	}
	type candidate struct {
		e    *grimdark.Cluster
		dist float64
	}
	var cands []candidate
	for _, e := range gs.EnemiesOf(c.Side) {
		d := grimdark.ShootRangeFrom(from, c, e)
		if d > c.BestRange {
			continue
		}
		cands = append(cands, candidate{e, d})
	}
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].e.Activated != cands[j].e.Activated {
			return !cands[i].e.Activated
		}
		return cands[i].dist < cands[j].dist
	})
	return cands[0].e
}

// bestChargeTarget picks the charge target: fresh targets first, then the
// smallest gap.
func bestChargeTarget(gs *grimdark.GameState, c *grimdark.Cluster) *grimdark.Cluster {
	type candidate struct {
		e   *grimdark.Cluster
		gap float64
	}
	var cands []candidate
	for _, e := range gs.EnemiesOf(c.Side) {
		if !grimdark.CanCharge(c, e) {
			continue
		}
		cands = append(cands, candidate{e, c.Gap(e)})
	}
	if len(cands) == 0 {
		return nil
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].e.Activated != cands[j].e.Activated {
			return !cands[i].e.Activated
		}
		return cands[i].gap < cands[j].gap
	})
	return cands[0].e
}

func nearestEnemy(gs *grimdark.GameState, c *grimdark.Cluster) *grimdark.Cluster {
	var best *grimdark.Cluster
	bestGap := math.MaxFloat64
	for _, e := range gs.EnemiesOf(c.Side) {
		if g := c.Gap(e); g < bestGap {
			best, bestGap = e, g
		}
	}
	return best
}

// firingPosition scans, per enemy, stopping fractions of the advance
// allowance from the full move down to 5%, taking the first fraction that
// can shoot the enemy while staying outside its return range, and keeps the
// combination with the longest move.
func firingPosition(gs *grimdark.GameState, c *grimdark.Cluster) (*grimdark.Cluster, grimdark.Point, bool) {
	if c.BestRange <= 0 {
		return nil, grimdark.Point{}, false
	}
	adv := c.AdvanceDistance()

	var bestE *grimdark.Cluster
	var bestSpot grimdark.Point
	bestMove := 0.0

	for _, e := range gs.EnemiesOf(c.Side) {
		for step := 20; step >= 1; step-- {
			move := adv * float64(step) / 20
			spot := grimdark.Toward(c.Center, e.Center, move)
			d := grimdark.ShootRangeFrom(spot, c, e)
			if d <= c.BestRange && d > e.BestRange {
				if move > bestMove {
					bestE, bestSpot, bestMove = e, spot, move
				}
				break
			}
		}
	}
	return bestE, bestSpot, bestE != nil
}
