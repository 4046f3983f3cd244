package bot

import (
	"github.com/cepsu/cFork-OPR/pkg/grimdark"
)

// StrategyFor returns the decision engine for a difficulty level.
func StrategyFor(difficulty string) grimdark.Decider {
	switch difficulty {
	case "hold":
		return HoldStrategy{}
	case "random":
		return RandomStrategy{}
	default:
		return TacticalStrategy{}
	}
}

// --- HoldStrategy ---

// HoldStrategy never repositions: it recovers when shaken, fires from where
// it stands when a target is in range, and otherwise holds. Useful as a
// punching bag for evaluating other strategies.
type HoldStrategy struct{}

func (HoldStrategy) Name() string { return "hold" }

func (HoldStrategy) Decide(gs *grimdark.GameState, c *grimdark.Cluster) grimdark.Decision {
	if c.Shaken {
		return grimdark.Decision{Action: grimdark.ActionIdle, Reason: "shaken, recovering"}
	}
	for _, e := range gs.EnemiesOf(c.Side) {
		if c.CanShoot(e) {
			return grimdark.Decision{
				Action:      grimdark.ActionHold,
				ShootTarget: e,
				Reason:      "holding and firing",
			}
		}
	}
	return grimdark.Decision{Action: grimdark.ActionHold, Reason: "holding"}
}

// --- RandomStrategy ---

// RandomStrategy picks a random legal action each activation: roughly 30%
// hold-and-shoot-if-able, otherwise a random move toward a random enemy or
// objective, charging when in reach. For baselines and fuzzing.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) Decide(gs *grimdark.GameState, c *grimdark.Cluster) grimdark.Decision {
	if c.Shaken {
		return grimdark.Decision{Action: grimdark.ActionIdle, Reason: "shaken, recovering"}
	}

	enemies := gs.EnemiesOf(c.Side)
	if botFloat64() < 0.3 || len(enemies) == 0 {
		return HoldStrategy{}.Decide(gs, c)
	}

	e := enemies[botIntn(len(enemies))]
	if grimdark.CanCharge(c, e) && botFloat64() < 0.5 {
		return grimdark.Decision{
			Action: grimdark.ActionCharge,
			Move:   grimdark.EnemyTarget(e),
			Reason: "charging on a whim",
		}
	}

	if len(gs.Objectives) > 0 && botFloat64() < 0.5 {
		o := gs.Objectives[botIntn(len(gs.Objectives))]
		return grimdark.Decision{
			Action: grimdark.ActionRush,
			Move:   grimdark.ObjectiveTarget(o),
			Reason: "wandering to a marker",
		}
	}

	var shoot *grimdark.Cluster
	if c.CanShoot(e) {
		shoot = e
	}
	return grimdark.Decision{
		Action:      grimdark.ActionAdvance,
		Move:        grimdark.EnemyTarget(e),
		ShootTarget: shoot,
		Reason:      "closing in",
	}
}
