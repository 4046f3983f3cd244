package grimdark

import "fmt"

// MoraleCause distinguishes the two morale contexts; losing a melee round
// can rout a weakened unit outright where shooting casualties only shake.
type MoraleCause int

const (
	MoraleCasualties MoraleCause = iota
	MoraleMelee
)

// MoraleOutcome is the result of a morale test.
type MoraleOutcome int

const (
	MoralePassed MoraleOutcome = iota
	MoraleShaken
	MoraleRouted
)

// TestMorale runs a morale test against the lead sub-unit's quality. An
// already-shaken unit auto-fails and is destroyed. Fearless gets a 4+
// re-roll to negate a failure; Hold the Line and Robot convert a failure to
// a pass at the price of self-inflicted damage rolls. A surviving failure
// shakes the unit, or routs it in melee at half strength.
func (b *Battle) TestMorale(c *Cluster, cause MoraleCause) MoraleOutcome {
	if c.Shaken {
		b.say(fmt.Sprintf("%s is already shaken and breaks completely", c.Name))
		b.destroyCluster(c)
		return MoraleRouted
	}

	q := c.SubUnits[0].Def.Quality
	v := b.Roller.D6()
	passed := v == 6 || v >= q
	b.say(fmt.Sprintf("%s takes a morale test: rolled %d against Q%d+", c.Name, v, q))

	if !passed && c.MajorityRule(func(r SpecialRules) bool { return r.Fearless }) {
		v2 := b.Roller.D6()
		if v2 >= 4 {
			b.say(fmt.Sprintf("%s shrugs it off, Fearless (%d)", c.Name, v2))
			passed = true
		}
	}

	if !passed && c.MajorityRule(func(r SpecialRules) bool { return r.HoldTheLine || r.Robot }) {
		needed := c.RemainingWounds()
		wounds := 0
		for i := 0; i < needed; i++ {
			if b.Roller.D6() <= 3 {
				wounds++
			}
		}
		passed = true
		if wounds > 0 {
			killed := SelfInflict(c, wounds)
			b.say(fmt.Sprintf("%s holds the line at a price: %d wounds, %d models lost", c.Name, wounds, killed))
			if c.Models <= 0 {
				b.destroyCluster(c)
				return MoraleRouted
			}
		} else {
			b.say(fmt.Sprintf("%s holds the line unscathed", c.Name))
		}
	}

	if passed {
		return MoralePassed
	}

	if cause == MoraleMelee && c.AtHalfStrength() {
		b.say(fmt.Sprintf("%s routs from combat", c.Name))
		b.destroyCluster(c)
		return MoraleRouted
	}

	c.Shaken = true
	b.say(fmt.Sprintf("%s is shaken", c.Name))
	return MoraleShaken
}
