package grimdark

import "fmt"

// saveReference picks the sub-unit definition used for the defender's
// saves: the last sub-unit of the group, overridden to the first surviving
// non-hero whenever a hero shares the group with living squad models.
// Heroes never take the brunt of incoming fire while others live.
func saveReference(target *Cluster) *SubUnitDefinition {
	hasHero := false
	for _, su := range target.SubUnits {
		if su.Hero {
			hasHero = true
			break
		}
	}
	if hasHero {
		for _, su := range target.SubUnits {
			if !su.Hero && su.Alive() {
				return su.Def
			}
		}
	}
	return target.SubUnits[len(target.SubUnits)-1].Def
}

// ResolveShooting fires every in-range weapon of every attacking sub-unit
// at the target, applies the aggregated wounds in one batch, and runs the
// casualty morale test when the survivors drop to half strength. The action
// matters: Hold shots pick up Good Shot and Relentless bonuses.
func (b *Battle) ResolveShooting(attacker, target *Cluster, action Action) {
	if attacker == nil || target == nil || target.Models <= 0 {
		return
	}

	def := saveReference(target)
	dist := attacker.NearestModelDist(target)
	ctx := AttackContext{
		Action:         action,
		TargetInCover:  b.State.TargetInCover(attacker, target),
		DefenderModels: target.Models,
		DefenderName:   target.Name,
	}

	var packets []int
	fired := false
	for _, su := range attacker.SubUnits {
		if !su.Alive() {
			continue
		}
		for _, w := range su.Loadout {
			if w.IsMelee() || w.Range < dist {
				continue
			}
			fired = true
			res := ResolveAttack(b.Roller, attacker, su, w, def, ctx)
			for _, line := range res.Log {
				b.say(line)
			}
			packets = append(packets, res.Packets...)
		}
	}
	if !fired {
		b.say(fmt.Sprintf("%s has no weapon in range of %s", attacker.Name, target.Name))
		return
	}
	if len(packets) == 0 {
		b.say(fmt.Sprintf("%s weathers the volley unharmed", target.Name))
		return
	}

	killed := ApplyWounds(target, packets)
	b.say(fmt.Sprintf("%s loses %d models (%d remain)", target.Name, killed, target.Models))

	if target.Models <= 0 {
		b.say(fmt.Sprintf("%s is destroyed", target.Name))
		b.destroyCluster(target)
		return
	}
	if target.AtHalfStrength() {
		b.TestMorale(target, MoraleCasualties)
	}
}
