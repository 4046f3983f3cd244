package grimdark

import "fmt"

// ResolveMelee runs a full melee exchange: the attacker's strike, the
// defender's return strike if it survives, Fear-adjusted resolution, and
// the loser's melee morale test. charged marks the attacker as having
// charged in, which enables Furious and the post-fight push-back.
func (b *Battle) ResolveMelee(attacker, defender *Cluster, charged bool) {
	if attacker == nil || defender == nil || attacker.Models <= 0 || defender.Models <= 0 {
		return
	}

	action := ActionIdle
	if charged {
		action = ActionCharge
	}

	atkFatigued := attacker.FoughtThisRound || attacker.Shaken
	atkDamage, defLost := b.meleeStrike(attacker, defender, saveReference(defender), action, atkFatigued)
	attacker.FoughtThisRound = true

	if defLost > 0 && defender.Models > 0 {
		b.say(fmt.Sprintf("%s loses %d models (%d remain)", defender.Name, defLost, defender.Models))
	}
	if defender.Models <= 0 {
		b.say(fmt.Sprintf("%s is wiped out in melee", defender.Name))
		b.destroyCluster(defender)
		return
	}

	// Return strike saves always reference the attacker's first sub-unit.
	defFatigued := defender.FoughtThisRound || defender.Shaken
	defDamage, atkLost := b.meleeStrike(defender, attacker, attacker.SubUnits[0].Def, ActionIdle, defFatigued)
	defender.FoughtThisRound = true
	if atkLost > 0 && attacker.Models > 0 {
		b.say(fmt.Sprintf("%s loses %d models (%d remain)", attacker.Name, atkLost, attacker.Models))
	}

	if attacker.Models <= 0 {
		b.say(fmt.Sprintf("%s is wiped out by the counter-attack", attacker.Name))
		b.destroyCluster(attacker)
		return
	}

	atkScore := atkDamage + attacker.FearBonus()
	defScore := defDamage + defender.FearBonus()
	b.say(fmt.Sprintf("melee result: %s %d vs %s %d", attacker.Name, atkScore, defender.Name, defScore))

	switch {
	case atkScore > defScore:
		b.TestMorale(defender, MoraleMelee)
	case defScore > atkScore:
		b.TestMorale(attacker, MoraleMelee)
	}

	if charged && defender.Models > 0 && b.State.ClusterByID(defender.ID) != nil {
		if attacker.Gap(defender) < -overlapTolerance {
			away := Toward(defender.Center, attacker.Center, -1.0)
			defender.MoveCenterTo(away)
			b.say(fmt.Sprintf("%s is pushed back an inch", defender.Name))
		}
	}
}

// meleeStrike resolves every melee weapon of every surviving attacking
// sub-unit against one save reference and applies the wounds. Returns the
// damage dealt for melee resolution and the models killed.
func (b *Battle) meleeStrike(striker, target *Cluster, saveDef *SubUnitDefinition, action Action, fatigued bool) (damage, killed int) {
	ctx := AttackContext{
		Action:         action,
		Fatigued:       fatigued,
		DefenderModels: target.Models,
		DefenderName:   target.Name,
	}

	var packets []int
	for _, su := range striker.SubUnits {
		if !su.Alive() {
			continue
		}
		for _, w := range su.Loadout {
			if !w.IsMelee() {
				continue
			}
			res := ResolveAttack(b.Roller, striker, su, w, saveDef, ctx)
			for _, line := range res.Log {
				b.say(line)
			}
			packets = append(packets, res.Packets...)
			damage += res.Damage
		}
	}
	if len(packets) > 0 {
		killed = ApplyWounds(target, packets)
	}
	return damage, killed
}
