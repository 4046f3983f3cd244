package grimdark

import "fmt"

// AttackContext carries the situational modifiers for one weapon
// resolution.
type AttackContext struct {
	Action         Action
	TargetInCover  bool
	Fatigued       bool
	DefenderModels int
	DefenderName   string
}

// AttackResult is the outcome of resolving one weapon against a defender.
// Packets are not yet applied; callers own wound application.
type AttackResult struct {
	Hits    int
	Saved   int
	Packets []int
	Damage  int
	Log     []string
}

type pendingHit struct {
	natural    bool
	blastSpawn bool
}

// ResolveAttack rolls one weapon's full hit/save/mitigation sequence.
// Deterministic given a fixed roll stream: hit rolls first in attack order,
// then one save per hit in hit order, then mitigation rolls per packet.
func ResolveAttack(r Roller, attacker *Cluster, atk *SubUnitState, w Weapon, def *SubUnitDefinition, ctx AttackContext) AttackResult {
	var res AttackResult
	if atk == nil || atk.Models <= 0 || w.Attacks <= 0 || w.Amount <= 0 {
		return res
	}

	quality := atk.Def.Quality
	melee := w.IsMelee()
	fatigued := melee && ctx.Fatigued

	threshold := quality
	if !melee && ctx.Action == ActionHold && attacker.AnyRule(func(sr SpecialRules) bool { return sr.GoodShot }) {
		threshold = 4
	}
	if w.Rules.Reliable {
		threshold--
		if threshold < 2 {
			threshold = 2
		}
	}

	furious := attacker.AnyRule(func(sr SpecialRules) bool { return sr.Furious })
	doubleFurious := attacker.AnyRule(func(sr SpecialRules) bool { return sr.BattleDrills }) &&
		attacker.AnyRule(func(sr SpecialRules) bool { return sr.FuriousOriginal })
	relentless := attacker.AnyRule(func(sr SpecialRules) bool { return sr.Relentless })

	bonusEligible := w.Rules.Flux ||
		(furious && ctx.Action == ActionCharge) ||
		(relentless && ctx.Action == ActionHold)
	bonusThreshold := 6
	if doubleFurious && ctx.Action == ActionCharge {
		bonusThreshold = 5
	}

	rolls := w.Attacks * w.Amount
	var hits []pendingHit
	for i := 0; i < rolls; i++ {
		v := r.D6()
		var hit bool
		if fatigued {
			hit = v == 6
		} else {
			hit = v == 6 || (v > 1 && v >= threshold)
		}
		natural := v == 6 || v >= quality
		if hit {
			hits = append(hits, pendingHit{natural: natural})
		}
		if bonusEligible && v >= bonusThreshold {
			hits = append(hits, pendingHit{natural: natural})
		}
	}

	verb := "fires"
	if melee {
		verb = "strikes with"
	}
	need := fmt.Sprintf("%d+", threshold)
	if fatigued {
		need = "6, fatigued"
	}
	res.Log = append(res.Log, fmt.Sprintf("%s %s %dx %s at %s: %d dice, %d hits (need %s)",
		atk.Def.Name, verb, w.Amount, w.Name, ctx.DefenderName, rolls, len(hits), need))

	if w.Rules.Blast > 0 && ctx.DefenderModels >= 1 && len(hits) > 0 {
		mult := w.Rules.Blast
		if ctx.DefenderModels < mult {
			mult = ctx.DefenderModels
		}
		if mult > 1 {
			expanded := make([]pendingHit, 0, len(hits)*mult)
			for _, h := range hits {
				expanded = append(expanded, h)
				for j := 1; j < mult; j++ {
					hb := h
					hb.blastSpawn = true
					expanded = append(expanded, hb)
				}
			}
			res.Log = append(res.Log, fmt.Sprintf("Blast(%d) vs %d models: %d hits become %d",
				w.Rules.Blast, ctx.DefenderModels, len(hits), len(expanded)))
			hits = expanded
		}
	}
	res.Hits = len(hits)
	if res.Hits == 0 {
		return res
	}

	precision := !melee && attacker.AnyRule(func(sr SpecialRules) bool { return sr.PrecisionShots })
	deadly := w.Rules.Deadly
	if deadly <= 0 {
		deadly = 1
	}

	for _, h := range hits {
		ap := w.AP
		if precision {
			ap++
		}
		if w.Rules.Rending && h.natural && ap < 4 {
			ap = 4
		}

		st := def.Defense
		if def.Rules.ShieldWall {
			st--
		}
		if ctx.TargetInCover && !h.blastSpawn {
			st--
		}
		st += ap
		if st < 2 {
			st = 2
		}

		v := r.D6()
		if v != 1 && (v == 6 || v >= st) {
			res.Saved++
		} else {
			res.Packets = append(res.Packets, deadly)
		}
	}
	res.Log = append(res.Log, fmt.Sprintf("%s saves %d of %d (D%d+, AP %d)",
		ctx.DefenderName, res.Saved, res.Hits, def.Defense, w.AP))

	res.Packets, res.Log = mitigateWounds(r, def, res.Packets, res.Log)
	for _, p := range res.Packets {
		res.Damage += p
	}
	return res
}

// mitigateWounds lets Medical Training (5+) then Self-Repair (6) try to
// cancel each point of each packet. Emptied packets are dropped.
func mitigateWounds(r Roller, def *SubUnitDefinition, packets []int, log []string) ([]int, []string) {
	med := def.Rules.MedicalTraining
	rep := def.Rules.SelfRepair
	if (!med && !rep) || len(packets) == 0 {
		return packets, log
	}

	prevented := 0
	kept := packets[:0]
	for _, p := range packets {
		surviving := 0
		for i := 0; i < p; i++ {
			stopped := false
			if med && r.D6() >= 5 {
				stopped = true
			}
			if !stopped && rep && r.D6() == 6 {
				stopped = true
			}
			if stopped {
				prevented++
			} else {
				surviving++
			}
		}
		if surviving > 0 {
			kept = append(kept, surviving)
		}
	}
	if prevented > 0 {
		src := "Medical Training"
		if !med {
			src = "Self-Repair"
		} else if rep {
			src = "Medical Training/Self-Repair"
		}
		log = append(log, fmt.Sprintf("%s prevents %d wounds", src, prevented))
	}
	return kept, log
}
