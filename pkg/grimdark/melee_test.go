package grimdark

import "testing"

// Full charge exchange: Berserkers (2 models, Q3, A2 each) charge Militia
// (4 models, Q5, D5). Dice order is strike hits, strike saves, counter
// hits, counter saves, loser's morale.
func TestResolveMeleeChargeExchange(t *testing.T) {
	atk := clusterAt(1, SideRed, Point{10, 10}, meleeDef("Berserkers", 2, 3, 4, 2))
	def := clusterAt(2, SideBlue, Point{14, 10}, meleeDef("Militia", 4, 5, 5, 1))
	b, buf := battleWith([]int{
		5, 4, 2, 3, // strike: 3 hits against Q3+
		2, 2, 6, // saves at 5+: two fail
		6, 3, // counter from the 2 survivors: one hit
		2, // save at 4+: fails
		5, // militia holds at exactly half strength
	}, atk, def)

	b.ResolveMelee(atk, def, true)

	if def.Models != 2 {
		t.Errorf("militia models = %d, want 2", def.Models)
	}
	if atk.Models != 1 {
		t.Errorf("berserker models = %d, want 1", atk.Models)
	}
	if !narrated(buf, "melee result: Berserkers 2 vs Militia 1") {
		t.Errorf("missing resolution narration: %v", buf.Lines)
	}
	if def.Shaken {
		t.Error("militia passed morale and must not be shaken")
	}
	if !atk.FoughtThisRound || !def.FoughtThisRound {
		t.Error("both sides should be marked as having fought")
	}
	if got := b.Roller.(*ScriptedRoller).Taken(); got != 11 {
		t.Errorf("rolls consumed = %d, want 11", got)
	}
}

// A unit that already fought this round hits only on unmodified sixes.
func TestResolveMeleeFatiguedStrikes(t *testing.T) {
	atkDef := meleeDef("Champion", 1, 2, 4, 2)
	atk := clusterAt(1, SideRed, Point{10, 10}, atkDef)
	atk.FoughtThisRound = true

	defDef := rangedDef("Walker", 1, 4, 4, 24, 1)
	defDef.Rules.Tough = 3
	def := clusterAt(2, SideBlue, Point{12, 10}, defDef)

	// 5 would hit Q2+ fresh; fatigued only the 6 connects
	b, _ := battleWith([]int{5, 6, 1, 3}, atk, def)
	b.ResolveMelee(atk, def, false)

	if got := def.SubUnits[0].WoundsOnModel; got != 1 {
		t.Errorf("walker wounds = %d, want 1 from the single fatigued hit", got)
	}
	if !def.Shaken {
		t.Error("walker lost the exchange and should be shaken")
	}
	if got := b.Roller.(*ScriptedRoller).Taken(); got != 4 {
		t.Errorf("rolls consumed = %d, want 4", got)
	}
}

// Wiping the defender skips the counter-attack and the morale test.
func TestResolveMeleeWipeSkipsCounter(t *testing.T) {
	atk := clusterAt(1, SideRed, Point{10, 10}, meleeDef("Veterans", 2, 2, 4, 1))
	def := clusterAt(2, SideBlue, Point{13, 10}, meleeDef("Straggler", 1, 4, 2, 1))
	b, buf := battleWith([]int{2, 2, 1, 1}, atk, def)

	b.ResolveMelee(atk, def, true)

	if b.State.ClusterByID(2) != nil {
		t.Error("straggler should be removed from the battle")
	}
	if !narrated(buf, "wiped out in melee") {
		t.Errorf("missing wipeout narration: %v", buf.Lines)
	}
	if atk.Models != 2 {
		t.Errorf("veterans models = %d, want 2 untouched", atk.Models)
	}
	if !atk.FoughtThisRound {
		t.Error("attacker fought even when the defender folds")
	}
	if got := b.Roller.(*ScriptedRoller).Taken(); got != 4 {
		t.Errorf("rolls consumed = %d, want 4: no counter dice", got)
	}
}

// The counter-attack can wipe the attacker before resolution is scored.
func TestResolveMeleeCounterWipesAttacker(t *testing.T) {
	atk := clusterAt(1, SideRed, Point{10, 10}, meleeDef("Duelist", 1, 6, 2, 1))
	def := clusterAt(2, SideBlue, Point{13, 10}, meleeDef("Mob", 3, 2, 4, 1))
	b, buf := battleWith([]int{
		1, // duelist whiffs
		2, 2, 2, // mob hits with everything at Q2+
		1, 1, 1, // all saves fail; first wound kills, the rest is wasted
	}, atk, def)

	b.ResolveMelee(atk, def, true)

	if b.State.ClusterByID(1) != nil {
		t.Error("duelist should be removed from the battle")
	}
	if !narrated(buf, "wiped out by the counter-attack") {
		t.Errorf("missing counter narration: %v", buf.Lines)
	}
	if def.Models != 3 {
		t.Errorf("mob models = %d, want 3", def.Models)
	}
	if got := b.Roller.(*ScriptedRoller).Taken(); got != 7 {
		t.Errorf("rolls consumed = %d, want 7: no morale after a wipe", got)
	}
}

// Equal damage, but Fear(1) tips resolution and forces the defender to
// test.
func TestResolveMeleeFearTipsResolution(t *testing.T) {
	atkDef := meleeDef("Ogres", 2, 4, 4, 1)
	atkDef.Rules.Fear = 1
	atk := clusterAt(1, SideRed, Point{10, 10}, atkDef)
	def := clusterAt(2, SideBlue, Point{14, 10}, meleeDef("Spearmen", 2, 4, 4, 1))

	b, buf := battleWith([]int{
		4, 2, // one ogre hit
		3, // save fails, a spearman falls
		5, // lone spearman hits back
		2, // ogre save fails
		4, // spearmen pass morale at the brink
	}, atk, def)
	b.ResolveMelee(atk, def, true)

	if !narrated(buf, "melee result: Ogres 2 vs Spearmen 1") {
		t.Errorf("fear bonus missing from resolution: %v", buf.Lines)
	}
	if !narrated(buf, "Spearmen takes a morale test") {
		t.Errorf("defender should have tested morale: %v", buf.Lines)
	}
	if def.Models != 1 || atk.Models != 1 {
		t.Errorf("models = %d vs %d, want 1 vs 1", atk.Models, def.Models)
	}
}

// Chargers that end up overlapping the defender push it back an inch.
func TestResolveMeleePushBack(t *testing.T) {
	atk := clusterAt(1, SideRed, Point{10, 10}, meleeDef("Champion", 1, 4, 4, 1))
	def := clusterAt(2, SideBlue, Point{11, 10}, meleeDef("Challenger", 1, 4, 4, 1))

	// Both miss so nothing but the shove happens
	b, buf := battleWith([]int{1, 1}, atk, def)
	b.ResolveMelee(atk, def, true)

	if !narrated(buf, "pushed back an inch") {
		t.Errorf("missing push narration: %v", buf.Lines)
	}
	if !almostEq(def.Center.X, 12) || !almostEq(def.Center.Y, 10) {
		t.Errorf("challenger center = %v, want (12,10)", def.Center)
	}
	if got := b.Roller.(*ScriptedRoller).Taken(); got != 2 {
		t.Errorf("rolls consumed = %d, want 2", got)
	}
}

// Counter-attack saves always reference the lead sub-unit, so a hero in
// front soaks on its own defense even while incoming wounds land on the
// squad.
func TestResolveMeleeCounterHitsLeadDefense(t *testing.T) {
	hero := meleeDef("Captain", 1, 3, 6, 1)
	hero.Rules.Hero = true
	squad := meleeDef("Retinue", 4, 5, 4, 1)
	atk := clusterAt(1, SideRed, Point{10, 10}, hero, squad)
	def := clusterAt(2, SideBlue, Point{14, 10}, meleeDef("Raiders", 2, 4, 4, 1))

	b, _ := battleWith([]int{
		2, // captain misses
		2, 2, 2, 2, // retinue misses everything at Q5+
		6, 6, // raiders hit twice
		5, 4, // both would save on the retinue's 4+ but fail the captain's 6+
		6, // captain leads the morale test to an automatic pass
	}, atk, def)
	b.ResolveMelee(atk, def, true)

	// Wounds still fall on the squad first
	if got := atk.SubUnits[1].Models; got != 2 {
		t.Errorf("retinue models = %d, want 2", got)
	}
	if got := atk.SubUnits[0].WoundsOnModel; got != 0 {
		t.Errorf("captain wounds = %d, want 0", got)
	}
	if atk.Shaken {
		t.Error("rolled a six, morale auto-passes")
	}
	if got := b.Roller.(*ScriptedRoller).Taken(); got != 10 {
		t.Errorf("rolls consumed = %d, want 10", got)
	}
}
