package grimdark

import "testing"

// checkModelInvariant asserts the cluster's model count equals the sum over
// its sub-units.
func checkModelInvariant(t *testing.T, c *Cluster) {
	t.Helper()
	sum := 0
	for _, su := range c.SubUnits {
		sum += su.Models
	}
	if c.Models != sum {
		t.Fatalf("cluster models %d != sub-unit sum %d", c.Models, sum)
	}
}

func TestApplyWoundsSquadBeforeHero(t *testing.T) {
	hero := meleeDef("Captain", 1, 3, 4, 2)
	hero.Rules.Hero = true
	hero.Rules.Tough = 3
	squad := meleeDef("Squad", 5, 4, 5, 1)
	c := clusterAt(1, SideRed, Point{10, 10}, hero, squad)

	killed := ApplyWounds(c, []int{1, 1, 1})
	if killed != 3 {
		t.Errorf("killed = %d, want 3", killed)
	}
	checkModelInvariant(t, c)
	if c.SubUnits[0].Models != 1 || c.SubUnits[0].WoundsOnModel != 0 {
		t.Error("hero should be untouched while squad models live")
	}
	if c.SubUnits[1].Models != 2 {
		t.Errorf("squad models = %d, want 2", c.SubUnits[1].Models)
	}

	// Finish the squad; the hero starts soaking only now
	ApplyWounds(c, []int{1, 1})
	ApplyWounds(c, []int{1})
	checkModelInvariant(t, c)
	if c.SubUnits[1].Models != 0 {
		t.Error("squad should be gone")
	}
	if c.SubUnits[0].WoundsOnModel != 1 {
		t.Errorf("hero wounds = %d, want 1", c.SubUnits[0].WoundsOnModel)
	}
}

func TestApplyWoundsAscendingToughness(t *testing.T) {
	grunts := meleeDef("Grunts", 2, 4, 5, 1)
	ogres := meleeDef("Ogres", 2, 4, 4, 2)
	ogres.Rules.Tough = 3
	c := clusterAt(1, SideRed, Point{10, 10}, ogres, grunts)

	// Fragile models die first regardless of sub-unit order
	ApplyWounds(c, []int{1})
	if c.SubUnits[1].Models != 1 {
		t.Errorf("grunt models = %d, want 1", c.SubUnits[1].Models)
	}
	if c.SubUnits[0].Models != 2 || c.SubUnits[0].WoundsOnModel != 0 {
		t.Error("ogres should be untouched")
	}
	checkModelInvariant(t, c)
}

func TestApplyWoundsOverkillIsWasted(t *testing.T) {
	def := meleeDef("Walker", 1, 4, 2, 3)
	def.Rules.Tough = 3
	c := clusterAt(1, SideRed, Point{10, 10}, def)

	// A packet of 5 kills the 3-wound model with no carry-over
	killed := ApplyWounds(c, []int{5})
	if killed != 1 || c.Models != 0 {
		t.Errorf("killed = %d models = %d, want 1 and 0", killed, c.Models)
	}
	checkModelInvariant(t, c)

	// Further packets land nowhere
	if killed := ApplyWounds(c, []int{1, 1}); killed != 0 {
		t.Errorf("killed on empty cluster = %d, want 0", killed)
	}
}

func TestApplyWoundsAccumulateOnToughModel(t *testing.T) {
	def := meleeDef("Walker", 1, 4, 2, 3)
	def.Rules.Tough = 3
	c := clusterAt(1, SideRed, Point{10, 10}, def)

	if killed := ApplyWounds(c, []int{1, 1}); killed != 0 {
		t.Errorf("killed = %d, want 0", killed)
	}
	if c.SubUnits[0].WoundsOnModel != 2 {
		t.Errorf("wounds on model = %d, want 2", c.SubUnits[0].WoundsOnModel)
	}

	// The third point finishes the model and resets the counter
	if killed := ApplyWounds(c, []int{1}); killed != 1 {
		t.Errorf("killed = %d, want 1", killed)
	}
	if c.SubUnits[0].WoundsOnModel != 0 {
		t.Errorf("wounds on model = %d, want 0 after death", c.SubUnits[0].WoundsOnModel)
	}
	checkModelInvariant(t, c)
}

func TestApplyWoundsRecomputesLoadout(t *testing.T) {
	def := &SubUnitDefinition{
		Name: "Squad", Models: 3, Quality: 4, Defense: 4,
		Weapons: []Weapon{{Name: "Claws", Amount: 3, Attacks: 2}},
	}
	c := clusterAt(1, SideRed, Point{10, 10}, def)

	ApplyWounds(c, []int{1})
	lo := c.SubUnits[0].Loadout
	if len(lo) != 1 || lo[0].Amount != 2 {
		t.Errorf("loadout after casualty = %v, want 2x Claws", lo)
	}
	// The definition template is never edited
	if def.Weapons[0].Amount != 3 {
		t.Errorf("definition amount = %d, want 3", def.Weapons[0].Amount)
	}
}

func TestApplyWoundsIgnoresEmptyPackets(t *testing.T) {
	c := clusterAt(1, SideRed, Point{10, 10}, meleeDef("Squad", 2, 4, 5, 1))
	if killed := ApplyWounds(c, []int{0, -2, 1}); killed != 1 {
		t.Errorf("killed = %d, want 1", killed)
	}
	checkModelInvariant(t, c)
}

func TestSelfInflict(t *testing.T) {
	c := clusterAt(1, SideRed, Point{10, 10}, meleeDef("Squad", 3, 4, 5, 1))
	if killed := SelfInflict(c, 2); killed != 2 {
		t.Errorf("killed = %d, want 2", killed)
	}
	if killed := SelfInflict(c, 0); killed != 0 {
		t.Errorf("killed on zero = %d, want 0", killed)
	}
	checkModelInvariant(t, c)
}
