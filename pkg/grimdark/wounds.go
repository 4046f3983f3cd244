package grimdark

import "sort"

// allocationOrder returns sub-units in wound-allocation order: non-heroes
// by ascending wounds-per-model, then heroes by ascending wounds-per-model.
// Heroes soak wounds only once everything else is gone.
func (c *Cluster) allocationOrder() []*SubUnitState {
	order := make([]*SubUnitState, len(c.SubUnits))
	copy(order, c.SubUnits)
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Hero != order[j].Hero {
			return !order[i].Hero
		}
		return order[i].WoundsPerModel < order[j].WoundsPerModel
	})
	return order
}

// ApplyWounds allocates wound packets to the cluster and returns the models
// killed. A packet at least as large as the current model's remaining hit
// points kills it; smaller packets accumulate. Packets with no surviving
// sub-unit to land on are wasted. Loadouts are recomputed whenever a
// multi-model sub-unit shrinks, and the cluster's model count always equals
// the sum over its sub-units.
func ApplyWounds(c *Cluster, packets []int) int {
	killed := 0
	order := c.allocationOrder()

	for _, p := range packets {
		if p <= 0 {
			continue
		}
		var target *SubUnitState
		for _, su := range order {
			if su.Alive() {
				target = su
				break
			}
		}
		if target == nil {
			break
		}

		if p >= target.RemainingOnModel() {
			target.Models--
			target.WoundsOnModel = 0
			c.Models--
			killed++
			if target.Def.Models > 1 {
				target.Loadout = RecomputeLoadout(target.Def, target.Models)
			}
		} else {
			target.WoundsOnModel += p
		}
	}
	return killed
}

// SelfInflict applies n single-point wounds, used by Hold the Line and
// Robot morale conversions.
func SelfInflict(c *Cluster, n int) int {
	if n <= 0 {
		return 0
	}
	packets := make([]int, n)
	for i := range packets {
		packets[i] = 1
	}
	return ApplyWounds(c, packets)
}
