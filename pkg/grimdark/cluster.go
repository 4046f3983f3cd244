package grimdark

import (
	"math"
	"sort"
)

// UnitClass is the battlefield role assigned at cluster creation.
type UnitClass string

const (
	ClassMelee         UnitClass = "melee"
	ClassShooting      UnitClass = "shooting"
	ClassMeleeFocus    UnitClass = "melee-focus"
	ClassShootingFocus UnitClass = "shooting-focus"

	// ClassHybrid is reachable only by manual assignment; classifyGroup
	// never emits it. The decision engine still handles it.
	ClassHybrid UnitClass = "hybrid"
)

// SubUnitState is the mutable per-battle state of one sub-unit inside a
// cluster: surviving models, wounds on the current model, and the effective
// weapon loadout recomputed as casualties accrue.
type SubUnitState struct {
	Def            *SubUnitDefinition `json:"def"`
	Models         int                `json:"models"`
	WoundsOnModel  int                `json:"woundsOnModel"`
	WoundsPerModel int                `json:"woundsPerModel"`
	Loadout        []Weapon           `json:"loadout"`
	Hero           bool               `json:"hero,omitempty"`
}

// Alive reports whether any model survives.
func (s *SubUnitState) Alive() bool { return s.Models > 0 }

// RemainingOnModel returns the hit points left on the current model.
func (s *SubUnitState) RemainingOnModel() int {
	return s.WoundsPerModel - s.WoundsOnModel
}

// RemainingWounds returns the wound points needed to destroy the sub-unit.
func (s *SubUnitState) RemainingWounds() int {
	if s.Models <= 0 {
		return 0
	}
	return s.Models*s.WoundsPerModel - s.WoundsOnModel
}

// Cluster is the runtime battlefield entity for one unit group: a shared
// footprint of model tokens with per-activation flags and casualty state.
type Cluster struct {
	ID        int       `json:"id"`
	Side      Side      `json:"side"`
	Name      string    `json:"name"`
	Class     UnitClass `json:"class"`
	BestRange float64   `json:"bestRange"`

	Center    Point   `json:"center"`
	Origin    Point   `json:"origin"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Positions []Point `json:"positions"`

	Group    *UnitGroup      `json:"-"`
	SubUnits []*SubUnitState `json:"subUnits"`

	TotalModels int `json:"totalModels"`
	Models      int `json:"models"`

	Activated       bool `json:"activated"`
	Shaken          bool `json:"shaken"`
	FoughtThisRound bool `json:"foughtThisRound"`
}

// NewCluster expands a unit group into a battlefield cluster at the given
// center with its model grid laid out from the given origin. Returns nil if
// the group has no sub-units.
func NewCluster(id int, group *UnitGroup, side Side, cx, cy, ox, oy float64) *Cluster {
	if group == nil || len(group.SubUnits) == 0 {
		return nil
	}

	n := group.TotalModels()
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	c := &Cluster{
		ID:          id,
		Side:        side,
		Name:        group.Name,
		Class:       classifyGroup(group),
		BestRange:   bestRange(group),
		Center:      Point{X: cx, Y: cy},
		Origin:      Point{X: ox, Y: oy},
		Width:       float64(cols) * ModelDiameter,
		Height:      float64(rows) * ModelDiameter,
		Group:       group,
		TotalModels: n,
		Models:      n,
	}

	c.Positions = make([]Point, n)
	for i := 0; i < n; i++ {
		col := i % cols
		row := i / cols
		c.Positions[i] = Point{
			X: ox + (float64(col)+0.5)*ModelDiameter,
			Y: oy + (float64(row)+0.5)*ModelDiameter,
		}
	}

	for _, def := range group.SubUnits {
		loadout := make([]Weapon, len(def.Weapons))
		copy(loadout, def.Weapons)
		c.SubUnits = append(c.SubUnits, &SubUnitState{
			Def:            def,
			Models:         def.Models,
			WoundsPerModel: def.Rules.ToughValue(),
			Loadout:        loadout,
			Hero:           def.Rules.Hero,
		})
	}
	return c
}

// NewClusterAt builds a cluster whose grid is centered on p, deriving a
// consistent origin from the model count.
func NewClusterAt(id int, group *UnitGroup, side Side, p Point) *Cluster {
	if group == nil || len(group.SubUnits) == 0 {
		return nil
	}
	n := group.TotalModels()
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	w := float64(cols) * ModelDiameter
	h := float64(rows) * ModelDiameter
	return NewCluster(id, group, side, p.X, p.Y, p.X-w/2, p.Y-h/2)
}

// classifyGroup compares aggregate weapon goodness of ranged vs melee
// weapons across all sub-units.
func classifyGroup(group *UnitGroup) UnitClass {
	var ranged, melee float64
	for _, su := range group.SubUnits {
		for _, w := range su.Weapons {
			if w.IsMelee() {
				melee += w.Goodness()
			} else {
				ranged += w.Goodness()
			}
		}
	}
	switch {
	case melee > 0 && ranged == 0:
		return ClassMelee
	case ranged > 0 && melee == 0:
		return ClassShooting
	case ranged > melee:
		return ClassShootingFocus
	default:
		return ClassMeleeFocus
	}
}

func bestRange(group *UnitGroup) float64 {
	best := 0.0
	for _, su := range group.SubUnits {
		for _, w := range su.Weapons {
			if w.Range > best {
				best = w.Range
			}
		}
	}
	return best
}

// Radius is the circumscribed footprint radius used for cluster-to-cluster
// separation checks.
func (c *Cluster) Radius() float64 {
	return math.Hypot(c.Width, c.Height) / 2
}

// Gap returns the edge-to-edge distance between two clusters; negative when
// their footprints overlap.
func (c *Cluster) Gap(other *Cluster) float64 {
	return Dist(c.Center, other.Center) - c.Radius() - other.Radius()
}

// NearestModelDist returns the closest model-to-model distance between two
// clusters, the distance used for weapon range checks.
func (c *Cluster) NearestModelDist(other *Cluster) float64 {
	best := math.MaxFloat64
	for _, p := range c.Positions {
		for _, q := range other.Positions {
			if d := Dist(p, q); d < best {
				best = d
			}
		}
	}
	return best
}

// DistToPoint returns the closest model distance to a board point.
func (c *Cluster) DistToPoint(p Point) float64 {
	best := math.MaxFloat64
	for _, q := range c.Positions {
		if d := Dist(p, q); d < best {
			best = d
		}
	}
	return best
}

// Translate moves the whole footprint. Center, origin and model positions
// always move together.
func (c *Cluster) Translate(dx, dy float64) {
	c.Center.X += dx
	c.Center.Y += dy
	c.Origin.X += dx
	c.Origin.Y += dy
	for i := range c.Positions {
		c.Positions[i].X += dx
		c.Positions[i].Y += dy
	}
}

// MoveCenterTo translates the cluster so its center lands on p, clamped to
// the board.
func (c *Cluster) MoveCenterTo(p Point) {
	p = ClampToBoard(p, c.Radius())
	c.Translate(p.X-c.Center.X, p.Y-c.Center.Y)
}

// AnyRule reports whether any surviving sub-unit's rules satisfy pred.
func (c *Cluster) AnyRule(pred func(SpecialRules) bool) bool {
	for _, su := range c.SubUnits {
		if su.Alive() && pred(su.Def.Rules) {
			return true
		}
	}
	return false
}

// MajorityRule reports whether strictly more than half of the cluster's
// original models carry a rule. Counted against the template so casualties
// don't shift the majority.
func (c *Cluster) MajorityRule(pred func(SpecialRules) bool) bool {
	n := 0
	for _, su := range c.SubUnits {
		if pred(su.Def.Rules) {
			n += su.Def.Models
		}
	}
	return 2*n > c.TotalModels
}

// HasKeyword reports whether any sub-unit definition carries the keyword.
func (c *Cluster) HasKeyword(k string) bool {
	for _, su := range c.SubUnits {
		if su.Def.HasKeyword(k) {
			return true
		}
	}
	return false
}

// FearBonus sums Fear(N) across surviving sub-units, added to melee
// resolution totals.
func (c *Cluster) FearBonus() int {
	n := 0
	for _, su := range c.SubUnits {
		if su.Alive() {
			n += su.Def.Rules.Fear
		}
	}
	return n
}

// AtHalfStrength reports whether the cluster is at half-or-less of its
// starting strength. Single-model clusters measure remaining wound capacity
// instead of models.
func (c *Cluster) AtHalfStrength() bool {
	if c.TotalModels == 1 {
		su := c.SubUnits[0]
		full := su.WoundsPerModel
		return 2*su.RemainingWounds() <= full
	}
	return 2*c.Models <= c.TotalModels
}

// RemainingWounds returns the wound points needed to destroy the cluster.
func (c *Cluster) RemainingWounds() int {
	n := 0
	for _, su := range c.SubUnits {
		n += su.RemainingWounds()
	}
	return n
}

// RecomputeLoadout derives the effective weapon list for a sub-unit that has
// lost models. Every weapon copy is scored, round-robined into virtual model
// slots, and the highest-goodness slots survive: casualties are assumed to
// fall on the weakest-equipped models. Pure function of the definition and
// the surviving count.
func RecomputeLoadout(def *SubUnitDefinition, survivors int) []Weapon {
	if survivors <= 0 {
		return nil
	}
	if survivors >= def.Models {
		out := make([]Weapon, len(def.Weapons))
		copy(out, def.Weapons)
		return out
	}

	type copyEntry struct {
		w    Weapon
		good float64
	}
	var copies []copyEntry
	for _, w := range def.Weapons {
		single := w
		single.Amount = 1
		g := w.CopyGoodness()
		for i := 0; i < w.Amount; i++ {
			copies = append(copies, copyEntry{w: single, good: g})
		}
	}
	sort.SliceStable(copies, func(i, j int) bool { return copies[i].good > copies[j].good })

	type slot struct {
		weapons []Weapon
		good    float64
	}
	slots := make([]slot, def.Models)
	for i, ce := range copies {
		s := &slots[i%def.Models]
		s.weapons = append(s.weapons, ce.w)
		s.good += ce.good
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].good > slots[j].good })

	var kept []Weapon
	for i := 0; i < survivors && i < len(slots); i++ {
		kept = append(kept, slots[i].weapons...)
	}
	return mergeWeapons(kept)
}
