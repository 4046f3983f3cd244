package grimdark

import "strings"

// SubUnitDefinition is the immutable statline template parsed from one army
// list header plus its equipment line.
type SubUnitDefinition struct {
	Name     string       `json:"name"`
	Models   int          `json:"models"`
	Quality  int          `json:"quality"`
	Defense  int          `json:"defense"`
	Points   int          `json:"points"`
	Weapons  []Weapon     `json:"weapons"`
	Rules    SpecialRules `json:"rules"`
	Keywords []string     `json:"keywords,omitempty"`
}

// HasKeyword reports whether the definition carries a free-form keyword,
// case-insensitively.
func (d *SubUnitDefinition) HasKeyword(k string) bool {
	for _, kw := range d.Keywords {
		if strings.EqualFold(kw, k) {
			return true
		}
	}
	return false
}

// UnitGroup is one or two joined sub-unit definitions sharing a single
// battlefield footprint, the "hero joined to a unit" pattern.
type UnitGroup struct {
	Name     string               `json:"name"`
	SubUnits []*SubUnitDefinition `json:"subUnits"`
}

// TotalModels returns the model count across all sub-units.
func (g *UnitGroup) TotalModels() int {
	n := 0
	for _, su := range g.SubUnits {
		n += su.Models
	}
	return n
}

// Points returns the combined point cost.
func (g *UnitGroup) Points() int {
	p := 0
	for _, su := range g.SubUnits {
		p += su.Points
	}
	return p
}

// Army is a parsed army list: a detected name plus unit groups in list order
// under unique names.
type Army struct {
	Name   string       `json:"name"`
	Groups []*UnitGroup `json:"groups"`
}

// Group returns the group with the given name, or nil.
func (a *Army) Group(name string) *UnitGroup {
	for _, g := range a.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Points returns the army's combined point cost.
func (a *Army) Points() int {
	p := 0
	for _, g := range a.Groups {
		p += g.Points()
	}
	return p
}
