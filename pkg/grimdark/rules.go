package grimdark

import "strings"

// SpecialRules holds the unit-level rule flags parsed from an army list
// entry. Numeric rules are zero when absent; Tough reads through
// ToughValue so a missing value still means one wound per model.
type SpecialRules struct {
	Hero            bool `json:"hero,omitempty"`
	Relentless      bool `json:"relentless,omitempty"`
	Fearless        bool `json:"fearless,omitempty"`
	Furious         bool `json:"furious,omitempty"`
	BattleDrills    bool `json:"battleDrills,omitempty"`
	HoldTheLine     bool `json:"holdTheLine,omitempty"`
	Robot           bool `json:"robot,omitempty"`
	Scout           bool `json:"scout,omitempty"`
	ShieldWall      bool `json:"shieldWall,omitempty"`
	GoodShot        bool `json:"goodShot,omitempty"`
	SelfRepair      bool `json:"selfRepair,omitempty"`
	MedicalTraining bool `json:"medicalTraining,omitempty"`
	PrecisionShots  bool `json:"precisionShots,omitempty"`
	Ambush          bool `json:"ambush,omitempty"`
	Stealth         bool `json:"stealth,omitempty"`
	Flying          bool `json:"flying,omitempty"`
	Tough           int  `json:"tough,omitempty"`
	Fear            int  `json:"fear,omitempty"`
	Caster          int  `json:"caster,omitempty"`
	Transport       int  `json:"transport,omitempty"`

	// FuriousOriginal marks Furious listed on the unit itself rather than
	// implied by Battle Drills. Both together double the bonus-hit rate on
	// a charge.
	FuriousOriginal bool `json:"furiousOriginal,omitempty"`
}

// ToughValue returns the wounds per model, defaulting to 1.
func (r SpecialRules) ToughValue() int {
	if r.Tough > 0 {
		return r.Tough
	}
	return 1
}

// applyRule matches a normalized rule name against the rule dictionary and
// sets the corresponding flag. Returns false when the name is unknown so the
// caller can fall back to keyword handling.
func (r *SpecialRules) applyRule(name string, value int) bool {
	switch normalizeRuleName(name) {
	case "hero":
		r.Hero = true
	case "relentless":
		r.Relentless = true
	case "fearless":
		r.Fearless = true
	case "furious":
		r.Furious = true
		r.FuriousOriginal = true
	case "battle drills":
		r.BattleDrills = true
		r.Furious = true
	case "hold the line":
		r.HoldTheLine = true
	case "robot":
		r.Robot = true
	case "scout":
		r.Scout = true
	case "shield wall":
		r.ShieldWall = true
	case "good shot":
		r.GoodShot = true
	case "self repair":
		r.SelfRepair = true
	case "medical training":
		r.MedicalTraining = true
	case "precision shots":
		r.PrecisionShots = true
	case "ambush":
		r.Ambush = true
	case "stealth":
		r.Stealth = true
	case "flying":
		r.Flying = true
	case "tough":
		r.Tough = value
	case "fear":
		r.Fear = value
	case "caster":
		r.Caster = value
	case "transport":
		r.Transport = value
	default:
		return false
	}
	return true
}

// normalizeRuleName lowercases and collapses hyphens so "Self-Repair" and
// "self repair" hit the same dictionary entry.
func normalizeRuleName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
