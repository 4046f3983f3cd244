package grimdark

// WeaponRules holds the special-rule flags a weapon can carry.
type WeaponRules struct {
	Rending  bool `json:"rending,omitempty"`
	Blast    int  `json:"blast,omitempty"`
	Deadly   int  `json:"deadly,omitempty"`
	Reliable bool `json:"reliable,omitempty"`
	Sniper   bool `json:"sniper,omitempty"`
	Limited  bool `json:"limited,omitempty"`
	Flux     bool `json:"flux,omitempty"`
}

// Weapon is one parsed weapon entry. Amount counts identical copies carried
// by the sub-unit; Range 0 means melee. Immutable once parsed; casualty
// effects are expressed through recomputed loadouts, never by editing the
// template.
type Weapon struct {
	Name    string      `json:"name"`
	Amount  int         `json:"amount"`
	Range   float64     `json:"range"`
	Attacks int         `json:"attacks"`
	AP      int         `json:"ap"`
	Rules   WeaponRules `json:"rules"`
}

// IsMelee reports whether the weapon strikes in close combat.
func (w Weapon) IsMelee() bool { return w.Range == 0 }

// CopyGoodness scores a single copy of the weapon:
// attacks x blast x deadly x (1 + 0.25xAP). Used for unit classification and
// for deciding which gear survives casualties.
func (w Weapon) CopyGoodness() float64 {
	blast := 1.0
	if w.Rules.Blast > 0 {
		blast = float64(w.Rules.Blast)
	}
	deadly := 1.0
	if w.Rules.Deadly > 0 {
		deadly = float64(w.Rules.Deadly)
	}
	return float64(w.Attacks) * blast * deadly * (1 + 0.25*float64(w.AP))
}

// Goodness scores all copies together.
func (w Weapon) Goodness() float64 {
	return w.CopyGoodness() * float64(w.Amount)
}

// weaponKey identifies weapons that can merge into one entry.
type weaponKey struct {
	Name    string
	Range   float64
	Attacks int
	AP      int
	Rules   WeaponRules
}

func (w Weapon) key() weaponKey {
	return weaponKey{Name: w.Name, Range: w.Range, Attacks: w.Attacks, AP: w.AP, Rules: w.Rules}
}

// mergeWeapons deduplicates identical weapons, combining their amounts while
// preserving first-appearance order.
func mergeWeapons(ws []Weapon) []Weapon {
	var out []Weapon
	index := make(map[weaponKey]int, len(ws))
	for _, w := range ws {
		k := w.key()
		if i, ok := index[k]; ok {
			out[i].Amount += w.Amount
			continue
		}
		index[k] = len(out)
		out = append(out, w)
	}
	return out
}
