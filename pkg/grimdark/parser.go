package grimdark

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultArmyName is used when no army title line is found.
const DefaultArmyName = "Unnamed Army"

var (
	// Orc Boyz [10] Q4+ D5+ | 90pts | Fast, Tough(3)
	unitHeaderRe = regexp.MustCompile(`(?i)^(.+?)\s*\[(\d+)\]\s*Q(\d)\+\s*D(\d)\+\s*\|\s*(\d+)\s*pts\s*(?:\|\s*(.*))?$`)

	// My List [GF 1995pts] or ++ My List [2000 pts] ++
	armyTitleRe = regexp.MustCompile(`^\+*\s*(.+?)\s*\[[^\]]*\d+\s*pts[^\]]*\]`)

	// 2x Rifle(24", A2, AP(1))
	weaponRe = regexp.MustCompile(`^(?:(\d+)\s*[xX]\s*)?(.+?)\s*\((.+)\)$`)

	rangeStatRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)"$`)
	attackStatRe = regexp.MustCompile(`(?i)^A?(\d+)$`)
	apStatRe     = regexp.MustCompile(`(?i)^AP\(\s*(-?\d+)\s*\)$`)
	namedStatRe  = regexp.MustCompile(`^(.+?)\s*\(\s*\+?(-?\d+)\s*\)$`)

	joinedToRe = regexp.MustCompile(`(?i)^\|\s*Joined\s+to:`)
)

// ParseArmyList converts free-form army list text into an Army. Blocks that
// do not look like unit entries are skipped silently so lists can carry
// notes; an error is returned only when no valid unit entry is found at all.
func ParseArmyList(text string) (*Army, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	army := &Army{Name: DefaultArmyName}
	named := make(map[string]int)

	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" || unitHeaderRe.MatchString(l) {
			continue
		}
		if m := armyTitleRe.FindStringSubmatch(l); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				army.Name = name
				break
			}
		}
	}

	for _, block := range splitBlocks(lines) {
		g := parseGroup(block)
		if g == nil {
			continue
		}
		if n, ok := named[g.Name]; ok {
			named[g.Name] = n + 1
			g.Name = fmt.Sprintf("%s (%d)", g.Name, n+1)
		} else {
			named[g.Name] = 1
		}
		army.Groups = append(army.Groups, g)
	}

	if len(army.Groups) == 0 {
		return army, fmt.Errorf("army list: no valid unit entries found")
	}
	return army, nil
}

// splitBlocks groups lines into blank-line-delimited blocks.
func splitBlocks(lines []string) [][]string {
	var blocks [][]string
	var cur []string
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, strings.TrimSpace(l))
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks
}

// parseGroup parses one block into a UnitGroup, or nil if its first line is
// not a unit header. A "| Joined to:" separator attaches a second sub-unit;
// anything past the second is ignored.
func parseGroup(block []string) *UnitGroup {
	head := block
	var tail []string
	for i, l := range block {
		if joinedToRe.MatchString(l) {
			head = block[:i]
			tail = block[i+1:]
			break
		}
	}

	primary := parseSubUnit(head)
	if primary == nil {
		return nil
	}

	g := &UnitGroup{Name: primary.Name, SubUnits: []*SubUnitDefinition{primary}}
	if joined := parseSubUnit(tail); joined != nil {
		g.SubUnits = append(g.SubUnits, joined)
		g.Name = primary.Name + " & " + joined.Name
	}
	return g
}

// parseSubUnit parses a header line plus optional equipment line.
func parseSubUnit(lines []string) *SubUnitDefinition {
	if len(lines) == 0 {
		return nil
	}
	d := parseHeader(lines[0])
	if d == nil {
		return nil
	}
	if len(lines) > 1 && strings.Contains(lines[1], "(") {
		d.Weapons = parseWeaponLine(lines[1])
	}
	return d
}

// parseHeader parses `Name [N] Q#+ D#+ | #pts | specials...` into a
// definition without weapons. Returns nil on any mismatch.
func parseHeader(line string) *SubUnitDefinition {
	m := unitHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	models, err := strconv.Atoi(m[2])
	if err != nil || models <= 0 {
		return nil
	}
	quality, _ := strconv.Atoi(m[3])
	defense, _ := strconv.Atoi(m[4])
	points, _ := strconv.Atoi(m[5])

	d := &SubUnitDefinition{
		Name:    strings.TrimSpace(m[1]),
		Models:  models,
		Quality: quality,
		Defense: defense,
		Points:  points,
	}
	for _, tok := range splitTopLevel(m[6]) {
		applyRuleToken(d, tok)
	}
	return d
}

// applyRuleToken matches one special-rules token against the rule
// dictionary. Unmatched tokens without parentheses become free-form
// keywords (Fast, Slow, Undead, ...); unmatched parenthesized tokens
// are dropped.
func applyRuleToken(d *SubUnitDefinition, tok string) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return
	}
	if m := namedStatRe.FindStringSubmatch(tok); m != nil {
		v, err := strconv.Atoi(m[2])
		if err == nil && d.Rules.applyRule(m[1], v) {
			return
		}
		return
	}
	if d.Rules.applyRule(tok, 0) {
		return
	}
	d.Keywords = append(d.Keywords, tok)
}

// parseWeaponLine parses a comma-separated equipment line, dropping
// malformed entries.
func parseWeaponLine(line string) []Weapon {
	var ws []Weapon
	for _, tok := range splitTopLevel(line) {
		if w := parseWeapon(tok); w != nil {
			ws = append(ws, *w)
		}
	}
	return ws
}

// parseWeapon parses `[Nx ]Name(stats)` into a Weapon, or nil when
// malformed. Unknown stat tokens are ignored.
func parseWeapon(tok string) *Weapon {
	tok = strings.TrimSpace(tok)
	m := weaponRe.FindStringSubmatch(tok)
	if m == nil {
		return nil
	}

	w := &Weapon{Name: strings.TrimSpace(m[2]), Amount: 1, Attacks: 1}
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return nil
		}
		w.Amount = n
	}

	for _, stat := range splitTopLevel(m[3]) {
		stat = strings.TrimSpace(stat)
		switch {
		case rangeStatRe.MatchString(stat):
			sm := rangeStatRe.FindStringSubmatch(stat)
			w.Range, _ = strconv.ParseFloat(sm[1], 64)
		case attackStatRe.MatchString(stat):
			sm := attackStatRe.FindStringSubmatch(stat)
			w.Attacks, _ = strconv.Atoi(sm[1])
		case apStatRe.MatchString(stat):
			sm := apStatRe.FindStringSubmatch(stat)
			w.AP, _ = strconv.Atoi(sm[1])
		default:
			applyWeaponRule(&w.Rules, stat)
		}
	}
	return w
}

// applyWeaponRule matches a named weapon rule with an optional numeric
// argument. Unknown names are silently ignored.
func applyWeaponRule(r *WeaponRules, stat string) {
	name := stat
	value := 0
	if m := namedStatRe.FindStringSubmatch(stat); m != nil {
		name = m[1]
		value, _ = strconv.Atoi(m[2])
	}
	switch normalizeRuleName(name) {
	case "rending":
		r.Rending = true
	case "blast":
		r.Blast = value
	case "deadly":
		r.Deadly = value
	case "reliable":
		r.Reliable = true
	case "sniper":
		r.Sniper = true
	case "limited":
		r.Limited = true
	case "flux":
		r.Flux = true
	}
}

// splitTopLevel splits on commas outside parentheses, so a weapon's
// parenthesized stat block never splits its parent list.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
