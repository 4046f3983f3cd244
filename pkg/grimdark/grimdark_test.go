package grimdark

import (
	"math"
	"strings"
	"testing"
)

const testEps = 1e-9

func almostEq(a, b float64) bool { return math.Abs(a-b) < testEps }

// Helper to build a group straight from definitions without the parser.
func groupOf(defs ...*SubUnitDefinition) *UnitGroup {
	g := &UnitGroup{Name: defs[0].Name, SubUnits: defs}
	if len(defs) == 2 {
		g.Name = defs[0].Name + " & " + defs[1].Name
	}
	return g
}

// Helper for a melee statline; every model carries one copy of the weapon.
func meleeDef(name string, models, quality, defense, attacks int) *SubUnitDefinition {
	return &SubUnitDefinition{
		Name: name, Models: models, Quality: quality, Defense: defense,
		Weapons: []Weapon{{Name: "Claws", Amount: models, Attacks: attacks}},
	}
}

// Helper for a ranged statline.
func rangedDef(name string, models, quality, defense int, rangeIn float64, attacks int) *SubUnitDefinition {
	return &SubUnitDefinition{
		Name: name, Models: models, Quality: quality, Defense: defense,
		Weapons: []Weapon{{Name: "Rifle", Amount: models, Range: rangeIn, Attacks: attacks}},
	}
}

// Helper to place a cluster grid-centered on a point.
func clusterAt(id int, side Side, p Point, defs ...*SubUnitDefinition) *Cluster {
	return NewClusterAt(id, groupOf(defs...), side, p)
}

// Helper to wire clusters into a battle with scripted dice and a narration
// buffer.
func battleWith(rolls []int, clusters ...*Cluster) (*Battle, *BufferNarrator) {
	gs := NewGameState(DefaultMaxRounds)
	gs.Clusters = clusters
	buf := &BufferNarrator{}
	b := NewBattle(gs, 1, buf, nil)
	b.Roller = &ScriptedRoller{Rolls: rolls}
	return b, buf
}

func narrated(buf *BufferNarrator, substr string) bool {
	for _, l := range buf.Lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestSideOpponent(t *testing.T) {
	tests := []struct {
		side, want Side
	}{
		{SideRed, SideBlue},
		{SideBlue, SideRed},
		{SideNone, SideNone},
	}
	for _, tt := range tests {
		if got := tt.side.Opponent(); got != tt.want {
			t.Errorf("Opponent(%q) = %q, want %q", tt.side, got, tt.want)
		}
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{ActionIdle, "idle"},
		{ActionHold, "hold"},
		{ActionAdvance, "advance"},
		{ActionRush, "rush"},
		{ActionCharge, "charge"},
		{Action(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("Action(%d).String() = %q, want %q", int(tt.a), got, tt.want)
		}
	}
}

func TestScriptedRoller(t *testing.T) {
	r := &ScriptedRoller{Rolls: []int{3, 5}}
	got := []int{r.D6(), r.D6(), r.D6()}
	// Wraps around when exhausted
	if got[0] != 3 || got[1] != 5 || got[2] != 3 {
		t.Errorf("scripted rolls = %v, want [3 5 3]", got)
	}
	if r.Taken() != 3 {
		t.Errorf("Taken() = %d, want 3", r.Taken())
	}
}

func TestNewRollerRange(t *testing.T) {
	r := NewRoller(42)
	for i := 0; i < 1000; i++ {
		v := r.D6()
		if v < 1 || v > 6 {
			t.Fatalf("D6() = %d, out of [1,6]", v)
		}
	}
}

func TestTargetPoint(t *testing.T) {
	o := &Objective{Pos: Point{X: 12, Y: 34}}
	if p := ObjectiveTarget(o).Point(); p != o.Pos {
		t.Errorf("objective target point = %v, want %v", p, o.Pos)
	}
	c := clusterAt(1, SideBlue, Point{X: 5, Y: 6}, meleeDef("Grunt", 1, 4, 4, 1))
	if p := EnemyTarget(c).Point(); p != c.Center {
		t.Errorf("enemy target point = %v, want %v", p, c.Center)
	}
	if p := NoTarget.Point(); p != (Point{}) {
		t.Errorf("no-target point = %v, want origin", p)
	}
}
