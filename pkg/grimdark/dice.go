package grimdark

import "math/rand"

// Roller is the single source of die rolls for a battle. Injecting a
// seeded or scripted roller makes combat exactly reproducible.
type Roller interface {
	// D6 returns a uniform integer in [1,6].
	D6() int
}

type seededRoller struct {
	rng *rand.Rand
}

// NewRoller returns a Roller backed by its own seeded source.
func NewRoller(seed int64) Roller {
	return &seededRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *seededRoller) D6() int { return r.rng.Intn(6) + 1 }

// ScriptedRoller replays a fixed sequence of rolls, wrapping around when
// exhausted. Used for replays and deterministic tests.
type ScriptedRoller struct {
	Rolls []int
	next  int
}

func (s *ScriptedRoller) D6() int {
	if len(s.Rolls) == 0 {
		return 1
	}
	v := s.Rolls[s.next%len(s.Rolls)]
	s.next++
	return v
}

// Taken returns how many rolls have been consumed.
func (s *ScriptedRoller) Taken() int { return s.next }
