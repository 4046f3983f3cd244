package grimdark

// Objective is a board marker contested by non-shaken units within
// ObjectiveRadius. Controller changes only at round end.
type Objective struct {
	Pos        Point `json:"pos"`
	Controller Side  `json:"controller"`
}

// StandardObjectives spaces n uncontrolled markers evenly along the board
// centerline.
func StandardObjectives(n int) []*Objective {
	if n <= 0 {
		return nil
	}
	objs := make([]*Objective, n)
	for i := 0; i < n; i++ {
		objs[i] = &Objective{Pos: Point{
			X: BoardWidth * float64(i+1) / float64(n+1),
			Y: BoardHeight / 2,
		}}
	}
	return objs
}

// presence counts non-shaken clusters of each side within contest range.
func (gs *GameState) presence(obj *Objective) (red, blue int) {
	for _, c := range gs.Clusters {
		if c.Shaken || c.Models <= 0 {
			continue
		}
		if c.DistToPoint(obj.Pos) <= ObjectiveRadius {
			if c.Side == SideRed {
				red++
			} else {
				blue++
			}
		}
	}
	return red, blue
}

// ControlledBy is the mid-turn check the decision engine uses: a side counts
// an objective as its own when it already holds it, or when it has strictly
// more non-shaken units in contest range than the enemy.
func (gs *GameState) ControlledBy(obj *Objective, side Side) bool {
	if obj.Controller == side {
		return true
	}
	red, blue := gs.presence(obj)
	if side == SideRed {
		return red > blue
	}
	return blue > red
}

// UpdateObjectives is the end-of-round controller update. Exclusive
// presence flips control; simultaneous presence clears it to none, even
// away from an existing holder; empty objectives keep their controller.
func (gs *GameState) UpdateObjectives() {
	for _, o := range gs.Objectives {
		red, blue := gs.presence(o)
		switch {
		case red > 0 && blue == 0:
			o.Controller = SideRed
		case blue > 0 && red == 0:
			o.Controller = SideBlue
		case red > 0 && blue > 0:
			o.Controller = SideNone
		}
	}
}
