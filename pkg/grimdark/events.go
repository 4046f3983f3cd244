package grimdark

// Narrator receives ordered human-readable lines describing die roll
// groups, rule triggers and outcomes. The engine never reads them back.
type Narrator interface {
	Say(line string)
}

// NopNarrator discards narration.
type NopNarrator struct{}

func (NopNarrator) Say(string) {}

// BufferNarrator collects narration lines, mainly for tests and replays.
type BufferNarrator struct {
	Lines []string
}

func (b *BufferNarrator) Say(line string) { b.Lines = append(b.Lines, line) }

// MultiNarrator fans one stream out to several narrators.
type MultiNarrator []Narrator

func (m MultiNarrator) Say(line string) {
	for _, n := range m {
		n.Say(line)
	}
}

// Renderer consumes state snapshots after every meaningful mutation. The
// engine calls it synchronously and does not own a render loop; animation
// is the renderer's concern.
type Renderer interface {
	StateChanged(s *Snapshot)
}

// NopRenderer ignores snapshots.
type NopRenderer struct{}

func (NopRenderer) StateChanged(*Snapshot) {}

// ClusterView is the renderable projection of one cluster.
type ClusterView struct {
	ID          int       `json:"id"`
	Side        Side      `json:"side"`
	Name        string    `json:"name"`
	Class       UnitClass `json:"class"`
	Center      Point     `json:"center"`
	Origin      Point     `json:"origin"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Positions   []Point   `json:"positions"`
	Models      int       `json:"models"`
	TotalModels int       `json:"totalModels"`
	Wounds      int       `json:"wounds"`
	Shaken      bool      `json:"shaken"`
	Activated   bool      `json:"activated"`
}

// ObjectiveView is the renderable projection of one objective.
type ObjectiveView struct {
	Pos        Point `json:"pos"`
	Controller Side  `json:"controller"`
}

// Snapshot is the full renderable state at one point in time.
type Snapshot struct {
	Round      int             `json:"round"`
	MaxRounds  int             `json:"maxRounds"`
	ActiveSide Side            `json:"activeSide"`
	ActiveID   int             `json:"activeId"`
	Clusters   []ClusterView   `json:"clusters"`
	Objectives []ObjectiveView `json:"objectives"`
	Terrain    []Rect          `json:"terrain"`
}

// BuildSnapshot projects the state for renderers. activeID is the cluster
// currently acting, or 0.
func BuildSnapshot(gs *GameState, activeID int) *Snapshot {
	s := &Snapshot{
		Round:      gs.Round,
		MaxRounds:  gs.MaxRounds,
		ActiveSide: gs.ActiveSide,
		ActiveID:   activeID,
		Terrain:    gs.Terrain,
	}
	for _, c := range gs.Clusters {
		wounds := 0
		for _, su := range c.SubUnits {
			wounds += su.WoundsOnModel
		}
		s.Clusters = append(s.Clusters, ClusterView{
			ID:          c.ID,
			Side:        c.Side,
			Name:        c.Name,
			Class:       c.Class,
			Center:      c.Center,
			Origin:      c.Origin,
			Width:       c.Width,
			Height:      c.Height,
			Positions:   c.Positions,
			Models:      c.Models,
			TotalModels: c.TotalModels,
			Wounds:      wounds,
			Shaken:      c.Shaken,
			Activated:   c.Activated,
		})
	}
	for _, o := range gs.Objectives {
		s.Objectives = append(s.Objectives, ObjectiveView{Pos: o.Pos, Controller: o.Controller})
	}
	return s
}
