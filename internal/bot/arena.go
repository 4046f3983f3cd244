package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cepsu/cFork-OPR/internal/model"
	"github.com/cepsu/cFork-OPR/internal/repository"
	"github.com/cepsu/cFork-OPR/pkg/grimdark"
)

// ArenaConfig configures a single bot-vs-bot battle.
type ArenaConfig struct {
	BattleID     string // preassigned id, generated when empty
	Name         string
	RedList      string // raw army list text
	BlueList     string
	RedStrategy  string // strategy name, see StrategyFor
	BlueStrategy string
	MaxRounds    int // 0 = ruleset default
	Objectives   int // markers on the centerline, 0 = 3
	Seed         int64
	Terrain      []grimdark.Rect
	Narrator     grimdark.Narrator // nil = silent
	Renderer     grimdark.Renderer // nil = none
	DryRun       bool              // skip DB writes
}

// ArenaResult describes the outcome of a completed battle.
type ArenaResult struct {
	BattleID     string         `json:"battle_id"`
	Name         string         `json:"name"`
	RedArmy      string         `json:"red_army"`
	BlueArmy     string         `json:"blue_army"`
	RedStrategy  string         `json:"red_strategy"`
	BlueStrategy string         `json:"blue_strategy"`
	Winner       string         `json:"winner,omitempty"` // side name or "" for a draw
	Rounds       int            `json:"rounds"`
	Seed         int64          `json:"seed"`
	Objectives   map[string]int `json:"objectives"` // side -> markers held
	Survivors    map[string]int `json:"survivors"`  // side -> models alive
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
}

// Record converts the result to its storage row.
func (r *ArenaResult) Record() *model.BattleRecord {
	return &model.BattleRecord{
		ID:             r.BattleID,
		Name:           r.Name,
		RedArmy:        r.RedArmy,
		BlueArmy:       r.BlueArmy,
		RedStrategy:    r.RedStrategy,
		BlueStrategy:   r.BlueStrategy,
		Seed:           r.Seed,
		Rounds:         r.Rounds,
		Winner:         r.Winner,
		RedObjectives:  r.Objectives[string(grimdark.SideRed)],
		BlueObjectives: r.Objectives[string(grimdark.SideBlue)],
		RedModels:      r.Survivors[string(grimdark.SideRed)],
		BlueModels:     r.Survivors[string(grimdark.SideBlue)],
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}

// RunGame plays a full battle between two bot strategies, saving the result
// to Postgres. Pass a nil repo for dry-run mode.
func RunGame(ctx context.Context, cfg ArenaConfig, battles repository.BattleRepository) (*ArenaResult, error) {
	if cfg.MaxRounds == 0 {
		cfg.MaxRounds = grimdark.DefaultMaxRounds
	}
	if cfg.Objectives == 0 {
		cfg.Objectives = 3
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if battles == nil {
		cfg.DryRun = true
	}

	red, err := grimdark.ParseArmyList(cfg.RedList)
	if err != nil {
		return nil, fmt.Errorf("parse red army list: %w", err)
	}
	blue, err := grimdark.ParseArmyList(cfg.BlueList)
	if err != nil {
		return nil, fmt.Errorf("parse blue army list: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	gs := grimdark.NewGameState(cfg.MaxRounds)
	gs.Terrain = cfg.Terrain
	gs.Objectives = grimdark.StandardObjectives(cfg.Objectives)
	grimdark.DeployArmies(gs, red, blue, grimdark.NewEdgePlacer(cfg.Seed))

	b := grimdark.NewBattle(gs, cfg.Seed, cfg.Narrator, cfg.Renderer)
	b.Deciders[grimdark.SideRed] = StrategyFor(cfg.RedStrategy)
	b.Deciders[grimdark.SideBlue] = StrategyFor(cfg.BlueStrategy)

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("%s vs %s", red.Name, blue.Name)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	id := cfg.BattleID
	if id == "" {
		id = uuid.NewString()
	}

	started := time.Now()
	res := b.Run()

	result := &ArenaResult{
		BattleID:     id,
		Name:         name,
		RedArmy:      red.Name,
		BlueArmy:     blue.Name,
		RedStrategy:  b.Deciders[grimdark.SideRed].Name(),
		BlueStrategy: b.Deciders[grimdark.SideBlue].Name(),
		Winner:       string(res.Winner),
		Rounds:       res.Rounds,
		Seed:         cfg.Seed,
		Objectives: map[string]int{
			string(grimdark.SideRed):  res.ObjectivesRed,
			string(grimdark.SideBlue): res.ObjectivesBlue,
		},
		Survivors: map[string]int{
			string(grimdark.SideRed):  res.RedModels,
			string(grimdark.SideBlue): res.BlueModels,
		},
		StartedAt:  started,
		FinishedAt: time.Now(),
	}

	if !cfg.DryRun {
		if err := battles.Save(ctx, result.Record()); err != nil {
			return nil, fmt.Errorf("save battle record: %w", err)
		}
	}

	log.Info().
		Str("battleId", result.BattleID).
		Str("winner", result.Winner).
		Int("rounds", result.Rounds).
		Int64("seed", cfg.Seed).
		Msg("Arena battle finished")
	return result, nil
}
