// Package postgres stores finished battle results in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/cepsu/cFork-OPR/internal/model"
)

// Connect opens a connection pool to the PostgreSQL database.
func Connect(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// BattleRepo handles battle result rows.
type BattleRepo struct {
	db *sql.DB
}

// NewBattleRepo creates a BattleRepo.
func NewBattleRepo(db *sql.DB) *BattleRepo {
	return &BattleRepo{db: db}
}

const battleColumns = `id, name, red_army, blue_army, red_strategy, blue_strategy,
       seed, rounds, winner, red_objectives, blue_objectives, red_models, blue_models,
       started_at, finished_at`

// Save inserts a finished battle.
func (r *BattleRepo) Save(ctx context.Context, rec *model.BattleRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO battles (id, name, red_army, blue_army, red_strategy, blue_strategy,
		        seed, rounds, winner, red_objectives, blue_objectives, red_models, blue_models,
		        started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ID, rec.Name, rec.RedArmy, rec.BlueArmy, rec.RedStrategy, rec.BlueStrategy,
		rec.Seed, rec.Rounds, rec.Winner, rec.RedObjectives, rec.BlueObjectives,
		rec.RedModels, rec.BlueModels, rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("save battle: %w", err)
	}
	return nil
}

// FindByID returns a battle by ID, or nil when absent.
func (r *BattleRepo) FindByID(ctx context.Context, id string) (*model.BattleRecord, error) {
	var rec model.BattleRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT `+battleColumns+` FROM battles WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Name, &rec.RedArmy, &rec.BlueArmy, &rec.RedStrategy, &rec.BlueStrategy,
		&rec.Seed, &rec.Rounds, &rec.Winner, &rec.RedObjectives, &rec.BlueObjectives,
		&rec.RedModels, &rec.BlueModels, &rec.StartedAt, &rec.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find battle: %w", err)
	}
	return &rec, nil
}

// ListRecent returns the latest finished battles, newest first.
func (r *BattleRepo) ListRecent(ctx context.Context, limit int) ([]model.BattleRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+battleColumns+` FROM battles ORDER BY finished_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	var out []model.BattleRecord
	for rows.Next() {
		var rec model.BattleRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.RedArmy, &rec.BlueArmy, &rec.RedStrategy,
			&rec.BlueStrategy, &rec.Seed, &rec.Rounds, &rec.Winner, &rec.RedObjectives,
			&rec.BlueObjectives, &rec.RedModels, &rec.BlueModels, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
