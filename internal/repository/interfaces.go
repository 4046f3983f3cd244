package repository

import (
	"context"
	"encoding/json"

	"github.com/cepsu/cFork-OPR/internal/model"
)

// BattleRepository defines battle-result storage operations.
type BattleRepository interface {
	Save(ctx context.Context, rec *model.BattleRecord) error
	FindByID(ctx context.Context, id string) (*model.BattleRecord, error)
	ListRecent(ctx context.Context, limit int) ([]model.BattleRecord, error)
}

// SnapshotCache defines live battlefield snapshot fan-out (Redis). The
// engine only writes through it; nothing in the core reads state back.
type SnapshotCache interface {
	PublishSnapshot(ctx context.Context, battleID string, snap json.RawMessage) error
	LatestSnapshot(ctx context.Context, battleID string) (json.RawMessage, error)
	DeleteSnapshot(ctx context.Context, battleID string) error
}
