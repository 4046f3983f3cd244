package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/cepsu/cFork-OPR/internal/bot"
	"github.com/cepsu/cFork-OPR/internal/repository"
	"github.com/cepsu/cFork-OPR/pkg/grimdark"
)

var (
	ErrBattleNotFound = errors.New("battle not found")
	ErrBattleRunning  = errors.New("battle is still running")
)

// BattleStatus is the public view of a hosted battle.
type BattleStatus struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Status    string           `json:"status"` // "running", "finished" or "failed"
	StartedAt time.Time        `json:"started_at"`
	Result    *bot.ArenaResult `json:"result,omitempty"`
}

// BattleHost runs battles in-process, pacing each on its own ticker and
// fanning snapshots and narration out to the hub and the optional sinks.
type BattleHost struct {
	hub     *Hub
	battles repository.BattleRepository // nil: results are not recorded
	cache   repository.SnapshotCache    // nil: no external live feed
	tick    time.Duration               // default activation pace, 0 = flat out

	mu   sync.RWMutex
	live map[string]*hostedBattle
}

type hostedBattle struct {
	status BattleStatus
	latest json.RawMessage
	done   chan struct{}
}

// NewBattleHost creates a host that broadcasts through hub. battles and
// cache may be nil.
func NewBattleHost(hub *Hub, battles repository.BattleRepository, cache repository.SnapshotCache, tick time.Duration) *BattleHost {
	return &BattleHost{
		hub:     hub,
		battles: battles,
		cache:   cache,
		tick:    tick,
		live:    make(map[string]*hostedBattle),
	}
}

// StartBattle validates the armies, registers the battle and launches it in
// the background. tick overrides the host's default pace when positive.
func (h *BattleHost) StartBattle(cfg bot.ArenaConfig, tick time.Duration) (BattleStatus, error) {
	red, err := grimdark.ParseArmyList(cfg.RedList)
	if err != nil {
		return BattleStatus{}, fmt.Errorf("red army: %w", err)
	}
	blue, err := grimdark.ParseArmyList(cfg.BlueList)
	if err != nil {
		return BattleStatus{}, fmt.Errorf("blue army: %w", err)
	}

	if cfg.BattleID == "" {
		cfg.BattleID = uuid.NewString()
	}
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("%s vs %s", red.Name, blue.Name)
	}
	if tick <= 0 {
		tick = h.tick
	}

	feed := &hostFeed{host: h, battleID: cfg.BattleID}
	if tick > 0 {
		feed.ticker = time.NewTicker(tick)
	}
	cfg.Narrator = feed
	cfg.Renderer = feed

	hb := &hostedBattle{
		status: BattleStatus{
			ID:        cfg.BattleID,
			Name:      cfg.Name,
			Status:    "running",
			StartedAt: time.Now(),
		},
		done: make(chan struct{}),
	}
	st := hb.status

	h.mu.Lock()
	h.live[cfg.BattleID] = hb
	h.mu.Unlock()

	h.hub.BroadcastBattleEvent(cfg.BattleID, EventBattleStarted, st)
	log.Info().Str("battleId", cfg.BattleID).Str("name", cfg.Name).Dur("tick", tick).Msg("Battle hosted")

	go h.runBattle(cfg, feed, hb)
	return st, nil
}

func (h *BattleHost) runBattle(cfg bot.ArenaConfig, feed *hostFeed, hb *hostedBattle) {
	defer close(hb.done)
	if feed.ticker != nil {
		defer feed.ticker.Stop()
	}

	res, err := bot.RunGame(context.Background(), cfg, h.battles)

	h.mu.Lock()
	if err != nil {
		hb.status.Status = "failed"
	} else {
		hb.status.Status = "finished"
		hb.status.Result = res
	}
	h.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Str("battleId", cfg.BattleID).Msg("Hosted battle failed")
		return
	}
	h.hub.BroadcastBattleEvent(cfg.BattleID, EventBattleFinished, res)
}

// Get returns a hosted battle's status.
func (h *BattleHost) Get(id string) (BattleStatus, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	hb, ok := h.live[id]
	if !ok {
		return BattleStatus{}, false
	}
	return hb.status, true
}

// Latest returns the last published snapshot for a hosted battle, or nil.
func (h *BattleHost) Latest(id string) json.RawMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if hb, ok := h.live[id]; ok {
		return hb.latest
	}
	return nil
}

// List returns all hosted battles, newest first.
func (h *BattleHost) List() []BattleStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]BattleStatus, 0, len(h.live))
	for _, hb := range h.live {
		out = append(out, hb.status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// Wait exposes a battle's completion channel, mainly for shutdown and tests.
// Unknown ids get an already-closed channel.
func (h *BattleHost) Wait(id string) <-chan struct{} {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if hb, ok := h.live[id]; ok {
		return hb.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Remove drops a finished battle from the host and clears its cached
// snapshot. Running battles cannot be removed.
func (h *BattleHost) Remove(ctx context.Context, id string) error {
	h.mu.Lock()
	hb, ok := h.live[id]
	if !ok {
		h.mu.Unlock()
		return ErrBattleNotFound
	}
	if hb.status.Status == "running" {
		h.mu.Unlock()
		return ErrBattleRunning
	}
	delete(h.live, id)
	h.mu.Unlock()

	if h.cache != nil {
		if err := h.cache.DeleteSnapshot(ctx, id); err != nil {
			log.Warn().Err(err).Str("battleId", id).Msg("Failed to clear cached snapshot")
		}
	}
	return nil
}

func (h *BattleHost) storeSnapshot(id string, data []byte) {
	h.mu.Lock()
	if hb, ok := h.live[id]; ok {
		hb.latest = data
	}
	h.mu.Unlock()
}

// hostFeed adapts one battle's narration and render streams onto the hub
// and the snapshot cache. The ticker paces the battle: the engine blocks
// here after every state change, so spectators see one step per tick.
type hostFeed struct {
	host     *BattleHost
	battleID string
	ticker   *time.Ticker // nil runs the battle flat out
}

func (f *hostFeed) Say(line string) {
	f.host.hub.BroadcastBattleEvent(f.battleID, EventNarration, map[string]string{"text": line})
}

func (f *hostFeed) StateChanged(s *grimdark.Snapshot) {
	if f.ticker != nil {
		<-f.ticker.C
	}
	data, err := json.Marshal(s)
	if err != nil {
		log.Error().Err(err).Str("battleId", f.battleID).Msg("Snapshot marshal failed")
		return
	}
	f.host.storeSnapshot(f.battleID, data)
	f.host.hub.BroadcastToBattle(f.battleID, WSEvent{Type: EventSnapshot, BattleID: f.battleID, Data: json.RawMessage(data)})
	if f.host.cache != nil {
		if err := f.host.cache.PublishSnapshot(context.Background(), f.battleID, data); err != nil {
			log.Warn().Err(err).Str("battleId", f.battleID).Msg("Snapshot cache publish failed")
		}
	}
}
