package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cepsu/cFork-OPR/internal/bot"
	"github.com/cepsu/cFork-OPR/internal/repository"
)

// BattleHandler exposes hosted battles and the battle archive.
type BattleHandler struct {
	host    *BattleHost
	battles repository.BattleRepository // nil when running without a database
	cache   repository.SnapshotCache    // nil when running without redis
}

// NewBattleHandler creates a BattleHandler.
func NewBattleHandler(host *BattleHost, battles repository.BattleRepository, cache repository.SnapshotCache) *BattleHandler {
	return &BattleHandler{host: host, battles: battles, cache: cache}
}

// CreateBattle handles POST /api/v1/battles
func (h *BattleHandler) CreateBattle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name,omitempty"`
		RedList      string `json:"red_list"`
		BlueList     string `json:"blue_list"`
		RedStrategy  string `json:"red_strategy,omitempty"`
		BlueStrategy string `json:"blue_strategy,omitempty"`
		Rounds       int    `json:"rounds,omitempty"`
		Objectives   int    `json:"objectives,omitempty"`
		Seed         int64  `json:"seed,omitempty"`
		TickMS       int    `json:"tick_ms,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RedList == "" || req.BlueList == "" {
		writeError(w, http.StatusBadRequest, "red_list and blue_list are required")
		return
	}

	st, err := h.host.StartBattle(bot.ArenaConfig{
		Name:         req.Name,
		RedList:      req.RedList,
		BlueList:     req.BlueList,
		RedStrategy:  req.RedStrategy,
		BlueStrategy: req.BlueStrategy,
		MaxRounds:    req.Rounds,
		Objectives:   req.Objectives,
		Seed:         req.Seed,
	}, time.Duration(req.TickMS)*time.Millisecond)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

// ListBattles handles GET /api/v1/battles
// ?filter=live lists hosted battles; the default lists the archive. Without
// a database the hosted list is all there is.
func (h *BattleHandler) ListBattles(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("filter") == "live" || h.battles == nil {
		writeJSON(w, http.StatusOK, h.host.List())
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.battles.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetBattle handles GET /api/v1/battles/{id}
func (h *BattleHandler) GetBattle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if st, ok := h.host.Get(id); ok {
		writeJSON(w, http.StatusOK, st)
		return
	}

	if h.battles != nil {
		rec, err := h.battles.FindByID(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if rec != nil {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeError(w, http.StatusNotFound, "battle not found")
}

// GetSnapshot handles GET /api/v1/battles/{id}/snapshot — the latest board
// state as raw JSON.
func (h *BattleHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if snap := h.host.Latest(id); snap != nil {
		writeRaw(w, http.StatusOK, snap)
		return
	}

	if h.cache != nil {
		snap, err := h.cache.LatestSnapshot(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if snap != nil {
			writeRaw(w, http.StatusOK, snap)
			return
		}
	}
	writeError(w, http.StatusNotFound, "no snapshot available")
}

// DeleteBattle handles DELETE /api/v1/battles/{id} — drops a finished
// battle's live data. The archive record, if any, stays.
func (h *BattleHandler) DeleteBattle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.host.Remove(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrBattleNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, ErrBattleRunning) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
