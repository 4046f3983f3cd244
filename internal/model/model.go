// Package model holds the storage-facing record types shared by the
// repositories and the report writers.
package model

import "time"

// BattleRecord is one finished battle as stored in Postgres and exported
// to reports.
type BattleRecord struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	RedArmy        string    `json:"red_army"`
	BlueArmy       string    `json:"blue_army"`
	RedStrategy    string    `json:"red_strategy"`
	BlueStrategy   string    `json:"blue_strategy"`
	Seed           int64     `json:"seed"`
	Rounds         int       `json:"rounds"`
	Winner         string    `json:"winner,omitempty"` // "Red", "Blue", or empty for a draw
	RedObjectives  int       `json:"red_objectives"`
	BlueObjectives int       `json:"blue_objectives"`
	RedModels      int       `json:"red_models"`
	BlueModels     int       `json:"blue_models"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
}
