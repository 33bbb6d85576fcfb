package models

import "time"

// Deck statuses.
const (
	DeckStatusPending   = "pending"
	DeckStatusCompleted = "completed"
	DeckStatusFailed    = "failed"
)

// Deck is a persisted import run: the scheduling parameters it was built
// with, its outcome, and where the CSV artifact was written.
type Deck struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	StartDate  time.Time `json:"start_date"`
	DailyNew   int       `json:"daily_new"`
	Intervals  []int     `json:"intervals"`
	MinLen     int       `json:"min_len"`
	MaxLen     int       `json:"max_len"`
	CardCount  int       `json:"card_count"`
	ExportPath string    `json:"export_path"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeckFilter narrows deck listings.
type DeckFilter struct {
	Status string
	Name   string
	Limit  int
	Offset int
}
