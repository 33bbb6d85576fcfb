package models

import "time"

// Card is a question/answer pair extracted from a markdown source.
// Cards are immutable once produced by the parser; later stages copy
// them into their own output structures.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ValidationResult reports the outcome of a quality check over a card
// sequence. Errors are ordered by card position; OK is true only when the
// sequence is non-empty and no violation was found.
type ValidationResult struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

// ScheduledCard is a card with its assigned learn date and review dates.
// ReviewsOn has one entry per configured interval and is strictly increasing.
type ScheduledCard struct {
	Card
	LearnOn   time.Time   `json:"learn_on"`
	ReviewsOn []time.Time `json:"reviews_on"`
}

// Schedule is the ordered output of the scheduler, preserving input card
// order.
type Schedule []ScheduledCard
