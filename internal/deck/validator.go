package deck

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vytor/srsdeck/internal/models"
)

// Validate checks structural constraints on parsed cards: both fields
// non-empty after trimming, and each within [minLen, maxLen] characters.
//
// Violations are accumulated in card order with 1-based positions; the check
// never stops at the first failure. An empty card sequence is itself a
// failure, since a deck with zero cards is not a useful artifact. The input
// is not mutated.
func Validate(cards []models.Card, minLen, maxLen int) models.ValidationResult {
	var errs []string
	if len(cards) == 0 {
		errs = append(errs, "no cards to check (empty deck)")
	}
	for i, c := range cards {
		pos := i + 1
		errs = appendFieldErrors(errs, pos, "question", c.Question, minLen, maxLen)
		errs = appendFieldErrors(errs, pos, "answer", c.Answer, minLen, maxLen)
	}
	return models.ValidationResult{
		OK:     len(errs) == 0,
		Errors: errs,
	}
}

func appendFieldErrors(errs []string, pos int, field, value string, minLen, maxLen int) []string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return append(errs, fmt.Sprintf("card %d: %s is empty", pos, field))
	}
	if n := utf8.RuneCountInString(trimmed); n < minLen || n > maxLen {
		return append(errs, fmt.Sprintf("card %d: %s length %d outside [%d,%d]", pos, field, n, minLen, maxLen))
	}
	return errs
}
