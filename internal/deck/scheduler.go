package deck

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vytor/srsdeck/internal/errors"
	"github.com/vytor/srsdeck/internal/models"
)

// BuildSchedule assigns each card a learn date and a sequence of review
// dates, batching cards across calendar days under the dailyNew cap.
//
// The card at zero-based position i learns on startDate + i/dailyNew days,
// so each day fills to capacity before the next one starts and learn dates
// are monotonically non-decreasing across the output. Every review date is
// learnOn + intervals[k] days.
//
// dailyNew <= 0, an empty card slice, and an interval list that is not
// strictly increasing are configuration errors; a non-increasing list would
// break the strictly-increasing reviews_on invariant, so it is rejected
// rather than passed through. An empty interval list is valid and yields
// cards with no reviews.
func BuildSchedule(cards []models.Card, startDate time.Time, dailyNew int, intervals []int) (models.Schedule, error) {
	if dailyNew <= 0 {
		return nil, errors.NewConfigurationError("daily_new", fmt.Sprintf("must be a positive integer, got %d", dailyNew))
	}
	if len(cards) == 0 {
		return nil, errors.NewConfigurationError("cards", "no cards to schedule")
	}
	if err := checkIntervals(intervals); err != nil {
		return nil, err
	}

	start := atMidnightUTC(startDate)
	schedule := make(models.Schedule, 0, len(cards))
	for i, c := range cards {
		learnOn := start.AddDate(0, 0, i/dailyNew)
		var reviews []time.Time
		if len(intervals) > 0 {
			reviews = make([]time.Time, len(intervals))
			for k, days := range intervals {
				reviews[k] = learnOn.AddDate(0, 0, days)
			}
		}
		schedule = append(schedule, models.ScheduledCard{
			Card:      c,
			LearnOn:   learnOn,
			ReviewsOn: reviews,
		})
	}
	return schedule, nil
}

func checkIntervals(intervals []int) error {
	for k, days := range intervals {
		if days <= 0 {
			return errors.NewConfigurationError("intervals", fmt.Sprintf("offset at position %d must be positive, got %d", k+1, days))
		}
		if k > 0 && days <= intervals[k-1] {
			return errors.NewConfigurationError("intervals", "offsets must be strictly increasing")
		}
	}
	return nil
}

// ParseIntervals parses a comma-separated day-offset list such as "1,3,7,14,30".
func ParseIntervals(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		days, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.NewConfigurationError("intervals", fmt.Sprintf("%q is not an integer", strings.TrimSpace(p)))
		}
		out = append(out, days)
	}
	return out, nil
}

// atMidnightUTC truncates a timestamp to its calendar date.
func atMidnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
