package deck_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/srsdeck/internal/deck"
	apperrors "github.com/vytor/srsdeck/internal/errors"
	"github.com/vytor/srsdeck/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func makeCards(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{
			Question: fmt.Sprintf("question %d", i+1),
			Answer:   fmt.Sprintf("answer %d", i+1),
		}
	}
	return cards
}

func TestBuildSchedule_TwoCardsSameDay(t *testing.T) {
	cards := makeCards(2)

	schedule, err := deck.BuildSchedule(cards, date("2025-10-12"), 10, []int{1, 3, 7, 14, 30})

	require.NoError(t, err)
	require.Len(t, schedule, 2)

	expectedReviews := []time.Time{
		date("2025-10-13"),
		date("2025-10-15"),
		date("2025-10-19"),
		date("2025-10-26"),
		date("2025-11-11"),
	}
	for _, sc := range schedule {
		assert.Equal(t, date("2025-10-12"), sc.LearnOn)
		assert.Equal(t, expectedReviews, sc.ReviewsOn)
	}
}

func TestBuildSchedule_BatchesAcrossDays(t *testing.T) {
	cards := makeCards(25)
	start := date("2025-10-12")

	schedule, err := deck.BuildSchedule(cards, start, 10, []int{1})

	require.NoError(t, err)
	require.Len(t, schedule, 25)
	for i, sc := range schedule {
		want := start.AddDate(0, 0, i/10)
		assert.Equal(t, want, sc.LearnOn, "card at position %d", i)
	}
	assert.Equal(t, start, schedule[9].LearnOn)
	assert.Equal(t, start.AddDate(0, 0, 1), schedule[10].LearnOn)
	assert.Equal(t, start.AddDate(0, 0, 2), schedule[24].LearnOn)
}

func TestBuildSchedule_CapacityInvariant(t *testing.T) {
	cards := makeCards(47)
	dailyNew := 7

	schedule, err := deck.BuildSchedule(cards, date("2025-01-01"), dailyNew, []int{1, 3})

	require.NoError(t, err)
	perDay := map[time.Time]int{}
	for _, sc := range schedule {
		perDay[sc.LearnOn]++
	}
	for day, count := range perDay {
		assert.LessOrEqual(t, count, dailyNew, "too many cards learn on %s", day.Format("2006-01-02"))
	}
}

func TestBuildSchedule_ReviewsStrictlyIncreasing(t *testing.T) {
	cards := makeCards(5)
	intervals := []int{1, 3, 7, 14, 30}

	schedule, err := deck.BuildSchedule(cards, date("2025-10-12"), 2, intervals)

	require.NoError(t, err)
	for _, sc := range schedule {
		require.Len(t, sc.ReviewsOn, len(intervals))
		for k, review := range sc.ReviewsOn {
			assert.Equal(t, sc.LearnOn.AddDate(0, 0, intervals[k]), review)
			if k > 0 {
				assert.True(t, review.After(sc.ReviewsOn[k-1]), "reviews must be strictly increasing")
			}
		}
	}
}

func TestBuildSchedule_PreservesCardOrder(t *testing.T) {
	cards := makeCards(6)

	schedule, err := deck.BuildSchedule(cards, date("2025-10-12"), 2, []int{1})

	require.NoError(t, err)
	for i, sc := range schedule {
		assert.Equal(t, cards[i].Question, sc.Question)
		assert.Equal(t, cards[i].Answer, sc.Answer)
	}
}

func TestBuildSchedule_EmptyIntervalsDegenerate(t *testing.T) {
	cards := makeCards(1)

	schedule, err := deck.BuildSchedule(cards, date("2025-10-12"), 10, nil)

	require.NoError(t, err)
	require.Len(t, schedule, 1)
	assert.Empty(t, schedule[0].ReviewsOn)
}

func TestBuildSchedule_RejectsNonPositiveDailyNew(t *testing.T) {
	for _, dailyNew := range []int{0, -1} {
		_, err := deck.BuildSchedule(makeCards(1), date("2025-10-12"), dailyNew, []int{1})

		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeConfiguration, appErr.Code)
		assert.Contains(t, appErr.Message, "daily_new")
	}
}

func TestBuildSchedule_RejectsEmptyCardList(t *testing.T) {
	_, err := deck.BuildSchedule(nil, date("2025-10-12"), 10, []int{1})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeConfiguration, appErr.Code)
}

func TestBuildSchedule_RejectsUnsortedIntervals(t *testing.T) {
	tests := []struct {
		name      string
		intervals []int
	}{
		{name: "descending", intervals: []int{7, 3, 1}},
		{name: "duplicate", intervals: []int{1, 3, 3}},
		{name: "non-positive", intervals: []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deck.BuildSchedule(makeCards(1), date("2025-10-12"), 10, tt.intervals)

			require.Error(t, err)
			appErr, ok := err.(*apperrors.AppError)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrCodeConfiguration, appErr.Code)
			assert.Contains(t, appErr.Message, "intervals")
		})
	}
}

func TestBuildSchedule_TruncatesStartToCalendarDate(t *testing.T) {
	start := time.Date(2025, 10, 12, 17, 45, 3, 0, time.UTC)

	schedule, err := deck.BuildSchedule(makeCards(1), start, 10, []int{1})

	require.NoError(t, err)
	assert.Equal(t, date("2025-10-12"), schedule[0].LearnOn)
}

func TestParseIntervals(t *testing.T) {
	intervals, err := deck.ParseIntervals("1,3,7,14,30")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 7, 14, 30}, intervals)

	intervals, err = deck.ParseIntervals(" 1 , 2 ")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, intervals)

	intervals, err = deck.ParseIntervals("")
	require.NoError(t, err)
	assert.Nil(t, intervals)

	_, err = deck.ParseIntervals("1,x")
	require.Error(t, err)
}
