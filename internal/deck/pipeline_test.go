package deck

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/srsdeck/internal/errors"
	"github.com/vytor/srsdeck/internal/models"
)

func testParams() Params {
	return Params{
		StartDate: time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC),
		DailyNew:  10,
		Intervals: []int{1, 3, 7, 14, 30},
		MinLen:    3,
		MaxLen:    260,
	}
}

func TestPipeline_BuildValidMarkdown(t *testing.T) {
	p := NewPipeline(testParams())
	md := "Q: What is spaced repetition?\nA: Reviewing at increasing intervals.\n"

	schedule, err := p.Build(context.Background(), md)

	require.NoError(t, err)
	require.Len(t, schedule, 1)
	assert.Equal(t, "What is spaced repetition?", schedule[0].Question)
	assert.Len(t, schedule[0].ReviewsOn, 5)
}

func TestPipeline_EmptyInputIsValidationFailure(t *testing.T) {
	p := NewPipeline(testParams())

	_, err := p.Build(context.Background(), "")

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, appErr.Code)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestPipeline_RetriesParseOnceOnValidationFailure(t *testing.T) {
	p := NewPipeline(testParams())

	calls := 0
	p.parse = func(string) []models.Card {
		calls++
		if calls == 1 {
			// First parse yields a card the validator rejects.
			return []models.Card{{Question: "flaky", Answer: ""}}
		}
		return []models.Card{{Question: "stable question", Answer: "stable answer"}}
	}

	schedule, err := p.Build(context.Background(), "ignored")

	require.NoError(t, err)
	assert.Equal(t, 2, calls, "one retry after the failed first attempt")
	require.Len(t, schedule, 1)
	assert.Equal(t, "stable question", schedule[0].Question)
}

func TestPipeline_SecondFailureIsTerminal(t *testing.T) {
	p := NewPipeline(testParams())

	calls := 0
	p.parse = func(string) []models.Card {
		calls++
		return []models.Card{{Question: "always bad", Answer: ""}}
	}

	_, err := p.Build(context.Background(), "ignored")

	require.Error(t, err)
	assert.Equal(t, 2, calls, "retry budget is exactly one retry")
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, appErr.Code)
	require.Len(t, appErr.Violations, 1)
	assert.Contains(t, appErr.Violations[0], "answer is empty")
}

func TestPipeline_ConfigurationErrorNotRetried(t *testing.T) {
	params := testParams()
	params.DailyNew = 0
	p := NewPipeline(params)

	calls := 0
	p.parse = func(string) []models.Card {
		calls++
		return []models.Card{{Question: "good question", Answer: "good answer"}}
	}

	_, err := p.Build(context.Background(), "ignored")

	require.Error(t, err)
	assert.Equal(t, 1, calls, "scheduler failures must not re-enter the parse loop")
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeConfiguration, appErr.Code)
	assert.False(t, apperrors.IsRetryable(err))
}

func TestParamsValidate(t *testing.T) {
	valid := testParams()
	assert.NoError(t, valid.Validate())

	bad := testParams()
	bad.DailyNew = -5
	assert.Error(t, bad.Validate())

	bad = testParams()
	bad.Intervals = []int{3, 1}
	assert.Error(t, bad.Validate())

	bad = testParams()
	bad.MaxLen = 1
	assert.Error(t, bad.Validate())
}
