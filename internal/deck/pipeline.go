package deck

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/srsdeck/internal/errors"
	"github.com/vytor/srsdeck/internal/logger"
	"github.com/vytor/srsdeck/internal/markdown"
	"github.com/vytor/srsdeck/internal/models"
)

// Params configure a single pipeline run.
type Params struct {
	StartDate time.Time
	DailyNew  int
	Intervals []int
	MinLen    int
	MaxLen    int
}

// Validate rejects parameters no run could succeed with. Used by callers
// that want to fail before any parsing happens; BuildSchedule re-checks the
// scheduling parameters regardless.
func (p Params) Validate() error {
	if p.DailyNew <= 0 {
		return errors.NewConfigurationError("daily_new", fmt.Sprintf("must be a positive integer, got %d", p.DailyNew))
	}
	if p.MinLen < 1 {
		return errors.NewConfigurationError("min_len", "must be at least 1")
	}
	if p.MaxLen < p.MinLen {
		return errors.NewConfigurationError("max_len", "must be >= min_len")
	}
	return checkIntervals(p.Intervals)
}

// maxAttempts bounds the parse+validate retry loop: one initial attempt plus
// one retry on the same input.
const maxAttempts = 2

// Pipeline runs parse -> validate -> schedule over a markdown source. Each
// stage is a pure function of its input; the pipeline itself holds no state
// across runs beyond its parameters.
type Pipeline struct {
	params Params
	parse  func(string) []models.Card
}

// NewPipeline creates a pipeline with the given parameters.
func NewPipeline(params Params) *Pipeline {
	return &Pipeline{
		params: params,
		parse:  markdown.ParseCards,
	}
}

// Build turns markdown into a review schedule. A validation failure is
// retried once by re-parsing the same input; a second failure is terminal
// and surfaces as VALIDATION_FAILED with the full violation list.
// Configuration errors from the scheduler are never retried.
func (p *Pipeline) Build(ctx context.Context, md string) (models.Schedule, error) {
	log := logger.FromContext(ctx).WithPrefix("pipeline")

	var cards []models.Card
	var result models.ValidationResult
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cards = p.parse(md)
		log.Debug("parsed %d cards (attempt %d)", len(cards), attempt)

		result = Validate(cards, p.params.MinLen, p.params.MaxLen)
		if result.OK {
			break
		}
		log.Warn("validation failed with %d violation(s) on attempt %d", len(result.Errors), attempt)
	}
	if !result.OK {
		log.Error("retry budget exhausted, 0 cards scheduled")
		return nil, errors.NewValidationFailedError(result.Errors)
	}

	schedule, err := BuildSchedule(cards, p.params.StartDate, p.params.DailyNew, p.params.Intervals)
	if err != nil {
		return nil, err
	}
	log.Info("scheduled %d cards starting %s", len(schedule), p.params.StartDate.Format("2006-01-02"))
	return schedule, nil
}
