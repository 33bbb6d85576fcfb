package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vytor/srsdeck/internal/config"
	"github.com/vytor/srsdeck/internal/db"
	"github.com/vytor/srsdeck/internal/deck"
	"github.com/vytor/srsdeck/internal/errors"
	"github.com/vytor/srsdeck/internal/export"
	"github.com/vytor/srsdeck/internal/logger"
	"github.com/vytor/srsdeck/internal/models"
)

// ImportRequest carries a markdown source and optional overrides for the
// scheduling parameters. Zero values fall back to the configured defaults.
type ImportRequest struct {
	Name      string
	Markdown  string
	StartDate time.Time
	DailyNew  int
	Intervals []int
}

// DeckService turns markdown sources into persisted, exported review decks.
type DeckService interface {
	// ImportDeck runs the full pipeline synchronously: create the deck row,
	// parse/validate/schedule the markdown, export the CSV artifact, and
	// persist the scheduled cards.
	ImportDeck(ctx context.Context, req ImportRequest) (*models.Deck, error)
	// CreateDeck only records a pending deck row; RunImport finishes the
	// work (used by the async import job).
	CreateDeck(ctx context.Context, req ImportRequest) (*models.Deck, error)
	RunImport(ctx context.Context, deckID int64, markdown string) error
	GetDeck(ctx context.Context, id int64) (*models.Deck, error)
	ListDecks(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error)
	DeckSchedule(ctx context.Context, id int64) (models.Schedule, error)
	DeleteDeck(ctx context.Context, id int64) error
}

type deckService struct {
	db        *db.DB
	exportDir string
	minLen    int
	maxLen    int
	dailyNew  int
	intervals []int
}

// NewDeckService creates a new DeckService with defaults taken from cfg.
func NewDeckService(database *db.DB, cfg config.Config) DeckService {
	return &deckService{
		db:        database,
		exportDir: cfg.ExportDir,
		minLen:    cfg.MinCardLen,
		maxLen:    cfg.MaxCardLen,
		dailyNew:  cfg.DailyNew,
		intervals: cfg.Intervals,
	}
}

func (s *deckService) ImportDeck(ctx context.Context, req ImportRequest) (*models.Deck, error) {
	d, err := s.CreateDeck(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.RunImport(ctx, d.ID, req.Markdown); err != nil {
		// Return the refreshed row so the caller sees the failed status and
		// the terminal "0 cards scheduled" outcome alongside the error.
		if failed, getErr := s.db.GetDeck(ctx, d.ID); getErr == nil && failed != nil {
			return failed, err
		}
		return d, err
	}
	return s.GetDeck(ctx, d.ID)
}

func (s *deckService) CreateDeck(ctx context.Context, req ImportRequest) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewBadRequestError("deck name is required")
	}

	params := s.resolveParams(req)
	if err := params.Validate(); err != nil {
		log.Warn("rejecting deck with invalid parameters: %v", err)
		return nil, err
	}

	d := models.Deck{
		Name:      name,
		Status:    models.DeckStatusPending,
		StartDate: params.StartDate,
		DailyNew:  params.DailyNew,
		Intervals: params.Intervals,
		MinLen:    params.MinLen,
		MaxLen:    params.MaxLen,
	}
	id, err := s.db.InsertDeck(ctx, d)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	d.ID = id
	log.Info("deck created: id=%d, name=%s", id, name)
	return &d, nil
}

func (s *deckService) RunImport(ctx context.Context, deckID int64, markdown string) error {
	log := logger.FromContext(ctx).WithField("deck_id", deckID)

	d, err := s.db.GetDeck(ctx, deckID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if d == nil {
		return errors.NewNotFoundError("deck", deckID)
	}

	pipeline := deck.NewPipeline(deck.Params{
		StartDate: d.StartDate,
		DailyNew:  d.DailyNew,
		Intervals: d.Intervals,
		MinLen:    d.MinLen,
		MaxLen:    d.MaxLen,
	})

	schedule, err := pipeline.Build(ctx, markdown)
	if err != nil {
		log.Warn("import failed, 0 cards scheduled: %v", err)
		if dbErr := s.db.MarkDeckFailed(ctx, deckID, err.Error()); dbErr != nil {
			log.Error("failed to record deck failure: %v", dbErr)
		}
		return err
	}

	exportPath := filepath.Join(s.exportDir, fmt.Sprintf("deck-%d.csv", deckID))
	if err := export.WriteScheduleCSV(schedule, exportPath); err != nil {
		log.Error("artifact export failed: %v", err)
		if dbErr := s.db.MarkDeckFailed(ctx, deckID, err.Error()); dbErr != nil {
			log.Error("failed to record deck failure: %v", dbErr)
		}
		return err
	}

	if err := s.db.ReplaceDeckCards(ctx, deckID, schedule); err != nil {
		log.Error("failed to persist scheduled cards: %v", err)
		return errors.NewInternalError(err)
	}
	if err := s.db.CompleteDeck(ctx, deckID, len(schedule), exportPath); err != nil {
		log.Error("failed to complete deck: %v", err)
		return errors.NewInternalError(err)
	}

	log.Info("deck imported: %d cards scheduled, artifact=%s", len(schedule), exportPath)
	return nil
}

func (s *deckService) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	d, err := s.db.GetDeck(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if d == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return d, nil
}

func (s *deckService) ListDecks(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	decks, err := s.db.ListDecks(ctx, filter)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) DeckSchedule(ctx context.Context, id int64) (models.Schedule, error) {
	d, err := s.db.GetDeck(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if d == nil {
		return nil, errors.NewNotFoundError("deck", id)
	}
	schedule, err := s.db.DeckSchedule(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return schedule, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithField("deck_id", id)

	d, err := s.db.GetDeck(ctx, id)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if d == nil {
		return errors.NewNotFoundError("deck", id)
	}
	if err := s.db.DeleteDeck(ctx, id); err != nil {
		return errors.NewInternalError(err)
	}
	// Best-effort artifact cleanup; the row is already gone.
	if d.ExportPath != "" {
		if err := os.Remove(d.ExportPath); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to remove artifact %s: %v", d.ExportPath, err)
		}
	}
	log.Info("deck deleted")
	return nil
}

// resolveParams fills request gaps with the configured defaults. A zero
// start date means today; a zero daily_new or nil interval list means the
// configured value. Explicit negative or malformed values are kept so that
// parameter validation rejects them instead of silently clamping.
func (s *deckService) resolveParams(req ImportRequest) deck.Params {
	params := deck.Params{
		StartDate: req.StartDate,
		DailyNew:  req.DailyNew,
		Intervals: req.Intervals,
		MinLen:    s.minLen,
		MaxLen:    s.maxLen,
	}
	if params.StartDate.IsZero() {
		params.StartDate = time.Now().UTC()
	}
	if params.DailyNew == 0 {
		params.DailyNew = s.dailyNew
	}
	if params.Intervals == nil {
		params.Intervals = s.intervals
	}
	return params
}
