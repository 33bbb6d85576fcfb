package worker

import (
	"context"

	"github.com/vytor/srsdeck/internal/logger"
)

// DeckImporter is the slice of the deck service the import job needs.
type DeckImporter interface {
	RunImport(ctx context.Context, deckID int64, markdown string) error
}

// ImportDeckJob runs the markdown -> schedule -> artifact pipeline for a
// previously created pending deck. Failures are recorded on the deck row by
// the service; the job only reports them.
type ImportDeckJob struct {
	Decks    DeckImporter
	DeckID   int64
	Markdown string
}

func (j *ImportDeckJob) Name() string { return "import_deck" }

func (j *ImportDeckJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("deck_id", j.DeckID)
	log.Info("starting background deck import")
	return j.Decks.RunImport(ctx, j.DeckID, j.Markdown)
}
