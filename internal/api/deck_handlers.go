package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/srsdeck/internal/deck"
	"github.com/vytor/srsdeck/internal/errors"
	"github.com/vytor/srsdeck/internal/export"
	"github.com/vytor/srsdeck/internal/logger"
	"github.com/vytor/srsdeck/internal/models"
	"github.com/vytor/srsdeck/internal/services"
	"github.com/vytor/srsdeck/internal/worker"
)

type Server struct {
	DeckService services.DeckService
	ImportPool  *worker.Pool
}

type createDeckRequest struct {
	Name      string `json:"name"`
	Markdown  string `json:"markdown"`
	StartDate string `json:"start_date,omitempty"`
	DailyNew  int    `json:"daily_new,omitempty"`
	Intervals string `json:"intervals,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var body createDeckRequest
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	req := services.ImportRequest{
		Name:     body.Name,
		Markdown: body.Markdown,
		DailyNew: body.DailyNew,
	}
	if body.StartDate != "" {
		start, err := time.Parse(export.DateFormat, body.StartDate)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("start_date must be YYYY-MM-DD"))
			return
		}
		req.StartDate = start
	}
	if body.Intervals != "" {
		intervals, err := deck.ParseIntervals(body.Intervals)
		if err != nil {
			handleError(w, r, err)
			return
		}
		req.Intervals = intervals
	}

	if r.URL.Query().Get("async") == "1" {
		d, err := s.DeckService.CreateDeck(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}
		s.ImportPool.Submit(&worker.ImportDeckJob{
			Decks:    s.DeckService,
			DeckID:   d.ID,
			Markdown: req.Markdown,
		})
		log.Info("deck import queued: id=%d", d.ID)
		respondJSON(w, r, http.StatusAccepted, d)
		return
	}

	d, err := s.DeckService.ImportDeck(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, d)
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.DeckFilter{
		Status: q.Get("status"),
		Name:   q.Get("name"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 {
		filter.Offset = (page - 1) * 100
	}

	decks, err := s.DeckService.ListDecks(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if decks == nil {
		decks = []models.Deck{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"decks": decks})
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	id, err := deckID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	d, err := s.DeckService.GetDeck(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, d)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := deckID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.DeckService.DeleteDeck(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeckSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := deckID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	schedule, err := s.DeckService.DeckSchedule(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if schedule == nil {
		schedule = models.Schedule{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"schedule": schedule})
}

func (s *Server) handleDeckArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := deckID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	d, err := s.DeckService.GetDeck(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if d.ExportPath == "" {
		handleError(w, r, errors.NewNotFoundError("artifact for deck", id))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="deck-`+strconv.FormatInt(id, 10)+`.csv"`)
	http.ServeFile(w, r, d.ExportPath)
}

func deckID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid deck id: " + idStr)
	}
	return id, nil
}
