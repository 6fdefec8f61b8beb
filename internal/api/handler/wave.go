package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/slclab/surveybase/internal/cleanup"
	"github.com/slclab/surveybase/internal/orphan"
	"github.com/slclab/surveybase/internal/store"
	"github.com/slclab/surveybase/internal/store/postgres"
	"github.com/slclab/surveybase/pkg/apierr"
)

type WaveHandler struct {
	logger  *slog.Logger
	store   *store.Store
	cleanup *cleanup.Engine
	reviews *orphan.Manager
}

func NewWaveHandler(logger *slog.Logger, s *store.Store, ce *cleanup.Engine, reviews *orphan.Manager) *WaveHandler {
	return &WaveHandler{logger: logger, store: s, cleanup: ce, reviews: reviews}
}

var validInstruments = map[string]bool{
	"CAWI": true,
	"PAPI": true,
}

func (h *WaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	surveyID, ok := idParam(w, r, h.logger, "surveyID", "survey")
	if !ok {
		return
	}

	var req struct {
		Cycle      string     `json:"cycle"`
		Instrument string     `json:"instrument"`
		StartDate  *time.Time `json:"start_date"`
		EndDate    *time.Time `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if req.Cycle == "" {
		writeAPIError(w, h.logger, apierr.NameRequired())
		return
	}
	if !validInstruments[req.Instrument] {
		writeAPIError(w, h.logger, apierr.New(apierr.CodeInvalidRequestBody,
			http.StatusBadRequest, "Instrument must be CAWI or PAPI"))
		return
	}

	if _, ok := getSurveyOr404(w, r, h.logger, h.store, surveyID); !ok {
		return
	}

	wave, err := h.store.CreateWave(r.Context(), postgres.CreateWaveParams{
		SurveyID:   surveyID,
		Cycle:      req.Cycle,
		Instrument: req.Instrument,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		if apierr.IsIntegrityViolation(err) {
			writeAPIError(w, h.logger, apierr.New(apierr.CodeNameCollision,
				http.StatusConflict, "A wave with this cycle and instrument already exists in this survey"))
			return
		}
		writeAPIError(w, h.logger, apierr.WaveCreateFailed(err))
		return
	}

	writeJSON(w, http.StatusCreated, wave)
}

func (h *WaveHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "waveID", "wave")
	if !ok {
		return
	}

	wave, ok := getWaveOr404(w, r, h.logger, h.store, id)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, wave)
}

func (h *WaveHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "waveID", "wave")
	if !ok {
		return
	}

	if _, ok := getWaveOr404(w, r, h.logger, h.store, id); !ok {
		return
	}

	pages, err := h.store.ListPagesByWave(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pages": pages,
		"total": len(pages),
	})
}

// Lock marks a wave immutable. Locking is one-way through the API.
func (h *WaveHandler) Lock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "waveID", "wave")
	if !ok {
		return
	}

	if _, ok := getWaveOr404(w, r, h.logger, h.store, id); !ok {
		return
	}

	if err := h.store.LockWave(r.Context(), id); err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	wave, err := h.store.GetWave(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, wave)
}

// Delete removes a wave. The wave's link rows cascade away in the database;
// the handler's job is to capture the affected question IDs first and hand
// any questions left without a wave to the orphan review.
func (h *WaveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "waveID", "wave")
	if !ok {
		return
	}

	wave, ok := getWaveOr404(w, r, h.logger, h.store, id)
	if !ok {
		return
	}
	if wave.IsLocked {
		writeAPIError(w, h.logger, apierr.LockedWave())
		return
	}

	var orphaned []int64
	err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		// capture before delete, the links vanish with the wave
		candidates, err := q.ListQuestionIDsByWave(r.Context(), id)
		if err != nil {
			return err
		}

		if err := q.DeleteWave(r.Context(), id); err != nil {
			return err
		}

		orphaned, err = h.cleanup.FindNewlyOrphaned(r.Context(), q, candidates)
		return err
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.WaveDeleteFailed(err))
		return
	}

	reviewStarted := false
	if len(orphaned) > 0 && h.reviews != nil {
		session := editorSession(w, r)
		returnURL := r.URL.Query().Get("return")
		if err := h.reviews.Start(r.Context(), session, orphaned, returnURL); err != nil {
			h.logger.Error("failed to start orphan review", slog.String("error", err.Error()))
		} else {
			reviewStarted = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":             true,
		"orphan_question_ids": orphaned,
		"review_started":      reviewStarted,
	})
}
