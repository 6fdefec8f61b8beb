package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/slclab/surveybase/internal/store"
	"github.com/slclab/surveybase/internal/store/postgres"
	"github.com/slclab/surveybase/pkg/apierr"
)

type SurveyHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewSurveyHandler(logger *slog.Logger, s *store.Store) *SurveyHandler {
	return &SurveyHandler{logger: logger, store: s}
}

func (h *SurveyHandler) List(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.store.ListSurveys(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.SurveyListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"surveys": surveys,
		"total":   len(surveys),
	})
}

// DuplicationTargets lists surveys that can receive a copied page, i.e.
// surveys with at least one unlocked wave.
func (h *SurveyHandler) DuplicationTargets(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.store.ListDuplicationTargetSurveys(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.SurveyListFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"surveys": surveys,
		"total":   len(surveys),
	})
}

func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "surveyID", "survey")
	if !ok {
		return
	}

	survey, ok := getSurveyOr404(w, r, h.logger, h.store, id)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, survey)
}

func (h *SurveyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Year *int16 `json:"year"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateName(req.Name); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	survey, err := h.store.CreateSurvey(r.Context(), postgres.CreateSurveyParams{
		Name: req.Name,
		Year: req.Year,
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.SurveyCreateFailed(err))
		return
	}

	writeJSON(w, http.StatusCreated, survey)
}

func (h *SurveyHandler) ListWaves(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "surveyID", "survey")
	if !ok {
		return
	}

	if _, ok := getSurveyOr404(w, r, h.logger, h.store, id); !ok {
		return
	}

	waves, err := h.store.ListWavesBySurvey(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"waves": waves,
		"total": len(waves),
	})
}
