package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/slclab/surveybase/internal/store"
	"github.com/slclab/surveybase/internal/store/postgres"
	"github.com/slclab/surveybase/pkg/apierr"
)

// idParam parses a chi URL parameter as an int64 ID. Writes a 400 and
// returns false on garbage.
func idParam(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name, entity string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeAPIError(w, logger, apierr.InvalidID(entity))
		return 0, false
	}
	return id, true
}

// getSurveyOr404 fetches a survey by ID and writes a 404/500 error on failure.
// Returns the survey and true on success, or zero-value and false if an error was written.
func getSurveyOr404(w http.ResponseWriter, r *http.Request, logger *slog.Logger, s *store.Store, id int64) (postgres.Survey, bool) {
	survey, err := s.GetSurvey(r.Context(), id)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, logger, apierr.SurveyNotFound())
		} else {
			writeAPIError(w, logger, apierr.InternalError(err))
		}
		return postgres.Survey{}, false
	}
	return survey, true
}

func getWaveOr404(w http.ResponseWriter, r *http.Request, logger *slog.Logger, s *store.Store, id int64) (postgres.Wave, bool) {
	wave, err := s.GetWave(r.Context(), id)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, logger, apierr.WaveNotFound())
		} else {
			writeAPIError(w, logger, apierr.InternalError(err))
		}
		return postgres.Wave{}, false
	}
	return wave, true
}

func getPageOr404(w http.ResponseWriter, r *http.Request, logger *slog.Logger, s *store.Store, id int64) (postgres.Page, bool) {
	page, err := s.GetPage(r.Context(), id)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, logger, apierr.PageNotFound())
		} else {
			writeAPIError(w, logger, apierr.InternalError(err))
		}
		return postgres.Page{}, false
	}
	return page, true
}

func getQuestionOr404(w http.ResponseWriter, r *http.Request, logger *slog.Logger, s *store.Store, id int64) (postgres.Question, bool) {
	question, err := s.GetQuestion(r.Context(), id)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, logger, apierr.QuestionNotFound())
		} else {
			writeAPIError(w, logger, apierr.InternalError(err))
		}
		return postgres.Question{}, false
	}
	return question, true
}

func getVariableOr404(w http.ResponseWriter, r *http.Request, logger *slog.Logger, s *store.Store, id int64) (postgres.Variable, bool) {
	variable, err := s.GetVariable(r.Context(), id)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, logger, apierr.VariableNotFound())
		} else {
			writeAPIError(w, logger, apierr.InternalError(err))
		}
		return postgres.Variable{}, false
	}
	return variable, true
}
