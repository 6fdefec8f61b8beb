package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/slclab/surveybase/internal/cleanup"
	"github.com/slclab/surveybase/internal/orphan"
	"github.com/slclab/surveybase/internal/store"
	"github.com/slclab/surveybase/internal/store/postgres"
	"github.com/slclab/surveybase/pkg/apierr"
)

type OrphanHandler struct {
	logger  *slog.Logger
	store   *store.Store
	cleanup *cleanup.Engine
	reviews *orphan.Manager
}

func NewOrphanHandler(logger *slog.Logger, s *store.Store, ce *cleanup.Engine, reviews *orphan.Manager) *OrphanHandler {
	return &OrphanHandler{logger: logger, store: s, cleanup: ce, reviews: reviews}
}

// Pending shows the caller's pending orphan review, if any. Visiting with
// no slot is not an error.
func (h *OrphanHandler) Pending(w http.ResponseWriter, r *http.Request) {
	if h.reviews == nil {
		writeJSON(w, http.StatusOK, map[string]any{"pending": false})
		return
	}

	session := editorSession(w, r)
	review, err := h.reviews.Pending(r.Context(), session)
	if err != nil {
		writeAPIError(w, h.logger, apierr.OrphanReviewFailed(err))
		return
	}
	if review == nil {
		writeJSON(w, http.StatusOK, map[string]any{"pending": false})
		return
	}

	questions, err := h.store.ListQuestionsByIDs(r.Context(), review.QuestionIDs)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"pending":    true,
		"questions":  questions,
		"return_url": review.RedirectTarget(),
		"created_at": review.CreatedAt,
	})
}

// Resolve applies the editor's decision: "delete" removes the parked
// questions and their variable usage, "keep" leaves them as reusable pool
// entries. Either way the slot is cleared.
func (h *OrphanHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if h.reviews == nil {
		writeAPIError(w, h.logger, apierr.OrphanReviewFailed(nil))
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}
	if !orphan.ValidAction(req.Action) {
		writeAPIError(w, h.logger, apierr.InvalidReviewAction())
		return
	}

	session := editorSession(w, r)
	review, err := h.reviews.Pending(r.Context(), session)
	if err != nil {
		writeAPIError(w, h.logger, apierr.OrphanReviewFailed(err))
		return
	}
	if review == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"resolved": false,
			"redirect": orphan.DefaultLanding,
		})
		return
	}

	var deleted int64
	if req.Action == orphan.ActionDelete {
		err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
			var pairs []postgres.VariableWavePair
			for _, qid := range review.QuestionIDs {
				triads, err := q.ListTriadsByQuestion(r.Context(), qid)
				if err != nil {
					return err
				}
				for _, t := range triads {
					pairs = append(pairs, postgres.VariableWavePair{VariableID: t.VariableID, WaveID: t.WaveID})
				}
			}

			var err error
			deleted, err = q.DeleteQuestions(r.Context(), review.QuestionIDs)
			if err != nil {
				return err
			}

			_, err = h.cleanup.ReleaseVariableWavePairs(r.Context(), q, pairs)
			return err
		})
		if err != nil {
			writeAPIError(w, h.logger, apierr.OrphanReviewFailed(err))
			return
		}
		h.logger.Info("orphan review resolved",
			slog.String("action", req.Action),
			slog.Int64("deleted", deleted))
	}

	if err := h.reviews.Clear(r.Context(), session); err != nil {
		h.logger.Error("failed to clear orphan review", slog.String("error", err.Error()))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"resolved": true,
		"action":   req.Action,
		"deleted":  deleted,
		"redirect": review.RedirectTarget(),
	})
}
