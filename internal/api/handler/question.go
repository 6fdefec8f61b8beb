package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/slclab/surveybase/internal/cleanup"
	"github.com/slclab/surveybase/internal/store"
	"github.com/slclab/surveybase/internal/store/postgres"
	"github.com/slclab/surveybase/pkg/apierr"
)

type QuestionHandler struct {
	logger  *slog.Logger
	store   *store.Store
	cleanup *cleanup.Engine
}

func NewQuestionHandler(logger *slog.Logger, s *store.Store, ce *cleanup.Engine) *QuestionHandler {
	return &QuestionHandler{logger: logger, store: s, cleanup: ce}
}

type questionRequest struct {
	QuestionText  string                       `json:"question_text"`
	QuestionType  string                       `json:"question_type"`
	Instruction   string                       `json:"instruction"`
	ItemStem      string                       `json:"item_stem"`
	Construct     string                       `json:"construct"`
	Keywords      []string                     `json:"keywords"`
	Items         []postgres.ItemInput         `json:"items"`
	AnswerOptions []postgres.AnswerOptionInput `json:"answer_options"`
}

func (req questionRequest) params() postgres.QuestionParams {
	return postgres.QuestionParams{
		QuestionText: req.QuestionText,
		QuestionType: req.QuestionType,
		Instruction:  req.Instruction,
		ItemStem:     req.ItemStem,
		Construct:    req.Construct,
	}
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if req.QuestionText == "" {
		writeAPIError(w, h.logger, apierr.New(apierr.CodeInvalidRequestBody,
			http.StatusBadRequest, "Question text is required"))
		return
	}

	var question postgres.Question
	err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		var err error
		question, err = q.CreateQuestion(r.Context(), req.params())
		if err != nil {
			return err
		}
		return h.applyDetails(r, q, question.ID, req)
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.QuestionCreateFailed(err))
		return
	}

	writeJSON(w, http.StatusCreated, question)
}

func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "questionID", "question")
	if !ok {
		return
	}

	question, ok := getQuestionOr404(w, r, h.logger, h.store, id)
	if !ok {
		return
	}

	keywords, err := h.store.ListKeywordsByQuestion(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	items, err := h.store.ListQuestionItems(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	options, err := h.store.ListAnswerOptions(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	triads, err := h.store.ListTriadsByQuestion(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"question":       question,
		"keywords":       keywords,
		"items":          items,
		"answer_options": options,
		"variable_usage": triads,
	})
}

func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "questionID", "question")
	if !ok {
		return
	}

	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if _, ok := getQuestionOr404(w, r, h.logger, h.store, id); !ok {
		return
	}
	if !h.questionUnlockedOr409(w, r, id) {
		return
	}

	var question postgres.Question
	err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		var err error
		question, err = q.UpdateQuestion(r.Context(), id, req.params())
		if err != nil {
			return err
		}
		return h.applyDetails(r, q, id, req)
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.QuestionUpdateFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// Delete removes a question outright. Its triad rows cascade, so the
// affected (variable, wave) pairs are captured first and the derived
// Variable<->Wave cache is cleaned in the same transaction.
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "questionID", "question")
	if !ok {
		return
	}

	if _, ok := getQuestionOr404(w, r, h.logger, h.store, id); !ok {
		return
	}
	if !h.questionUnlockedOr409(w, r, id) {
		return
	}

	err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		triads, err := q.ListTriadsByQuestion(r.Context(), id)
		if err != nil {
			return err
		}
		pairs := make([]postgres.VariableWavePair, 0, len(triads))
		for _, t := range triads {
			pairs = append(pairs, postgres.VariableWavePair{VariableID: t.VariableID, WaveID: t.WaveID})
		}

		if _, err := q.DeleteQuestions(r.Context(), []int64{id}); err != nil {
			return err
		}

		_, err = h.cleanup.ReleaseVariableWavePairs(r.Context(), q, pairs)
		return err
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.QuestionDeleteFailed(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Attach links an existing question to a page, extending the question's
// wave scope to the page's waves.
func (h *QuestionHandler) Attach(w http.ResponseWriter, r *http.Request) {
	questionID, ok := idParam(w, r, h.logger, "questionID", "question")
	if !ok {
		return
	}

	var req struct {
		PageID int64 `json:"page_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if _, ok := getQuestionOr404(w, r, h.logger, h.store, questionID); !ok {
		return
	}
	if _, ok := getPageOr404(w, r, h.logger, h.store, req.PageID); !ok {
		return
	}

	locked, err := h.store.PageHasLockedWave(r.Context(), req.PageID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	if locked {
		writeAPIError(w, h.logger, apierr.LockedWave())
		return
	}

	err = h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		if err := q.AddPageQuestion(r.Context(), req.PageID, questionID); err != nil {
			return err
		}
		waveIDs, err := q.ListWaveIDsByPage(r.Context(), req.PageID)
		if err != nil {
			return err
		}
		for _, waveID := range waveIDs {
			if err := q.EnsureWaveQuestion(r.Context(), waveID, questionID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.QuestionUpdateFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"question_id": questionID,
		"page_id":     req.PageID,
		"attached":    true,
	})
}

// ListVariables returns the variables operationalizing this question within
// one wave.
func (h *QuestionHandler) ListVariables(w http.ResponseWriter, r *http.Request) {
	questionID, ok := idParam(w, r, h.logger, "questionID", "question")
	if !ok {
		return
	}
	waveID, ok := idParam(w, r, h.logger, "waveID", "wave")
	if !ok {
		return
	}

	if _, ok := getQuestionOr404(w, r, h.logger, h.store, questionID); !ok {
		return
	}
	if _, ok := getWaveOr404(w, r, h.logger, h.store, waveID); !ok {
		return
	}

	variables, err := h.store.ListVariablesByQuestionWave(r.Context(), questionID, waveID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"variables": variables,
		"total":     len(variables),
	})
}

// SetVariables replaces the variable set for one (question, wave) pairing.
// Removed pairings release their Variable<->Wave cache rows when no other
// triad holds them.
func (h *QuestionHandler) SetVariables(w http.ResponseWriter, r *http.Request) {
	questionID, ok := idParam(w, r, h.logger, "questionID", "question")
	if !ok {
		return
	}
	waveID, ok := idParam(w, r, h.logger, "waveID", "wave")
	if !ok {
		return
	}

	var req struct {
		VariableIDs []int64 `json:"variable_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if _, ok := getQuestionOr404(w, r, h.logger, h.store, questionID); !ok {
		return
	}
	wave, ok := getWaveOr404(w, r, h.logger, h.store, waveID)
	if !ok {
		return
	}
	if wave.IsLocked {
		writeAPIError(w, h.logger, apierr.LockedWave())
		return
	}

	err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		for _, vid := range req.VariableIDs {
			if _, err := q.GetVariable(r.Context(), vid); err != nil {
				if apierr.IsNotFound(err) {
					return apierr.VariableNotFound()
				}
				return err
			}
		}

		removed, err := q.ReplaceQuestionWaveTriads(r.Context(), questionID, waveID, req.VariableIDs)
		if err != nil {
			return err
		}
		for _, vid := range req.VariableIDs {
			if err := q.EnsureVariableWave(r.Context(), vid, waveID); err != nil {
				return err
			}
		}

		_, err = h.cleanup.ReleaseVariableWavePairs(r.Context(), q, removed)
		return err
	})
	if err != nil {
		writeError(w, h.logger, wrapUnlessAPIError(err, apierr.QuestionUpdateFailed))
		return
	}

	variables, err := h.store.ListVariablesByQuestionWave(r.Context(), questionID, waveID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"variables": variables,
		"total":     len(variables),
	})
}

// applyDetails syncs keywords, ordered items and answer options after a
// create or update.
func (h *QuestionHandler) applyDetails(r *http.Request, q *postgres.Queries, questionID int64, req questionRequest) error {
	if req.Keywords != nil {
		keywordIDs := make([]int64, 0, len(req.Keywords))
		for _, name := range req.Keywords {
			if name == "" {
				continue
			}
			k, err := q.UpsertKeyword(r.Context(), name)
			if err != nil {
				return err
			}
			keywordIDs = append(keywordIDs, k.ID)
		}
		if err := q.SetQuestionKeywords(r.Context(), questionID, keywordIDs); err != nil {
			return err
		}
	}
	if req.Items != nil {
		if err := q.ReplaceQuestionItems(r.Context(), questionID, req.Items); err != nil {
			return err
		}
	}
	if req.AnswerOptions != nil {
		if err := q.ReplaceAnswerOptions(r.Context(), questionID, req.AnswerOptions); err != nil {
			return err
		}
	}
	return nil
}

func (h *QuestionHandler) questionUnlockedOr409(w http.ResponseWriter, r *http.Request, questionID int64) bool {
	locked, err := h.store.QuestionHasLockedWave(r.Context(), questionID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return false
	}
	if locked {
		writeAPIError(w, h.logger, apierr.LockedWave())
		return false
	}
	return true
}
