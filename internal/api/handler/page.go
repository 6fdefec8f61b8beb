package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/slclab/surveybase/internal/cleanup"
	"github.com/slclab/surveybase/internal/duplicate"
	"github.com/slclab/surveybase/internal/orphan"
	"github.com/slclab/surveybase/internal/store"
	"github.com/slclab/surveybase/internal/store/postgres"
	"github.com/slclab/surveybase/pkg/apierr"
)

type PageHandler struct {
	logger    *slog.Logger
	store     *store.Store
	cleanup   *cleanup.Engine
	duplicate *duplicate.Engine
	reviews   *orphan.Manager
}

func NewPageHandler(logger *slog.Logger, s *store.Store, ce *cleanup.Engine, de *duplicate.Engine, reviews *orphan.Manager) *PageHandler {
	return &PageHandler{logger: logger, store: s, cleanup: ce, duplicate: de, reviews: reviews}
}

type pageContentRequest struct {
	PageHeading          string `json:"page_heading"`
	Introduction         string `json:"introduction"`
	TransitionControl    string `json:"transition_control"`
	VisibilityConditions string `json:"visibility_conditions"`
	AnswerValidations    string `json:"answer_validations"`
	CorrectionNotes      string `json:"correction_notes"`
	ForcingVariables     string `json:"forcing_variables"`
	HelperVariables      string `json:"helper_variables"`
	ControlVariables     string `json:"control_variables"`
	Formatting           string `json:"formatting"`
	Transitions          string `json:"transitions"`
	ProgrammingNotes     string `json:"programming_notes"`
}

func (c pageContentRequest) toContent() postgres.PageContent {
	return postgres.PageContent{
		PageHeading:          c.PageHeading,
		Introduction:         c.Introduction,
		TransitionControl:    c.TransitionControl,
		VisibilityConditions: c.VisibilityConditions,
		AnswerValidations:    c.AnswerValidations,
		CorrectionNotes:      c.CorrectionNotes,
		ForcingVariables:     c.ForcingVariables,
		HelperVariables:      c.HelperVariables,
		ControlVariables:     c.ControlVariables,
		Formatting:           c.Formatting,
		Transitions:          c.Transitions,
		ProgrammingNotes:     c.ProgrammingNotes,
	}
}

// checkWaveSelection loads the requested waves and verifies they all belong
// to the survey and none is locked.
func checkWaveSelection(r *http.Request, q *postgres.Queries, surveyID int64, waveIDs []int64) ([]postgres.Wave, *apierr.Error) {
	if len(waveIDs) == 0 {
		return nil, apierr.TargetWavesMissing()
	}
	waves, err := q.ListWavesInSurveyByIDs(r.Context(), surveyID, waveIDs)
	if err != nil {
		return nil, apierr.InternalError(err)
	}
	return waves, duplicate.ValidateTargets(waveIDs, waves)
}

func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		SurveyID int64   `json:"survey_id"`
		WaveIDs  []int64 `json:"wave_ids"`
		pageContentRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateName(req.Name); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	if _, ok := getSurveyOr404(w, r, h.logger, h.store, req.SurveyID); !ok {
		return
	}

	var page postgres.Page
	err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		_, verr := checkWaveSelection(r, q, req.SurveyID, req.WaveIDs)
		if verr != nil {
			return verr
		}

		taken, err := q.PageNameExistsInSurvey(r.Context(), req.Name, req.SurveyID, 0)
		if err != nil {
			return err
		}
		if taken {
			return apierr.NameCollision(req.Name)
		}

		page, err = q.CreatePage(r.Context(), postgres.CreatePageParams{
			Name:    req.Name,
			Content: req.toContent(),
		})
		if err != nil {
			return err
		}

		for _, waveID := range req.WaveIDs {
			if err := q.AddPageWave(r.Context(), page.ID, waveID); err != nil {
				switch {
				case apierr.IsNameCollision(err):
					return apierr.NameCollision(req.Name)
				case apierr.IsIntegrityViolation(err):
					return apierr.ScopeViolation(err)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		writeError(w, h.logger, wrapUnlessAPIError(err, apierr.PageCreateFailed))
		return
	}

	writeJSON(w, http.StatusCreated, page)
}

func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "pageID", "page")
	if !ok {
		return
	}

	page, ok := getPageOr404(w, r, h.logger, h.store, id)
	if !ok {
		return
	}

	waves, err := h.store.ListWavesByPage(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	questions, err := h.store.ListQuestionsByPage(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"page":      page,
		"waves":     waves,
		"questions": questions,
	})
}

// UpdateContent replaces the page's editorial content fields. Name and wave
// membership have their own endpoint since they trigger cleanup.
func (h *PageHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "pageID", "page")
	if !ok {
		return
	}

	var req pageContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if _, ok := getPageOr404(w, r, h.logger, h.store, id); !ok {
		return
	}
	if !h.pageUnlockedOr409(w, r, id) {
		return
	}

	page, err := h.store.UpdatePageContent(r.Context(), id, req.toContent())
	if err != nil {
		writeAPIError(w, h.logger, apierr.PageUpdateFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Update changes the page's name and wave membership. Dropping a wave from
// the page releases Wave<->Question and Variable<->Wave links that only
// this page justified, and may orphan questions.
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "pageID", "page")
	if !ok {
		return
	}

	var req struct {
		Name     string  `json:"name"`
		SurveyID int64   `json:"survey_id"`
		WaveIDs  []int64 `json:"wave_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateName(req.Name); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	page, ok := getPageOr404(w, r, h.logger, h.store, id)
	if !ok {
		return
	}
	if !h.pageUnlockedOr409(w, r, id) {
		return
	}

	var orphaned []int64
	err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		_, verr := checkWaveSelection(r, q, req.SurveyID, req.WaveIDs)
		if verr != nil {
			return verr
		}

		// checked against the requested survey even when the name is
		// unchanged; moving a page can collide with a name over there
		taken, err := q.PageNameExistsInSurvey(r.Context(), req.Name, req.SurveyID, id)
		if err != nil {
			return err
		}
		if taken {
			return apierr.NameCollision(req.Name)
		}
		if req.Name != page.Name {
			if err := q.UpdatePageName(r.Context(), id, req.Name); err != nil {
				return err
			}
		}

		oldWaveIDs, err := q.ListWaveIDsByPage(r.Context(), id)
		if err != nil {
			return err
		}
		removedWaves, addedWaves := cleanup.DiffQuestionSets(oldWaveIDs, req.WaveIDs)

		questionIDs, err := q.ListQuestionIDsByPage(r.Context(), id)
		if err != nil {
			return err
		}

		if len(removedWaves) > 0 {
			if err := q.RemovePageWaves(r.Context(), id, removedWaves); err != nil {
				return err
			}
			if _, err := h.cleanup.ReleaseQuestionUsage(r.Context(), q, id, questionIDs, removedWaves); err != nil {
				return err
			}
			if _, err := h.cleanup.ReleaseVariableUsage(r.Context(), q, removedWaves, questionIDs); err != nil {
				return err
			}
		}

		for _, waveID := range addedWaves {
			if err := q.AddPageWave(r.Context(), id, waveID); err != nil {
				switch {
				case apierr.IsNameCollision(err):
					return apierr.NameCollision(req.Name)
				case apierr.IsIntegrityViolation(err):
					return apierr.ScopeViolation(err)
				}
				return err
			}
			for _, qid := range questionIDs {
				if err := q.EnsureWaveQuestion(r.Context(), waveID, qid); err != nil {
					return err
				}
			}
		}

		orphaned, err = h.cleanup.FindNewlyOrphaned(r.Context(), q, questionIDs)
		return err
	})
	if err != nil {
		writeError(w, h.logger, wrapUnlessAPIError(err, apierr.PageUpdateFailed))
		return
	}

	h.respondWithOrphans(w, r, id, orphaned)
}

// SetQuestions replaces the page's question membership wholesale. Detached
// questions lose the Wave<->Question links this page justified, stale
// variable usage is released, and freshly orphaned questions go to review.
func (h *PageHandler) SetQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "pageID", "page")
	if !ok {
		return
	}

	var req struct {
		QuestionIDs []int64 `json:"question_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if _, ok := getPageOr404(w, r, h.logger, h.store, id); !ok {
		return
	}
	if !h.pageUnlockedOr409(w, r, id) {
		return
	}

	var orphaned []int64
	err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		waveIDs, err := q.ListWaveIDsByPage(r.Context(), id)
		if err != nil {
			return err
		}
		existing, err := q.ListQuestionIDsByPage(r.Context(), id)
		if err != nil {
			return err
		}
		toRemove, toAdd := cleanup.DiffQuestionSets(existing, req.QuestionIDs)

		if len(toRemove) > 0 {
			if err := q.RemovePageQuestions(r.Context(), id, toRemove); err != nil {
				return err
			}
			if _, err := h.cleanup.ReleaseQuestionUsage(r.Context(), q, id, toRemove, waveIDs); err != nil {
				return err
			}
			if _, err := h.cleanup.ReleaseVariableUsage(r.Context(), q, waveIDs, toRemove); err != nil {
				return err
			}
		}

		for _, qid := range toAdd {
			if _, err := q.GetQuestion(r.Context(), qid); err != nil {
				if apierr.IsNotFound(err) {
					return apierr.QuestionNotFound()
				}
				return err
			}
			if err := q.AddPageQuestion(r.Context(), id, qid); err != nil {
				return err
			}
			for _, waveID := range waveIDs {
				if err := q.EnsureWaveQuestion(r.Context(), waveID, qid); err != nil {
					return err
				}
			}
		}

		orphaned, err = h.cleanup.FindNewlyOrphaned(r.Context(), q, toRemove)
		return err
	})
	if err != nil {
		writeError(w, h.logger, wrapUnlessAPIError(err, apierr.PageUpdateFailed))
		return
	}

	h.respondWithOrphans(w, r, id, orphaned)
}

func (h *PageHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "pageID", "page")
	if !ok {
		return
	}

	if _, ok := getPageOr404(w, r, h.logger, h.store, id); !ok {
		return
	}

	questions, err := h.store.ListQuestionsByPage(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"questions": questions,
		"total":     len(questions),
	})
}

// Delete removes the page and releases every derived link it justified.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "pageID", "page")
	if !ok {
		return
	}

	if _, ok := getPageOr404(w, r, h.logger, h.store, id); !ok {
		return
	}
	if !h.pageUnlockedOr409(w, r, id) {
		return
	}

	var orphaned []int64
	err := h.store.WithTx(r.Context(), func(q *postgres.Queries) error {
		// capture both link sets before the cascade wipes them
		waveIDs, err := q.ListWaveIDsByPage(r.Context(), id)
		if err != nil {
			return err
		}
		questionIDs, err := q.ListQuestionIDsByPage(r.Context(), id)
		if err != nil {
			return err
		}

		if err := q.DeletePage(r.Context(), id); err != nil {
			return err
		}

		if _, err := h.cleanup.ReleaseQuestionUsage(r.Context(), q, id, questionIDs, waveIDs); err != nil {
			return err
		}
		if _, err := h.cleanup.ReleaseVariableUsage(r.Context(), q, waveIDs, questionIDs); err != nil {
			return err
		}

		orphaned, err = h.cleanup.FindNewlyOrphaned(r.Context(), q, questionIDs)
		return err
	})
	if err != nil {
		writeError(w, h.logger, wrapUnlessAPIError(err, apierr.PageDeleteFailed))
		return
	}

	h.respondWithOrphans(w, r, id, orphaned)
}

// Duplicate copies the page into waves of another survey.
func (h *PageHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "pageID", "page")
	if !ok {
		return
	}

	var req struct {
		TargetSurveyID   int64   `json:"target_survey_id"`
		TargetWaveIDs    []int64 `json:"target_wave_ids"`
		NewName          string  `json:"new_name"`
		IncludeQuestions bool    `json:"include_questions"`
		IncludeVariables bool    `json:"include_variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateName(req.NewName); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}
	if _, ok := getSurveyOr404(w, r, h.logger, h.store, req.TargetSurveyID); !ok {
		return
	}

	page, err := h.duplicate.DuplicatePage(r.Context(), duplicate.Request{
		SourcePageID:     id,
		TargetSurveyID:   req.TargetSurveyID,
		TargetWaveIDs:    req.TargetWaveIDs,
		NewName:          req.NewName,
		IncludeQuestions: req.IncludeQuestions,
		IncludeVariables: req.IncludeVariables,
	})
	if err != nil {
		writeError(w, h.logger, wrapUnlessAPIError(err, apierr.PageDuplicateFailed))
		return
	}

	writeJSON(w, http.StatusCreated, page)
}

// CheckName probes for a page-name collision without creating anything.
// Used by the editor while typing.
func (h *PageHandler) CheckName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	surveyID, err := strconv.ParseInt(r.URL.Query().Get("survey_id"), 10, 64)
	if err != nil || surveyID <= 0 {
		writeAPIError(w, h.logger, apierr.InvalidID("survey"))
		return
	}
	excludePageID, _ := strconv.ParseInt(r.URL.Query().Get("exclude_page_id"), 10, 64)

	if verr := validateName(name); verr != nil {
		writeAPIError(w, h.logger, verr)
		return
	}

	taken, err := h.store.PageNameExistsInSurvey(r.Context(), name, surveyID, excludePageID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":      name,
		"available": !taken,
	})
}

// pageUnlockedOr409 enforces the locked-wave gate shared by every page
// mutation. Writes the 409 itself and returns false when gated.
func (h *PageHandler) pageUnlockedOr409(w http.ResponseWriter, r *http.Request, pageID int64) bool {
	locked, err := h.store.PageHasLockedWave(r.Context(), pageID)
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

// respondWithOrphans reports a completed page mutation, starting an orphan
// review when questions fell out of their last wave.
func (h *PageHandler) respondWithOrphans(w http.ResponseWriter, r *http.Request, pageID int64, orphaned []int64) {
	reviewStarted := false
	if len(orphaned) > 0 && h.reviews != nil {
		session := editorSession(w, r)
		returnURL := r.URL.Query().Get("return")
		if err := h.reviews.Start(r.Context(), session, orphaned, returnURL); err != nil {
			h.logger.Error("failed to start orphan review",
				slog.Int64("page_id", pageID), slog.String("error", err.Error()))
		} else {
			reviewStarted = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orphan_question_ids": orphaned,
		"review_started":      reviewStarted,
	})
}

// wrapUnlessAPIError keeps apierr values as-is and wraps raw storage errors
// with the operation's failure constructor.
func wrapUnlessAPIError(err error, wrap func(error) *apierr.Error) error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	return wrap(err)
}
