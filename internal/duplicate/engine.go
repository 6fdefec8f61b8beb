// Package duplicate clones a page into another survey's waves. Derived
// link rows (wave_questions, variable_waves, triads) are re-derived for
// the target waves rather than copied, so the clone can never smuggle a
// foreign key that violates the survey-scope invariants.
package duplicate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slclab/surveybase/internal/store"
	"github.com/slclab/surveybase/internal/store/postgres"
	"github.com/slclab/surveybase/pkg/apierr"
)

type Engine struct {
	store  *store.Store
	logger *slog.Logger
}

func NewEngine(s *store.Store, logger *slog.Logger) *Engine {
	return &Engine{store: s, logger: logger}
}

// Request describes one page duplication.
type Request struct {
	SourcePageID     int64
	TargetSurveyID   int64
	TargetWaveIDs    []int64
	NewName          string
	IncludeQuestions bool
	IncludeVariables bool
}

// Normalize applies the rule that variables are meaningless without their
// owning questions: variable replication without question replication is
// silently demoted.
func (r *Request) Normalize() {
	if r.IncludeVariables && !r.IncludeQuestions {
		r.IncludeVariables = false
	}
}

// ValidateTargets checks the waves fetched for the target survey against
// the requested IDs: every requested wave must belong to the target survey
// and none may be locked.
func ValidateTargets(requested []int64, found []postgres.Wave) *apierr.Error {
	if len(requested) == 0 {
		return apierr.TargetWavesMissing()
	}
	if len(found) != len(dedup(requested)) {
		return apierr.WaveNotInSurvey()
	}
	for _, w := range found {
		if w.IsLocked {
			return apierr.LockedWave()
		}
	}
	return nil
}

// DuplicatePage runs the whole §copy flow in one transaction: validate
// targets, create the page, link target waves, then optionally replicate
// questions and variable usage with duplicate-tolerant inserts. Either
// every step commits or none does.
func (e *Engine) DuplicatePage(ctx context.Context, req Request) (postgres.Page, error) {
	req.Normalize()

	var newPage postgres.Page
	err := e.store.WithTx(ctx, func(q *postgres.Queries) error {
		source, err := q.GetPage(ctx, req.SourcePageID)
		if err != nil {
			if apierr.IsNotFound(err) {
				return apierr.PageNotFound()
			}
			return fmt.Errorf("load source page: %w", err)
		}

		targetWaves, err := q.ListWavesInSurveyByIDs(ctx, req.TargetSurveyID, req.TargetWaveIDs)
		if err != nil {
			return fmt.Errorf("load target waves: %w", err)
		}
		if verr := ValidateTargets(req.TargetWaveIDs, targetWaves); verr != nil {
			return verr
		}

		collides, err := q.PageNameExistsInSurvey(ctx, req.NewName, req.TargetSurveyID, 0)
		if err != nil {
			return fmt.Errorf("check page name: %w", err)
		}
		if collides {
			return apierr.NameCollision(req.NewName)
		}

		// 1) new page with copied content fields; name and wave links are not copied
		newPage, err = q.CreatePage(ctx, postgres.CreatePageParams{
			Name: req.NewName,
			Content: postgres.PageContent{
				PageHeading:          source.PageHeading,
				Introduction:         source.Introduction,
				TransitionControl:    source.TransitionControl,
				VisibilityConditions: source.VisibilityConditions,
				AnswerValidations:    source.AnswerValidations,
				CorrectionNotes:      source.CorrectionNotes,
				ForcingVariables:     source.ForcingVariables,
				HelperVariables:      source.HelperVariables,
				ControlVariables:     source.ControlVariables,
				Formatting:           source.Formatting,
				Transitions:          source.Transitions,
				ProgrammingNotes:     source.ProgrammingNotes,
			},
		})
		if err != nil {
			return fmt.Errorf("create page: %w", err)
		}

		// 2) wave links; the integrity trigger re-checks scope and name here
		for _, w := range targetWaves {
			if err := q.AddPageWave(ctx, newPage.ID, w.ID); err != nil {
				switch {
				case apierr.IsNameCollision(err):
					return apierr.NameCollision(req.NewName)
				case apierr.IsIntegrityViolation(err):
					return apierr.ScopeViolation(err)
				}
				return fmt.Errorf("link wave %d: %w", w.ID, err)
			}
		}

		var questionIDs []int64
		if req.IncludeQuestions || req.IncludeVariables {
			questionIDs, err = q.ListQuestionIDsByPage(ctx, req.SourcePageID)
			if err != nil {
				return fmt.Errorf("list source questions: %w", err)
			}
		}
		if len(questionIDs) == 0 {
			req.IncludeVariables = false
		}

		// 3) question links, idempotent per target wave
		if req.IncludeQuestions {
			for _, qid := range questionIDs {
				if err := q.AddPageQuestion(ctx, newPage.ID, qid); err != nil {
					return fmt.Errorf("link question %d: %w", qid, err)
				}
				for _, w := range targetWaves {
					if err := q.EnsureWaveQuestion(ctx, w.ID, qid); err != nil {
						return fmt.Errorf("link question %d to wave %d: %w", qid, w.ID, err)
					}
				}
			}
		}

		// 4) variable usage, re-derived from the source survey's triads
		if req.IncludeVariables {
			if err := e.replicateVariables(ctx, q, req, targetWaves, questionIDs); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return postgres.Page{}, err
	}

	e.logger.Info("duplicated page",
		slog.Int64("source_page_id", req.SourcePageID),
		slog.Int64("new_page_id", newPage.ID),
		slog.Int64("target_survey_id", req.TargetSurveyID),
		slog.Bool("questions", req.IncludeQuestions),
		slog.Bool("variables", req.IncludeVariables))
	return newPage, nil
}

func (e *Engine) replicateVariables(ctx context.Context, q *postgres.Queries, req Request, targetWaves []postgres.Wave, questionIDs []int64) error {
	sourceSurveyIDs, err := q.ListSurveyIDsByPage(ctx, req.SourcePageID)
	if err != nil {
		return fmt.Errorf("determine source survey: %w", err)
	}
	if len(sourceSurveyIDs) != 1 {
		// zero waves means there is no survey to read variable usage
		// from; more than one is structurally impossible while the
		// page_waves trigger holds
		e.logger.Error("cannot determine source survey for page",
			slog.Int64("page_id", req.SourcePageID),
			slog.Int("survey_count", len(sourceSurveyIDs)))
		return apierr.AmbiguousSourceScope(fmt.Errorf("page %d reaches %d surveys", req.SourcePageID, len(sourceSurveyIDs)))
	}

	pairs, err := q.ListSurveyTriadPairs(ctx, sourceSurveyIDs[0], questionIDs)
	if err != nil {
		return fmt.Errorf("collect variable usage: %w", err)
	}

	for _, pair := range pairs {
		for _, w := range targetWaves {
			if err := q.EnsureTriad(ctx, pair.QuestionID, pair.VariableID, w.ID); err != nil {
				return fmt.Errorf("copy triad (%d,%d) to wave %d: %w", pair.QuestionID, pair.VariableID, w.ID, err)
			}
			if err := q.EnsureVariableWave(ctx, pair.VariableID, w.ID); err != nil {
				return fmt.Errorf("link variable %d to wave %d: %w", pair.VariableID, w.ID, err)
			}
		}
	}
	return nil
}

func dedup(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
