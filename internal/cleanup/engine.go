// Package cleanup keeps the derived link caches consistent with the
// page/question graph. A Wave<->Question link exists only while some page
// links both the question and the wave (or it was created directly); a
// Variable<->Wave link exists only while a triad row asserts usage. Every
// mutation that can invalidate either cache calls into this engine inside
// its own transaction; no other code writes the cache tables.
package cleanup

import (
	"context"
	"log/slog"

	"github.com/slclab/surveybase/internal/store/postgres"
)

type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger}
}

// ReleaseQuestionUsage removes Wave<->Question links for the questions
// just detached from a page, for every wave the page was linked to before
// the mutation. A link survives when any other page still requires it.
// The caller must capture waveIDs before mutating the page's wave set or
// deleting the page; the links are unrecoverable afterwards.
// Returns the number of links removed.
func (e *Engine) ReleaseQuestionUsage(ctx context.Context, q *postgres.Queries, pageID int64, removedQuestionIDs, waveIDs []int64) (int64, error) {
	if len(removedQuestionIDs) == 0 || len(waveIDs) == 0 {
		return 0, nil
	}

	deleted, err := q.ReleaseWaveQuestions(ctx, pageID, waveIDs, removedQuestionIDs)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		e.logger.Info("released wave-question links",
			slog.Int64("page_id", pageID),
			slog.Int64("deleted", deleted))
	}
	return deleted, nil
}

// FindNewlyOrphaned returns the candidates that have zero Wave<->Question
// links left anywhere. Pure read; the caller decides whether to start an
// orphan review. Never deletes anything.
func (e *Engine) FindNewlyOrphaned(ctx context.Context, q *postgres.Queries, candidateQuestionIDs []int64) ([]int64, error) {
	if len(candidateQuestionIDs) == 0 {
		return nil, nil
	}
	return q.ListOrphanedQuestions(ctx, candidateQuestionIDs)
}

// ReleaseVariableUsage deletes triad rows for (question, wave) pairings
// that no longer hold (the question fell out of the wave), then removes
// Variable<->Wave links for the touched pairs that have no remaining triad.
// Variables flagged technical keep their wave links regardless. Must run
// after ReleaseQuestionUsage in the same transaction, since staleness is
// judged against the already-cleaned wave_questions table.
// Returns the number of Variable<->Wave links removed.
func (e *Engine) ReleaseVariableUsage(ctx context.Context, q *postgres.Queries, waveIDs, removedQuestionIDs []int64) (int64, error) {
	if len(removedQuestionIDs) == 0 || len(waveIDs) == 0 {
		return 0, nil
	}

	touched, err := q.DeleteStaleTriads(ctx, waveIDs, removedQuestionIDs)
	if err != nil {
		return 0, err
	}
	if len(touched) == 0 {
		return 0, nil
	}

	released, err := q.ReleaseVariableWaves(ctx, DedupPairs(touched))
	if err != nil {
		return 0, err
	}
	if released > 0 {
		e.logger.Info("released variable-wave links",
			slog.Int("triads_deleted", len(touched)),
			slog.Int64("links_released", released))
	}
	return released, nil
}

// ReleaseVariableWavePairs runs only the cache-release half of
// ReleaseVariableUsage, for callers that already deleted triad rows
// themselves (question deletion, triad replacement).
func (e *Engine) ReleaseVariableWavePairs(ctx context.Context, q *postgres.Queries, touched []postgres.VariableWavePair) (int64, error) {
	if len(touched) == 0 {
		return 0, nil
	}
	return q.ReleaseVariableWaves(ctx, DedupPairs(touched))
}

// DiffQuestionSets splits a page's question membership change into the IDs
// to detach and the IDs to attach.
func DiffQuestionSets(existing, desired []int64) (toRemove, toAdd []int64) {
	have := make(map[int64]bool, len(existing))
	for _, id := range existing {
		have[id] = true
	}
	want := make(map[int64]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}

	for _, id := range existing {
		if !want[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range desired {
		if !have[id] {
			toAdd = append(toAdd, id)
		}
	}
	return toRemove, toAdd
}

// DedupPairs collapses duplicate (variable, wave) pairs, preserving first
// occurrence order.
func DedupPairs(pairs []postgres.VariableWavePair) []postgres.VariableWavePair {
	seen := make(map[postgres.VariableWavePair]bool, len(pairs))
	out := pairs[:0:0]
	for _, p := range pairs {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
