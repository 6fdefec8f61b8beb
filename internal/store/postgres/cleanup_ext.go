package postgres

// cleanup_ext.go contains the queries that mutate the derived link caches
// (wave_questions, variable_waves). They are called only from
// internal/cleanup and internal/duplicate; handlers never touch these
// tables directly, so every invalidation funnels through one write path.

import "context"

// ReleaseWaveQuestions deletes Wave<->Question links for the cross product
// of waveIDs x questionIDs, keeping any link that some other page (not
// pageID) still requires: a page linking both the question and a wave in
// waveIDs. Single set-based statement, returns the number of links removed.
func (q *Queries) ReleaseWaveQuestions(ctx context.Context, pageID int64, waveIDs, questionIDs []int64) (int64, error) {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM wave_questions wq
		 WHERE wq.wave_id = ANY($2)
		   AND wq.question_id = ANY($3)
		   AND NOT EXISTS (
		       SELECT 1
		       FROM page_questions pq
		       JOIN page_waves pw ON pw.page_id = pq.page_id
		       WHERE pq.question_id = wq.question_id
		         AND pw.wave_id = wq.wave_id
		         AND pq.page_id <> $1
		   )`, pageID, waveIDs, questionIDs)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListOrphanedQuestions returns the subset of candidates with zero
// Wave<->Question links left anywhere. Pure read, no side effects.
func (q *Queries) ListOrphanedQuestions(ctx context.Context, candidateIDs []int64) ([]int64, error) {
	return q.collectIDs(ctx,
		`SELECT c.id FROM unnest($1::bigint[]) AS c(id)
		 WHERE NOT EXISTS (
		     SELECT 1 FROM wave_questions wq WHERE wq.question_id = c.id
		 )
		 ORDER BY c.id`, candidateIDs)
}

// DeleteStaleTriads removes triad rows for (question, wave) pairings that
// no longer have a Wave<->Question link, i.e. the question fell out of the
// wave entirely. Returns the distinct (variable, wave) pairs touched so
// the caller can release the derived Variable<->Wave cache.
func (q *Queries) DeleteStaleTriads(ctx context.Context, waveIDs, questionIDs []int64) ([]VariableWavePair, error) {
	rows, err := q.db.Query(ctx,
		`DELETE FROM question_variable_waves t
		 WHERE t.wave_id = ANY($1)
		   AND t.question_id = ANY($2)
		   AND NOT EXISTS (
		       SELECT 1 FROM wave_questions wq
		       WHERE wq.wave_id = t.wave_id AND wq.question_id = t.question_id
		   )
		 RETURNING t.variable_id, t.wave_id`, waveIDs, questionIDs)
	if err != nil {
		return nil, err
	}
	return collectVariableWavePairs(rows)
}

// ReleaseVariableWaves removes the Variable<->Wave cache rows among pairs
// for which no triad remains, skipping variables flagged technical.
// Returns the number of links removed.
func (q *Queries) ReleaseVariableWaves(ctx context.Context, pairs []VariableWavePair) (int64, error) {
	if len(pairs) == 0 {
		return 0, nil
	}
	variableIDs := make([]int64, len(pairs))
	waveIDs := make([]int64, len(pairs))
	for i, p := range pairs {
		variableIDs[i] = p.VariableID
		waveIDs[i] = p.WaveID
	}

	tag, err := q.db.Exec(ctx,
		`DELETE FROM variable_waves vw
		 USING variables v, unnest($1::bigint[], $2::bigint[]) AS touched(variable_id, wave_id)
		 WHERE v.id = vw.variable_id
		   AND vw.variable_id = touched.variable_id
		   AND vw.wave_id = touched.wave_id
		   AND NOT v.is_technical
		   AND NOT EXISTS (
		       SELECT 1 FROM question_variable_waves t
		       WHERE t.variable_id = vw.variable_id AND t.wave_id = vw.wave_id
		   )`, variableIDs, waveIDs)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
