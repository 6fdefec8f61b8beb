package postgres

import (
	"context"
	"time"
)

const waveColumns = `id, survey_id, cycle, instrument, start_date, end_date, is_locked, created_at, updated_at`

func scanWave(row interface{ Scan(...any) error }) (Wave, error) {
	var w Wave
	err := row.Scan(&w.ID, &w.SurveyID, &w.Cycle, &w.Instrument,
		&w.StartDate, &w.EndDate, &w.IsLocked, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (q *Queries) collectWaves(ctx context.Context, sql string, args ...any) ([]Wave, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Wave
	for rows.Next() {
		w, err := scanWave(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

type CreateWaveParams struct {
	SurveyID   int64
	Cycle      string
	Instrument string
	StartDate  *time.Time
	EndDate    *time.Time
}

func (q *Queries) CreateWave(ctx context.Context, arg CreateWaveParams) (Wave, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO waves (survey_id, cycle, instrument, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+waveColumns,
		arg.SurveyID, arg.Cycle, arg.Instrument, arg.StartDate, arg.EndDate)
	return scanWave(row)
}

func (q *Queries) GetWave(ctx context.Context, id int64) (Wave, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+waveColumns+` FROM waves WHERE id = $1`, id)
	return scanWave(row)
}

func (q *Queries) ListWavesBySurvey(ctx context.Context, surveyID int64) ([]Wave, error) {
	return q.collectWaves(ctx,
		`SELECT `+waveColumns+` FROM waves WHERE survey_id = $1
		 ORDER BY cycle, instrument, id`, surveyID)
}

// ListWavesInSurveyByIDs returns the waves among ids that belong to
// surveyID. Callers compare the result length against len(ids) to detect
// waves from a different survey.
func (q *Queries) ListWavesInSurveyByIDs(ctx context.Context, surveyID int64, ids []int64) ([]Wave, error) {
	return q.collectWaves(ctx,
		`SELECT `+waveColumns+` FROM waves
		 WHERE survey_id = $1 AND id = ANY($2)
		 ORDER BY cycle, instrument, id`, surveyID, ids)
}

func (q *Queries) ListWavesByPage(ctx context.Context, pageID int64) ([]Wave, error) {
	return q.collectWaves(ctx,
		`SELECT `+waveColumns+` FROM waves w
		 JOIN page_waves pw ON pw.wave_id = w.id
		 WHERE pw.page_id = $1
		 ORDER BY w.cycle, w.instrument, w.id`, pageID)
}

func (q *Queries) DeleteWave(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM waves WHERE id = $1`, id)
	return err
}

func (q *Queries) LockWave(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx,
		`UPDATE waves SET is_locked = true, updated_at = now() WHERE id = $1`, id)
	return err
}

// ListQuestionIDsByWave returns the IDs of questions in scope for a wave.
// Captured before a wave delete, since the links vanish with the wave.
func (q *Queries) ListQuestionIDsByWave(ctx context.Context, waveID int64) ([]int64, error) {
	return q.collectIDs(ctx,
		`SELECT question_id FROM wave_questions WHERE wave_id = $1`, waveID)
}

// PageHasLockedWave reports whether any wave linked to the page is locked.
// Locked waves gate every mutating operation on the page.
func (q *Queries) PageHasLockedWave(ctx context.Context, pageID int64) (bool, error) {
	var locked bool
	err := q.db.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM page_waves pw
		     JOIN waves w ON w.id = pw.wave_id
		     WHERE pw.page_id = $1 AND w.is_locked
		 )`, pageID).Scan(&locked)
	return locked, err
}

func (q *Queries) QuestionHasLockedWave(ctx context.Context, questionID int64) (bool, error) {
	var locked bool
	err := q.db.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM wave_questions wq
		     JOIN waves w ON w.id = wq.wave_id
		     WHERE wq.question_id = $1 AND w.is_locked
		 )`, questionID).Scan(&locked)
	return locked, err
}

// VariableHasLockedWave checks both the triad table and the direct
// Variable<->Wave links, either one pins the variable to a locked wave.
func (q *Queries) VariableHasLockedWave(ctx context.Context, variableID int64) (bool, error) {
	var locked bool
	err := q.db.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM question_variable_waves t
		     JOIN waves w ON w.id = t.wave_id
		     WHERE t.variable_id = $1 AND w.is_locked
		 ) OR EXISTS (
		     SELECT 1 FROM variable_waves vw
		     JOIN waves w ON w.id = vw.wave_id
		     WHERE vw.variable_id = $1 AND w.is_locked
		 )`, variableID).Scan(&locked)
	return locked, err
}

func (q *Queries) collectIDs(ctx context.Context, sql string, args ...any) ([]int64, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
