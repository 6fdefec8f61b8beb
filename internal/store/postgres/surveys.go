package postgres

import "context"

const surveyColumns = `id, name, year, created_at, updated_at`

func scanSurvey(row interface{ Scan(...any) error }) (Survey, error) {
	var s Survey
	err := row.Scan(&s.ID, &s.Name, &s.Year, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

type CreateSurveyParams struct {
	Name string
	Year *int16
}

func (q *Queries) CreateSurvey(ctx context.Context, arg CreateSurveyParams) (Survey, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO surveys (name, year) VALUES ($1, $2) RETURNING `+surveyColumns,
		arg.Name, arg.Year)
	return scanSurvey(row)
}

func (q *Queries) GetSurvey(ctx context.Context, id int64) (Survey, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+surveyColumns+` FROM surveys WHERE id = $1`, id)
	return scanSurvey(row)
}

func (q *Queries) ListSurveys(ctx context.Context) ([]Survey, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+surveyColumns+` FROM surveys ORDER BY year DESC NULLS LAST, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// ListDuplicationTargetSurveys returns surveys with at least one unlocked
// wave. Locked waves cannot receive copied pages, so surveys without an
// unlocked wave are not offered as duplication targets.
func (q *Queries) ListDuplicationTargetSurveys(ctx context.Context) ([]Survey, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+surveyColumns+` FROM surveys s
		 WHERE EXISTS (
		     SELECT 1 FROM waves w WHERE w.survey_id = s.id AND NOT w.is_locked
		 )
		 ORDER BY year DESC NULLS LAST, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
