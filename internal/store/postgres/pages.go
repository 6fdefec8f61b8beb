package postgres

import "context"

const pageColumns = `id, name, page_heading, introduction, transition_control,
	visibility_conditions, answer_validations, correction_notes,
	forcing_variables, helper_variables, control_variables, formatting,
	transitions, programming_notes, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var p Page
	err := row.Scan(&p.ID, &p.Name, &p.PageHeading, &p.Introduction,
		&p.TransitionControl, &p.VisibilityConditions, &p.AnswerValidations,
		&p.CorrectionNotes, &p.ForcingVariables, &p.HelperVariables,
		&p.ControlVariables, &p.Formatting, &p.Transitions,
		&p.ProgrammingNotes, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

type PageContent struct {
	PageHeading          string
	Introduction         string
	TransitionControl    string
	VisibilityConditions string
	AnswerValidations    string
	CorrectionNotes      string
	ForcingVariables     string
	HelperVariables      string
	ControlVariables     string
	Formatting           string
	Transitions          string
	ProgrammingNotes     string
}

type CreatePageParams struct {
	Name    string
	Content PageContent
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO pages (name, page_heading, introduction, transition_control,
		     visibility_conditions, answer_validations, correction_notes,
		     forcing_variables, helper_variables, control_variables, formatting,
		     transitions, programming_notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+pageColumns,
		arg.Name, arg.Content.PageHeading, arg.Content.Introduction,
		arg.Content.TransitionControl, arg.Content.VisibilityConditions,
		arg.Content.AnswerValidations, arg.Content.CorrectionNotes,
		arg.Content.ForcingVariables, arg.Content.HelperVariables,
		arg.Content.ControlVariables, arg.Content.Formatting,
		arg.Content.Transitions, arg.Content.ProgrammingNotes)
	return scanPage(row)
}

func (q *Queries) GetPage(ctx context.Context, id int64) (Page, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = $1`, id)
	return scanPage(row)
}

func (q *Queries) UpdatePageName(ctx context.Context, id int64, name string) error {
	_, err := q.db.Exec(ctx,
		`UPDATE pages SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	return err
}

func (q *Queries) UpdatePageContent(ctx context.Context, id int64, c PageContent) (Page, error) {
	row := q.db.QueryRow(ctx,
		`UPDATE pages SET page_heading = $2, introduction = $3,
		     transition_control = $4, visibility_conditions = $5,
		     answer_validations = $6, correction_notes = $7,
		     forcing_variables = $8, helper_variables = $9,
		     control_variables = $10, formatting = $11, transitions = $12,
		     programming_notes = $13, updated_at = now()
		 WHERE id = $1
		 RETURNING `+pageColumns,
		id, c.PageHeading, c.Introduction, c.TransitionControl,
		c.VisibilityConditions, c.AnswerValidations, c.CorrectionNotes,
		c.ForcingVariables, c.HelperVariables, c.ControlVariables,
		c.Formatting, c.Transitions, c.ProgrammingNotes)
	return scanPage(row)
}

func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM pages WHERE id = $1`, id)
	return err
}

func (q *Queries) ListPagesByWave(ctx context.Context, waveID int64) ([]Page, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+pageColumns+` FROM pages p
		 JOIN page_waves pw ON pw.page_id = p.id
		 WHERE pw.wave_id = $1
		 ORDER BY p.name`, waveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// AddPageWave links a page to a wave. The page_waves integrity trigger
// rejects cross-survey links and per-survey name collisions here.
func (q *Queries) AddPageWave(ctx context.Context, pageID, waveID int64) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO page_waves (page_id, wave_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, pageID, waveID)
	return err
}

func (q *Queries) RemovePageWaves(ctx context.Context, pageID int64, waveIDs []int64) error {
	_, err := q.db.Exec(ctx,
		`DELETE FROM page_waves WHERE page_id = $1 AND wave_id = ANY($2)`,
		pageID, waveIDs)
	return err
}

func (q *Queries) ListWaveIDsByPage(ctx context.Context, pageID int64) ([]int64, error) {
	return q.collectIDs(ctx,
		`SELECT wave_id FROM page_waves WHERE page_id = $1 ORDER BY wave_id`, pageID)
}

func (q *Queries) ListQuestionIDsByPage(ctx context.Context, pageID int64) ([]int64, error) {
	return q.collectIDs(ctx,
		`SELECT question_id FROM page_questions WHERE page_id = $1 ORDER BY question_id`, pageID)
}

// ListSurveyIDsByPage returns the distinct surveys reachable through the
// page's waves. More than one element means the scope-containment
// invariant was violated somewhere it should not have been possible.
func (q *Queries) ListSurveyIDsByPage(ctx context.Context, pageID int64) ([]int64, error) {
	return q.collectIDs(ctx,
		`SELECT DISTINCT w.survey_id FROM page_waves pw
		 JOIN waves w ON w.id = pw.wave_id
		 WHERE pw.page_id = $1`, pageID)
}

// PageNameExistsInSurvey probes for a case-insensitive page-name collision
// within a survey, optionally excluding one page (0 = exclude none).
func (q *Queries) PageNameExistsInSurvey(ctx context.Context, name string, surveyID, excludePageID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM pages p
		     JOIN page_waves pw ON pw.page_id = p.id
		     JOIN waves w ON w.id = pw.wave_id
		     WHERE lower(p.name) = lower($1)
		       AND w.survey_id = $2
		       AND p.id <> $3
		 )`, name, surveyID, excludePageID).Scan(&exists)
	return exists, err
}
