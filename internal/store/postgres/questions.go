package postgres

import "context"

const questionColumns = `id, question_text, question_type, instruction, item_stem, construct, created_at, updated_at`

func scanQuestion(row interface{ Scan(...any) error }) (Question, error) {
	var qu Question
	err := row.Scan(&qu.ID, &qu.QuestionText, &qu.QuestionType, &qu.Instruction,
		&qu.ItemStem, &qu.Construct, &qu.CreatedAt, &qu.UpdatedAt)
	return qu, err
}

type QuestionParams struct {
	QuestionText string
	QuestionType string
	Instruction  string
	ItemStem     string
	Construct    string
}

func (q *Queries) CreateQuestion(ctx context.Context, arg QuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO questions (question_text, question_type, instruction, item_stem, construct)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+questionColumns,
		arg.QuestionText, arg.QuestionType, arg.Instruction, arg.ItemStem, arg.Construct)
	return scanQuestion(row)
}

func (q *Queries) GetQuestion(ctx context.Context, id int64) (Question, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	return scanQuestion(row)
}

func (q *Queries) UpdateQuestion(ctx context.Context, id int64, arg QuestionParams) (Question, error) {
	row := q.db.QueryRow(ctx,
		`UPDATE questions SET question_text = $2, question_type = $3,
		     instruction = $4, item_stem = $5, construct = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+questionColumns,
		id, arg.QuestionText, arg.QuestionType, arg.Instruction, arg.ItemStem, arg.Construct)
	return scanQuestion(row)
}

func (q *Queries) ListQuestionsByIDs(ctx context.Context, ids []int64) ([]Question, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Question
	for rows.Next() {
		qu, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, qu)
	}
	return items, rows.Err()
}

func (q *Queries) ListQuestionsByPage(ctx context.Context, pageID int64) ([]Question, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+questionColumns+` FROM questions qs
		 JOIN page_questions pq ON pq.question_id = qs.id
		 WHERE pq.page_id = $1
		 ORDER BY qs.id`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Question
	for rows.Next() {
		qu, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, qu)
	}
	return items, rows.Err()
}

// DeleteQuestions removes questions outright; their page, wave, keyword and
// triad links cascade.
func (q *Queries) DeleteQuestions(ctx context.Context, ids []int64) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// --- Page<->Question links ---

func (q *Queries) AddPageQuestion(ctx context.Context, pageID, questionID int64) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO page_questions (page_id, question_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, pageID, questionID)
	return err
}

func (q *Queries) RemovePageQuestions(ctx context.Context, pageID int64, questionIDs []int64) error {
	_, err := q.db.Exec(ctx,
		`DELETE FROM page_questions WHERE page_id = $1 AND question_id = ANY($2)`,
		pageID, questionIDs)
	return err
}

// EnsureWaveQuestion creates a Wave<->Question scope link if absent.
func (q *Queries) EnsureWaveQuestion(ctx context.Context, waveID, questionID int64) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO wave_questions (wave_id, question_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, waveID, questionID)
	return err
}

// --- Keywords ---

func (q *Queries) UpsertKeyword(ctx context.Context, name string) (Keyword, error) {
	var k Keyword
	err := q.db.QueryRow(ctx,
		`INSERT INTO keywords (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name`, name).Scan(&k.ID, &k.Name)
	return k, err
}

func (q *Queries) SetQuestionKeywords(ctx context.Context, questionID int64, keywordIDs []int64) error {
	if _, err := q.db.Exec(ctx,
		`DELETE FROM question_keywords WHERE question_id = $1 AND keyword_id <> ALL($2)`,
		questionID, keywordIDs); err != nil {
		return err
	}
	_, err := q.db.Exec(ctx,
		`INSERT INTO question_keywords (question_id, keyword_id)
		 SELECT $1, kid FROM unnest($2::bigint[]) AS kid
		 ON CONFLICT DO NOTHING`, questionID, keywordIDs)
	return err
}

func (q *Queries) ListKeywordsByQuestion(ctx context.Context, questionID int64) ([]Keyword, error) {
	rows, err := q.db.Query(ctx,
		`SELECT k.id, k.name FROM keywords k
		 JOIN question_keywords qk ON qk.keyword_id = k.id
		 WHERE qk.question_id = $1
		 ORDER BY k.name`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Keyword
	for rows.Next() {
		var k Keyword
		if err := rows.Scan(&k.ID, &k.Name); err != nil {
			return nil, err
		}
		items = append(items, k)
	}
	return items, rows.Err()
}

// --- Ordered items / answer options ---

type ItemInput struct {
	Position int32  `json:"position"`
	Text     string `json:"text"`
}

type AnswerOptionInput struct {
	Position int32  `json:"position"`
	Value    int32  `json:"value"`
	Label    string `json:"label"`
}

// ReplaceQuestionItems swaps a question's ordered item list wholesale.
func (q *Queries) ReplaceQuestionItems(ctx context.Context, questionID int64, items []ItemInput) error {
	if _, err := q.db.Exec(ctx,
		`DELETE FROM question_items WHERE question_id = $1`, questionID); err != nil {
		return err
	}
	for _, it := range items {
		if _, err := q.db.Exec(ctx,
			`INSERT INTO question_items (question_id, position, text) VALUES ($1, $2, $3)`,
			questionID, it.Position, it.Text); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queries) ReplaceAnswerOptions(ctx context.Context, questionID int64, options []AnswerOptionInput) error {
	if _, err := q.db.Exec(ctx,
		`DELETE FROM answer_options WHERE question_id = $1`, questionID); err != nil {
		return err
	}
	for _, ao := range options {
		if _, err := q.db.Exec(ctx,
			`INSERT INTO answer_options (question_id, position, value, label) VALUES ($1, $2, $3, $4)`,
			questionID, ao.Position, ao.Value, ao.Label); err != nil {
			return err
		}
	}
	return nil
}

func (q *Queries) ListQuestionItems(ctx context.Context, questionID int64) ([]QuestionItem, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, question_id, position, text FROM question_items
		 WHERE question_id = $1 ORDER BY position`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []QuestionItem
	for rows.Next() {
		var it QuestionItem
		if err := rows.Scan(&it.ID, &it.QuestionID, &it.Position, &it.Text); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (q *Queries) ListAnswerOptions(ctx context.Context, questionID int64) ([]AnswerOption, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, question_id, position, value, label FROM answer_options
		 WHERE question_id = $1 ORDER BY position`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []AnswerOption
	for rows.Next() {
		var ao AnswerOption
		if err := rows.Scan(&ao.ID, &ao.QuestionID, &ao.Position, &ao.Value, &ao.Label); err != nil {
			return nil, err
		}
		items = append(items, ao)
	}
	return items, rows.Err()
}
