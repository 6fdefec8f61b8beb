package postgres

import (
	"context"
	"encoding/json"
)

const variableColumns = `id, name, label, comment, is_technical,
	ver, reason_ver, gen, reason_gen, plausi, reason_plausi, flag, reason_flag,
	vallab_id, created_at, updated_at`

func scanVariable(row interface{ Scan(...any) error }) (Variable, error) {
	var v Variable
	err := row.Scan(&v.ID, &v.Name, &v.Label, &v.Comment, &v.IsTechnical,
		&v.Ver, &v.ReasonVer, &v.Gen, &v.ReasonGen,
		&v.Plausi, &v.ReasonPlausi, &v.Flag, &v.ReasonFlag,
		&v.VallabID, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

type VariableParams struct {
	Name         string
	Label        string
	Comment      string
	IsTechnical  bool
	Ver          bool
	ReasonVer    string
	Gen          bool
	ReasonGen    string
	Plausi       bool
	ReasonPlausi string
	Flag         bool
	ReasonFlag   string
	VallabID     *int64
}

func (q *Queries) CreateVariable(ctx context.Context, arg VariableParams) (Variable, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO variables (name, label, comment, is_technical,
		     ver, reason_ver, gen, reason_gen, plausi, reason_plausi,
		     flag, reason_flag, vallab_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+variableColumns,
		arg.Name, arg.Label, arg.Comment, arg.IsTechnical,
		arg.Ver, arg.ReasonVer, arg.Gen, arg.ReasonGen,
		arg.Plausi, arg.ReasonPlausi, arg.Flag, arg.ReasonFlag, arg.VallabID)
	return scanVariable(row)
}

func (q *Queries) GetVariable(ctx context.Context, id int64) (Variable, error) {
	row := q.db.QueryRow(ctx,
		`SELECT `+variableColumns+` FROM variables WHERE id = $1`, id)
	return scanVariable(row)
}

func (q *Queries) UpdateVariable(ctx context.Context, id int64, arg VariableParams) (Variable, error) {
	row := q.db.QueryRow(ctx,
		`UPDATE variables SET name = $2, label = $3, comment = $4,
		     is_technical = $5, ver = $6, reason_ver = $7, gen = $8,
		     reason_gen = $9, plausi = $10, reason_plausi = $11,
		     flag = $12, reason_flag = $13, vallab_id = $14, updated_at = now()
		 WHERE id = $1
		 RETURNING `+variableColumns,
		id, arg.Name, arg.Label, arg.Comment, arg.IsTechnical,
		arg.Ver, arg.ReasonVer, arg.Gen, arg.ReasonGen,
		arg.Plausi, arg.ReasonPlausi, arg.Flag, arg.ReasonFlag, arg.VallabID)
	return scanVariable(row)
}

func (q *Queries) DeleteVariable(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM variables WHERE id = $1`, id)
	return err
}

// ListVariables returns variables ordered by name, optionally filtered by a
// case-insensitive name prefix.
func (q *Queries) ListVariables(ctx context.Context, namePrefix string, limit, offset int32) ([]Variable, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+variableColumns+` FROM variables
		 WHERE $1 = '' OR lower(name) LIKE lower($1) || '%'
		 ORDER BY name
		 LIMIT $2 OFFSET $3`, namePrefix, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Variable
	for rows.Next() {
		v, err := scanVariable(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// VariableNameExists probes the global case-insensitive name constraint,
// optionally excluding one variable (0 = exclude none).
func (q *Queries) VariableNameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM variables WHERE lower(name) = lower($1) AND id <> $2
		 )`, name, excludeID).Scan(&exists)
	return exists, err
}

func (q *Queries) ListVariablesByQuestionWave(ctx context.Context, questionID, waveID int64) ([]Variable, error) {
	rows, err := q.db.Query(ctx,
		`SELECT DISTINCT `+variableColumns+` FROM variables v
		 JOIN question_variable_waves t ON t.variable_id = v.id
		 WHERE t.question_id = $1 AND t.wave_id = $2
		 ORDER BY name`, questionID, waveID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Variable
	for rows.Next() {
		v, err := scanVariable(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// --- Triads ---

// EnsureTriad records "variable operationalizes question in wave",
// duplicate-safe.
func (q *Queries) EnsureTriad(ctx context.Context, questionID, variableID, waveID int64) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO question_variable_waves (question_id, variable_id, wave_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`, questionID, variableID, waveID)
	return err
}

func (q *Queries) ListTriadsByQuestion(ctx context.Context, questionID int64) ([]Triad, error) {
	return q.collectTriads(ctx,
		`SELECT question_id, variable_id, wave_id FROM question_variable_waves
		 WHERE question_id = $1 ORDER BY wave_id, variable_id`, questionID)
}

// ListSurveyTriadPairs returns the distinct (question, variable) pairs used
// anywhere within a survey for the given questions. Input to the
// duplication engine's variable replication step.
func (q *Queries) ListSurveyTriadPairs(ctx context.Context, surveyID int64, questionIDs []int64) ([]Triad, error) {
	return q.collectTriads(ctx,
		`SELECT DISTINCT t.question_id, t.variable_id, 0 AS wave_id
		 FROM question_variable_waves t
		 JOIN waves w ON w.id = t.wave_id
		 WHERE w.survey_id = $1 AND t.question_id = ANY($2)
		 ORDER BY t.question_id, t.variable_id`, surveyID, questionIDs)
}

func (q *Queries) collectTriads(ctx context.Context, sql string, args ...any) ([]Triad, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Triad
	for rows.Next() {
		var t Triad
		if err := rows.Scan(&t.QuestionID, &t.VariableID, &t.WaveID); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// ReplaceQuestionWaveTriads sets the exact variable set for one
// (question, wave) pairing and returns the (variable, wave) pairs whose
// triads were removed, so the caller can run derived-cache cleanup.
func (q *Queries) ReplaceQuestionWaveTriads(ctx context.Context, questionID, waveID int64, variableIDs []int64) ([]VariableWavePair, error) {
	rows, err := q.db.Query(ctx,
		`DELETE FROM question_variable_waves
		 WHERE question_id = $1 AND wave_id = $2 AND variable_id <> ALL($3)
		 RETURNING variable_id, wave_id`, questionID, waveID, variableIDs)
	if err != nil {
		return nil, err
	}
	removed, err := collectVariableWavePairs(rows)
	if err != nil {
		return nil, err
	}

	_, err = q.db.Exec(ctx,
		`INSERT INTO question_variable_waves (question_id, variable_id, wave_id)
		 SELECT $1, vid, $2 FROM unnest($3::bigint[]) AS vid
		 ON CONFLICT DO NOTHING`, questionID, waveID, variableIDs)
	return removed, err
}

// EnsureVariableWave maintains the derived Variable<->Wave cache row,
// duplicate-safe.
func (q *Queries) EnsureVariableWave(ctx context.Context, variableID, waveID int64) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO variable_waves (variable_id, wave_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, variableID, waveID)
	return err
}

func (q *Queries) ListWaveIDsByVariable(ctx context.Context, variableID int64) ([]int64, error) {
	return q.collectIDs(ctx,
		`SELECT wave_id FROM variable_waves WHERE variable_id = $1 ORDER BY wave_id`,
		variableID)
}

func collectVariableWavePairs(rows interface {
	Next() bool
	Scan(...any) error
	Close()
	Err() error
}) ([]VariableWavePair, error) {
	defer rows.Close()
	var pairs []VariableWavePair
	for rows.Next() {
		var p VariableWavePair
		if err := rows.Scan(&p.VariableID, &p.WaveID); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// --- Value-label sets ---

func scanValLab(row interface{ Scan(...any) error }) (ValLab, error) {
	var vl ValLab
	err := row.Scan(&vl.ID, &vl.Name, &vl.Values, &vl.CreatedAt, &vl.UpdatedAt)
	return vl, err
}

func (q *Queries) CreateValLab(ctx context.Context, name string, values json.RawMessage) (ValLab, error) {
	row := q.db.QueryRow(ctx,
		`INSERT INTO vallabs (name, values_json) VALUES ($1, $2)
		 RETURNING id, name, values_json, created_at, updated_at`, name, values)
	return scanValLab(row)
}

func (q *Queries) GetValLab(ctx context.Context, id int64) (ValLab, error) {
	row := q.db.QueryRow(ctx,
		`SELECT id, name, values_json, created_at, updated_at FROM vallabs WHERE id = $1`, id)
	return scanValLab(row)
}

func (q *Queries) ListValLabs(ctx context.Context) ([]ValLab, error) {
	rows, err := q.db.Query(ctx,
		`SELECT id, name, values_json, created_at, updated_at FROM vallabs ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ValLab
	for rows.Next() {
		vl, err := scanValLab(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, vl)
	}
	return items, rows.Err()
}
