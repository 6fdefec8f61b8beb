package postgres

import (
	"encoding/json"
	"time"
)

type Survey struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Year      *int16    `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Wave struct {
	ID         int64      `json:"id"`
	SurveyID   int64      `json:"survey_id"`
	Cycle      string     `json:"cycle"`
	Instrument string     `json:"instrument"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	IsLocked   bool       `json:"is_locked"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type Page struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	PageHeading          string    `json:"page_heading"`
	Introduction         string    `json:"introduction"`
	TransitionControl    string    `json:"transition_control"`
	VisibilityConditions string    `json:"visibility_conditions"`
	AnswerValidations    string    `json:"answer_validations"`
	CorrectionNotes      string    `json:"correction_notes"`
	ForcingVariables     string    `json:"forcing_variables"`
	HelperVariables      string    `json:"helper_variables"`
	ControlVariables     string    `json:"control_variables"`
	Formatting           string    `json:"formatting"`
	Transitions          string    `json:"transitions"`
	ProgrammingNotes     string    `json:"programming_notes"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type Question struct {
	ID           int64     `json:"id"`
	QuestionText string    `json:"question_text"`
	QuestionType string    `json:"question_type"`
	Instruction  string    `json:"instruction"`
	ItemStem     string    `json:"item_stem"`
	Construct    string    `json:"construct"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Keyword struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type QuestionItem struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Position   int32  `json:"position"`
	Text       string `json:"text"`
}

type AnswerOption struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Position   int32  `json:"position"`
	Value      int32  `json:"value"`
	Label      string `json:"label"`
}

type ValLab struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Values    json.RawMessage `json:"values"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Variable struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Label        string    `json:"label"`
	Comment      string    `json:"comment"`
	IsTechnical  bool      `json:"is_technical"`
	Ver          bool      `json:"ver"`
	ReasonVer    string    `json:"reason_ver"`
	Gen          bool      `json:"gen"`
	ReasonGen    string    `json:"reason_gen"`
	Plausi       bool      `json:"plausi"`
	ReasonPlausi string    `json:"reason_plausi"`
	Flag         bool      `json:"flag"`
	ReasonFlag   string    `json:"reason_flag"`
	VallabID     *int64    `json:"vallab_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Triad is one row of the canonical variable-usage fact table: "this
// variable operationalizes this question within this wave".
type Triad struct {
	QuestionID int64 `json:"question_id"`
	VariableID int64 `json:"variable_id"`
	WaveID     int64 `json:"wave_id"`
}

// VariableWavePair identifies one derived Variable<->Wave cache row.
type VariableWavePair struct {
	VariableID int64 `json:"variable_id"`
	WaveID     int64 `json:"wave_id"`
}
