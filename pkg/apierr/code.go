package apierr

// Code is a machine-readable error code returned in API responses.
type Code string

// Common errors.
const (
	CodeInvalidRequestBody Code = "INVALID_REQUEST_BODY"
	CodeInvalidID          Code = "INVALID_ID"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeDatabaseNotReady   Code = "DATABASE_NOT_READY"
)

// Auth errors.
const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
)

// Integrity errors. These map the guarantees of the page/wave/question
// graph: a page never spans two surveys, page names are unique per survey,
// and locked waves are immutable.
const (
	CodeScopeViolation       Code = "SCOPE_VIOLATION"
	CodeNameCollision        Code = "NAME_COLLISION"
	CodeLockedWave           Code = "LOCKED_WAVE"
	CodeAmbiguousSourceScope Code = "AMBIGUOUS_SOURCE_SCOPE"
)

// Survey errors.
const (
	CodeSurveyNotFound     Code = "SURVEY_NOT_FOUND"
	CodeSurveyCreateFailed Code = "SURVEY_CREATE_FAILED"
	CodeSurveyListFailed   Code = "SURVEY_LIST_FAILED"
)

// Wave errors.
const (
	CodeWaveNotFound     Code = "WAVE_NOT_FOUND"
	CodeWaveCreateFailed Code = "WAVE_CREATE_FAILED"
	CodeWaveDeleteFailed Code = "WAVE_DELETE_FAILED"
	CodeWaveNotInSurvey  Code = "WAVE_NOT_IN_SURVEY"
)

// Page errors.
const (
	CodePageNotFound        Code = "PAGE_NOT_FOUND"
	CodePageCreateFailed    Code = "PAGE_CREATE_FAILED"
	CodePageUpdateFailed    Code = "PAGE_UPDATE_FAILED"
	CodePageDeleteFailed    Code = "PAGE_DELETE_FAILED"
	CodePageDuplicateFailed Code = "PAGE_DUPLICATE_FAILED"
)

// Question errors.
const (
	CodeQuestionNotFound     Code = "QUESTION_NOT_FOUND"
	CodeQuestionCreateFailed Code = "QUESTION_CREATE_FAILED"
	CodeQuestionUpdateFailed Code = "QUESTION_UPDATE_FAILED"
	CodeQuestionDeleteFailed Code = "QUESTION_DELETE_FAILED"
)

// Variable errors.
const (
	CodeVariableNotFound     Code = "VARIABLE_NOT_FOUND"
	CodeVariableCreateFailed Code = "VARIABLE_CREATE_FAILED"
	CodeVariableUpdateFailed Code = "VARIABLE_UPDATE_FAILED"
	CodeVariableDeleteFailed Code = "VARIABLE_DELETE_FAILED"
	CodeVariableNameTaken    Code = "VARIABLE_NAME_TAKEN"
)

// Value-label set errors.
const (
	CodeValLabNotFound     Code = "VALLAB_NOT_FOUND"
	CodeValLabInvalid      Code = "VALLAB_INVALID"
	CodeValLabCreateFailed Code = "VALLAB_CREATE_FAILED"
)

// Orphan review errors.
const (
	CodeOrphanReviewFailed  Code = "ORPHAN_REVIEW_FAILED"
	CodeInvalidReviewAction Code = "INVALID_REVIEW_ACTION"
)

// Validation errors.
const (
	CodeNameRequired       Code = "NAME_REQUIRED"
	CodeNameTooLong        Code = "NAME_TOO_LONG"
	CodeVarNameRequired    Code = "VARNAME_REQUIRED"
	CodeVarNameInvalid     Code = "VARNAME_INVALID"
	CodeTargetWavesMissing Code = "TARGET_WAVES_MISSING"
)
