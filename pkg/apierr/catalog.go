package apierr

import "net/http"

// --- Common ---

func InvalidRequestBody() *Error {
	return New(CodeInvalidRequestBody, http.StatusBadRequest, "Invalid request body")
}

func InvalidID(entity string) *Error {
	return New(CodeInvalidID, http.StatusBadRequest, "Invalid "+entity+" ID")
}

func InternalError(cause error) *Error {
	return Wrap(CodeInternalError, http.StatusInternalServerError, "Internal server error", cause)
}

func DatabaseNotReady() *Error {
	return New(CodeDatabaseNotReady, http.StatusServiceUnavailable, "Database not ready")
}

// --- Auth ---

func Unauthorized() *Error {
	return New(CodeUnauthorized, http.StatusUnauthorized, "Authentication required")
}

func InsufficientScope() *Error {
	return New(CodeForbidden, http.StatusForbidden, "Insufficient scope")
}

// --- Integrity ---

func ScopeViolation(cause error) *Error {
	return Wrap(CodeScopeViolation, http.StatusConflict,
		"Page cannot be linked to waves from two different surveys", cause)
}

func NameCollision(name string) *Error {
	return New(CodeNameCollision, http.StatusConflict,
		"Page name '"+name+"' already exists in this survey")
}

func LockedWave() *Error {
	return New(CodeLockedWave, http.StatusConflict,
		"This wave belongs to a completed survey and cannot be modified")
}

func AmbiguousSourceScope(cause error) *Error {
	return Wrap(CodeAmbiguousSourceScope, http.StatusInternalServerError,
		"Could not determine the source survey for the page", cause)
}

// --- Survey ---

func SurveyNotFound() *Error {
	return New(CodeSurveyNotFound, http.StatusNotFound, "Survey not found")
}

func SurveyCreateFailed(cause error) *Error {
	return Wrap(CodeSurveyCreateFailed, http.StatusInternalServerError, "Failed to create survey", cause)
}

func SurveyListFailed(cause error) *Error {
	return Wrap(CodeSurveyListFailed, http.StatusInternalServerError, "Failed to list surveys", cause)
}

// --- Wave ---

func WaveNotFound() *Error {
	return New(CodeWaveNotFound, http.StatusNotFound, "Wave not found")
}

func WaveCreateFailed(cause error) *Error {
	return Wrap(CodeWaveCreateFailed, http.StatusInternalServerError, "Failed to create wave", cause)
}

func WaveDeleteFailed(cause error) *Error {
	return Wrap(CodeWaveDeleteFailed, http.StatusInternalServerError, "Failed to delete wave", cause)
}

func WaveNotInSurvey() *Error {
	return New(CodeWaveNotInSurvey, http.StatusBadRequest,
		"Selected waves do not belong to the selected survey")
}

// --- Page ---

func PageNotFound() *Error {
	return New(CodePageNotFound, http.StatusNotFound, "Page not found")
}

func PageCreateFailed(cause error) *Error {
	return Wrap(CodePageCreateFailed, http.StatusInternalServerError, "Failed to create page", cause)
}

func PageUpdateFailed(cause error) *Error {
	return Wrap(CodePageUpdateFailed, http.StatusInternalServerError, "Failed to update page", cause)
}

func PageDeleteFailed(cause error) *Error {
	return Wrap(CodePageDeleteFailed, http.StatusInternalServerError, "Failed to delete page", cause)
}

func PageDuplicateFailed(cause error) *Error {
	return Wrap(CodePageDuplicateFailed, http.StatusInternalServerError, "Failed to duplicate page", cause)
}

// --- Question ---

func QuestionNotFound() *Error {
	return New(CodeQuestionNotFound, http.StatusNotFound, "Question not found")
}

func QuestionCreateFailed(cause error) *Error {
	return Wrap(CodeQuestionCreateFailed, http.StatusInternalServerError, "Failed to create question", cause)
}

func QuestionUpdateFailed(cause error) *Error {
	return Wrap(CodeQuestionUpdateFailed, http.StatusInternalServerError, "Failed to update question", cause)
}

func QuestionDeleteFailed(cause error) *Error {
	return Wrap(CodeQuestionDeleteFailed, http.StatusInternalServerError, "Failed to delete question", cause)
}

// --- Variable ---

func VariableNotFound() *Error {
	return New(CodeVariableNotFound, http.StatusNotFound, "Variable not found")
}

func VariableCreateFailed(cause error) *Error {
	return Wrap(CodeVariableCreateFailed, http.StatusInternalServerError, "Failed to create variable", cause)
}

func VariableUpdateFailed(cause error) *Error {
	return Wrap(CodeVariableUpdateFailed, http.StatusInternalServerError, "Failed to update variable", cause)
}

func VariableDeleteFailed(cause error) *Error {
	return Wrap(CodeVariableDeleteFailed, http.StatusInternalServerError, "Failed to delete variable", cause)
}

func VariableNameTaken(name string) *Error {
	return New(CodeVariableNameTaken, http.StatusConflict,
		"Variable name '"+name+"' is already in use")
}

// --- Value-label sets ---

func ValLabNotFound() *Error {
	return New(CodeValLabNotFound, http.StatusNotFound, "Value-label set not found")
}

func ValLabInvalid(reason string) *Error {
	return New(CodeValLabInvalid, http.StatusBadRequest, reason)
}

func ValLabCreateFailed(cause error) *Error {
	return Wrap(CodeValLabCreateFailed, http.StatusInternalServerError, "Failed to create value-label set", cause)
}

// --- Orphan review ---

func OrphanReviewFailed(cause error) *Error {
	return Wrap(CodeOrphanReviewFailed, http.StatusInternalServerError, "Failed to process orphan review", cause)
}

func InvalidReviewAction() *Error {
	return New(CodeInvalidReviewAction, http.StatusBadRequest, "Review action must be 'delete' or 'keep'")
}

// --- Validation ---

func NameRequired() *Error {
	return New(CodeNameRequired, http.StatusBadRequest, "Name is required")
}

func NameTooLong() *Error {
	return New(CodeNameTooLong, http.StatusBadRequest, "Name must be 200 characters or fewer")
}

func VarNameRequired() *Error {
	return New(CodeVarNameRequired, http.StatusBadRequest, "Variable name is required")
}

func VarNameInvalid() *Error {
	return New(CodeVarNameInvalid, http.StatusBadRequest,
		"Variable name must be 2-64 chars: letters, digits and underscores, starting with a letter")
}

func TargetWavesMissing() *Error {
	return New(CodeTargetWavesMissing, http.StatusBadRequest, "At least one target wave is required")
}
