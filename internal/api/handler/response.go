package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/slclab/surveybase/pkg/apierr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeAPIError writes a structured error response and logs 5xx errors.
func writeAPIError(w http.ResponseWriter, logger *slog.Logger, e *apierr.Error) {
	if e.Status() >= 500 && logger != nil {
		logger.Error(e.Message(), slog.String("code", string(e.Code())), slog.String("error", e.Error()))
	}
	writeJSON(w, e.Status(), e.Response())
}

// writeError maps an arbitrary engine error to the wire: apierr values pass
// through with their own code and status, everything else becomes a 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		writeAPIError(w, logger, ae)
		return
	}
	writeAPIError(w, logger, apierr.InternalError(err))
}
