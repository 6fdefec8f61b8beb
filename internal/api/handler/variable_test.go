package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slclab/surveybase/pkg/apierr"
)

func TestVariableHandler_Create_InvalidBody(t *testing.T) {
	vh := &VariableHandler{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/variables", bytes.NewReader([]byte("invalid")))
	w := httptest.NewRecorder()

	vh.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeInvalidRequestBody {
		t.Errorf("expected code %s, got %s", apierr.CodeInvalidRequestBody, resp.Error.Code)
	}
}

func TestVariableHandler_Create_InvalidName(t *testing.T) {
	vh := &VariableHandler{}
	body, _ := json.Marshal(map[string]string{
		"name":  "1_bad_name",
		"label": "Starts with a digit",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/variables", bytes.NewReader(body))
	w := httptest.NewRecorder()

	vh.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeVarNameInvalid {
		t.Errorf("expected code %s, got %s", apierr.CodeVarNameInvalid, resp.Error.Code)
	}
}
