package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slclab/surveybase/pkg/apierr"
)

func TestPageHandler_Create_InvalidBody(t *testing.T) {
	ph := &PageHandler{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pages", bytes.NewReader([]byte("invalid")))
	w := httptest.NewRecorder()

	ph.Create(w, req)

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

func TestPageHandler_Create_MissingName(t *testing.T) {
	ph := &PageHandler{}
	body, _ := json.Marshal(map[string]any{
		"name":      "",
		"survey_id": 1,
		"wave_ids":  []int64{1},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pages", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ph.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeNameRequired {
		t.Errorf("expected code %s, got %s", apierr.CodeNameRequired, resp.Error.Code)
	}
}

func TestPageHandler_Duplicate_InvalidPageID(t *testing.T) {
	ph := &PageHandler{}
	body, _ := json.Marshal(map[string]any{
		"target_survey_id": 1,
		"target_wave_ids":  []int64{1},
		"new_name":         "Copy of page",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pages/abc/duplicate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	ph.Duplicate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeInvalidID {
		t.Errorf("expected code %s, got %s", apierr.CodeInvalidID, resp.Error.Code)
	}
}

func TestPageHandler_CheckName_MissingSurvey(t *testing.T) {
	ph := &PageHandler{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pages/check-name?name=Intro", nil)
	w := httptest.NewRecorder()

	ph.CheckName(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeInvalidID {
		t.Errorf("expected code %s, got %s", apierr.CodeInvalidID, resp.Error.Code)
	}
}
