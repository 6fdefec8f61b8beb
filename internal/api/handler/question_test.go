package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slclab/surveybase/pkg/apierr"
)

func TestQuestionHandler_Create_InvalidBody(t *testing.T) {
	qh := &QuestionHandler{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	qh.Create(w, req)

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

func TestQuestionHandler_Create_MissingText(t *testing.T) {
	qh := &QuestionHandler{}
	body, _ := json.Marshal(map[string]string{
		"question_type": "single_choice",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions", bytes.NewReader(body))
	w := httptest.NewRecorder()

	qh.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestQuestionHandler_Delete_InvalidID(t *testing.T) {
	qh := &QuestionHandler{}
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/questions/xyz", nil)
	w := httptest.NewRecorder()

	qh.Delete(w, req)

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
