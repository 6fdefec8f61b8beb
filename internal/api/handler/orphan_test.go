package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slclab/surveybase/internal/orphan"
	"github.com/slclab/surveybase/pkg/apierr"
)

func TestOrphanHandler_Resolve_InvalidAction(t *testing.T) {
	oh := &OrphanHandler{reviews: orphan.NewManager(nil)}
	body, _ := json.Marshal(map[string]string{"action": "discard"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orphan-review", bytes.NewReader(body))
	w := httptest.NewRecorder()

	oh.Resolve(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp apierr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error.Code != apierr.CodeInvalidReviewAction {
		t.Errorf("expected code %s, got %s", apierr.CodeInvalidReviewAction, resp.Error.Code)
	}
}

func TestOrphanHandler_Resolve_InvalidBody(t *testing.T) {
	oh := &OrphanHandler{reviews: orphan.NewManager(nil)}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orphan-review", bytes.NewReader([]byte("nope")))
	w := httptest.NewRecorder()

	oh.Resolve(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestOrphanHandler_Pending_ReviewsDisabled(t *testing.T) {
	oh := &OrphanHandler{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orphan-review", nil)
	w := httptest.NewRecorder()

	oh.Pending(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if pending, _ := resp["pending"].(bool); pending {
		t.Error("expected pending=false when reviews are disabled")
	}
}
