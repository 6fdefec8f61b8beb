package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/slclab/surveybase/internal/store"
	"github.com/slclab/surveybase/pkg/apierr"
)

type ValLabHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewValLabHandler(logger *slog.Logger, s *store.Store) *ValLabHandler {
	return &ValLabHandler{logger: logger, store: s}
}

func (h *ValLabHandler) List(w http.ResponseWriter, r *http.Request) {
	vallabs, err := h.store.ListValLabs(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"vallabs": vallabs,
		"total":   len(vallabs),
	})
}

func (h *ValLabHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "vallabID", "value-label set")
	if !ok {
		return
	}

	vallab, err := h.store.GetValLab(r.Context(), id)
	if err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, h.logger, apierr.ValLabNotFound())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, vallab)
}

func (h *ValLabHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string          `json:"name"`
		Values json.RawMessage `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateName(req.Name); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}
	if err := validateValLabValues(req.Values); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	vallab, err := h.store.CreateValLab(r.Context(), req.Name, req.Values)
	if err != nil {
		writeAPIError(w, h.logger, apierr.ValLabCreateFailed(err))
		return
	}

	writeJSON(w, http.StatusCreated, vallab)
}
