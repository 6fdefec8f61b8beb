package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/slclab/surveybase/internal/store"
	"github.com/slclab/surveybase/internal/store/postgres"
	"github.com/slclab/surveybase/pkg/apierr"
)

type VariableHandler struct {
	logger *slog.Logger
	store  *store.Store
}

func NewVariableHandler(logger *slog.Logger, s *store.Store) *VariableHandler {
	return &VariableHandler{logger: logger, store: s}
}

type variableRequest struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	Comment      string `json:"comment"`
	IsTechnical  bool   `json:"is_technical"`
	Ver          bool   `json:"ver"`
	ReasonVer    string `json:"reason_ver"`
	Gen          bool   `json:"gen"`
	ReasonGen    string `json:"reason_gen"`
	Plausi       bool   `json:"plausi"`
	ReasonPlausi string `json:"reason_plausi"`
	Flag         bool   `json:"flag"`
	ReasonFlag   string `json:"reason_flag"`
	VallabID     *int64 `json:"vallab_id"`
}

func (req variableRequest) params() postgres.VariableParams {
	return postgres.VariableParams{
		Name:         req.Name,
		Label:        req.Label,
		Comment:      req.Comment,
		IsTechnical:  req.IsTechnical,
		Ver:          req.Ver,
		ReasonVer:    req.ReasonVer,
		Gen:          req.Gen,
		ReasonGen:    req.ReasonGen,
		Plausi:       req.Plausi,
		ReasonPlausi: req.ReasonPlausi,
		Flag:         req.Flag,
		ReasonFlag:   req.ReasonFlag,
		VallabID:     req.VallabID,
	}
}

// checkVallab verifies an optional vallab reference points at an existing
// value-label set.
func (h *VariableHandler) checkVallab(w http.ResponseWriter, r *http.Request, vallabID *int64) bool {
	if vallabID == nil {
		return true
	}
	if _, err := h.store.GetValLab(r.Context(), *vallabID); err != nil {
		if apierr.IsNotFound(err) {
			writeAPIError(w, h.logger, apierr.ValLabNotFound())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return false
	}
	return true
}

func (h *VariableHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	prefix := r.URL.Query().Get("q")

	variables, err := h.store.ListVariables(r.Context(), prefix, int32(limit), int32(offset))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"variables": variables,
		"total":     len(variables),
	})
}

// CheckName probes the global variable-name constraint without creating
// anything. Used by the editor while typing.
func (h *VariableHandler) CheckName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	excludeID, _ := strconv.ParseInt(r.URL.Query().Get("exclude_id"), 10, 64)

	if err := validateVarName(name); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	taken, err := h.store.VariableNameExists(r.Context(), name, excludeID)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":      name,
		"available": !taken,
	})
}

func (h *VariableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req variableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateVarName(req.Name); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}
	if !h.checkVallab(w, r, req.VallabID) {
		return
	}

	taken, err := h.store.VariableNameExists(r.Context(), req.Name, 0)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	if taken {
		writeAPIError(w, h.logger, apierr.VariableNameTaken(req.Name))
		return
	}

	variable, err := h.store.CreateVariable(r.Context(), req.params())
	if err != nil {
		if apierr.IsIntegrityViolation(err) {
			writeAPIError(w, h.logger, apierr.VariableNameTaken(req.Name))
			return
		}
		writeAPIError(w, h.logger, apierr.VariableCreateFailed(err))
		return
	}

	writeJSON(w, http.StatusCreated, variable)
}

func (h *VariableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "variableID", "variable")
	if !ok {
		return
	}

	variable, ok := getVariableOr404(w, r, h.logger, h.store, id)
	if !ok {
		return
	}

	waveIDs, err := h.store.ListWaveIDsByVariable(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"variable": variable,
		"wave_ids": waveIDs,
	})
}

func (h *VariableHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "variableID", "variable")
	if !ok {
		return
	}

	var req variableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateVarName(req.Name); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	if _, ok := getVariableOr404(w, r, h.logger, h.store, id); !ok {
		return
	}
	if !h.variableUnlockedOr409(w, r, id) {
		return
	}
	if !h.checkVallab(w, r, req.VallabID) {
		return
	}

	taken, err := h.store.VariableNameExists(r.Context(), req.Name, id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return
	}
	if taken {
		writeAPIError(w, h.logger, apierr.VariableNameTaken(req.Name))
		return
	}

	variable, err := h.store.UpdateVariable(r.Context(), id, req.params())
	if err != nil {
		writeAPIError(w, h.logger, apierr.VariableUpdateFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, variable)
}

func (h *VariableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, h.logger, "variableID", "variable")
	if !ok {
		return
	}

	if _, ok := getVariableOr404(w, r, h.logger, h.store, id); !ok {
		return
	}
	if !h.variableUnlockedOr409(w, r, id) {
		return
	}

	if err := h.store.DeleteVariable(r.Context(), id); err != nil {
		writeAPIError(w, h.logger, apierr.VariableDeleteFailed(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *VariableHandler) variableUnlockedOr409(w http.ResponseWriter, r *http.Request, id int64) bool {
	locked, err := h.store.VariableHasLockedWave(r.Context(), id)
	if err != nil {
		writeAPIError(w, h.logger, apierr.InternalError(err))
		return false
	}
	if locked {
		writeAPIError(w, h.logger, apierr.LockedWave())
		return false
	}
	return true
}
