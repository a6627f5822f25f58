// internal/api/handler.go
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"loan-workflow/internal/common/errors"
	"loan-workflow/internal/common/logger"
	"loan-workflow/internal/models"
	"loan-workflow/internal/store"
	"loan-workflow/internal/workflow"
)

// Handler is the thin JSON surface over the workflow engine. It does no
// business logic of its own: it decodes requests, passes them through,
// and maps the engine's error taxonomy onto HTTP status codes.
type Handler struct {
	engine *workflow.Engine
	store  store.Store
	logger logger.Logger
}

// NewHandler wires the API handler.
func NewHandler(engine *workflow.Engine, st store.Store, log logger.Logger) *Handler {
	return &Handler{engine: engine, store: st, logger: log}
}

// Register mounts the routes on a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/applications", h.handleList)
	mux.HandleFunc("/applications/", h.handleApplication)
}

type transitionPayload struct {
	Role                models.Role                 `json:"role"`
	Target              models.ApplicationStatus    `json:"target"`
	EDDNotes            string                      `json:"eddNotes,omitempty"`
	DisbursementDetails *models.DisbursementDetails `json:"disbursementDetails,omitempty"`
	Resubmission        *models.ResubmissionData    `json:"resubmission,omitempty"`
}

type checklistPayload struct {
	Role  models.Role         `json:"role"`
	Key   models.ChecklistKey `json:"key"`
	Value bool                `json:"value"`
}

type recalculatePayload struct {
	Role       models.Role `json:"role"`
	LoanAmount int64       `json:"loanAmount"`
	Tenor      int         `json:"tenor"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var status *models.ApplicationStatus
		if s := r.URL.Query().Get("status"); s != "" {
			st := models.ApplicationStatus(s)
			status = &st
		}

		apps, err := h.store.List(r.Context(), status)
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeJSON(w, http.StatusOK, apps)

	case http.MethodPost:
		h.createApplication(w, r)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// createApplication accepts a new record from Sales. Applications always
// enter the pipeline in Submitted.
func (h *Handler) createApplication(w http.ResponseWriter, r *http.Request) {
	var app models.Application
	if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	app.Status = models.StatusSubmitted

	if err := h.store.Create(r.Context(), &app); err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.store.Get(r.Context(), app.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

// handleApplication routes /applications/{id}[/transition|/checklist|/recalculate].
func (h *Handler) handleApplication(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/applications/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		http.Error(w, "missing application id", http.StatusBadRequest)
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.getApplication(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.deleteApplication(w, r, id)
	case action == "transition" && r.Method == http.MethodPost:
		h.transition(w, r, id)
	case action == "checklist" && r.Method == http.MethodPost:
		h.setChecklistFlag(w, r, id)
	case action == "recalculate" && r.Method == http.MethodPost:
		h.recalculate(w, r, id)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request, id string) {
	app, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, app)
}

func (h *Handler) deleteApplication(w http.ResponseWriter, r *http.Request, id string) {
	role := models.Role(r.URL.Query().Get("role"))
	if err := h.engine.Delete(r.Context(), id, role); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, id string) {
	var payload transitionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	app, err := h.engine.Transition(r.Context(), workflow.TransitionRequest{
		AppID:               id,
		Role:                payload.Role,
		Target:              payload.Target,
		EDDNotes:            payload.EDDNotes,
		DisbursementDetails: payload.DisbursementDetails,
		Resubmission:        payload.Resubmission,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, app)
}

func (h *Handler) setChecklistFlag(w http.ResponseWriter, r *http.Request, id string) {
	var payload checklistPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	app, err := h.engine.SetChecklistFlag(r.Context(), id, payload.Role, payload.Key, payload.Value)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, app)
}

func (h *Handler) recalculate(w http.ResponseWriter, r *http.Request, id string) {
	var payload recalculatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	app, err := h.engine.Recalculate(r.Context(), id, payload.Role, payload.LoanAmount, payload.Tenor)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, app)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("failed to encode response", nil)
	}
}

// writeError maps the workflow error taxonomy onto HTTP status codes and
// returns the structured error as the body.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch errors.CodeOf(err) {
	case errors.ErrCodeNotFound:
		code = http.StatusNotFound
	case errors.ErrCodeForbidden:
		code = http.StatusForbidden
	case errors.ErrCodeInvalidTransition, errors.ErrCodeMissingData:
		code = http.StatusUnprocessableEntity
	case errors.ErrCodeApplicationBusy:
		code = http.StatusConflict
	case errors.ErrCodeRemoteRejected:
		code = http.StatusBadGateway
	}

	var se *errors.StandardError
	if !stderrors.As(err, &se) {
		se = &errors.StandardError{Message: err.Error()}
	}
	h.writeJSON(w, code, se)
}
