package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"catalog-export/internal/model"
	"catalog-export/internal/obs"
	"catalog-export/internal/store"

	"github.com/go-faster/errors"
)

const runsPrefix = "/api/v1/runs/"

// RunStore is the read side of the run history
type RunStore interface {
	ListRuns(ctx context.Context) ([]model.Run, error)
	GetRun(ctx context.Context, runID string) (model.Run, error)
	GetRunErrors(ctx context.Context, runID string) ([]model.RunError, error)
}

// RunHandler serves the export run history
type RunHandler struct {
	store RunStore
}

// NewRunHandler creates a RunHandler
func NewRunHandler(s RunStore) *RunHandler {
	return &RunHandler{store: s}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger.Warn("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// Health reports liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *RunHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ListRuns retrieves all export runs
// @Summary List runs
// @Description Get all catalog export runs, newest first
// @Tags runs
// @Produce json
// @Success 200 {array} model.Run
// @Failure 500 {object} map[string]string
// @Router /api/v1/runs [get]
func (h *RunHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns(r.Context())
	if err != nil {
		obs.Logger.Error("list runs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun retrieves a single run
// @Summary Get run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.Run
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/runs/{id} [get]
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := strings.Trim(strings.TrimPrefix(r.URL.Path, runsPrefix), "/")
	if runID == "" || strings.Contains(runID, "/") {
		writeError(w, http.StatusBadRequest, "run id is required")
		return
	}

	run, err := h.store.GetRun(r.Context(), runID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		obs.Logger.Error("get run", "run_id", runID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetRunErrors retrieves the errors recorded for a run
// @Summary Get run errors
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/runs/{id}/errors [get]
func (h *RunHandler) GetRunErrors(w http.ResponseWriter, r *http.Request) {
	const suffix = "/errors"
	path := r.URL.Path
	if !strings.HasPrefix(path, runsPrefix) || !strings.HasSuffix(path, suffix) {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}
	runID := path[len(runsPrefix) : len(path)-len(suffix)]
	if runID == "" {
		writeError(w, http.StatusBadRequest, "run id is required")
		return
	}

	errs, err := h.store.GetRunErrors(r.Context(), runID)
	if err != nil {
		obs.Logger.Error("get run errors", "run_id", runID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to retrieve errors")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}
