package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catalog-export/internal/api/handler"
	"catalog-export/internal/model"
	"catalog-export/internal/store"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRunStore is a mock implementation of handler.RunStore
type MockRunStore struct {
	mock.Mock
}

func (m *MockRunStore) ListRuns(ctx context.Context) ([]model.Run, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *MockRunStore) GetRun(ctx context.Context, runID string) (model.Run, error) {
	args := m.Called(ctx, runID)
	return args.Get(0).(model.Run), args.Error(1)
}

func (m *MockRunStore) GetRunErrors(ctx context.Context, runID string) ([]model.RunError, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RunError), args.Error(1)
}

func TestListRuns(t *testing.T) {
	ms := new(MockRunStore)
	h := handler.NewRunHandler(ms)
	runs := []model.Run{
		{ID: "b", Category: "chay", Status: model.RunDegraded, StartedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "a", Category: "chay", Status: model.RunCompleted, Exported: 12, StartedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	ms.On("ListRuns", mock.Anything).Return(runs, nil).Once()

	rr := httptest.NewRecorder()
	h.ListRuns(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var got []model.Run
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, runs, got)
	ms.AssertExpectations(t)
}

func TestListRuns_StoreError(t *testing.T) {
	ms := new(MockRunStore)
	h := handler.NewRunHandler(ms)
	ms.On("ListRuns", mock.Anything).Return(nil, errors.New("disk I/O error")).Once()

	rr := httptest.NewRecorder()
	h.ListRuns(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGetRun(t *testing.T) {
	ms := new(MockRunStore)
	h := handler.NewRunHandler(ms)
	ms.On("GetRun", mock.Anything, "abc").Return(model.Run{ID: "abc", Status: model.RunCompleted}, nil).Once()
	ms.On("GetRun", mock.Anything, "missing").Return(model.Run{}, store.ErrNotFound).Once()
	ms.On("GetRun", mock.Anything, "broken").Return(model.Run{}, errors.New("boom")).Once()

	rr := httptest.NewRecorder()
	h.GetRun(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	var got model.Run
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "abc", got.ID)

	rr = httptest.NewRecorder()
	h.GetRun(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.GetRun(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs/broken", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = httptest.NewRecorder()
	h.GetRun(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs/", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	ms.AssertExpectations(t)
}

func TestGetRunErrors(t *testing.T) {
	ms := new(MockRunStore)
	h := handler.NewRunHandler(ms)
	ms.On("GetRunErrors", mock.Anything, "abc").Return([]model.RunError{
		{ID: 1, RunID: "abc", Stage: "ingestion", Message: "fetch total: unexpected status 500"},
	}, nil).Once()

	rr := httptest.NewRecorder()
	h.GetRunErrors(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc/errors", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		RunID  string           `json:"run_id"`
		Errors []model.RunError `json:"errors"`
		Count  int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "abc", body.RunID)
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "ingestion", body.Errors[0].Stage)

	rr = httptest.NewRecorder()
	h.GetRunErrors(rr, httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	ms.AssertExpectations(t)
}

func TestHealth(t *testing.T) {
	h := handler.NewRunHandler(new(MockRunStore))
	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}
