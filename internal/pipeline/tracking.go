package pipeline

import (
	"context"
	"time"

	"catalog-export/internal/model"
	"catalog-export/internal/obs"
)

// Recorder persists the run history. *store.Store implements it.
type Recorder interface {
	StartRun(ctx context.Context, run model.Run) error
	FinishRun(ctx context.Context, run model.Run) error
	SaveRunError(ctx context.Context, runID, stage string, err error) error
}

type noopRecorder struct{}

func (noopRecorder) StartRun(context.Context, model.Run) error { return nil }

func (noopRecorder) FinishRun(context.Context, model.Run) error { return nil }

func (noopRecorder) SaveRunError(context.Context, string, string, error) error { return nil }

// StageMetrics tracks timing for a single stage
type StageMetrics struct {
	StartTime        time.Time     `json:"start_time"`
	Duration         time.Duration `json:"duration"`
	RecordsProcessed int           `json:"records_processed"`
	Failed           bool          `json:"failed"`
}

// RunTracker keeps the run record and stage timings and forwards them to
// a Recorder. Recorder failures are logged and never fail the run.
type RunTracker struct {
	Run    model.Run
	Stages map[string]*StageMetrics

	rec Recorder
}

// NewRunTracker creates a tracker for run. A nil rec disables persistence.
func NewRunTracker(run model.Run, rec Recorder) *RunTracker {
	if rec == nil {
		rec = noopRecorder{}
	}
	return &RunTracker{
		Run:    run,
		Stages: make(map[string]*StageMetrics),
		rec:    rec,
	}
}

// Start persists the run in the running state.
func (rt *RunTracker) Start(ctx context.Context) {
	rt.Run.Status = model.RunRunning
	if err := rt.rec.StartRun(ctx, rt.Run); err != nil {
		obs.Logger.Warn("could not record run start", "run_id", rt.Run.ID, "error", err)
	}
}

// StartStage marks the start of a stage
func (rt *RunTracker) StartStage(stage string) {
	rt.Stages[stage] = &StageMetrics{StartTime: time.Now()}
	obs.Logger.Debug("stage started", "run_id", rt.Run.ID, "stage", stage)
}

// EndStage marks the end of a stage
func (rt *RunTracker) EndStage(stage string, records int) {
	m, ok := rt.Stages[stage]
	if !ok {
		return
	}
	m.Duration = time.Since(m.StartTime)
	m.RecordsProcessed = records
	obs.Logger.Debug("stage completed", "run_id", rt.Run.ID, "stage", stage,
		"records", records, "duration_ms", m.Duration.Milliseconds())
}

// RecordError logs err against stage and stores it in the run history.
func (rt *RunTracker) RecordError(ctx context.Context, stage string, err error) {
	if m, ok := rt.Stages[stage]; ok {
		m.Failed = true
	}
	obs.Logger.Error("stage error", "run_id", rt.Run.ID, "stage", stage, "error", err)
	if serr := rt.rec.SaveRunError(ctx, rt.Run.ID, stage, err); serr != nil {
		obs.Logger.Warn("could not record run error", "run_id", rt.Run.ID, "error", serr)
	}
}

// Finish sets the final status and persists the run.
func (rt *RunTracker) Finish(ctx context.Context, status model.RunStatus) {
	now := time.Now().UTC()
	rt.Run.Status = status
	rt.Run.FinishedAt = &now
	if err := rt.rec.FinishRun(ctx, rt.Run); err != nil {
		obs.Logger.Warn("could not record run finish", "run_id", rt.Run.ID, "error", err)
	}
}
