package pipeline

import (
	"context"
	"time"

	"catalog-export/internal/config"
	"catalog-export/internal/model"
	"catalog-export/internal/obs"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Summary describes a finished run. TotalErr and ProductsErr are set when
// the corresponding fetch failed and was replaced by an empty result, so a
// zero Total or empty product list without an error is a real answer.
type Summary struct {
	RunID       string
	Total       int
	TotalErr    error
	Fetched     int
	ProductsErr error
	Export      ExportResult
	Duration    time.Duration
}

// Degraded reports whether any fetch fell back to an empty result.
func (s Summary) Degraded() bool {
	return s.TotalErr != nil || s.ProductsErr != nil
}

// ------------------- Pipeline Runner -------------------

// Run loads the query template, fetches the category total and then the
// whole category in one page, and exports the in-stock products.
//
// Query and export failures are returned. Fetch failures are logged,
// recorded and replaced by a zero total or an empty product list.
func Run(ctx context.Context, cfg config.Config, api Fetcher, rec Recorder) (sum Summary, err error) {
	start := time.Now()
	tracker := NewRunTracker(model.Run{
		ID:         uuid.New().String(),
		Category:   cfg.CategorySlug,
		StoreID:    cfg.StoreID,
		OutputFile: cfg.OutputFile,
		StartedAt:  start.UTC(),
	}, rec)
	sum.RunID = tracker.Run.ID

	obs.Logger.Info("starting catalog export", "run_id", sum.RunID, "slug", cfg.CategorySlug, "store_id", cfg.StoreID)
	tracker.Start(ctx)

	defer func() {
		sum.Duration = time.Since(start)
		status := model.RunCompleted
		switch {
		case err != nil:
			status = model.RunFailed
		case sum.Degraded():
			status = model.RunDegraded
		}
		tracker.Finish(context.WithoutCancel(ctx), status)
	}()

	// --- QUERY ---
	doc, err := LoadQuery(cfg.QueryFile)
	if err != nil {
		tracker.RecordError(ctx, "query", err)
		return sum, err
	}
	doc.Variables = model.Variables{
		StoreID: cfg.StoreID,
		Size:    0,
		From:    cfg.From,
		Slug:    cfg.CategorySlug,
	}

	// --- INGESTION ---
	tracker.StartStage("ingestion")
	total, ferr := api.FetchTotal(ctx, doc)
	if ferr != nil {
		sum.TotalErr = errors.Wrap(ferr, "fetch total")
		tracker.RecordError(ctx, "ingestion", sum.TotalErr)
		obs.Logger.Warn("continuing with zero total", "run_id", sum.RunID)
		total = 0
	}
	sum.Total = total
	tracker.Run.Total = total

	doc.Variables.Size = total
	products, ferr := api.FetchProducts(ctx, doc)
	if ferr != nil {
		sum.ProductsErr = errors.Wrap(ferr, "fetch products")
		tracker.RecordError(ctx, "ingestion", sum.ProductsErr)
		products = nil
	}
	sum.Fetched = len(products)
	tracker.Run.Fetched = len(products)
	tracker.EndStage("ingestion", len(products))

	// --- TRANSFORMATION ---
	tracker.StartStage("transform")
	rows := BuildRows(products, cfg.BaseURL)
	tracker.EndStage("transform", len(rows))

	// --- EXPORT ---
	tracker.StartStage("export")
	sum.Export = ExportRows(cfg.OutputFile, rows)
	tracker.Run.Exported = sum.Export.RecordCount
	if !sum.Export.Success {
		err = errors.Errorf("export %s: %s", cfg.OutputFile, sum.Export.Error)
		tracker.RecordError(ctx, "export", err)
		return sum, err
	}
	tracker.EndStage("export", sum.Export.RecordCount)

	obs.Logger.Info("catalog export finished",
		"run_id", sum.RunID,
		"total", sum.Total,
		"fetched", sum.Fetched,
		"exported", sum.Export.RecordCount,
		"degraded", sum.Degraded(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sum, nil
}
