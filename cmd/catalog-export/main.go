package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"catalog-export/internal/config"
	"catalog-export/internal/obs"
	"catalog-export/internal/pipeline"
	"catalog-export/internal/store"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
)

var _ pipeline.Recorder = (*store.Store)(nil)

func main() {
	if err := run(); err != nil {
		obs.Logger.Error("catalog export failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	obs.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rec pipeline.Recorder
	if cfg.DBPath != "" {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			obs.Logger.Warn("run history disabled", "db_path", cfg.DBPath, "error", err)
		} else {
			defer st.Close()
			rec = st
		}
	}

	sum, err := pipeline.Run(ctx, cfg, pipeline.NewClient(cfg), rec)
	if err != nil {
		return err
	}
	if sum.Degraded() {
		obs.Logger.Warn("export completed with fetch errors",
			"run_id", sum.RunID,
			"total_error", errString(sum.TotalErr),
			"products_error", errString(sum.ProductsErr),
		)
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
