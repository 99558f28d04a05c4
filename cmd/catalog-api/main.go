package main

import (
	"log"

	"catalog-export/internal/api"
	"catalog-export/internal/api/handler"
	"catalog-export/internal/config"
	"catalog-export/internal/obs"
	"catalog-export/internal/store"
	"catalog-export/pkg/router"

	"github.com/joho/godotenv"
)

const defaultDBPath = "catalog.db"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	obs.InitLogger(cfg.LogLevel)

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("open run history: %v", err)
	}
	defer st.Close()

	r := router.New()
	r.Logger = obs.Logger
	api.RegisterRoutes(r, handler.NewRunHandler(st))

	if err := r.Start(cfg.HTTPAddr); err != nil {
		obs.Logger.Error("server stopped", "error", err)
	}
}
