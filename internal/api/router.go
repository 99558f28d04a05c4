package api

import (
	"catalog-export/internal/api/docs"
	"catalog-export/internal/api/handler"
	"catalog-export/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"
)

func RegisterRoutes(r *router.Router, h *handler.RunHandler) {
	r.GET("/healthz", h.Health)
	r.GET("/api/v1/runs", h.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/*/errors", h.GetRunErrors)
	r.GET("/api/v1/runs/*", h.GetRun)
	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.Handler(
		httpSwagger.InstanceName(docs.SwaggerInfo.InstanceName()),
	)))
}
