package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/typerush/typerush-backend/internal/metrics"
	"github.com/typerush/typerush-backend/internal/registry"
	"github.com/typerush/typerush-backend/internal/ws"
)

func SetupRoutes(reg *registry.Registry, m *metrics.Metrics, logger *zap.Logger, wsReadLimit int64) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(reg))
	r.Get("/healthz", Healthz)
	r.Method(http.MethodGet, "/metrics", m)
	r.Get("/ws", ws.Handler(reg, m, logger, wsReadLimit))
	return r
}
