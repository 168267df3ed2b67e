package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pocjysweetsGM/block-blast-online/internal/hub"
	"github.com/pocjysweetsGM/block-blast-online/internal/ws"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/stats", Stats(h))
	r.Get("/ws/{room_id}", ws.Handler(h, log))
	return r
}
