package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Handler struct {
	env        string
	started    time.Time
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(env string, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		env:        env,
		started:    time.Now(),
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

// healthCheck не ходит в aggy и epigram: отвечает, жив ли сам процесс.
func (h *Handler) healthCheck(_ context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	return &Output{
		Body: Response{
			Status: "OK",
			Env:    h.env,
			Uptime: int64(time.Since(h.started).Seconds()),
		},
	}, nil
}
