//GET  /api/v1/health      # Состояние сервиса
//POST /register           # Регистрация
//POST /login              # Вход, привязка сессии
//POST /logout             # Выход
//GET  /posts              # Лента постов
//GET  /p/{postId}         # Пост с ответами
//POST /submit             # Новый пост (нужен вход)
//GET  /g/{gramId}         # Грама с ответами
//POST /g/{gramId}/reply   # Ответ (нужен вход)
//GET  /metrics            # Метрики prometheus

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"

	"aggyweb/internal/app/client"
	gramAPI "aggyweb/internal/app/server/api/http/gram"
	healthAPI "aggyweb/internal/app/server/api/http/health"
	"aggyweb/internal/app/server/api/http/middleware"
	"aggyweb/internal/app/server/api/http/middleware/logger"
	"aggyweb/internal/app/server/api/http/middleware/metrics"
	"aggyweb/internal/app/server/api/http/middleware/ratelimit"
	sessionMW "aggyweb/internal/app/server/api/http/middleware/session"
	postAPI "aggyweb/internal/app/server/api/http/post"
	userAPI "aggyweb/internal/app/server/api/http/user"
	"aggyweb/internal/config"
	"aggyweb/internal/domain/session"
)

type Handlers struct {
	Health *healthAPI.Handler
	User   *userAPI.Handler
	Post   *postAPI.Handler
	Gram   *gramAPI.Handler
}

// New собирает *chi.Mux: сессия подключается на уровне chi, операции
// регистрируются через huma.
func New(cfg *config.Config, upstream *client.APIClient, signer *session.Signer, reg *prometheus.Registry, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	sessions := sessionMW.New(upstream.Aggy, signer, cfg.Session.CookieName, cfg.IsProd(), log)

	mux.Use(chimw.RequestID)
	if cfg.Server.TrustProxy {
		mux.Use(chimw.RealIP)
	}
	mux.Use(chimw.Recoverer)
	mux.Use(sessions.Handler)

	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	humaConfig := huma.DefaultConfig("Aggy Web API", "1.0.0")
	API := humachi.New(mux, humaConfig)

	h := handlers(cfg, upstream, sessions, reg, log)
	h.Health.SetupRoutes(API)
	h.User.SetupRoutes(API)
	h.Post.SetupRoutes(API)
	h.Gram.SetupRoutes(API)

	return mux
}

func handlers(cfg *config.Config, upstream *client.APIClient, sessions *sessionMW.Session, reg prometheus.Registerer, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	metricsMW := metrics.New(reg)
	limiter := ratelimit.New(cfg.Limits.LoginRate, cfg.Limits.LoginBurst, log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(cfg.Env, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(metricsMW.Middleware())
	middlewares.Add(limiter.Middleware())
	userHandler := userAPI.NewHandler(upstream.Aggy, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(metricsMW.Middleware())
	middlewares.Add(sessions.Ensure())
	postHandler := postAPI.NewHandler(upstream.Aggy, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(metricsMW.Middleware())
	middlewares.Add(sessions.Ensure())
	gramHandler := gramAPI.NewHandler(upstream.Epigram, upstream.Aggy, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		User:   userHandler,
		Post:   postHandler,
		Gram:   gramHandler,
	}
}
