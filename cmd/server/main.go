package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/exp/slog"

	"aggyweb/internal/app/client"
	"aggyweb/internal/app/server/api"
	"aggyweb/internal/config"
	"aggyweb/internal/domain/session"
	"aggyweb/internal/schema"
	"aggyweb/internal/utils/logger"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

const shutdownTimeout = 5 * time.Second

func main() {
	conf := config.MustLoad()
	log := logger.New(conf.Env, conf.Logger.LogLevel)
	log.Info("starting",
		slog.String("version", version),
		slog.String("build_date", buildDate),
		slog.String("env", conf.Env),
		slog.String("addr", conf.Server.RunAddress),
	)

	signer, err := session.NewSigner(conf.Session.Secret, conf.Session.Issuer)
	if err != nil {
		log.Error("session signer", logger.Err(err))
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	upstream := client.NewAPIClient(conf, schema.New(), client.NewMetrics(reg), log)

	srv := &http.Server{
		Addr:              conf.Server.RunAddress,
		Handler:           api.New(conf, upstream, signer, reg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown", logger.Err(err))
			_ = srv.Close()
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", logger.Err(err))
			os.Exit(1)
		}
	}

	log.Info("shutdown complete")
}
