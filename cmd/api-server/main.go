package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"bookhub/internal/app"
	"bookhub/internal/config"
	"bookhub/internal/logging"
	"bookhub/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default $BOOKHUB_CONFIG or ./config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if cfg.Logging.Level != "debug" && cfg.Logging.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	tree := supervisor.NewTree("bookhub", logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if a.Limiter != nil {
		tree.AddBackground(a.Limiter)
	}

	httpSrv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: a.Router(),
	}
	tree.AddAPI(supervisor.NewHTTPServerService(httpSrv, cfg.Server.ShutdownTimeout))

	if cfg.Server.GRPCAddr != "" {
		tree.AddAPI(supervisor.NewGRPCServerService(a.GRPCServer(), cfg.Server.GRPCAddr, cfg.Server.ShutdownTimeout))
	}

	logging.Info().
		Str("http_addr", cfg.Server.HTTPAddr).
		Str("grpc_addr", cfg.Server.GRPCAddr).
		Str("db", cfg.Database.Path).
		Msg("bookhub starting")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("supervisor stopped")
	}
	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		logging.Warn().Int("services", len(report)).Msg("services did not stop in time")
	}
	logging.Info().Msg("servers stopped")
}
