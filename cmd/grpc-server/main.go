package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"bookhub/internal/app"
	"bookhub/internal/config"
	"bookhub/internal/logging"
	"bookhub/internal/supervisor"
)

// grpc-server runs only the gRPC assistant service, for deployments that
// keep it apart from the HTTP API.
func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	addr := flag.String("addr", "", "listen address (overrides server.grpc_addr)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if *addr != "" {
		cfg.Server.GRPCAddr = *addr
	}
	if cfg.Server.GRPCAddr == "" {
		logging.Fatal().Msg("grpc address is empty; set server.grpc_addr or -addr")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	tree := supervisor.NewTree("bookhub-grpc", logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPI(supervisor.NewGRPCServerService(a.GRPCServer(), cfg.Server.GRPCAddr, cfg.Server.ShutdownTimeout))

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("supervisor stopped")
	}
	logging.Info().Msg("grpc server stopped")
}
