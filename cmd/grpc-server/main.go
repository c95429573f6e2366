package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"telugudb/internal/auth"
	"telugudb/internal/catalog"
	"telugudb/internal/grpcserver"
	"telugudb/pkg/logger"
	"telugudb/pkg/utils"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "grpc-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := utils.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Path:     cfg.Logging.Path,
		FileName: "telugudb-grpc.log",
	})
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := catalog.Open(ctx, cfg.Database, log.Component("store"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	listener, err := net.Listen("tcp", cfg.Grpc.Addr)
	if err != nil {
		return fmt.Errorf("grpc listen failed: %w", err)
	}

	srv := grpcserver.New(store, auth.NewGate(cfg.Admin.Key), log.Logger)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down gRPC server")
		srv.GracefulStop()
	}()

	log.Info().Str("addr", cfg.Grpc.Addr).Msg("gRPC server listening")
	if err := srv.Serve(listener); err != nil {
		return fmt.Errorf("grpc server stopped: %w", err)
	}
	return nil
}
