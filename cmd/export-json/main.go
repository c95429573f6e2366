package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"telugudb/internal/catalog"
	"telugudb/pkg/logger"
	"telugudb/pkg/utils"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		out        = flag.String("out", "data/content.json", "output JSON path")
	)
	flag.Parse()

	log := logger.New(logger.Config{Level: "info"})

	cfg, err := utils.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := catalog.Open(ctx, cfg.Database, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer store.Close()

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatal().Err(err).Msg("create output dir")
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatal().Err(err).Msg("create output")
	}
	defer f.Close()

	n, err := catalog.Export(ctx, store, f)
	if err != nil {
		log.Fatal().Err(err).Msg("export failed")
	}
	log.Info().Int("count", n).Str("to", *out).Msg("exported content")
}
