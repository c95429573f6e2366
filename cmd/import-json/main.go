package main

import (
	"context"
	"flag"
	"os"
	"time"

	"telugudb/internal/catalog"
	"telugudb/pkg/logger"
	"telugudb/pkg/utils"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		in         = flag.String("in", "data/content.json", "input JSON array of content documents")
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

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal().Err(err).Msg("open input")
	}
	defer f.Close()

	res, err := catalog.Import(ctx, store, f)
	if res != nil {
		for _, s := range res.Skipped {
			log.Warn().Int("index", s.Index).Str("title", s.Title).Str("reason", s.Reason).Msg("skipped entry")
		}
	}
	if err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	log.Info().
		Int("created", len(res.Created)).
		Int("skipped", len(res.Skipped)).
		Str("from", *in).
		Msg("imported content")
}
