package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"telugudb/pkg/database"
	"telugudb/pkg/utils"
)

// Open connects the store selected by cfg.URI: MongoDB for mongodb://
// connection strings, otherwise a migrated SQLite file.
func Open(ctx context.Context, cfg utils.DatabaseConfig, log zerolog.Logger) (Store, error) {
	switch database.KindOf(cfg.URI) {
	case database.KindMongo:
		client, err := database.OpenMongo(ctx, cfg.URI)
		if err != nil {
			return nil, err
		}
		store := NewMongoStore(client, cfg.Name)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		log.Info().Str("backend", "mongo").Str("database", cfg.Name).Msg("content store ready")
		return store, nil

	default:
		path := database.SQLitePath(cfg.URI)
		db, err := database.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db, log); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db migrate failed: %w", err)
		}
		log.Info().Str("backend", "sqlite").Str("path", path).Msg("content store ready")
		return NewRepo(db), nil
	}
}
