package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jarjarbinks8341/tinder-ido/internal/config"
	"github.com/Jarjarbinks8341/tinder-ido/internal/db"
	"github.com/Jarjarbinks8341/tinder-ido/internal/engine"
	"github.com/Jarjarbinks8341/tinder-ido/internal/logging"
	"github.com/Jarjarbinks8341/tinder-ido/internal/migrate"
)

// App is an opened workspace: a migrated database and the engine over it.
type App struct {
	DB     *sql.DB
	Engine engine.Engine
	Config *config.Config
}

// Open opens the workspace database named by cfg, applies pending migrations
// and builds the engine. Callers must Close the returned App.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	log = logging.OrNop(log)
	dbCfg := db.Config{Workspace: cfg.Database.Workspace, Name: cfg.Database.Name}
	conn, err := db.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	version, err := migrate.Migrate(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Debug("database ready", zap.String("path", db.Path(dbCfg)), zap.Int("schema_version", version))
	return &App{
		DB:     conn,
		Engine: engine.New(conn, cfg, log),
		Config: cfg,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
