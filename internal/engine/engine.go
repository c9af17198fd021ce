package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jarjarbinks8341/tinder-ido/internal/config"
	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
	"github.com/Jarjarbinks8341/tinder-ido/internal/engine/auth"
	"github.com/Jarjarbinks8341/tinder-ido/internal/events"
	"github.com/Jarjarbinks8341/tinder-ido/internal/logging"
	"github.com/Jarjarbinks8341/tinder-ido/internal/repo"
)

// Engine owns every write path. Each operation runs in its own transaction,
// and the events describing it are appended inside that same transaction.
type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	Log    *zap.Logger
	Now    func() time.Time
}

func New(db *sql.DB, cfg *config.Config, log *zap.Logger) Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Events: events.Writer{},
		Config: cfg,
		Log:    logging.OrNop(log),
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) stamp() string {
	return domain.FormatTime(e.now())
}

func (e Engine) log() *zap.Logger {
	return logging.OrNop(e.Log)
}

func (e Engine) tokens() auth.Tokens {
	return auth.Tokens{
		Secret: e.Config.Auth.JWTSecret,
		TTL:    e.Config.Auth.TokenTTL,
		Now:    e.now,
	}
}

func (e Engine) appendEvent(ctx context.Context, tx *sql.Tx, evtType, entityKind, entityID, actorID string, payload events.Payload) error {
	w := e.Events
	if w.Now == nil {
		w.Now = e.now
	}
	return w.Append(ctx, tx, evtType, entityKind, entityID, actorID, payload)
}

func newID() string {
	return uuid.NewString()
}
