package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
)

const (
	ProfileRegistered = "profile.registered"
	ProfileUpdated    = "profile.updated"
	ProfileDeleted    = "profile.deleted"
	PhotoAdded        = "photo.added"
	PhotoDeleted      = "photo.deleted"
	SwipeRecorded     = "swipe.recorded"
	MatchCreated      = "match.created"
	OutreachEnqueued  = "outreach.enqueued"
)

type Writer struct {
	Now func() time.Time
}

type Payload map[string]any

// Append writes one event row inside tx, so it commits or rolls back with the change it describes.
func (w Writer) Append(ctx context.Context, tx *sql.Tx, evtType, entityKind, entityID, actorID string, payload Payload) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	if payload == nil {
		payload = Payload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO events(ts,type,entity_kind,entity_id,actor_id,payload_json) VALUES (?,?,?,?,?,?)`,
		domain.FormatTime(now()), evtType, entityKind, nullable(entityID), nullable(actorID), string(data))
	if err != nil {
		return fmt.Errorf("append %s event: %w", evtType, err)
	}
	return nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
