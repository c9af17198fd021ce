package repo

import (
	"context"
	"database/sql"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
)

// InsertSwipe records a swipe. A second swipe on the same (actor, target) surfaces as ErrDuplicate.
func (r Repo) InsertSwipe(ctx context.Context, tx *sql.Tx, s domain.Swipe) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO swipes(id,actor_id,target_id,direction,swiped_at) VALUES (?,?,?,?,?)`,
		s.ID, s.ActorID, s.TargetID, string(s.Direction), s.SwipedAt)
	return translate(err)
}

func (r Repo) GetSwipe(ctx context.Context, tx *sql.Tx, actorID, targetID string) (domain.Swipe, error) {
	var s domain.Swipe
	var dir string
	err := r.q(tx).QueryRowContext(ctx, `SELECT id,actor_id,target_id,direction,swiped_at FROM swipes WHERE actor_id=? AND target_id=?`, actorID, targetID).
		Scan(&s.ID, &s.ActorID, &s.TargetID, &dir, &s.SwipedAt)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	s.Direction = domain.Direction(dir)
	return s, err
}

// HasRightSwipe reports whether actorID swiped right on targetID.
func (r Repo) HasRightSwipe(ctx context.Context, tx *sql.Tx, actorID, targetID string) (bool, error) {
	var n int
	err := r.q(tx).QueryRowContext(ctx, `SELECT 1 FROM swipes WHERE actor_id=? AND target_id=? AND direction='right'`, actorID, targetID).Scan(&n)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// ListSwipesByActor returns the actor's swipes, newest first.
func (r Repo) ListSwipesByActor(ctx context.Context, actorID string) ([]domain.Swipe, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,actor_id,target_id,direction,swiped_at FROM swipes WHERE actor_id=? ORDER BY swiped_at DESC, rowid DESC`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Swipe{}
	for rows.Next() {
		var s domain.Swipe
		var dir string
		if err := rows.Scan(&s.ID, &s.ActorID, &s.TargetID, &dir, &s.SwipedAt); err != nil {
			return nil, err
		}
		s.Direction = domain.Direction(dir)
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r Repo) CountSwipes(ctx context.Context, actorID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM swipes WHERE actor_id=?`, actorID).Scan(&n)
	return n, err
}
