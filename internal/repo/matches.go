package repo

import (
	"context"
	"database/sql"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
)

// InsertMatch stores m under its canonical pair. An existing match for the pair surfaces as ErrDuplicate.
func (r Repo) InsertMatch(ctx context.Context, tx *sql.Tx, m domain.Match) error {
	a, b := domain.CanonicalPair(m.ProfileAID, m.ProfileBID)
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO matches(id,profile_a_id,profile_b_id,matched_at) VALUES (?,?,?,?)`,
		m.ID, a, b, m.MatchedAt)
	return translate(err)
}

func (r Repo) GetMatch(ctx context.Context, tx *sql.Tx, x, y string) (domain.Match, error) {
	a, b := domain.CanonicalPair(x, y)
	var m domain.Match
	err := r.q(tx).QueryRowContext(ctx, `SELECT id,profile_a_id,profile_b_id,matched_at FROM matches WHERE profile_a_id=? AND profile_b_id=?`, a, b).
		Scan(&m.ID, &m.ProfileAID, &m.ProfileBID, &m.MatchedAt)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	return m, err
}

// ListMatchesFor returns every match profileID takes part in, newest first.
func (r Repo) ListMatchesFor(ctx context.Context, profileID string) ([]domain.Match, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,profile_a_id,profile_b_id,matched_at FROM matches WHERE profile_a_id=? OR profile_b_id=? ORDER BY matched_at DESC, rowid DESC`, profileID, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Match{}
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.ProfileAID, &m.ProfileBID, &m.MatchedAt); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
