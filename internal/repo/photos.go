package repo

import (
	"context"
	"database/sql"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
)

func (r Repo) InsertPhoto(ctx context.Context, tx *sql.Tx, ph domain.Photo) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO profile_photos(id,profile_id,ref,display_order,created_at) VALUES (?,?,?,?,?)`,
		ph.ID, ph.ProfileID, ph.URL, ph.DisplayOrder, ph.CreatedAt)
	return translate(err)
}

// ListPhotos returns a profile's photos in display order.
func (r Repo) ListPhotos(ctx context.Context, tx *sql.Tx, profileID string) ([]domain.Photo, error) {
	rows, err := r.q(tx).QueryContext(ctx, `SELECT id,profile_id,ref,display_order,created_at FROM profile_photos WHERE profile_id=? ORDER BY display_order ASC, rowid ASC`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []domain.Photo{}
	for rows.Next() {
		var ph domain.Photo
		if err := rows.Scan(&ph.ID, &ph.ProfileID, &ph.URL, &ph.DisplayOrder, &ph.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, ph)
	}
	return res, rows.Err()
}

func (r Repo) CountPhotos(ctx context.Context, tx *sql.Tx, profileID string) (int, error) {
	var n int
	err := r.q(tx).QueryRowContext(ctx, `SELECT COUNT(*) FROM profile_photos WHERE profile_id=?`, profileID).Scan(&n)
	return n, err
}

// NextPhotoOrder returns the display order a newly appended photo should take.
func (r Repo) NextPhotoOrder(ctx context.Context, tx *sql.Tx, profileID string) (int, error) {
	var n sql.NullInt64
	if err := r.q(tx).QueryRowContext(ctx, `SELECT MAX(display_order) FROM profile_photos WHERE profile_id=?`, profileID).Scan(&n); err != nil {
		return 0, err
	}
	if !n.Valid {
		return 0, nil
	}
	return int(n.Int64) + 1, nil
}

// DeletePhoto removes a photo only when it belongs to profileID.
func (r Repo) DeletePhoto(ctx context.Context, tx *sql.Tx, profileID, photoID string) error {
	res, err := r.q(tx).ExecContext(ctx, `DELETE FROM profile_photos WHERE id=? AND profile_id=?`, photoID, profileID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) photosFor(ctx context.Context, tx *sql.Tx, profileIDs []string) (map[string][]domain.Photo, error) {
	res := make(map[string][]domain.Photo, len(profileIDs))
	if len(profileIDs) == 0 {
		return res, nil
	}
	rows, err := r.q(tx).QueryContext(ctx, `SELECT id,profile_id,ref,display_order,created_at FROM profile_photos WHERE profile_id IN (`+placeholders(len(profileIDs))+`) ORDER BY profile_id, display_order ASC, rowid ASC`, anyArgs(profileIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ph domain.Photo
		if err := rows.Scan(&ph.ID, &ph.ProfileID, &ph.URL, &ph.DisplayOrder, &ph.CreatedAt); err != nil {
			return nil, err
		}
		res[ph.ProfileID] = append(res[ph.ProfileID], ph)
	}
	return res, rows.Err()
}
