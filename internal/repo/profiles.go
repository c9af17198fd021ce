package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
)

const profileColumns = `p.id,p.email,p.password_hash,p.name,p.gender,p.age,p.location,p.bio,p.tags,p.income_range,p.education,p.industry,p.created_at`

func scanProfile(row scanner) (domain.Profile, error) {
	var p domain.Profile
	var location, bio, tags, income, education, industry sql.NullString
	var gender string
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Name, &gender, &p.Age, &location, &bio, &tags, &income, &education, &industry, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}
	p.Gender = domain.Gender(gender)
	p.Location = location.String
	p.Bio = bio.String
	p.Tags = domain.SplitTags(tags.String)
	p.IncomeRange = domain.IncomeRange(income.String)
	p.Education = domain.Education(education.String)
	p.Industry = domain.Industry(industry.String)
	p.Photos = []domain.Photo{}
	return p, nil
}

// InsertProfile stores a new profile. A taken email surfaces as ErrDuplicate.
func (r Repo) InsertProfile(ctx context.Context, tx *sql.Tx, p domain.Profile) error {
	_, err := r.q(tx).ExecContext(ctx, `INSERT INTO profiles(id,email,password_hash,name,gender,age,location,bio,tags,income_range,education,industry,created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Email, p.PasswordHash, p.Name, string(p.Gender), p.Age, nullable(p.Location), nullable(p.Bio),
		nullable(domain.JoinTags(p.Tags)), nullable(string(p.IncomeRange)), nullable(string(p.Education)), nullable(string(p.Industry)), p.CreatedAt)
	return translate(err)
}

// GetProfile loads a profile with its photos.
func (r Repo) GetProfile(ctx context.Context, tx *sql.Tx, id string) (domain.Profile, error) {
	p, err := scanProfile(r.q(tx).QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.id=?`, id))
	if err != nil {
		return p, err
	}
	photos, err := r.ListPhotos(ctx, tx, id)
	if err != nil {
		return p, err
	}
	p.Photos = photos
	return p, nil
}

func (r Repo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.email=?`, email))
	if err != nil {
		return p, err
	}
	photos, err := r.ListPhotos(ctx, nil, p.ID)
	if err != nil {
		return p, err
	}
	p.Photos = photos
	return p, nil
}

func (r Repo) EmailExists(ctx context.Context, tx *sql.Tx, email string) (bool, error) {
	var n int
	err := r.q(tx).QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE email=? LIMIT 1`, email).Scan(&n)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r Repo) ProfileExists(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var n int
	err := r.q(tx).QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id=? LIMIT 1`, id).Scan(&n)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// ProfileUpdate carries the optional fields of a profile edit; nil leaves a column untouched.
type ProfileUpdate struct {
	Location    *string
	Bio         *string
	Tags        []string
	TagsSet     bool
	IncomeRange *domain.IncomeRange
	Education   *domain.Education
	Industry    *domain.Industry
}

func (u ProfileUpdate) Empty() bool {
	return u.Location == nil && u.Bio == nil && !u.TagsSet && u.IncomeRange == nil && u.Education == nil && u.Industry == nil
}

func (r Repo) UpdateProfile(ctx context.Context, tx *sql.Tx, id string, u ProfileUpdate) error {
	var (
		fields []string
		args   []any
	)
	if u.Location != nil {
		fields = append(fields, "location=?")
		args = append(args, nullable(*u.Location))
	}
	if u.Bio != nil {
		fields = append(fields, "bio=?")
		args = append(args, nullable(*u.Bio))
	}
	if u.TagsSet {
		fields = append(fields, "tags=?")
		args = append(args, nullable(domain.JoinTags(u.Tags)))
	}
	if u.IncomeRange != nil {
		fields = append(fields, "income_range=?")
		args = append(args, nullable(string(*u.IncomeRange)))
	}
	if u.Education != nil {
		fields = append(fields, "education=?")
		args = append(args, nullable(string(*u.Education)))
	}
	if u.Industry != nil {
		fields = append(fields, "industry=?")
		args = append(args, nullable(string(*u.Industry)))
	}
	if len(fields) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.q(tx).ExecContext(ctx, fmt.Sprintf(`UPDATE profiles SET %s WHERE id=?`, strings.Join(fields, ",")), args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProfile removes a profile; photos, swipes, matches, agent and tasks cascade.
func (r Repo) DeleteProfile(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := r.q(tx).ExecContext(ctx, `DELETE FROM profiles WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	return r.queryProfiles(ctx, `SELECT `+profileColumns+` FROM profiles p ORDER BY p.created_at ASC, p.rowid ASC`)
}

// CandidateFilters narrows the candidate listing. Zero values never narrow.
type CandidateFilters struct {
	ViewerID    string
	Gender      domain.Gender
	MinAge      *int
	MaxAge      *int
	Education   domain.Education
	Industry    domain.Industry
	IncomeRange domain.IncomeRange
}

// ListCandidates returns every profile other than the viewer that the viewer
// has not swiped on, narrowed by the equality and range filters, oldest first.
func (r Repo) ListCandidates(ctx context.Context, f CandidateFilters) ([]domain.Profile, error) {
	clauses := []string{
		"p.id <> ?",
		"NOT EXISTS (SELECT 1 FROM swipes s WHERE s.actor_id=? AND s.target_id=p.id)",
	}
	args := []any{f.ViewerID, f.ViewerID}
	if f.Gender != "" {
		clauses = append(clauses, "p.gender=?")
		args = append(args, string(f.Gender))
	}
	if f.MinAge != nil {
		clauses = append(clauses, "p.age>=?")
		args = append(args, *f.MinAge)
	}
	if f.MaxAge != nil {
		clauses = append(clauses, "p.age<=?")
		args = append(args, *f.MaxAge)
	}
	if f.Education != "" {
		clauses = append(clauses, "p.education=?")
		args = append(args, string(f.Education))
	}
	if f.Industry != "" {
		clauses = append(clauses, "p.industry=?")
		args = append(args, string(f.Industry))
	}
	if f.IncomeRange != "" {
		clauses = append(clauses, "p.income_range=?")
		args = append(args, string(f.IncomeRange))
	}
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY p.created_at ASC, p.rowid ASC`
	return r.queryProfiles(ctx, query, args...)
}

// ProfilesByIDs loads the given profiles with photos, keyed by id. Unknown ids are skipped.
func (r Repo) ProfilesByIDs(ctx context.Context, tx *sql.Tx, ids []string) (map[string]domain.Profile, error) {
	res := make(map[string]domain.Profile, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	rows, err := r.q(tx).QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles p WHERE p.id IN (`+placeholders(len(ids))+`)`, anyArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		res[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	photos, err := r.photosFor(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	for id, p := range res {
		if ph, ok := photos[id]; ok {
			p.Photos = ph
			res[id] = p
		}
	}
	return res, nil
}

func (r Repo) queryProfiles(ctx context.Context, query string, args ...any) ([]domain.Profile, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	ids := make([]string, len(res))
	for i, p := range res {
		ids[i] = p.ID
	}
	photos, err := r.photosFor(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	for i := range res {
		if ph, ok := photos[res[i].ID]; ok {
			res[i].Photos = ph
		}
	}
	return res, nil
}
