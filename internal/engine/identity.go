package engine

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
	"github.com/Jarjarbinks8341/tinder-ido/internal/engine/auth"
	"github.com/Jarjarbinks8341/tinder-ido/internal/events"
	"github.com/Jarjarbinks8341/tinder-ido/internal/repo"
)

// RegisterOptions are parameters for creating a profile.
type RegisterOptions struct {
	Email       string
	Password    string
	Name        string
	Gender      domain.Gender
	Age         int
	Location    string
	Bio         string
	Tags        []string
	IncomeRange domain.IncomeRange
	Education   domain.Education
	Industry    domain.Industry
}

// Token is an issued bearer credential.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	Profile     domain.Profile
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (e Engine) validateRegister(opts *RegisterOptions) error {
	opts.Email = normalizeEmail(opts.Email)
	opts.Name = strings.TrimSpace(opts.Name)
	opts.Location = strings.TrimSpace(opts.Location)
	opts.Bio = strings.TrimSpace(opts.Bio)
	if opts.Email == "" {
		return invalid("email", "is required")
	}
	if addr, err := mail.ParseAddress(opts.Email); err != nil || addr.Address != opts.Email {
		return invalid("email", "is not a valid address")
	}
	if len(opts.Password) < e.Config.Auth.PasswordMinLength {
		return invalid("password", "must be at least %d characters", e.Config.Auth.PasswordMinLength)
	}
	if opts.Name == "" {
		return invalid("name", "is required")
	}
	if !opts.Gender.Valid() {
		return invalid("gender", "must be one of male, female, other")
	}
	if err := e.validateAge("age", opts.Age); err != nil {
		return err
	}
	return validateAttributes(opts.IncomeRange, opts.Education, opts.Industry)
}

func (e Engine) validateAge(field string, age int) error {
	lo, hi := e.Config.Profiles.MinAge, e.Config.Profiles.MaxAge
	if age < lo || age > hi {
		return invalid(field, "must be between %d and %d", lo, hi)
	}
	return nil
}

func validateAttributes(income domain.IncomeRange, edu domain.Education, ind domain.Industry) error {
	if income != "" && !income.Valid() {
		return invalid("income_range", "unknown value %q", income)
	}
	if edu != "" && !edu.Valid() {
		return invalid("education", "unknown value %q", edu)
	}
	if ind != "" && !ind.Valid() {
		return invalid("industry", "unknown value %q", ind)
	}
	return nil
}

// Register creates a profile together with its outreach agent. Both rows
// commit together or not at all.
func (e Engine) Register(ctx context.Context, opts RegisterOptions) (domain.Profile, error) {
	if err := e.validateRegister(&opts); err != nil {
		return domain.Profile{}, err
	}
	hash, err := auth.HashPassword(opts.Password, e.Config.Auth.BcryptCost)
	if err != nil {
		return domain.Profile{}, err
	}
	now := e.stamp()
	p := domain.Profile{
		ID:           newID(),
		Email:        opts.Email,
		PasswordHash: hash,
		Name:         opts.Name,
		Gender:       opts.Gender,
		Age:          opts.Age,
		Location:     opts.Location,
		Bio:          opts.Bio,
		Tags:         domain.NormalizeTags(opts.Tags),
		IncomeRange:  opts.IncomeRange,
		Education:    opts.Education,
		Industry:     opts.Industry,
		Photos:       []domain.Photo{},
		CreatedAt:    now,
	}
	agent := domain.Agent{
		ID:        newID(),
		ProfileID: p.ID,
		Name:      p.Name + "'s Agent",
		Status:    domain.AgentPending,
		CreatedAt: now,
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Profile{}, err
	}
	defer tx.Rollback()

	taken, err := e.Repo.EmailExists(ctx, tx, p.Email)
	if err != nil {
		return domain.Profile{}, err
	}
	if taken {
		return domain.Profile{}, conflict("email already registered")
	}
	if err := e.Repo.InsertProfile(ctx, tx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return domain.Profile{}, conflict("email already registered")
		}
		return domain.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	if err := e.Repo.InsertAgent(ctx, tx, agent); err != nil {
		return domain.Profile{}, fmt.Errorf("insert agent: %w", err)
	}
	if err := e.appendEvent(ctx, tx, events.ProfileRegistered, "profile", p.ID, p.ID, events.Payload{"agent_id": agent.ID}); err != nil {
		return domain.Profile{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Profile{}, err
	}
	e.log().Info("profile registered", zap.String("profile_id", p.ID))
	return p, nil
}

// Authenticate checks credentials and issues a bearer token.
func (e Engine) Authenticate(ctx context.Context, email, password string) (Token, error) {
	p, err := e.Repo.GetProfileByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return Token{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if err != nil {
		return Token{}, err
	}
	if !auth.CheckPassword(p.PasswordHash, password) {
		return Token{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	signed, exp, err := e.tokens().Issue(p.ID)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, TokenType: "bearer", ExpiresAt: exp, Profile: p}, nil
}

// ResolveToken maps a bearer token to its profile. Expired, malformed or
// orphaned tokens report ok=false rather than an error; err is reserved for
// store failures.
func (e Engine) ResolveToken(ctx context.Context, token string) (domain.Profile, bool, error) {
	sub, err := e.tokens().Resolve(token)
	if err != nil {
		return domain.Profile{}, false, nil
	}
	p, err := e.Repo.GetProfile(ctx, nil, sub)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.Profile{}, false, nil
	}
	if err != nil {
		return domain.Profile{}, false, err
	}
	return p, true, nil
}

func (e Engine) GetMe(ctx context.Context, profileID string) (domain.Profile, error) {
	p, err := e.Repo.GetProfile(ctx, nil, profileID)
	if errors.Is(err, repo.ErrNotFound) {
		return p, notFound("profile", profileID)
	}
	return p, err
}

func (e Engine) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	return e.Repo.ListProfiles(ctx)
}

// ProfileUpdateOptions carries a partial edit; nil fields are left untouched
// and an empty string clears an optional attribute.
type ProfileUpdateOptions struct {
	Location    *string
	Bio         *string
	Tags        *[]string
	IncomeRange *domain.IncomeRange
	Education   *domain.Education
	Industry    *domain.Industry
}

func (e Engine) UpdateProfile(ctx context.Context, profileID string, opts ProfileUpdateOptions) (domain.Profile, error) {
	u := repo.ProfileUpdate{}
	var changed []string
	if opts.Location != nil {
		v := strings.TrimSpace(*opts.Location)
		u.Location = &v
		changed = append(changed, "location")
	}
	if opts.Bio != nil {
		v := strings.TrimSpace(*opts.Bio)
		u.Bio = &v
		changed = append(changed, "bio")
	}
	if opts.Tags != nil {
		u.Tags = domain.NormalizeTags(*opts.Tags)
		u.TagsSet = true
		changed = append(changed, "tags")
	}
	var income domain.IncomeRange
	var edu domain.Education
	var ind domain.Industry
	if opts.IncomeRange != nil {
		income = *opts.IncomeRange
		u.IncomeRange = opts.IncomeRange
		changed = append(changed, "income_range")
	}
	if opts.Education != nil {
		edu = *opts.Education
		u.Education = opts.Education
		changed = append(changed, "education")
	}
	if opts.Industry != nil {
		ind = *opts.Industry
		u.Industry = opts.Industry
		changed = append(changed, "industry")
	}
	if err := validateAttributes(income, edu, ind); err != nil {
		return domain.Profile{}, err
	}
	if u.Empty() {
		return e.GetMe(ctx, profileID)
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Profile{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateProfile(ctx, tx, profileID, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return domain.Profile{}, notFound("profile", profileID)
		}
		return domain.Profile{}, err
	}
	if err := e.appendEvent(ctx, tx, events.ProfileUpdated, "profile", profileID, profileID, events.Payload{"fields": changed}); err != nil {
		return domain.Profile{}, err
	}
	p, err := e.Repo.GetProfile(ctx, tx, profileID)
	if err != nil {
		return domain.Profile{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// AddPhotos appends photo references after the caller's existing photos.
func (e Engine) AddPhotos(ctx context.Context, profileID string, refs []string) ([]domain.Photo, error) {
	if len(refs) == 0 {
		return nil, invalid("photos", "at least one photo is required")
	}
	clean := make([]string, len(refs))
	for i, ref := range refs {
		clean[i] = strings.TrimSpace(ref)
		if clean[i] == "" {
			return nil, invalid("photos", "photo %d has an empty reference", i)
		}
	}
	limit := e.Config.Profiles.MaxPhotos

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ok, err := e.Repo.ProfileExists(ctx, tx, profileID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("profile", profileID)
	}
	count, err := e.Repo.CountPhotos(ctx, tx, profileID)
	if err != nil {
		return nil, err
	}
	if count+len(clean) > limit {
		return nil, invalid("photos", "at most %d photos allowed, profile has %d", limit, count)
	}
	order, err := e.Repo.NextPhotoOrder(ctx, tx, profileID)
	if err != nil {
		return nil, err
	}
	now := e.stamp()
	ids := make([]string, 0, len(clean))
	for i, ref := range clean {
		ph := domain.Photo{ID: newID(), ProfileID: profileID, URL: ref, DisplayOrder: order + i, CreatedAt: now}
		if err := e.Repo.InsertPhoto(ctx, tx, ph); err != nil {
			return nil, fmt.Errorf("insert photo: %w", err)
		}
		ids = append(ids, ph.ID)
	}
	if err := e.appendEvent(ctx, tx, events.PhotoAdded, "profile", profileID, profileID, events.Payload{"photo_ids": ids}); err != nil {
		return nil, err
	}
	photos, err := e.Repo.ListPhotos(ctx, tx, profileID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return photos, nil
}

func (e Engine) DeletePhoto(ctx context.Context, profileID, photoID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.DeletePhoto(ctx, tx, profileID, photoID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("photo", photoID)
		}
		return err
	}
	if err := e.appendEvent(ctx, tx, events.PhotoDeleted, "photo", photoID, profileID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteProfile removes the profile and everything that references it.
func (e Engine) DeleteProfile(ctx context.Context, profileID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.DeleteProfile(ctx, tx, profileID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("profile", profileID)
		}
		return err
	}
	if err := e.appendEvent(ctx, tx, events.ProfileDeleted, "profile", profileID, profileID, nil); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	e.log().Info("profile deleted", zap.String("profile_id", profileID))
	return nil
}
