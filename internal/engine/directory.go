package engine

import (
	"context"
	"strings"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
	"github.com/Jarjarbinks8341/tinder-ido/internal/repo"
)

// SearchFilters narrows candidate listings. Every filter is optional;
// Tags matches when any requested tag is present.
type SearchFilters struct {
	Gender      domain.Gender
	MinAge      *int
	MaxAge      *int
	Location    string
	Tags        []string
	Education   domain.Education
	Industry    domain.Industry
	IncomeRange domain.IncomeRange
}

// Search lists the profiles viewerID may still decide on: never the viewer,
// never anyone the viewer already swiped on in either direction.
func (e Engine) Search(ctx context.Context, viewerID string, f SearchFilters) ([]domain.PublicProfile, error) {
	if f.Gender != "" && !f.Gender.Valid() {
		return nil, invalid("gender", "unknown value %q", f.Gender)
	}
	if err := validateAttributes(f.IncomeRange, f.Education, f.Industry); err != nil {
		return nil, err
	}
	profiles, err := e.Repo.ListCandidates(ctx, repo.CandidateFilters{
		ViewerID:    viewerID,
		Gender:      f.Gender,
		MinAge:      f.MinAge,
		MaxAge:      f.MaxAge,
		Education:   f.Education,
		Industry:    f.Industry,
		IncomeRange: f.IncomeRange,
	})
	if err != nil {
		return nil, err
	}
	// Location and tags are matched here: SQLite LOWER only folds ASCII.
	location := strings.ToLower(strings.TrimSpace(f.Location))
	wanted := domain.NormalizeTags(f.Tags)
	res := make([]domain.PublicProfile, 0, len(profiles))
	for _, p := range profiles {
		if location != "" && !strings.Contains(strings.ToLower(p.Location), location) {
			continue
		}
		if !domain.TagsOverlap(p.Tags, wanted) {
			continue
		}
		res = append(res, p.Public())
	}
	return res, nil
}
