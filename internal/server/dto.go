package server

import (
	"encoding/json"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
	"github.com/Jarjarbinks8341/tinder-ido/internal/engine"
)

// Request payloads

type RegisterRequest struct {
	Email       string   `json:"email" example:"ann@example.com"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	Gender      string   `json:"gender" enum:"male,female,other"`
	Age         int      `json:"age" example:"25"`
	Location    string   `json:"location,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Tags        []string `json:"tags,omitempty" example:"[\"hiking\",\"coffee\"]"`
	IncomeRange string   `json:"income_range,omitempty" enum:"prefer_not_to_say,0-50K,50K-100K,100K-150K,150K-200K,200K+"`
	Education   string   `json:"education,omitempty" enum:"high_school,associate,bachelor,master,phd,other"`
	Industry    string   `json:"industry,omitempty" enum:"engineering,education,financial_services,healthcare,legal,marketing,real_estate,technology,hospitality,government,arts_entertainment,other"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateMeRequest is a partial edit. Absent fields are untouched; an empty
// string clears an optional attribute and an empty tags array clears tags.
type UpdateMeRequest struct {
	Location    *string  `json:"location,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IncomeRange *string  `json:"income_range,omitempty"`
	Education   *string  `json:"education,omitempty"`
	Industry    *string  `json:"industry,omitempty"`
}

type AddPhotosRequest struct {
	Photos []string `json:"photos" minItems:"1" example:"[\"/uploads/ann-1.jpg\"]"`
}

type SearchRequest struct {
	Gender      string   `json:"gender,omitempty" enum:"male,female,other"`
	MinAge      *int     `json:"min_age,omitempty"`
	MaxAge      *int     `json:"max_age,omitempty"`
	Location    string   `json:"location,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Education   string   `json:"education,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	IncomeRange string   `json:"income_range,omitempty"`
}

type SwipeRequest struct {
	Direction string `json:"direction" enum:"left,right"`
}

// Response payloads

type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type" example:"bearer"`
	ExpiresAt   string         `json:"expires_at" format:"date-time"`
	User        domain.Profile `json:"user"`
}

type SwipeResponse struct {
	ID        string                `json:"id"`
	ActorID   string                `json:"actor_id"`
	TargetID  string                `json:"target_id"`
	Direction string                `json:"direction" enum:"left,right"`
	SwipedAt  string                `json:"swiped_at" format:"date-time"`
	Target    *domain.PublicProfile `json:"target,omitempty"`
	Matched   bool                  `json:"matched"`
	MatchID   string                `json:"match_id,omitempty"`
}

type MatchResponse struct {
	ID          string                `json:"id"`
	MatchedAt   string                `json:"matched_at" format:"date-time"`
	ProfileA    *domain.PublicProfile `json:"profile_a,omitempty"`
	ProfileB    *domain.PublicProfile `json:"profile_b,omitempty"`
	MatchedWith *domain.PublicProfile `json:"matched_with,omitempty"`
}

type EventResponse struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts" format:"date-time"`
	Type       string         `json:"type"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id,omitempty"`
	ActorID    string         `json:"actor_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// Conversion helpers

func registerOptions(r RegisterRequest) engine.RegisterOptions {
	return engine.RegisterOptions{
		Email:       r.Email,
		Password:    r.Password,
		Name:        r.Name,
		Gender:      domain.Gender(r.Gender),
		Age:         r.Age,
		Location:    r.Location,
		Bio:         r.Bio,
		Tags:        r.Tags,
		IncomeRange: domain.IncomeRange(r.IncomeRange),
		Education:   domain.Education(r.Education),
		Industry:    domain.Industry(r.Industry),
	}
}

func updateOptions(r UpdateMeRequest) engine.ProfileUpdateOptions {
	opts := engine.ProfileUpdateOptions{
		Location: r.Location,
		Bio:      r.Bio,
	}
	if r.Tags != nil {
		tags := r.Tags
		opts.Tags = &tags
	}
	if r.IncomeRange != nil {
		v := domain.IncomeRange(*r.IncomeRange)
		opts.IncomeRange = &v
	}
	if r.Education != nil {
		v := domain.Education(*r.Education)
		opts.Education = &v
	}
	if r.Industry != nil {
		v := domain.Industry(*r.Industry)
		opts.Industry = &v
	}
	return opts
}

func searchFilters(r SearchRequest) engine.SearchFilters {
	return engine.SearchFilters{
		Gender:      domain.Gender(r.Gender),
		MinAge:      r.MinAge,
		MaxAge:      r.MaxAge,
		Location:    r.Location,
		Tags:        r.Tags,
		Education:   domain.Education(r.Education),
		Industry:    domain.Industry(r.Industry),
		IncomeRange: domain.IncomeRange(r.IncomeRange),
	}
}

func profileResponse(p domain.Profile) domain.Profile {
	p.Tags = nonNilSlice(p.Tags)
	p.Photos = nonNilSlice(p.Photos)
	return p
}

func swipeResponse(res engine.SwipeResult) SwipeResponse {
	out := SwipeResponse{
		ID:        res.Swipe.ID,
		ActorID:   res.Swipe.ActorID,
		TargetID:  res.Swipe.TargetID,
		Direction: string(res.Swipe.Direction),
		SwipedAt:  res.Swipe.SwipedAt,
		Target:    res.Swipe.Target,
	}
	if res.Match != nil {
		out.Matched = true
		out.MatchID = res.Match.ID
	}
	return out
}

func matchResponse(m domain.Match, viewerID string) MatchResponse {
	out := MatchResponse{
		ID:        m.ID,
		MatchedAt: m.MatchedAt,
		ProfileA:  m.ProfileA,
		ProfileB:  m.ProfileB,
	}
	if m.Other(viewerID) == m.ProfileAID {
		out.MatchedWith = m.ProfileA
	} else {
		out.MatchedWith = m.ProfileB
	}
	return out
}

func eventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		TS:         e.TS,
		Type:       e.Type,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		ActorID:    e.ActorID,
		Payload:    decodeJSONMap(e.Payload),
	}
}

func decodeJSONMap(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil
	}
	return obj
}

func nonNilSlice[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
