package domain

import "time"

// TimeLayout is a fixed-width RFC3339 layout, so stored timestamps sort lexically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

type Profile struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Name         string      `json:"name"`
	Gender       Gender      `json:"gender"`
	Age          int         `json:"age"`
	Location     string      `json:"location,omitempty"`
	Bio          string      `json:"bio,omitempty"`
	Tags         []string    `json:"tags"`
	IncomeRange  IncomeRange `json:"income_range,omitempty"`
	Education    Education   `json:"education,omitempty"`
	Industry     Industry    `json:"industry,omitempty"`
	Photos       []Photo     `json:"photos"`
	CreatedAt    string      `json:"created_at" format:"date-time"`
}

// Public returns the view of p that other profiles may see.
func (p Profile) Public() PublicProfile {
	photos := p.Photos
	if photos == nil {
		photos = []Photo{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	pub := PublicProfile{
		ID:          p.ID,
		Name:        p.Name,
		Gender:      p.Gender,
		Age:         p.Age,
		Location:    p.Location,
		Bio:         p.Bio,
		Tags:        tags,
		IncomeRange: p.IncomeRange,
		Education:   p.Education,
		Industry:    p.Industry,
		Photos:      photos,
	}
	if len(photos) > 0 {
		pub.PhotoURL = photos[0].URL
	}
	return pub
}

type PublicProfile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Gender      Gender      `json:"gender"`
	Age         int         `json:"age"`
	Location    string      `json:"location,omitempty"`
	Bio         string      `json:"bio,omitempty"`
	Tags        []string    `json:"tags"`
	IncomeRange IncomeRange `json:"income_range,omitempty"`
	Education   Education   `json:"education,omitempty"`
	Industry    Industry    `json:"industry,omitempty"`
	PhotoURL    string      `json:"photo_url,omitempty"`
	Photos      []Photo     `json:"photos"`
}

type Photo struct {
	ID           string `json:"id"`
	ProfileID    string `json:"-"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
	CreatedAt    string `json:"created_at" format:"date-time"`
}

type Swipe struct {
	ID        string         `json:"id"`
	ActorID   string         `json:"actor_id"`
	TargetID  string         `json:"target_id"`
	Direction Direction      `json:"direction"`
	SwipedAt  string         `json:"swiped_at" format:"date-time"`
	Target    *PublicProfile `json:"target,omitempty"`
}

// Match pairs two profiles; ProfileAID < ProfileBID always holds.
type Match struct {
	ID         string         `json:"id"`
	ProfileAID string         `json:"profile_a_id"`
	ProfileBID string         `json:"profile_b_id"`
	MatchedAt  string         `json:"matched_at" format:"date-time"`
	ProfileA   *PublicProfile `json:"profile_a,omitempty"`
	ProfileB   *PublicProfile `json:"profile_b,omitempty"`
}

// Other returns the member of m that is not profileID.
func (m Match) Other(profileID string) string {
	if m.ProfileAID == profileID {
		return m.ProfileBID
	}
	return m.ProfileAID
}

// CanonicalPair orders two profile ids so the lower one comes first.
func CanonicalPair(x, y string) (string, string) {
	if y < x {
		return y, x
	}
	return x, y
}

type Agent struct {
	ID        string      `json:"id"`
	ProfileID string      `json:"profile_id"`
	Name      string      `json:"name"`
	Status    AgentStatus `json:"status"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt string      `json:"created_at" format:"date-time"`
}

type OutreachTask struct {
	ID           string         `json:"id"`
	AgentID      string         `json:"agent_id"`
	TargetID     string         `json:"target_id"`
	Status       OutreachStatus `json:"status"`
	ContactNotes string         `json:"contact_notes,omitempty"`
	CreatedAt    string         `json:"created_at" format:"date-time"`
	Target       *PublicProfile `json:"target,omitempty"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    string `json:"actor_id,omitempty"`
	Payload    string `json:"payload_json"`
}
