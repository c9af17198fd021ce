package idosdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Tinder IDO HTTP API client.
type Client struct {
	BaseURL     string
	BasePath    string
	BearerToken string
	HTTPClient  *http.Client
	Timeout     time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "/v1",
		Timeout:  10 * time.Second,
	}
}

type Photo struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	DisplayOrder int    `json:"display_order"`
	CreatedAt    string `json:"created_at"`
}

// Profile is the caller's own profile. Candidates and match partners come
// back as the same shape without the email.
type Profile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email,omitempty"`
	Name        string   `json:"name"`
	Gender      string   `json:"gender"`
	Age         int      `json:"age"`
	Location    string   `json:"location,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Tags        []string `json:"tags"`
	IncomeRange string   `json:"income_range,omitempty"`
	Education   string   `json:"education,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	Photos      []Photo  `json:"photos"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

type Registration struct {
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Name        string   `json:"name"`
	Gender      string   `json:"gender"`
	Age         int      `json:"age"`
	Location    string   `json:"location,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IncomeRange string   `json:"income_range,omitempty"`
	Education   string   `json:"education,omitempty"`
	Industry    string   `json:"industry,omitempty"`
}

// ProfileEdit is a partial update; nil fields are left alone.
type ProfileEdit struct {
	Location    *string  `json:"location,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IncomeRange *string  `json:"income_range,omitempty"`
	Education   *string  `json:"education,omitempty"`
	Industry    *string  `json:"industry,omitempty"`
}

type SearchFilters struct {
	Gender      string   `json:"gender,omitempty"`
	MinAge      *int     `json:"min_age,omitempty"`
	MaxAge      *int     `json:"max_age,omitempty"`
	Location    string   `json:"location,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Education   string   `json:"education,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	IncomeRange string   `json:"income_range,omitempty"`
}

type Token struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresAt   string  `json:"expires_at"`
	User        Profile `json:"user"`
}

type Swipe struct {
	ID        string   `json:"id"`
	ActorID   string   `json:"actor_id"`
	TargetID  string   `json:"target_id"`
	Direction string   `json:"direction"`
	SwipedAt  string   `json:"swiped_at"`
	Target    *Profile `json:"target,omitempty"`
	Matched   bool     `json:"matched,omitempty"`
	MatchID   string   `json:"match_id,omitempty"`
}

type Match struct {
	ID          string   `json:"id"`
	MatchedAt   string   `json:"matched_at"`
	MatchedWith *Profile `json:"matched_with,omitempty"`
}

type Agent struct {
	ID        string `json:"id"`
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at"`
}

type OutreachTask struct {
	ID           string   `json:"id"`
	AgentID      string   `json:"agent_id"`
	TargetID     string   `json:"target_id"`
	Status       string   `json:"status"`
	ContactNotes string   `json:"contact_notes,omitempty"`
	CreatedAt    string   `json:"created_at"`
	Target       *Profile `json:"target,omitempty"`
}

// Event represents a log entry.
type Event struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts"`
	Type       string         `json:"type"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id"`
	Payload    map[string]any `json:"payload"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

func (c *Client) Register(ctx context.Context, r Registration) (Profile, error) {
	var resp Profile
	err := c.do(ctx, http.MethodPost, "auth/register", r, &resp)
	return resp, err
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (Token, error) {
	var resp Token
	body := map[string]any{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "auth/login", body, &resp); err != nil {
		return resp, err
	}
	c.BearerToken = resp.AccessToken
	return resp, nil
}

func (c *Client) Me(ctx context.Context) (Profile, error) {
	var resp Profile
	err := c.do(ctx, http.MethodGet, "users/me", nil, &resp)
	return resp, err
}

func (c *Client) UpdateMe(ctx context.Context, edit ProfileEdit) (Profile, error) {
	var resp Profile
	err := c.do(ctx, http.MethodPatch, "users/me", edit, &resp)
	return resp, err
}

func (c *Client) DeleteMe(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "users/me", nil, nil)
}

// AddPhotos attaches photo references to the caller's profile.
func (c *Client) AddPhotos(ctx context.Context, refs ...string) ([]Photo, error) {
	var resp []Photo
	err := c.do(ctx, http.MethodPost, "users/me/photos", map[string]any{"photos": refs}, &resp)
	return resp, err
}

func (c *Client) DeletePhoto(ctx context.Context, photoID string) error {
	return c.do(ctx, http.MethodDelete, "users/me/photos/"+url.PathEscape(photoID), nil, nil)
}

// Search lists candidates for the caller.
func (c *Client) Search(ctx context.Context, f SearchFilters) ([]Profile, error) {
	var resp []Profile
	err := c.do(ctx, http.MethodPost, "candidates/search", f, &resp)
	return resp, err
}

// Swipe records a left or right swipe on targetID.
func (c *Client) Swipe(ctx context.Context, targetID, direction string) (Swipe, error) {
	var resp Swipe
	body := map[string]any{"direction": direction}
	err := c.do(ctx, http.MethodPost, "swipes/"+url.PathEscape(targetID), body, &resp)
	return resp, err
}

func (c *Client) Swipes(ctx context.Context) ([]Swipe, error) {
	var resp []Swipe
	err := c.do(ctx, http.MethodGet, "swipes", nil, &resp)
	return resp, err
}

func (c *Client) Matches(ctx context.Context) ([]Match, error) {
	var resp []Match
	err := c.do(ctx, http.MethodGet, "swipes/matches", nil, &resp)
	return resp, err
}

func (c *Client) Agent(ctx context.Context) (Agent, error) {
	var resp Agent
	err := c.do(ctx, http.MethodGet, "agent/me", nil, &resp)
	return resp, err
}

// OutreachTasks lists the tasks queued for the caller's agent.
func (c *Client) OutreachTasks(ctx context.Context) ([]OutreachTask, error) {
	var resp []OutreachTask
	err := c.do(ctx, http.MethodGet, "matchmaker", nil, &resp)
	return resp, err
}

// Events returns the caller's recent events.
func (c *Client) Events(ctx context.Context, limit int) ([]Event, error) {
	endpoint := "events/me"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var resp []Event
	err := c.do(ctx, http.MethodGet, endpoint, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var env struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(b, &env) == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.Trim(c.BasePath, "/")
}
