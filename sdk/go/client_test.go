package idosdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jarjarbinks8341/tinder-ido/internal/app"
	"github.com/Jarjarbinks8341/tinder-ido/internal/config"
	"github.com/Jarjarbinks8341/tinder-ido/internal/server"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Database.Workspace = t.TempDir()
	cfg.Auth.BcryptCost = 4
	a, err := app.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	handler, err := server.New(server.Config{Engine: a.Engine, BasePath: "/v1"})
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func signUp(t *testing.T, baseURL, email, name, gender string, age int) *Client {
	t.Helper()
	ctx := context.Background()
	c := New(baseURL)
	_, err := c.Register(ctx, Registration{Email: email, Password: "secret1", Name: name, Gender: gender, Age: age})
	require.NoError(t, err)
	_, err = c.Login(ctx, email, "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, c.BearerToken)
	return c
}

func TestClientMatchFlow(t *testing.T) {
	ts := newTestAPI(t)
	ctx := context.Background()
	ann := signUp(t, ts.URL, "ann@example.com", "Ann", "female", 27)
	bob := signUp(t, ts.URL, "bob@example.com", "Bob", "male", 30)

	me, err := bob.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", me.Email)

	candidates, err := bob.Search(ctx, SearchFilters{Gender: "female"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Ann", candidates[0].Name)
	assert.Empty(t, candidates[0].Email)

	swipe, err := bob.Swipe(ctx, candidates[0].ID, "right")
	require.NoError(t, err)
	assert.False(t, swipe.Matched)

	tasks, err := bob.OutreachTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "pending", tasks[0].Status)
	assert.Equal(t, candidates[0].ID, tasks[0].TargetID)

	swipe, err = ann.Swipe(ctx, me.ID, "right")
	require.NoError(t, err)
	assert.True(t, swipe.Matched)
	assert.NotEmpty(t, swipe.MatchID)

	matches, err := ann.Matches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NotNil(t, matches[0].MatchedWith)
	assert.Equal(t, "Bob", matches[0].MatchedWith.Name)

	_, err = ann.Swipe(ctx, me.ID, "left")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "conflict", apiErr.Code)

	swipes, err := ann.Swipes(ctx)
	require.NoError(t, err)
	assert.Len(t, swipes, 1)

	agent, err := ann.Agent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann's Agent", agent.Name)
}

func TestClientProfileEdits(t *testing.T) {
	ts := newTestAPI(t)
	ctx := context.Background()
	c := signUp(t, ts.URL, "cy@example.com", "Cy", "other", 40)

	loc := "Lisbon"
	p, err := c.UpdateMe(ctx, ProfileEdit{Location: &loc, Tags: []string{"surf"}})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", p.Location)
	assert.Equal(t, []string{"surf"}, p.Tags)

	photos, err := c.AddPhotos(ctx, "/uploads/cy.jpg")
	require.NoError(t, err)
	require.Len(t, photos, 1)
	require.NoError(t, c.DeletePhoto(ctx, photos[0].ID))

	events, err := c.Events(ctx, 5)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "photo.deleted", events[0].Type)

	require.NoError(t, c.DeleteMe(ctx))
	_, err = c.Me(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestClientRejectsBadLogin(t *testing.T) {
	ts := newTestAPI(t)
	c := New(ts.URL)
	_, err := c.Login(context.Background(), "nobody@example.com", "whatever")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Empty(t, c.BearerToken)
}
