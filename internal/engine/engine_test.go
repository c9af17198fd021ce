package engine_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/Jarjarbinks8341/tinder-ido/internal/config"
	"github.com/Jarjarbinks8341/tinder-ido/internal/db"
	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
	"github.com/Jarjarbinks8341/tinder-ido/internal/engine"
	"github.com/Jarjarbinks8341/tinder-ido/internal/migrate"
	"github.com/Jarjarbinks8341/tinder-ido/internal/repo"
)

type testEnv struct {
	Engine engine.Engine
	Ctx    context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	ctx := context.Background()
	_, err = migrate.Migrate(ctx, conn)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	eng := engine.New(conn, cfg, nil)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick atomic.Int64
	eng.Now = func() time.Time { return base.Add(time.Duration(tick.Add(1)) * time.Second) }
	return testEnv{Engine: eng, Ctx: ctx}
}

func (env testEnv) register(t *testing.T, name string, gender domain.Gender, age int, mods ...func(*engine.RegisterOptions)) domain.Profile {
	t.Helper()
	opts := engine.RegisterOptions{
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "secret1",
		Name:     name,
		Gender:   gender,
		Age:      age,
	}
	for _, mod := range mods {
		mod(&opts)
	}
	p, err := env.Engine.Register(env.Ctx, opts)
	require.NoError(t, err)
	return p
}

func (env testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, env.Engine.DB.QueryRowContext(env.Ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func ids(items []domain.PublicProfile) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestRegisterCreatesAgentInSameTransaction(t *testing.T) {
	env := newTestEnv(t)
	p := env.register(t, "ann", domain.GenderFemale, 25, func(o *engine.RegisterOptions) {
		o.Tags = []string{" Hiking", "coffee", "hiking"}
	})
	assert.Equal(t, []string{"hiking", "coffee"}, p.Tags)
	assert.NotEqual(t, "secret1", p.PasswordHash)

	agent, err := env.Engine.GetAgent(env.Ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann's Agent", agent.Name)
	assert.Equal(t, domain.AgentPending, agent.Status)
	assert.Equal(t, 1, env.count(t, "profiles"))
	assert.Equal(t, 1, env.count(t, "agents"))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name  string
		field string
		mod   func(*engine.RegisterOptions)
	}{
		{name: "too young", field: "age", mod: func(o *engine.RegisterOptions) { o.Age = 17 }},
		{name: "too old", field: "age", mod: func(o *engine.RegisterOptions) { o.Age = 101 }},
		{name: "short password", field: "password", mod: func(o *engine.RegisterOptions) { o.Password = "12345" }},
		{name: "unknown gender", field: "gender", mod: func(o *engine.RegisterOptions) { o.Gender = "robot" }},
		{name: "bad email", field: "email", mod: func(o *engine.RegisterOptions) { o.Email = "not-an-email" }},
		{name: "blank name", field: "name", mod: func(o *engine.RegisterOptions) { o.Name = "  " }},
		{name: "unknown income", field: "income_range", mod: func(o *engine.RegisterOptions) { o.IncomeRange = "lots" }},
		{name: "unknown industry", field: "industry", mod: func(o *engine.RegisterOptions) { o.Industry = "piracy" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := engine.RegisterOptions{Email: "v@example.com", Password: "secret1", Name: "Val", Gender: domain.GenderMale, Age: 30}
			tt.mod(&opts)
			_, err := env.Engine.Register(env.Ctx, opts)
			var ve engine.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
	assert.Equal(t, 0, env.count(t, "profiles"))
	assert.Equal(t, 0, env.count(t, "agents"))

	_, err := env.Engine.Register(env.Ctx, engine.RegisterOptions{Email: "edge@example.com", Password: "secret", Name: "Edge", Gender: domain.GenderOther, Age: 18})
	require.NoError(t, err)
	_, err = env.Engine.Register(env.Ctx, engine.RegisterOptions{Email: "edge2@example.com", Password: "secret", Name: "Edge", Gender: domain.GenderOther, Age: 100})
	require.NoError(t, err)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ann", domain.GenderFemale, 25)
	_, err := env.Engine.Register(env.Ctx, engine.RegisterOptions{Email: " ANN@example.com", Password: "secret1", Name: "Other", Gender: domain.GenderFemale, Age: 30})
	require.ErrorIs(t, err, engine.ErrConflict)
	assert.Equal(t, 1, env.count(t, "profiles"))
	assert.Equal(t, 1, env.count(t, "agents"))
}

func TestAuthenticateAndResolveToken(t *testing.T) {
	env := newTestEnv(t)
	p := env.register(t, "ann", domain.GenderFemale, 25)

	tok, err := env.Engine.Authenticate(env.Ctx, "Ann@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, p.ID, tok.Profile.ID)

	_, err = env.Engine.Authenticate(env.Ctx, "ann@example.com", "wrong-password")
	require.ErrorIs(t, err, engine.ErrUnauthorized)
	_, err = env.Engine.Authenticate(env.Ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, engine.ErrUnauthorized)

	got, ok, err := env.Engine.ResolveToken(env.Ctx, tok.AccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, p.ID, got.ID)

	_, ok, err = env.Engine.ResolveToken(env.Ctx, "garbage")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, env.Engine.DeleteProfile(env.Ctx, p.ID))
	_, ok, err = env.Engine.ResolveToken(env.Ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.False(t, ok, "token for a deleted profile must not resolve")
}

func TestResolveTokenRejectsExpired(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ann", domain.GenderFemale, 25)
	tok, err := env.Engine.Authenticate(env.Ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	later := env.Engine
	later.Now = func() time.Time { return tok.ExpiresAt.Add(time.Minute) }
	_, ok, err := later.ResolveToken(env.Ctx, tok.AccessToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchExcludesSelfAndSwiped(t *testing.T) {
	env := newTestEnv(t)
	v := env.register(t, "val", domain.GenderMale, 28)
	a := env.register(t, "ann", domain.GenderFemale, 25)
	b := env.register(t, "bea", domain.GenderFemale, 30)
	c := env.register(t, "cat", domain.GenderFemale, 35)

	got, err := env.Engine.Search(env.Ctx, v.ID, engine.SearchFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, ids(got))

	_, err = env.Engine.RecordSwipe(env.Ctx, v.ID, a.ID, domain.DirectionLeft)
	require.NoError(t, err)
	_, err = env.Engine.RecordSwipe(env.Ctx, v.ID, b.ID, domain.DirectionRight)
	require.NoError(t, err)

	got, err = env.Engine.Search(env.Ctx, v.ID, engine.SearchFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, ids(got))

	// Another viewer is unaffected by v's swipes.
	got, err = env.Engine.Search(env.Ctx, a.ID, engine.SearchFilters{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{v.ID, b.ID, c.ID}, ids(got))
}

func TestSearchFilters(t *testing.T) {
	env := newTestEnv(t)
	viewer := env.register(t, "val", domain.GenderMale, 28)
	ann := env.register(t, "ann", domain.GenderFemale, 25, func(o *engine.RegisterOptions) {
		o.Location = "San Francisco, CA"
		o.Tags = []string{"art", "hiking"}
		o.Education = domain.EducationMaster
		o.Industry = domain.IndustryTechnology
		o.IncomeRange = domain.Income100To150K
	})
	bob := env.register(t, "bob", domain.GenderMale, 40, func(o *engine.RegisterOptions) {
		o.Location = "New York"
		o.Tags = []string{"cart", "Coffee"}
		o.Education = domain.EducationBachelor
	})
	zoe := env.register(t, "zoe", domain.GenderOther, 30, func(o *engine.RegisterOptions) {
		o.Location = "south san francisco"
	})

	age := func(n int) *int { return &n }
	tests := []struct {
		name   string
		filter engine.SearchFilters
		expect []string
	}{
		{name: "none", filter: engine.SearchFilters{}, expect: []string{ann.ID, bob.ID, zoe.ID}},
		{name: "gender", filter: engine.SearchFilters{Gender: domain.GenderFemale}, expect: []string{ann.ID}},
		{name: "age range inclusive", filter: engine.SearchFilters{MinAge: age(25), MaxAge: age(30)}, expect: []string{ann.ID, zoe.ID}},
		{name: "min age only", filter: engine.SearchFilters{MinAge: age(31)}, expect: []string{bob.ID}},
		{name: "inverted range", filter: engine.SearchFilters{MinAge: age(50), MaxAge: age(20)}, expect: []string{}},
		{name: "location substring any case", filter: engine.SearchFilters{Location: "SAN FRAN"}, expect: []string{ann.ID, zoe.ID}},
		{name: "tags whole token", filter: engine.SearchFilters{Tags: []string{"art"}}, expect: []string{ann.ID}},
		{name: "tags any overlap", filter: engine.SearchFilters{Tags: []string{" COFFEE ", "hiking"}}, expect: []string{ann.ID, bob.ID}},
		{name: "education", filter: engine.SearchFilters{Education: domain.EducationBachelor}, expect: []string{bob.ID}},
		{name: "industry", filter: engine.SearchFilters{Industry: domain.IndustryTechnology}, expect: []string{ann.ID}},
		{name: "income", filter: engine.SearchFilters{IncomeRange: domain.Income100To150K}, expect: []string{ann.ID}},
		{name: "conjunctive", filter: engine.SearchFilters{Gender: domain.GenderMale, Location: "york", Tags: []string{"coffee"}}, expect: []string{bob.ID}},
		{name: "conjunctive miss", filter: engine.SearchFilters{Gender: domain.GenderFemale, Location: "york"}, expect: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.Engine.Search(env.Ctx, viewer.ID, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, ids(got))
		})
	}

	_, err := env.Engine.Search(env.Ctx, viewer.ID, engine.SearchFilters{Gender: "robot"})
	var ve engine.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestRecordSwipeRejections(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "ann", domain.GenderFemale, 25)

	_, err := env.Engine.RecordSwipe(env.Ctx, a.ID, a.ID, domain.DirectionRight)
	require.ErrorIs(t, err, engine.ErrInvalidOperation)

	_, err = env.Engine.RecordSwipe(env.Ctx, a.ID, "missing", domain.DirectionRight)
	require.ErrorIs(t, err, repo.ErrNotFound)

	_, err = env.Engine.RecordSwipe(env.Ctx, a.ID, "missing", "up")
	var ve engine.ValidationError
	require.ErrorAs(t, err, &ve)

	assert.Equal(t, 0, env.count(t, "swipes"))
	assert.Equal(t, 0, env.count(t, "outreach_tasks"))
}

func TestLeftSwipeDerivesNothing(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "ann", domain.GenderFemale, 25)
	b := env.register(t, "bob", domain.GenderMale, 28)

	_, err := env.Engine.RecordSwipe(env.Ctx, b.ID, a.ID, domain.DirectionRight)
	require.NoError(t, err)
	res, err := env.Engine.RecordSwipe(env.Ctx, a.ID, b.ID, domain.DirectionLeft)
	require.NoError(t, err)
	assert.Nil(t, res.Match)
	assert.Nil(t, res.OutreachTask)
	assert.Equal(t, 0, env.count(t, "matches"))

	tasks, err := env.Engine.ListOutreachTasks(env.Ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestRightSwipeAlwaysEnqueuesOneTask(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "ann", domain.GenderFemale, 25)
	b := env.register(t, "bob", domain.GenderMale, 28)

	res, err := env.Engine.RecordSwipe(env.Ctx, a.ID, b.ID, domain.DirectionRight)
	require.NoError(t, err)
	assert.Nil(t, res.Match)
	require.NotNil(t, res.OutreachTask)
	require.NotNil(t, res.Swipe.Target)
	assert.Equal(t, b.ID, res.Swipe.Target.ID)

	agent, err := env.Engine.GetAgent(env.Ctx, a.ID)
	require.NoError(t, err)
	tasks, err := env.Engine.ListOutreachTasks(env.Ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, agent.ID, tasks[0].AgentID)
	assert.Equal(t, b.ID, tasks[0].TargetID)
	assert.Equal(t, domain.OutreachPending, tasks[0].Status)
	assert.Empty(t, tasks[0].ContactNotes)
	require.NotNil(t, tasks[0].Target)
	assert.Equal(t, "bob", tasks[0].Target.Name)
}

func TestDuplicateSwipeLeavesNoRows(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "ann", domain.GenderFemale, 25)
	b := env.register(t, "bob", domain.GenderMale, 28)
	_, err := env.Engine.RecordSwipe(env.Ctx, b.ID, a.ID, domain.DirectionRight)
	require.NoError(t, err)
	_, err = env.Engine.RecordSwipe(env.Ctx, a.ID, b.ID, domain.DirectionLeft)
	require.NoError(t, err)

	before := map[string]int{}
	tables := []string{"swipes", "matches", "outreach_tasks", "events"}
	for _, tbl := range tables {
		before[tbl] = env.count(t, tbl)
	}
	for _, dir := range []domain.Direction{domain.DirectionLeft, domain.DirectionRight} {
		_, err := env.Engine.RecordSwipe(env.Ctx, a.ID, b.ID, dir)
		require.ErrorIs(t, err, engine.ErrConflict)
	}
	for _, tbl := range tables {
		assert.Equal(t, before[tbl], env.count(t, tbl), tbl)
	}
}

func TestMutualMatchIsOrderIndependent(t *testing.T) {
	for _, first := range []string{"ann", "bob"} {
		t.Run(first+" first", func(t *testing.T) {
			env := newTestEnv(t)
			a := env.register(t, "ann", domain.GenderFemale, 25)
			b := env.register(t, "bob", domain.GenderMale, 28)
			x, y := a, b
			if first == "bob" {
				x, y = b, a
			}
			res, err := env.Engine.RecordSwipe(env.Ctx, x.ID, y.ID, domain.DirectionRight)
			require.NoError(t, err)
			assert.Nil(t, res.Match)
			res, err = env.Engine.RecordSwipe(env.Ctx, y.ID, x.ID, domain.DirectionRight)
			require.NoError(t, err)
			require.NotNil(t, res.Match)

			lo, hi := domain.CanonicalPair(a.ID, b.ID)
			assert.Equal(t, lo, res.Match.ProfileAID)
			assert.Equal(t, hi, res.Match.ProfileBID)
			assert.Equal(t, 1, env.count(t, "matches"))
			assert.Equal(t, 2, env.count(t, "outreach_tasks"))
		})
	}
}

func TestConcurrentReciprocalSwipesCreateOneMatch(t *testing.T) {
	env := newTestEnv(t)
	const pairs = 8
	for i := 0; i < pairs; i++ {
		a := env.register(t, fmt.Sprintf("a%d", i), domain.GenderFemale, 25)
		b := env.register(t, fmt.Sprintf("b%d", i), domain.GenderMale, 28)
		var g errgroup.Group
		g.Go(func() error {
			_, err := env.Engine.RecordSwipe(env.Ctx, a.ID, b.ID, domain.DirectionRight)
			return err
		})
		g.Go(func() error {
			_, err := env.Engine.RecordSwipe(env.Ctx, b.ID, a.ID, domain.DirectionRight)
			return err
		})
		require.NoError(t, g.Wait())

		matches, err := env.Engine.ListMatches(env.Ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, matches, 1, "pair %d", i)
	}
	assert.Equal(t, pairs, env.count(t, "matches"))
	assert.Equal(t, pairs*2, env.count(t, "outreach_tasks"))
}

func TestConcurrentDuplicateSwipesOneWins(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "ann", domain.GenderFemale, 25)
	b := env.register(t, "bob", domain.GenderMale, 28)

	const attempts = 6
	var conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			_, err := env.Engine.RecordSwipe(env.Ctx, a.ID, b.ID, domain.DirectionRight)
			if errors.Is(err, engine.ErrConflict) {
				conflicts.Add(1)
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(attempts-1), conflicts.Load())
	assert.Equal(t, 1, env.count(t, "swipes"))
	assert.Equal(t, 1, env.count(t, "outreach_tasks"))
}

func TestMatchmakingScenario(t *testing.T) {
	env := newTestEnv(t)
	u := env.register(t, "una", domain.GenderFemale, 25)
	v := env.register(t, "vic", domain.GenderMale, 28)

	got, err := env.Engine.Search(env.Ctx, v.ID, engine.SearchFilters{})
	require.NoError(t, err)
	assert.Contains(t, ids(got), u.ID)

	res, err := env.Engine.RecordSwipe(env.Ctx, v.ID, u.ID, domain.DirectionRight)
	require.NoError(t, err)
	assert.Equal(t, domain.DirectionRight, res.Swipe.Direction)
	tasks, err := env.Engine.ListOutreachTasks(env.Ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.OutreachPending, tasks[0].Status)

	_, err = env.Engine.RecordSwipe(env.Ctx, u.ID, v.ID, domain.DirectionRight)
	require.NoError(t, err)
	for _, who := range []domain.Profile{u, v} {
		matches, err := env.Engine.ListMatches(env.Ctx, who.ID)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.ElementsMatch(t, []string{u.ID, v.ID}, []string{matches[0].ProfileAID, matches[0].ProfileBID})
		require.NotNil(t, matches[0].ProfileA)
		require.NotNil(t, matches[0].ProfileB)
	}

	_, err = env.Engine.RecordSwipe(env.Ctx, u.ID, v.ID, domain.DirectionRight)
	require.ErrorIs(t, err, engine.ErrConflict)
	matches, err := env.Engine.ListMatches(env.Ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestListsAreNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	me := env.register(t, "me", domain.GenderOther, 30)
	a := env.register(t, "ann", domain.GenderFemale, 25)
	b := env.register(t, "bob", domain.GenderMale, 28)
	c := env.register(t, "cat", domain.GenderFemale, 33)
	for _, other := range []domain.Profile{a, b, c} {
		_, err := env.Engine.RecordSwipe(env.Ctx, other.ID, me.ID, domain.DirectionRight)
		require.NoError(t, err)
	}
	_, err := env.Engine.RecordSwipe(env.Ctx, me.ID, a.ID, domain.DirectionRight)
	require.NoError(t, err)
	_, err = env.Engine.RecordSwipe(env.Ctx, me.ID, b.ID, domain.DirectionLeft)
	require.NoError(t, err)
	_, err = env.Engine.RecordSwipe(env.Ctx, me.ID, c.ID, domain.DirectionRight)
	require.NoError(t, err)

	swipes, err := env.Engine.ListSwipes(env.Ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, swipes, 3)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, []string{swipes[0].TargetID, swipes[1].TargetID, swipes[2].TargetID})
	require.NotNil(t, swipes[0].Target)
	assert.Equal(t, "cat", swipes[0].Target.Name)

	matches, err := env.Engine.ListMatches(env.Ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, c.ID, matches[0].Other(me.ID))
	assert.Equal(t, a.ID, matches[1].Other(me.ID))

	tasks, err := env.Engine.ListOutreachTasks(env.Ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, c.ID, tasks[0].TargetID)
	assert.Equal(t, a.ID, tasks[1].TargetID)
}

func TestProfileSelfService(t *testing.T) {
	env := newTestEnv(t)
	me := env.register(t, "ann", domain.GenderFemale, 25)

	loc := "Oakland"
	tags := []string{"Jazz", "jazz", " books "}
	edu := domain.EducationPhD
	updated, err := env.Engine.UpdateProfile(env.Ctx, me.ID, engine.ProfileUpdateOptions{Location: &loc, Tags: &tags, Education: &edu})
	require.NoError(t, err)
	assert.Equal(t, "Oakland", updated.Location)
	assert.Equal(t, []string{"jazz", "books"}, updated.Tags)
	assert.Equal(t, domain.EducationPhD, updated.Education)

	bad := domain.Industry("piracy")
	_, err = env.Engine.UpdateProfile(env.Ctx, me.ID, engine.ProfileUpdateOptions{Industry: &bad})
	var ve engine.ValidationError
	require.ErrorAs(t, err, &ve)

	unchanged, err := env.Engine.UpdateProfile(env.Ctx, me.ID, engine.ProfileUpdateOptions{})
	require.NoError(t, err)
	assert.Equal(t, updated.Tags, unchanged.Tags)

	photos, err := env.Engine.AddPhotos(env.Ctx, me.ID, []string{"/uploads/1.jpg", "/uploads/2.jpg"})
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, 0, photos[0].DisplayOrder)
	assert.Equal(t, 1, photos[1].DisplayOrder)

	_, err = env.Engine.AddPhotos(env.Ctx, me.ID, []string{"a", "b", "c", "d", "e"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "photos", ve.Field)
	_, err = env.Engine.AddPhotos(env.Ctx, me.ID, []string{"  "})
	require.ErrorAs(t, err, &ve)

	photos, err = env.Engine.AddPhotos(env.Ctx, me.ID, []string{"c", "d", "e", "f"})
	require.NoError(t, err)
	require.Len(t, photos, 6)

	other := env.register(t, "bob", domain.GenderMale, 28)
	require.ErrorIs(t, env.Engine.DeletePhoto(env.Ctx, other.ID, photos[0].ID), repo.ErrNotFound)
	require.NoError(t, env.Engine.DeletePhoto(env.Ctx, me.ID, photos[0].ID))

	got, err := env.Engine.GetMe(env.Ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, got.Photos, 5)
	assert.Equal(t, "/uploads/2.jpg", got.Public().PhotoURL)
}

func TestDeleteProfileCascades(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "ann", domain.GenderFemale, 25)
	b := env.register(t, "bob", domain.GenderMale, 28)
	_, err := env.Engine.AddPhotos(env.Ctx, a.ID, []string{"/uploads/a.jpg"})
	require.NoError(t, err)
	_, err = env.Engine.RecordSwipe(env.Ctx, a.ID, b.ID, domain.DirectionRight)
	require.NoError(t, err)
	_, err = env.Engine.RecordSwipe(env.Ctx, b.ID, a.ID, domain.DirectionRight)
	require.NoError(t, err)

	require.NoError(t, env.Engine.DeleteProfile(env.Ctx, a.ID))
	require.ErrorIs(t, env.Engine.DeleteProfile(env.Ctx, a.ID), repo.ErrNotFound)

	assert.Equal(t, 1, env.count(t, "profiles"))
	assert.Equal(t, 1, env.count(t, "agents"))
	assert.Equal(t, 0, env.count(t, "profile_photos"))
	assert.Equal(t, 0, env.count(t, "swipes"))
	assert.Equal(t, 0, env.count(t, "matches"))
	assert.Equal(t, 0, env.count(t, "outreach_tasks"))

	_, err = env.Engine.GetAgent(env.Ctx, a.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
	matches, err := env.Engine.ListMatches(env.Ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestEventsFollowTransactions(t *testing.T) {
	env := newTestEnv(t)
	a := env.register(t, "ann", domain.GenderFemale, 25)
	b := env.register(t, "bob", domain.GenderMale, 28)
	_, err := env.Engine.RecordSwipe(env.Ctx, b.ID, a.ID, domain.DirectionRight)
	require.NoError(t, err)
	_, err = env.Engine.RecordSwipe(env.Ctx, a.ID, b.ID, domain.DirectionRight)
	require.NoError(t, err)
	_, err = env.Engine.RecordSwipe(env.Ctx, a.ID, b.ID, domain.DirectionRight)
	require.ErrorIs(t, err, engine.ErrConflict)

	evs, err := env.Engine.ListEvents(env.Ctx, repo.EventFilters{ActorID: a.ID})
	require.NoError(t, err)
	types := make([]string, len(evs))
	for i, ev := range evs {
		types[i] = ev.Type
	}
	assert.Equal(t, []string{"outreach.enqueued", "match.created", "swipe.recorded", "profile.registered"}, types)

	evs, err = env.Engine.ListEvents(env.Ctx, repo.EventFilters{Type: "match.created"})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Contains(t, evs[0].Payload, a.ID)
}
