package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
	"github.com/Jarjarbinks8341/tinder-ido/internal/engine"
	"github.com/Jarjarbinks8341/tinder-ido/internal/repo"
)

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body HealthResponse `json:"body"`
	}, error) {
		return &struct {
			Body HealthResponse `json:"body"`
		}{Body: HealthResponse{Status: "ok"}}, nil
	})
}

func registerAuth(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Create a profile and its outreach agent",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusConflict, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		Body RegisterRequest `json:"body"`
	}) (*struct {
		Body domain.Profile `json:"body"`
	}, error) {
		p, err := e.Register(ctx, registerOptions(input.Body))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Profile `json:"body"`
		}{Body: profileResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Exchange credentials for a bearer token",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body LoginRequest `json:"body"`
	}) (*struct {
		Body TokenResponse `json:"body"`
	}, error) {
		tok, err := e.Authenticate(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TokenResponse `json:"body"`
		}{Body: TokenResponse{
			AccessToken: tok.AccessToken,
			TokenType:   tok.TokenType,
			ExpiresAt:   domain.FormatTime(tok.ExpiresAt),
			User:        profileResponse(tok.Profile),
		}}, nil
	})
}

func registerUsers(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/users/me",
		Summary:     "Current profile",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.Profile `json:"body"`
	}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		return &struct {
			Body domain.Profile `json:"body"`
		}{Body: profileResponse(caller)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-me",
		Method:      http.MethodPatch,
		Path:        "/users/me",
		Summary:     "Edit profile attributes",
		Errors:      []int{http.StatusUnauthorized, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		Body UpdateMeRequest `json:"body"`
	}) (*struct {
		Body domain.Profile `json:"body"`
	}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		p, err := e.UpdateProfile(ctx, caller.ID, updateOptions(input.Body))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Profile `json:"body"`
		}{Body: profileResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-me",
		Method:        http.MethodDelete,
		Path:          "/users/me",
		Summary:       "Delete the current profile and everything it owns",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.DeleteProfile(ctx, caller.ID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-photos",
		Method:        http.MethodPost,
		Path:          "/users/me/photos",
		Summary:       "Append photo references",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusUnauthorized, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		Body AddPhotosRequest `json:"body"`
	}) (*struct {
		Body []domain.Photo `json:"body"`
	}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		photos, err := e.AddPhotos(ctx, caller.ID, input.Body.Photos)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Photo `json:"body"`
		}{Body: nonNilSlice(photos)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-photo",
		Method:        http.MethodDelete,
		Path:          "/users/me/photos/{photo_id}",
		Summary:       "Remove one of the caller's photos",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		PhotoID string `path:"photo_id"`
	}) (*struct{}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.DeletePhoto(ctx, caller.ID, input.PhotoID); err != nil {
			return nil, handleError(err)
		}
		return nil, nil
	})
}

func registerCandidates(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "search-candidates",
		Method:      http.MethodPost,
		Path:        "/candidates/search",
		Summary:     "Profiles the caller has not decided on yet",
		Errors:      []int{http.StatusUnauthorized, http.StatusUnprocessableEntity},
	}, func(ctx context.Context, input *struct {
		Body SearchRequest `json:"body" required:"false"`
	}) (*struct {
		Body []domain.PublicProfile `json:"body"`
	}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		items, err := e.Search(ctx, caller.ID, searchFilters(input.Body))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.PublicProfile `json:"body"`
		}{Body: nonNilSlice(items)}, nil
	})
}

func registerSwipes(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "swipe",
		Method:        http.MethodPost,
		Path:          "/swipes/{target_id}",
		Summary:       "Swipe on a profile",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusNotFound,
			http.StatusConflict,
		},
	}, func(ctx context.Context, input *struct {
		TargetID string       `path:"target_id"`
		Body     SwipeRequest `json:"body"`
	}) (*struct {
		Body SwipeResponse `json:"body"`
	}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		res, err := e.RecordSwipe(ctx, caller.ID, input.TargetID, domain.Direction(input.Body.Direction))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SwipeResponse `json:"body"`
		}{Body: swipeResponse(res)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-swipes",
		Method:      http.MethodGet,
		Path:        "/swipes",
		Summary:     "Swipe history, newest first",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Swipe `json:"body"`
	}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		items, err := e.ListSwipes(ctx, caller.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Swipe `json:"body"`
		}{Body: nonNilSlice(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-matches",
		Method:      http.MethodGet,
		Path:        "/swipes/matches",
		Summary:     "Mutual matches, newest first",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []MatchResponse `json:"body"`
	}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		items, err := e.ListMatches(ctx, caller.ID)
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]MatchResponse, 0, len(items))
		for _, m := range items {
			out = append(out, matchResponse(m, caller.ID))
		}
		return &struct {
			Body []MatchResponse `json:"body"`
		}{Body: out}, nil
	})
}

func registerOutreach(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "get-my-agent",
		Method:      http.MethodGet,
		Path:        "/agent/me",
		Summary:     "The caller's outreach agent",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.Agent `json:"body"`
	}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		a, err := e.GetAgent(ctx, caller.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Agent `json:"body"`
		}{Body: a}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-outreach-tasks",
		Method:      http.MethodGet,
		Path:        "/matchmaker",
		Summary:     "Outreach tasks queued on the caller's agent, newest first",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.OutreachTask `json:"body"`
	}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		items, err := e.ListOutreachTasks(ctx, caller.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.OutreachTask `json:"body"`
		}{Body: nonNilSlice(items)}, nil
	})
}

func registerEvents(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-my-events",
		Method:      http.MethodGet,
		Path:        "/events/me",
		Summary:     "Events caused by the caller, newest first",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Type       string `query:"type"`
		EntityKind string `query:"entity_kind" enum:"profile,photo,swipe,match,outreach_task"`
		Limit      int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
	}) (*struct {
		Body []EventResponse `json:"body"`
	}, error) {
		caller, authErr := callerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		items, err := e.ListEvents(ctx, repo.EventFilters{
			ActorID:    caller.ID,
			Type:       input.Type,
			EntityKind: input.EntityKind,
			Limit:      input.Limit,
		})
		if err != nil {
			return nil, handleError(err)
		}
		out := make([]EventResponse, 0, len(items))
		for _, ev := range items {
			out = append(out, eventResponse(ev))
		}
		return &struct {
			Body []EventResponse `json:"body"`
		}{Body: out}, nil
	})
}
