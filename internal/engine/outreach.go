package engine

import (
	"context"
	"errors"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
	"github.com/Jarjarbinks8341/tinder-ido/internal/repo"
)

func (e Engine) GetAgent(ctx context.Context, profileID string) (domain.Agent, error) {
	a, err := e.Repo.GetAgentByProfile(ctx, nil, profileID)
	if errors.Is(err, repo.ErrNotFound) {
		return a, notFound("agent for profile", profileID)
	}
	return a, err
}

// ListOutreachTasks returns the tasks queued on profileID's agent, newest first.
func (e Engine) ListOutreachTasks(ctx context.Context, profileID string) ([]domain.OutreachTask, error) {
	agent, err := e.GetAgent(ctx, profileID)
	if err != nil {
		return nil, err
	}
	tasks, err := e.Repo.ListOutreachTasks(ctx, agent.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.TargetID
	}
	profiles, err := e.Repo.ProfilesByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if p, ok := profiles[tasks[i].TargetID]; ok {
			pub := p.Public()
			tasks[i].Target = &pub
		}
	}
	return tasks, nil
}

const defaultEventLimit = 50

// ListEvents returns recorded events, newest first. Limit <= 0 uses the default page size.
func (e Engine) ListEvents(ctx context.Context, f repo.EventFilters) ([]domain.Event, error) {
	if f.Limit <= 0 {
		f.Limit = defaultEventLimit
	}
	return e.Repo.ListEvents(ctx, f)
}
