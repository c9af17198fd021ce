package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
	"github.com/Jarjarbinks8341/tinder-ido/internal/events"
	"github.com/Jarjarbinks8341/tinder-ido/internal/repo"
)

// SwipeResult is the persisted swipe plus whatever it derived.
type SwipeResult struct {
	Swipe        domain.Swipe
	Match        *domain.Match
	OutreachTask *domain.OutreachTask
}

// RecordSwipe stores actorID's decision on targetID. A right swipe also
// creates the match when the target already swiped right on the actor, and
// enqueues an outreach task for the actor's agent. All of it commits in one
// transaction; a duplicate swipe leaves nothing behind.
func (e Engine) RecordSwipe(ctx context.Context, actorID, targetID string, dir domain.Direction) (SwipeResult, error) {
	if !dir.Valid() {
		return SwipeResult{}, invalid("direction", "must be left or right")
	}
	if actorID == targetID {
		return SwipeResult{}, fmt.Errorf("%w: cannot swipe on yourself", ErrInvalidOperation)
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return SwipeResult{}, err
	}
	defer tx.Rollback()

	target, err := e.Repo.GetProfile(ctx, tx, targetID)
	if errors.Is(err, repo.ErrNotFound) {
		return SwipeResult{}, notFound("profile", targetID)
	}
	if err != nil {
		return SwipeResult{}, err
	}

	now := e.stamp()
	s := domain.Swipe{ID: newID(), ActorID: actorID, TargetID: targetID, Direction: dir, SwipedAt: now}
	if err := e.Repo.InsertSwipe(ctx, tx, s); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return SwipeResult{}, conflict("already swiped")
		}
		return SwipeResult{}, fmt.Errorf("insert swipe: %w", err)
	}
	if err := e.appendEvent(ctx, tx, events.SwipeRecorded, "swipe", s.ID, actorID, events.Payload{"target_id": targetID, "direction": dir}); err != nil {
		return SwipeResult{}, err
	}

	res := SwipeResult{Swipe: s}
	if dir == domain.DirectionRight {
		m, err := e.resolveMatch(ctx, tx, actorID, targetID, now)
		if err != nil {
			return SwipeResult{}, err
		}
		res.Match = m
		task, err := e.enqueueOutreach(ctx, tx, actorID, targetID, now)
		if err != nil {
			return SwipeResult{}, err
		}
		res.OutreachTask = &task
	}
	if err := tx.Commit(); err != nil {
		return SwipeResult{}, err
	}

	pub := target.Public()
	res.Swipe.Target = &pub
	e.log().Debug("swipe recorded",
		zap.String("actor_id", actorID),
		zap.String("target_id", targetID),
		zap.String("direction", string(dir)))
	if res.Match != nil {
		e.log().Info("match created", zap.String("match_id", res.Match.ID))
	}
	return res, nil
}

// resolveMatch creates the pair's match when targetID already swiped right on actorID.
func (e Engine) resolveMatch(ctx context.Context, tx *sql.Tx, actorID, targetID, now string) (*domain.Match, error) {
	reciprocal, err := e.Repo.HasRightSwipe(ctx, tx, targetID, actorID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		return nil, nil
	}
	a, b := domain.CanonicalPair(actorID, targetID)
	m := domain.Match{ID: newID(), ProfileAID: a, ProfileBID: b, MatchedAt: now}
	if err := e.Repo.InsertMatch(ctx, tx, m); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, conflict("match already exists")
		}
		return nil, fmt.Errorf("insert match: %w", err)
	}
	if err := e.appendEvent(ctx, tx, events.MatchCreated, "match", m.ID, actorID, events.Payload{"profile_a_id": a, "profile_b_id": b}); err != nil {
		return nil, err
	}
	return &m, nil
}

func (e Engine) enqueueOutreach(ctx context.Context, tx *sql.Tx, actorID, targetID, now string) (domain.OutreachTask, error) {
	agent, err := e.Repo.GetAgentByProfile(ctx, tx, actorID)
	if errors.Is(err, repo.ErrNotFound) {
		return domain.OutreachTask{}, notFound("agent for profile", actorID)
	}
	if err != nil {
		return domain.OutreachTask{}, err
	}
	task := domain.OutreachTask{
		ID:        newID(),
		AgentID:   agent.ID,
		TargetID:  targetID,
		Status:    domain.OutreachPending,
		CreatedAt: now,
	}
	if err := e.Repo.InsertOutreachTask(ctx, tx, task); err != nil {
		return domain.OutreachTask{}, fmt.Errorf("insert outreach task: %w", err)
	}
	if err := e.appendEvent(ctx, tx, events.OutreachEnqueued, "outreach_task", task.ID, actorID, events.Payload{"agent_id": agent.ID, "target_id": targetID}); err != nil {
		return domain.OutreachTask{}, err
	}
	return task, nil
}

// ListSwipes returns actorID's swipe history, newest first, with target views attached.
func (e Engine) ListSwipes(ctx context.Context, actorID string) ([]domain.Swipe, error) {
	swipes, err := e.Repo.ListSwipesByActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(swipes))
	for i, s := range swipes {
		ids[i] = s.TargetID
	}
	profiles, err := e.Repo.ProfilesByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	for i := range swipes {
		if p, ok := profiles[swipes[i].TargetID]; ok {
			pub := p.Public()
			swipes[i].Target = &pub
		}
	}
	return swipes, nil
}

// ListMatches returns every match profileID takes part in, newest first.
func (e Engine) ListMatches(ctx context.Context, profileID string) ([]domain.Match, error) {
	matches, err := e.Repo.ListMatchesFor(ctx, profileID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(matches)*2)
	for _, m := range matches {
		ids = append(ids, m.ProfileAID, m.ProfileBID)
	}
	profiles, err := e.Repo.ProfilesByIDs(ctx, nil, ids)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if p, ok := profiles[matches[i].ProfileAID]; ok {
			pub := p.Public()
			matches[i].ProfileA = &pub
		}
		if p, ok := profiles[matches[i].ProfileBID]; ok {
			pub := p.Public()
			matches[i].ProfileB = &pub
		}
	}
	return matches, nil
}
