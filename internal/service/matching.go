package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/innovedge/matchbot/internal/logger"
	"github.com/innovedge/matchbot/internal/model"
)

// Matching detects reciprocal interest between two users and materializes a
// match exactly once per unordered pair.
type Matching struct {
	reactionStore model.ReactionStore
	matchStore    model.MatchStore
	userStore     model.UserStore
	taskStore     model.TaskStore
	logger        *logger.Logger

	mu        sync.Mutex
	pairLocks map[string]*sync.Mutex
}

func NewMatching(
	reactionStore model.ReactionStore,
	matchStore model.MatchStore,
	userStore model.UserStore,
	taskStore model.TaskStore,
	logger *logger.Logger,
) *Matching {
	return &Matching{
		reactionStore: reactionStore,
		matchStore:    matchStore,
		userStore:     userStore,
		taskStore:     taskStore,
		logger:        logger,
		pairLocks:     make(map[string]*sync.Mutex),
	}
}

// InterestResult reports the outcome of recording one reaction.
type InterestResult struct {
	Match        model.Match
	MatchCreated bool
}

// RecordInterest appends a like from one user to another and, when the
// reverse reaction already exists, creates the pair's match. The
// check-then-create sequence is serialized per unordered pair; the unique
// index on the pair key backs it as a compare-and-swap. Repeat reactions may
// add rows but never a second match.
func (s *Matching) RecordInterest(ctx context.Context, fromUserID, toUserID uuid.UUID) (InterestResult, error) {
	lock := s.pairLock(model.PairKey(fromUserID, toUserID))
	lock.Lock()
	defer lock.Unlock()

	_, err := s.reactionStore.Create(ctx, model.Reaction{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Type:       model.ReactionLike,
	})
	if err != nil {
		return InterestResult{}, fmt.Errorf("failed to create reaction: %w", err)
	}

	reciprocal, err := s.reactionStore.Exists(ctx, toUserID, fromUserID, model.ReactionLike)
	if err != nil {
		return InterestResult{}, fmt.Errorf("failed to check reciprocal reaction: %w", err)
	}
	if !reciprocal {
		return InterestResult{}, nil
	}

	match, created, err := s.matchStore.CreateIfAbsent(ctx, model.NewMatch(fromUserID, toUserID))
	if err != nil {
		return InterestResult{}, fmt.Errorf("failed to create match: %w", err)
	}

	if created {
		s.logger.Info("matching: new match",
			"pair_key", match.PairKey)
	}

	return InterestResult{Match: match, MatchCreated: created}, nil
}

// ApplyResult reports the outcome of a task application.
type ApplyResult struct {
	Task         model.Task
	Owner        model.User
	MatchCreated bool
}

// ApplyToTask records a talent's interest in a task's owner. A match is
// reported only when the owner had already reacted back.
func (s *Matching) ApplyToTask(ctx context.Context, talent model.User, taskID uuid.UUID) (ApplyResult, error) {
	if talent.Role != model.RoleTalent {
		return ApplyResult{}, model.NewPreconditionError("Only talents can apply to tasks.")
	}

	task, err := s.taskStore.GetByID(ctx, taskID)
	if errors.Is(err, model.ErrNotFound) {
		return ApplyResult{}, model.NewPreconditionError("Task not found.")
	}
	if err != nil {
		return ApplyResult{}, fmt.Errorf("failed to get task by id: %w", err)
	}

	if task.OwnerID == talent.ID {
		return ApplyResult{}, model.NewPreconditionError("You cannot apply to your own task.")
	}

	owner, err := s.userStore.GetByID(ctx, task.OwnerID)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("failed to get task owner: %w", err)
	}

	result, err := s.RecordInterest(ctx, talent.ID, owner.ID)
	if err != nil {
		return ApplyResult{}, err
	}

	return ApplyResult{
		Task:         task,
		Owner:        owner,
		MatchCreated: result.MatchCreated,
	}, nil
}

// LikeBackResult reports the outcome of an employer's reverse reaction.
type LikeBackResult struct {
	Target       model.User
	MatchCreated bool
}

// LikeBack records an employer's interest in a talent identified by telegram
// ID, completing the reciprocal pair when the talent applied earlier.
func (s *Matching) LikeBack(ctx context.Context, employer model.User, targetTelegramID int64) (LikeBackResult, error) {
	if employer.Role != model.RoleEmployer {
		return LikeBackResult{}, model.NewPreconditionError("Only employers can like talents back.")
	}

	target, err := s.userStore.GetByTelegramID(ctx, targetTelegramID)
	if errors.Is(err, model.ErrNotFound) {
		return LikeBackResult{}, model.NewPreconditionError("User not found.")
	}
	if err != nil {
		return LikeBackResult{}, fmt.Errorf("failed to get user by telegram id: %w", err)
	}

	if target.ID == employer.ID {
		return LikeBackResult{}, model.NewPreconditionError("You cannot like yourself.")
	}

	result, err := s.RecordInterest(ctx, employer.ID, target.ID)
	if err != nil {
		return LikeBackResult{}, err
	}

	return LikeBackResult{
		Target:       target,
		MatchCreated: result.MatchCreated,
	}, nil
}

func (s *Matching) pairLock(pairKey string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.pairLocks[pairKey]
	if !ok {
		lock = &sync.Mutex{}
		s.pairLocks[pairKey] = lock
	}
	return lock
}
