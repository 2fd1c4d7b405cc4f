package service

import (
	"context"
	"fmt"

	"github.com/innovedge/matchbot/internal/logger"
	"github.com/innovedge/matchbot/internal/model"
)

// Profile answers the stateless queries behind the menu commands: profile
// lookup, task browsing, and received likes.
type Profile struct {
	userStore     model.UserStore
	taskStore     model.TaskStore
	reactionStore model.ReactionStore
	logger        *logger.Logger
}

func NewProfile(
	userStore model.UserStore,
	taskStore model.TaskStore,
	reactionStore model.ReactionStore,
	logger *logger.Logger,
) *Profile {
	return &Profile{
		userStore:     userStore,
		taskStore:     taskStore,
		reactionStore: reactionStore,
		logger:        logger,
	}
}

// Get returns the user registered under the given telegram ID.
func (s *Profile) Get(ctx context.Context, telegramID int64) (model.User, error) {
	return s.userStore.GetByTelegramID(ctx, telegramID)
}

// BrowseTasks lists all posted tasks.
func (s *Profile) BrowseTasks(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.taskStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// LikesReceived resolves the distinct users who liked the given user.
func (s *Profile) LikesReceived(ctx context.Context, user model.User) ([]model.User, error) {
	reactions, err := s.reactionStore.ListReceived(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list received reactions: %w", err)
	}

	seen := make(map[string]struct{}, len(reactions))
	var users []model.User
	for _, reaction := range reactions {
		if _, ok := seen[reaction.FromUserID.String()]; ok {
			continue
		}
		seen[reaction.FromUserID.String()] = struct{}{}

		from, err := s.userStore.GetByID(ctx, reaction.FromUserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get reacting user: %w", err)
		}
		users = append(users, from)
	}

	return users, nil
}
