package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/innovedge/matchbot/internal/model"
	"github.com/innovedge/matchbot/internal/testutil"
)

func newMatching(reactionStore *MockReactionStore, matchStore *MockMatchStore, userStore *MockUserStore, taskStore *MockTaskStore) *Matching {
	return NewMatching(reactionStore, matchStore, userStore, taskStore, testutil.MakeNoopLogger())
}

// inMemoryReactions backs the reciprocity lookup so call sequences can be
// exercised without a database.
type inMemoryReactions struct {
	rows map[[2]uuid.UUID]int
}

func newInMemoryReactions() *inMemoryReactions {
	return &inMemoryReactions{rows: make(map[[2]uuid.UUID]int)}
}

func (s *inMemoryReactions) Create(_ context.Context, reaction model.Reaction) (model.Reaction, error) {
	s.rows[[2]uuid.UUID{reaction.FromUserID, reaction.ToUserID}]++
	return reaction, nil
}

func (s *inMemoryReactions) Exists(_ context.Context, fromUserID, toUserID uuid.UUID, _ model.ReactionType) (bool, error) {
	return s.rows[[2]uuid.UUID{fromUserID, toUserID}] > 0, nil
}

func (s *inMemoryReactions) ListReceived(_ context.Context, _ uuid.UUID) ([]model.Reaction, error) {
	return nil, nil
}

// inMemoryMatches enforces the pair-key uniqueness the database index
// provides in production.
type inMemoryMatches struct {
	byPair map[string]model.Match
}

func newInMemoryMatches() *inMemoryMatches {
	return &inMemoryMatches{byPair: make(map[string]model.Match)}
}

func (s *inMemoryMatches) CreateIfAbsent(_ context.Context, match model.Match) (model.Match, bool, error) {
	if existing, ok := s.byPair[match.PairKey]; ok {
		return existing, false, nil
	}
	s.byPair[match.PairKey] = match
	return match, true, nil
}

func (s *inMemoryMatches) ListByUser(_ context.Context, _ uuid.UUID) ([]model.Match, error) {
	return nil, nil
}

func TestMatching_RecordInterest_Reciprocity(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	tests := []struct {
		name        string
		calls       [][2]uuid.UUID
		wantMatches int
	}{
		{
			name:        "single direction produces no match",
			calls:       [][2]uuid.UUID{{alice, bob}},
			wantMatches: 0,
		},
		{
			name:        "both directions produce one match",
			calls:       [][2]uuid.UUID{{alice, bob}, {bob, alice}},
			wantMatches: 1,
		},
		{
			name:        "duplicate reactions still produce one match",
			calls:       [][2]uuid.UUID{{alice, bob}, {alice, bob}, {bob, alice}, {bob, alice}, {alice, bob}},
			wantMatches: 1,
		},
		{
			name:        "reverse call order produces one match",
			calls:       [][2]uuid.UUID{{bob, alice}, {alice, bob}},
			wantMatches: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reactions := newInMemoryReactions()
			matches := newInMemoryMatches()
			service := NewMatching(reactions, matches, &MockUserStore{}, &MockTaskStore{}, testutil.MakeNoopLogger())

			ctx := context.Background()
			created := 0
			for _, pair := range tt.calls {
				result, err := service.RecordInterest(ctx, pair[0], pair[1])
				require.NoError(t, err)
				if result.MatchCreated {
					created++
				}
			}

			assert.Equal(t, tt.wantMatches, created, "match creation must be reported exactly once")
			assert.Len(t, matches.byPair, tt.wantMatches)
		})
	}
}

func TestMatching_RecordInterest_NotificationOnlyOnce(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	reactions := newInMemoryReactions()
	matches := newInMemoryMatches()
	service := NewMatching(reactions, matches, &MockUserStore{}, &MockTaskStore{}, testutil.MakeNoopLogger())
	ctx := context.Background()

	_, err := service.RecordInterest(ctx, alice, bob)
	require.NoError(t, err)

	first, err := service.RecordInterest(ctx, bob, alice)
	require.NoError(t, err)
	assert.True(t, first.MatchCreated)

	// Firing the completing trigger again reports no new match.
	second, err := service.RecordInterest(ctx, bob, alice)
	require.NoError(t, err)
	assert.False(t, second.MatchCreated)
	assert.Equal(t, first.Match.PairKey, second.Match.PairKey)
}

func TestMatching_RecordInterest_StoreFailure(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	reactionStore := &MockReactionStore{}
	reactionStore.On("Create", mock.Anything, mock.Anything).
		Return(model.Reaction{}, errors.New("database down"))

	service := newMatching(reactionStore, &MockMatchStore{}, &MockUserStore{}, &MockTaskStore{})

	_, err := service.RecordInterest(context.Background(), alice, bob)
	require.Error(t, err)
	reactionStore.AssertExpectations(t)
}

func TestMatching_ApplyToTask(t *testing.T) {
	taskID := uuid.New()
	talent := model.User{ID: uuid.New(), TelegramID: 1, Name: "Alice", Role: model.RoleTalent}
	owner := model.User{ID: uuid.New(), TelegramID: 2, Name: "Bob", Role: model.RoleEmployer}
	task := model.Task{ID: taskID, OwnerID: owner.ID, Description: "build a landing page"}

	tests := []struct {
		name      string
		applicant model.User
		mockSetup func(*MockTaskStore, *MockUserStore, *MockReactionStore, *MockMatchStore)
		wantErr   bool
		wantMatch bool
	}{
		{
			name:      "apply without reciprocity",
			applicant: talent,
			mockSetup: func(taskStore *MockTaskStore, userStore *MockUserStore, reactionStore *MockReactionStore, matchStore *MockMatchStore) {
				taskStore.On("GetByID", mock.Anything, taskID).Return(task, nil)
				userStore.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
				reactionStore.On("Create", mock.Anything, mock.MatchedBy(func(r model.Reaction) bool {
					return r.FromUserID == talent.ID && r.ToUserID == owner.ID && r.Type == model.ReactionLike
				})).Return(model.Reaction{}, nil)
				reactionStore.On("Exists", mock.Anything, owner.ID, talent.ID, model.ReactionLike).Return(false, nil)
			},
		},
		{
			name:      "apply completing a reciprocal pair",
			applicant: talent,
			mockSetup: func(taskStore *MockTaskStore, userStore *MockUserStore, reactionStore *MockReactionStore, matchStore *MockMatchStore) {
				taskStore.On("GetByID", mock.Anything, taskID).Return(task, nil)
				userStore.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
				reactionStore.On("Create", mock.Anything, mock.Anything).Return(model.Reaction{}, nil)
				reactionStore.On("Exists", mock.Anything, owner.ID, talent.ID, model.ReactionLike).Return(true, nil)
				matchStore.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(m model.Match) bool {
					return m.PairKey == model.PairKey(talent.ID, owner.ID)
				})).Return(model.NewMatch(talent.ID, owner.ID), true, nil)
			},
			wantMatch: true,
		},
		{
			name:      "employer cannot apply",
			applicant: owner,
			mockSetup: func(*MockTaskStore, *MockUserStore, *MockReactionStore, *MockMatchStore) {},
			wantErr:   true,
		},
		{
			name:      "unknown task",
			applicant: talent,
			mockSetup: func(taskStore *MockTaskStore, _ *MockUserStore, _ *MockReactionStore, _ *MockMatchStore) {
				taskStore.On("GetByID", mock.Anything, taskID).Return(model.Task{}, model.ErrNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskStore := &MockTaskStore{}
			userStore := &MockUserStore{}
			reactionStore := &MockReactionStore{}
			matchStore := &MockMatchStore{}
			tt.mockSetup(taskStore, userStore, reactionStore, matchStore)

			service := newMatching(reactionStore, matchStore, userStore, taskStore)

			result, err := service.ApplyToTask(context.Background(), tt.applicant, taskID)
			if tt.wantErr {
				var precondition *model.PreconditionError
				assert.ErrorAs(t, err, &precondition)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantMatch, result.MatchCreated)
			assert.Equal(t, owner.TelegramID, result.Owner.TelegramID)

			taskStore.AssertExpectations(t)
			reactionStore.AssertExpectations(t)
			matchStore.AssertExpectations(t)
		})
	}
}

func TestMatching_LikeBack(t *testing.T) {
	employer := model.User{ID: uuid.New(), TelegramID: 2, Name: "Bob", Role: model.RoleEmployer}
	talent := model.User{ID: uuid.New(), TelegramID: 1, Name: "Alice", Role: model.RoleTalent}

	t.Run("completes the pair", func(t *testing.T) {
		userStore := &MockUserStore{}
		reactionStore := &MockReactionStore{}
		matchStore := &MockMatchStore{}

		userStore.On("GetByTelegramID", mock.Anything, talent.TelegramID).Return(talent, nil)
		reactionStore.On("Create", mock.Anything, mock.Anything).Return(model.Reaction{}, nil)
		reactionStore.On("Exists", mock.Anything, talent.ID, employer.ID, model.ReactionLike).Return(true, nil)
		matchStore.On("CreateIfAbsent", mock.Anything, mock.Anything).
			Return(model.NewMatch(employer.ID, talent.ID), true, nil)

		service := newMatching(reactionStore, matchStore, userStore, &MockTaskStore{})

		result, err := service.LikeBack(context.Background(), employer, talent.TelegramID)
		require.NoError(t, err)
		assert.True(t, result.MatchCreated)
		assert.Equal(t, talent.TelegramID, result.Target.TelegramID)
	})

	t.Run("talent cannot like back", func(t *testing.T) {
		service := newMatching(&MockReactionStore{}, &MockMatchStore{}, &MockUserStore{}, &MockTaskStore{})

		_, err := service.LikeBack(context.Background(), talent, employer.TelegramID)
		var precondition *model.PreconditionError
		assert.ErrorAs(t, err, &precondition)
	})

	t.Run("unknown target", func(t *testing.T) {
		userStore := &MockUserStore{}
		userStore.On("GetByTelegramID", mock.Anything, int64(99)).Return(model.User{}, model.ErrNotFound)

		service := newMatching(&MockReactionStore{}, &MockMatchStore{}, userStore, &MockTaskStore{})

		_, err := service.LikeBack(context.Background(), employer, 99)
		var precondition *model.PreconditionError
		assert.ErrorAs(t, err, &precondition)
	})
}
