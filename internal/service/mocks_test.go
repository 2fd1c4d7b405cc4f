package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/innovedge/matchbot/internal/model"
)

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByTelegramID(ctx context.Context, telegramID int64) (model.User, error) {
	args := m.Called(ctx, telegramID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTaskStore mocks the TaskStore interface
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, task model.Task) (model.Task, error) {
	args := m.Called(ctx, task)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskStore) List(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Task), args.Error(1)
}

// MockReactionStore mocks the ReactionStore interface
type MockReactionStore struct {
	mock.Mock
}

func (m *MockReactionStore) Create(ctx context.Context, reaction model.Reaction) (model.Reaction, error) {
	args := m.Called(ctx, reaction)
	return args.Get(0).(model.Reaction), args.Error(1)
}

func (m *MockReactionStore) Exists(ctx context.Context, fromUserID, toUserID uuid.UUID, reactionType model.ReactionType) (bool, error) {
	args := m.Called(ctx, fromUserID, toUserID, reactionType)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionStore) ListReceived(ctx context.Context, toUserID uuid.UUID) ([]model.Reaction, error) {
	args := m.Called(ctx, toUserID)
	return args.Get(0).([]model.Reaction), args.Error(1)
}

// MockMatchStore mocks the MatchStore interface
type MockMatchStore struct {
	mock.Mock
}

func (m *MockMatchStore) CreateIfAbsent(ctx context.Context, match model.Match) (model.Match, bool, error) {
	args := m.Called(ctx, match)
	return args.Get(0).(model.Match), args.Bool(1), args.Error(2)
}

func (m *MockMatchStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Match, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Match), args.Error(1)
}

// MockClassifier mocks the Classifier interface
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Categorize(ctx context.Context, text string) ([]string, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
