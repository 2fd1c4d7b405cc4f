package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReactionStore defines persistence operations for reactions.
type ReactionStore interface {
	Create(ctx context.Context, reaction Reaction) (Reaction, error)
	Exists(ctx context.Context, fromUserID, toUserID uuid.UUID, reactionType ReactionType) (bool, error)
	ListReceived(ctx context.Context, toUserID uuid.UUID) ([]Reaction, error)
}

// Reaction records one user's interest in another. Duplicates for the same
// ordered pair are allowed; uniqueness is enforced only at the match level.
type Reaction struct {
	ID         uuid.UUID
	FromUserID uuid.UUID
	ToUserID   uuid.UUID
	Type       ReactionType
	CreatedAt  time.Time
}

// ReactionType enumerates reaction kinds.
type ReactionType string

// ReactionLike marks positive interest.
const ReactionLike ReactionType = "like"
