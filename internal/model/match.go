package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchStore defines persistence operations for matches.
type MatchStore interface {
	// CreateIfAbsent inserts the match unless one already exists for its pair
	// key. The returned flag reports whether a new row was created.
	CreateIfAbsent(ctx context.Context, match Match) (Match, bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Match, error)
}

// Match records detected reciprocity for an unordered pair of users.
// At most one match per pair ever exists.
type Match struct {
	ID        uuid.UUID
	UserAID   uuid.UUID
	UserBID   uuid.UUID
	PairKey   string
	CreatedAt time.Time
}

// NewMatch builds a match with the pair normalized so that UserAID < UserBID
// and PairKey identifies the unordered pair.
func NewMatch(a, b uuid.UUID) Match {
	if b.String() < a.String() {
		a, b = b, a
	}
	return Match{
		ID:      uuid.New(),
		UserAID: a,
		UserBID: b,
		PairKey: PairKey(a, b),
	}
}

// PairKey returns the canonical key for an unordered user pair.
func PairKey(a, b uuid.UUID) string {
	if b.String() < a.String() {
		a, b = b, a
	}
	return fmt.Sprintf("%s:%s", a, b)
}
