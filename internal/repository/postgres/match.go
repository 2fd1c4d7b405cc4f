package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/innovedge/matchbot/internal/model"
)

var _ model.MatchStore = (*MatchRepository)(nil)

type MatchRepository struct {
	db *Connection
}

func NewMatchRepository(db *Connection) *MatchRepository {
	return &MatchRepository{
		db: db,
	}
}

// CreateIfAbsent races through the unique index on pair_key: a conflicting
// insert returns no row, which means the pair was already matched.
func (r *MatchRepository) CreateIfAbsent(ctx context.Context, match model.Match) (model.Match, bool, error) {
	query := `INSERT INTO matches (id, user_a_id, user_b_id, pair_key)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (pair_key) DO NOTHING
			  RETURNING id, user_a_id, user_b_id, pair_key, created_at`

	var saved model.Match
	err := r.db.QueryRow(ctx, query,
		match.ID, match.UserAID, match.UserBID, match.PairKey,
	).Scan(
		&saved.ID, &saved.UserAID, &saved.UserBID, &saved.PairKey, &saved.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		existing, err := r.getByPairKey(ctx, match.PairKey)
		if err != nil {
			return model.Match{}, false, err
		}
		return existing, false, nil
	}
	if err != nil {
		return model.Match{}, false, fmt.Errorf("failed to create match: %w", err)
	}

	return saved, true, nil
}

func (r *MatchRepository) getByPairKey(ctx context.Context, pairKey string) (model.Match, error) {
	var match model.Match
	query := `SELECT id, user_a_id, user_b_id, pair_key, created_at
			  FROM matches WHERE pair_key = $1`

	err := r.db.QueryRow(ctx, query, pairKey).Scan(
		&match.ID, &match.UserAID, &match.UserBID, &match.PairKey, &match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, model.ErrNotFound
		}
		return model.Match{}, fmt.Errorf("failed to get match by pair key: %w", err)
	}

	return match, nil
}

func (r *MatchRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Match, error) {
	query := `SELECT id, user_a_id, user_b_id, pair_key, created_at
			  FROM matches WHERE user_a_id = $1 OR user_b_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		var match model.Match
		if err := rows.Scan(
			&match.ID, &match.UserAID, &match.UserBID, &match.PairKey, &match.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	return matches, nil
}
