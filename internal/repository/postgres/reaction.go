package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/innovedge/matchbot/internal/model"
)

var _ model.ReactionStore = (*ReactionRepository)(nil)

type ReactionRepository struct {
	db *Connection
}

func NewReactionRepository(db *Connection) *ReactionRepository {
	return &ReactionRepository{
		db: db,
	}
}

func (r *ReactionRepository) Create(ctx context.Context, reaction model.Reaction) (model.Reaction, error) {
	query := `INSERT INTO reactions (id, from_user_id, to_user_id, type)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, from_user_id, to_user_id, type, created_at`

	var saved model.Reaction
	err := r.db.QueryRow(ctx, query,
		reaction.ID, reaction.FromUserID, reaction.ToUserID, reaction.Type,
	).Scan(
		&saved.ID, &saved.FromUserID, &saved.ToUserID, &saved.Type, &saved.CreatedAt,
	)
	if err != nil {
		return model.Reaction{}, fmt.Errorf("failed to create reaction: %w", err)
	}

	return saved, nil
}

func (r *ReactionRepository) Exists(ctx context.Context, fromUserID, toUserID uuid.UUID, reactionType model.ReactionType) (bool, error) {
	query := `SELECT EXISTS (
				SELECT 1 FROM reactions
				WHERE from_user_id = $1 AND to_user_id = $2 AND type = $3
			  )`

	var exists bool
	err := r.db.QueryRow(ctx, query, fromUserID, toUserID, reactionType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reaction existence: %w", err)
	}

	return exists, nil
}

func (r *ReactionRepository) ListReceived(ctx context.Context, toUserID uuid.UUID) ([]model.Reaction, error) {
	query := `SELECT id, from_user_id, to_user_id, type, created_at
			  FROM reactions WHERE to_user_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, toUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list received reactions: %w", err)
	}
	defer rows.Close()

	var reactions []model.Reaction
	for rows.Next() {
		var reaction model.Reaction
		if err := rows.Scan(
			&reaction.ID, &reaction.FromUserID, &reaction.ToUserID, &reaction.Type, &reaction.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		reactions = append(reactions, reaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reactions: %w", err)
	}

	return reactions, nil
}
