package postgres

import (
	"context"

	"gorm.io/gorm"

	"nearmark/internal/model"
)

// FriendGraph answers counterpart queries from the friends table. The graph
// itself is managed elsewhere; this service only reads it.
type FriendGraph struct {
	db *gorm.DB
}

func NewFriendGraph(db *gorm.DB) *FriendGraph {
	return &FriendGraph{db: db}
}

// ListCounterparts returns the ids of every user paired with userID.
func (g *FriendGraph) ListCounterparts(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	result := g.db.WithContext(ctx).
		Model(&model.FriendPG{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}
