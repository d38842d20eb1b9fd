package model

import "time"

// FriendPG is the PostgreSQL row for one edge of the friend graph. Edges are
// stored in both directions, so listing counterparts is a single equality
// query on user_id.
type FriendPG struct {
	UserID    string    `gorm:"primaryKey;size:64;column:user_id"`
	FriendID  string    `gorm:"primaryKey;size:64;column:friend_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the gorm default.
func (FriendPG) TableName() string {
	return "friends"
}
