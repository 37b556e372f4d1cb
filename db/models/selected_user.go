package models

import "github.com/google/uuid"

// SelectedUser maps a raw user id to its dense id in the compacted subgraph.
type SelectedUser struct {
	RunID   uuid.UUID `gorm:"type:uuid;primaryKey;column:run_id"`
	DenseID int64     `gorm:"primaryKey;autoIncrement:false;column:dense_id"`
	UserID  int64     `gorm:"index;column:user_id"`
}

func (SelectedUser) TableName() string {
	return "selected_users"
}
