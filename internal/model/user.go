package model

import (
	"time"
)

type User struct {
	ID           int64     `gorm:"column:user_id;primaryKey" json:"user_id"`
	DisplayName  string    `gorm:"size:100;uniqueIndex;not null" json:"display_name"`
	Email        string    `gorm:"size:200;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Status       string    `gorm:"size:20;default:active" json:"status"` // active, locked
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
