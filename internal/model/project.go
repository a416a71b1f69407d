package model

import (
	"time"
)

// UserProject 用户项目（sub_project_name 为空表示根目录项目）
type UserProject struct {
	ID             int64     `gorm:"column:project_id;primaryKey" json:"project_id"`
	UserID         int64     `gorm:"not null;index" json:"user_id"`
	ProjectName    string    `gorm:"size:200;not null" json:"project_name"`
	SubProjectName *string   `gorm:"size:200" json:"sub_project_name,omitempty"`
	Description    *string   `gorm:"type:text" json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (UserProject) TableName() string {
	return "user_projects"
}
