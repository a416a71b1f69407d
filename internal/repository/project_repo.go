package repository

import (
	"gorm.io/gorm"

	"github.com/sagescript/sage_go_server/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(project *model.UserProject) error {
	return r.db.Create(project).Error
}

func (r *ProjectRepository) ListByUserID(userID int64) ([]model.UserProject, error) {
	var projects []model.UserProject
	err := r.db.Where("user_id = ?", userID).Order("project_id ASC").Find(&projects).Error
	return projects, err
}
