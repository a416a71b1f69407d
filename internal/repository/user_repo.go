package repository

import (
	"gorm.io/gorm"

	"github.com/sagescript/sage_go_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("user_id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByLogin 登录名可以是邮箱或显示名
func (r *UserRepository) GetByLogin(login string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ? OR display_name = ?", login, login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByDisplayName(displayName string) (*model.User, error) {
	var user model.User
	err := r.db.Where("display_name = ?", displayName).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
