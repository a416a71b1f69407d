package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sagescript/sage_go_server/internal/model"
	"github.com/sagescript/sage_go_server/internal/model/dto"
	"github.com/sagescript/sage_go_server/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

type ProjectService struct {
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
}

func NewProjectService(projectRepo *repository.ProjectRepository, userRepo *repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// Create 创建项目。parentId 为 "root" 时是根目录项目，否则作为子目录挂在 parentId 名下。
func (s *ProjectService) Create(req *dto.CreateProjectRequest) (*dto.ProjectItem, error) {
	var subProject *string
	if req.ParentID != "root" {
		parent := req.ParentID
		subProject = &parent
	}

	project := &model.UserProject{
		UserID:         req.UserID,
		ProjectName:    req.Name,
		SubProjectName: subProject,
		Description:    req.Description,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}

	return &dto.ProjectItem{
		ID:         project.ID,
		Name:       project.ProjectName,
		Count:      0,
		SubFolders: []string{},
	}, nil
}

// ListByUsername 按显示名查用户再列项目，用户不存在时明确报不存在
func (s *ProjectService) ListByUsername(username string) ([]dto.ProjectItem, error) {
	user, err := s.userRepo.GetByDisplayName(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	projects, err := s.projectRepo.ListByUserID(user.ID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProjectItem, len(projects))
	for i, p := range projects {
		subFolders := []string{}
		if p.SubProjectName != nil && *p.SubProjectName != "" {
			subFolders = []string{*p.SubProjectName}
		}
		items[i] = dto.ProjectItem{
			ID:         p.ID,
			Name:       p.ProjectName,
			SubFolders: subFolders,
		}
	}
	return items, nil
}
