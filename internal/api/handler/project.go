package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sagescript/sage_go_server/internal/model/dto"
	"github.com/sagescript/sage_go_server/internal/pkg/response"
	"github.com/sagescript/sage_go_server/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// Create 创建项目
// POST /api/projects/create
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.projectService.Create(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, item)
}

// List 按显示名列出用户的项目
// GET /api/projects/:username
func (h *ProjectHandler) List(c *gin.Context) {
	username := c.Param("username")

	items, err := h.projectService.ListByUsername(username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}
