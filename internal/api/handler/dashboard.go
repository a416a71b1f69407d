package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sagescript/sage_go_server/internal/pkg/response"
	"github.com/sagescript/sage_go_server/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Get 用户仪表盘
// GET /api/dashboard/:user_id
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid user id")
		return
	}

	snapshot, err := h.dashboardService.GetDashboard(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, snapshot)
}
