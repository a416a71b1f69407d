package api

import (
	"github.com/gin-gonic/gin"

	"github.com/sagescript/sage_go_server/config"
	"github.com/sagescript/sage_go_server/internal/api/handler"
	"github.com/sagescript/sage_go_server/internal/api/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	projectHandler   *handler.ProjectHandler
	jobHandler       *handler.JobHandler
	dashboardHandler *handler.DashboardHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	jobHandler *handler.JobHandler,
	dashboardHandler *handler.DashboardHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		projectHandler:   projectHandler,
		jobHandler:       jobHandler,
		dashboardHandler: dashboardHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api")
	{
		// 公开接口
		api.POST("/login", r.authHandler.Login)

		// WebSocket（token 走查询参数）
		api.GET("/ws", r.websocketHandler.Handle)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 项目
			authenticated.POST("/projects/create", r.projectHandler.Create)
			authenticated.GET("/projects/:username", r.projectHandler.List)

			// 任务
			authenticated.POST("/generate-test-cases", r.jobHandler.Submit)
			authenticated.GET("/jobs", r.jobHandler.List)
			authenticated.GET("/jobs/:id", r.jobHandler.Get)
			authenticated.DELETE("/jobs/:id", r.jobHandler.Delete)
			authenticated.POST("/jobs/:id/regenerate", r.jobHandler.Regenerate)
			authenticated.GET("/results/:id", r.jobHandler.Results)

			// 仪表盘
			authenticated.GET("/dashboard/:user_id", r.dashboardHandler.Get)
		}
	}

	return engine
}
