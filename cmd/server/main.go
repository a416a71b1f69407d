package main

import (
	"context"
	"fmt"
	"log"

	"github.com/sagescript/sage_go_server/config"
	"github.com/sagescript/sage_go_server/internal/api"
	"github.com/sagescript/sage_go_server/internal/api/handler"
	"github.com/sagescript/sage_go_server/internal/database"
	"github.com/sagescript/sage_go_server/internal/pkg/pubsub"
	"github.com/sagescript/sage_go_server/internal/pkg/queue"
	"github.com/sagescript/sage_go_server/internal/pkg/ws"
	"github.com/sagescript/sage_go_server/internal/repository"
	"github.com/sagescript/sage_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Queue
	jobQueue := queue.NewQueue(rdb, cfg.Queue.TestGenQueue)

	// 初始化 WebSocket Hub，并把工作进程发布的进度转发给对应用户
	wsHub := ws.NewHub()
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(msg *pubsub.ProgressMessage) {
			_ = wsHub.SendToUser(msg.UserID, &ws.Message{Type: msg.Type, Data: msg})
		})
		if err != nil {
			log.Printf("Progress subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	jobRepo := repository.NewJobRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	projectService := service.NewProjectService(projectRepo, userRepo)
	jobService := service.NewJobService(jobRepo, jobQueue)
	dashboardService := service.NewDashboardService(dashboardRepo)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	jobHandler := handler.NewJobHandler(jobService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		projectHandler,
		jobHandler,
		dashboardHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
