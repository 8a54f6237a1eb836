package bootstrap

import (
	"context"
	"log"
	"time"

	"heartlink-be/internal/config"
	"heartlink-be/internal/controller"
	"heartlink-be/internal/handler"
	"heartlink-be/internal/pkg/logger"
	"heartlink-be/internal/pkg/serverutils"
	"heartlink-be/internal/repository/memory"
	"heartlink-be/internal/repository/unitofwork"
	"heartlink-be/internal/service"
	"heartlink-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController       controller.IAuthController
	UserController       controller.IUserController
	ConnectionController controller.IConnectionController

	// WebSocket
	ChatHandler  *handler.ChatHandler
	WebSocketHub *websocket.Hub

	// Background services (exposed for main.go to run)
	NotifierService *service.NotifierService

	JwtMiddleware fiber.Handler
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// Redis is optional; without it the hub only fans out locally.
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket hub with its own log file to keep the main log clean.
	presence := memory.NewPresenceRepository()
	chatLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)
	hub := websocket.NewHub(rdb, presence, chatLogger)
	hub.Run(context.Background())

	// Services
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	authService := service.NewAuthService(uowFactory, cfg.Auth.JwtSecret, tokenTTL)
	userService := service.NewUserService(uowFactory, presence)
	connectionService := service.NewConnectionService(uowFactory, pubSub, presence, sysLogger)
	chatService := service.NewChatService(uowFactory, connectionService, hub, chatLogger)

	notifierService := service.NewNotifierService(pubSub, hub, sysLogger)

	gateway := websocket.NewGateway(hub, chatService, chatLogger)

	return &Container{
		AuthController:       controller.NewAuthController(authService),
		UserController:       controller.NewUserController(userService),
		ConnectionController: controller.NewConnectionController(connectionService),
		ChatHandler:          handler.NewChatHandler(hub, gateway, chatLogger),
		WebSocketHub:         hub,
		NotifierService:      notifierService,
		JwtMiddleware:        serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret),
	}
}
