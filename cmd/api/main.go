package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"team-chat/config"
	"team-chat/internal/handler"
	"team-chat/internal/middleware"
	"team-chat/internal/realtime"
	appredis "team-chat/internal/redis"
	"team-chat/internal/repository"
	"team-chat/internal/services"
	"team-chat/internal/storage"
	"team-chat/internal/websocket"
	"team-chat/pkg/database"
	"team-chat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	appLogger := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(appLogger)
	defer appLogger.Logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	redisClient := appredis.NewClient(appredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	store, err := newAttachmentStore(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	userService := services.NewUserService(userRepo)
	chatService := services.NewChatService(chatRepo)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, time.Duration(cfg.JWTExpiryMin)*time.Minute)

	publisher := appredis.NewPublisher(redisClient)
	subscriber := appredis.NewSubscriber(redisClient)
	broadcaster := realtime.NewBroadcaster(publisher, chatService, appLogger)
	typingRelay := realtime.NewTypingRelay(publisher, appLogger)

	messageService := services.NewMessageService(db, messageRepo, userService, chatService, broadcaster, appLogger)

	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	bridge := websocket.NewRedisBridge(subscriber, hub)
	go func() {
		if err := bridge.Run(ctx); err != nil && ctx.Err() == nil {
			appLogger.Errorf("redis bridge stopped: %v", err)
		}
	}()

	authHandler := handler.NewAuthHandler(authService)
	messageHandler := handler.NewMessageHandler(messageService, store, appLogger)
	fileHandler := handler.NewFileHandler(store)
	wsHandler := websocket.NewHandler(authService, messageService, chatService, broadcaster, typingRelay, hub, appLogger)

	if cfg.AppMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(appLogger))
	r.Use(middleware.ErrorHandler(appLogger))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(authService))
		authed.POST("/messages", messageHandler.Send)
		authed.GET("/messages/chat/:chatId", messageHandler.ListChat)
		authed.DELETE("/messages/:id", messageHandler.Delete)

		api.GET("/files/:chatId/:fileName", fileHandler.Get)
	}

	r.GET("/ws", wsHandler.Connect)

	appLogger.Infof("starting server on port %s (storage driver: %s)", cfg.AppPort, cfg.StorageDriver)
	if err := r.Run(fmt.Sprintf(":%s", cfg.AppPort)); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// newAttachmentStore selects the single active storage backend for this
// deployment.
func newAttachmentStore(cfg *config.Config) (storage.AttachmentStore, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverS3:
		return storage.NewS3Store(context.Background(), storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
		})
	case config.StorageDriverLocal:
		return storage.NewLocalStore(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
