package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/database"
	"github.com/billpap123/artepovera-backend-sub000/internal/auth"
	"github.com/billpap123/artepovera-backend-sub000/internal/config"
	"github.com/billpap123/artepovera-backend-sub000/internal/handlers"
	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/middleware"
	"github.com/billpap123/artepovera-backend-sub000/internal/observability"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/routes"
	"github.com/billpap123/artepovera-backend-sub000/internal/services"
	"github.com/billpap123/artepovera-backend-sub000/internal/storage"
	"github.com/billpap123/artepovera-backend-sub000/internal/tasks"
	"github.com/billpap123/artepovera-backend-sub000/internal/validator"
	"github.com/billpap123/artepovera-backend-sub000/internal/workers"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
	"github.com/billpap123/artepovera-backend-sub000/ws"
)

// App is the wired application: HTTP router plus the background pieces Run supervises.
type App struct {
	Router   *gin.Engine
	Services *services.ServiceContainer
	Queue    tasks.Client
	Worker   tasks.Server
	Bus      ws.Bus
	Pusher   *ws.Pusher
	Manager  *ws.Manager
}

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	defer logger.Sync()
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := observability.InitOTel(ctx, observability.OtelConfig{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Server.Env,
	})
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	application, err := New(ctx, cfg, db)
	if err != nil {
		logger.Fatal("Failed to initialize application", "error", err)
	}

	if err := seedFirstAdmin(ctx, db, application.Services, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	if err := application.Serve(ctx, cfg.Addr()); err != nil {
		logger.Fatal("Server stopped with error", "error", err)
	}
	logger.Info("Server stopped")
}

// New builds every component for cfg on top of db.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	storageInstance, err := storage.NewStorage(ctx, storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	queue, worker, err := initializeQueue(cfg)
	if err != nil {
		return nil, err
	}

	manager := ws.NewManager()
	bus := initializeBus(ctx, cfg)
	pusher := ws.NewPusher(manager, bus)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	container := initializeServices(cfg, storageInstance, queue, pusher, tokens)

	workers.NewLikeWorker(db, container.LikeService).Register(worker)

	wsHandler := ws.NewWebSocketHandler(manager, tokens, &chatAccess{db: db, chats: container.ChatService}, cfg.CORS.AllowedOrigins)
	appHandlers := initializeHandlers(container, middleware.AuthMiddleware(tokens))

	router := SetupRouter(cfg, db, appHandlers, wsHandler)

	return &App{
		Router:   router,
		Services: container,
		Queue:    queue,
		Worker:   worker,
		Bus:      bus,
		Pusher:   pusher,
		Manager:  manager,
	}, nil
}

// Serve runs the HTTP server, the task worker and the realtime forwarder until ctx is done.
func (a *App) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return a.Worker.Run(gctx)
	})

	if a.Bus != nil {
		g.Go(func() error {
			return a.Bus.StartForwarder(gctx, a.Pusher.DeliverLocal)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		a.Manager.Close()
		err := srv.Shutdown(shutdownCtx)
		if cerr := a.Queue.Close(); cerr != nil {
			logger.Warn("queue close failed", "error", cerr)
		}
		if a.Bus != nil {
			if cerr := a.Bus.Close(); cerr != nil {
				logger.Warn("realtime bus close failed", "error", cerr)
			}
		}
		return err
	})

	return g.Wait()
}

func SetupRouter(cfg *config.Config, db *gorm.DB, appHandlers *handlers.AppHandlers, wsHandler *ws.WebSocketHandler) *gin.Engine {
	ginRouter := initializeGinRouter(cfg, db)

	if cfg.Storage.Type == "local" && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		ginRouter.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)
	}

	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)
	return ginRouter
}

// initializeQueue picks asynq when redis is configured and the in-process queue otherwise.
func initializeQueue(cfg *config.Config) (tasks.Client, tasks.Server, error) {
	if cfg.Redis.URL == "" {
		logger.Warn("REDIS_URL not set: background tasks run in-process")
		q := tasks.NewLocalQueue(cfg.Queue.Concurrency, cfg.Queue.MaxRetry)
		return q, q, nil
	}

	client, err := tasks.NewAsynqClient(cfg.Redis.URL, cfg.Queue.MaxRetry)
	if err != nil {
		return nil, nil, err
	}
	server, err := tasks.NewAsynqServer(cfg.Redis.URL, cfg.Queue.Concurrency)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("Task queue initialized", "backend", "asynq")
	return client, server, nil
}

// initializeBus returns nil when redis is absent or unreachable; pushes are then delivered locally.
func initializeBus(ctx context.Context, cfg *config.Config) ws.Bus {
	if cfg.Redis.URL == "" {
		return nil
	}
	bus, err := ws.NewRedisBus(ctx, cfg.Redis.URL, cfg.Redis.Channel)
	if err != nil {
		logger.Warn("Realtime bus unavailable, delivering to local sessions only", "error", err)
		return nil
	}
	logger.Info("Realtime bus connected", "channel", cfg.Redis.Channel)
	return bus
}

func initializeServices(
	cfg *config.Config,
	storageInstance storage.Storage,
	queue tasks.Client,
	pusher services.Pusher,
	tokens *auth.TokenManager,
) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	likeRepo := repositories.NewLikeRepository()
	chatRepo := repositories.NewChatRepository()
	notificationRepo := repositories.NewNotificationRepository()
	jobRepo := repositories.NewJobRepository()
	commentRepo := repositories.NewCommentRepository()
	reviewRepo := repositories.NewReviewRepository()

	notificationService := services.NewNotificationService(notificationRepo, pusher)
	chatService := services.NewChatService(chatRepo, userRepo, pusher)
	uploadPolicy := services.UploadPolicy{
		MaxSize:      cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	}

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo, profileRepo, tokens),
		UserService:         services.NewUserService(userRepo, profileRepo, storageInstance, uploadPolicy),
		LikeService:         services.NewLikeService(likeRepo, userRepo, chatService, notificationService, queue),
		ChatService:         chatService,
		NotificationService: notificationService,
		JobService:          services.NewJobService(jobRepo, userRepo, notificationService),
		CommentService:      services.NewCommentService(commentRepo, userRepo, notificationService),
		ReviewService:       services.NewReviewService(reviewRepo, chatRepo, userRepo),
	}
}

func initializeHandlers(services *services.ServiceContainer, authMiddleware gin.HandlerFunc) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New(), authMiddleware)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, services.UserService),
		LikeHandler:         handlers.NewLikeHandler(baseHandler, services.LikeService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, services.ChatService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, services.NotificationService),
		JobHandler:          handlers.NewJobHandler(baseHandler, services.JobService),
		CommentHandler:      handlers.NewCommentHandler(baseHandler, services.CommentService),
		ReviewHandler:       handlers.NewReviewHandler(baseHandler, services.ReviewService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, services.UserService, services.CommentService, services.JobService),
		HealthHandler:       handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		router.Use(observability.GinMiddleware(cfg.Tracing.ServiceName))
	}
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(ctx context.Context, db *gorm.DB, container *services.ServiceContainer, cfg *config.Config) error {
	return container.AuthService.SeedAdmin(ctx, db.WithContext(ctx), cfg.Admin.Email, cfg.Admin.Password)
}

// chatAccess lets the websocket handler check chat membership.
type chatAccess struct {
	db    *gorm.DB
	chats services.ChatService
}

func (a *chatAccess) IsParticipant(ctx context.Context, chatID, userID uint) (bool, error) {
	return a.chats.IsParticipant(ctx, a.db.WithContext(ctx), chatID, userID)
}
