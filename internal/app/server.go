// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"projexa-service/internal/config"
	"projexa-service/internal/db"
	authHandler "projexa-service/internal/handlers/auth"
	fileHandler "projexa-service/internal/handlers/file"
	notifyH "projexa-service/internal/handlers/notification"
	projectHandler "projexa-service/internal/handlers/project"
	recruitmentHandler "projexa-service/internal/handlers/recruitment"
	remunerationHandler "projexa-service/internal/handlers/remuneration"
	sprintHandler "projexa-service/internal/handlers/sprint"
	subscriptionHandler "projexa-service/internal/handlers/subscription"
	taskHandler "projexa-service/internal/handlers/task"
	wsHandler "projexa-service/internal/handlers/websocket"
	"projexa-service/internal/integration/dropbox"
	"projexa-service/internal/integration/fedapay"
	"projexa-service/internal/integration/zoom"
	"projexa-service/internal/middleware"
	"projexa-service/internal/pkg/jwt"
	"projexa-service/internal/pkg/session"
	"projexa-service/internal/repository/postgres"
	authUsecase "projexa-service/internal/service/auth"
	"projexa-service/internal/service/email"
	fileUsecase "projexa-service/internal/service/file"
	"projexa-service/internal/service/lifecycle"
	notifyUsecase "projexa-service/internal/service/notification"
	projectUsecase "projexa-service/internal/service/project"
	recruitmentUsecase "projexa-service/internal/service/recruitment"
	remunerationUsecase "projexa-service/internal/service/remuneration"
	sprintUsecase "projexa-service/internal/service/sprint"
	subscriptionUsecase "projexa-service/internal/service/subscription"
	taskUsecase "projexa-service/internal/service/task"
	"projexa-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	http   *http.Server
	stop   context.CancelFunc
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

// Start wires every dependency, mounts the routes and blocks serving HTTP.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- PostgreSQL -----
	if err := db.Migrate(s.cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))

	// ----- JWT / sessions -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}
	sessionManager := session.NewManager(redisClient)

	// ----- Email -----
	emailSender := email.NewEmailSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)

	// ----- Outbound integrations -----
	fedapayClient := fedapay.NewClient(s.cfg.FedaPayBaseURL, s.cfg.FedaPaySecretKey, s.cfg.FedaPayWebhookSecret)
	dropboxClient := dropbox.NewClient(s.cfg.DropboxAppKey, s.cfg.DropboxAppSecret, s.cfg.DropboxRefreshToken, redisClient)
	zoomClient := zoom.NewClient(s.cfg.ZoomAccountID, s.cfg.ZoomClientID, s.cfg.ZoomClientSecret)

	// ----- Repositories -----
	userRepo := postgres.NewUserRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	sprintRepo := postgres.NewSprintRepository(pool)
	fileRepo := postgres.NewFileRepository(pool)
	recruitmentRepo := postgres.NewRecruitmentRepository(pool)
	applicationRepo := postgres.NewApplicationRepository(pool)
	planRepo := postgres.NewSubscriptionPlanRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	remunerationRepo := postgres.NewRemunerationRepository(pool)
	notifyRepo := postgres.NewNotificationRepository(pool)
	meetingRepo := postgres.NewMeetingRepository(pool)

	// ----- WebSocket hub -----
	hub := websocket.NewHub(jwtManager, sessionManager)

	// ----- Services -----
	notifService := notifyUsecase.NewNotificationService(notifyRepo, projectRepo, emailSender, hub, logger)
	hub.SetAckHandler(notifService.HandleSocketAck)
	go hub.Run(ctx)

	authService := authUsecase.NewAuthService(userRepo, jwtManager, sessionManager, emailSender, logger)
	projectService := projectUsecase.NewProjectService(projectRepo, userRepo, notifService, logger)
	meetingService := projectUsecase.NewMeetingService(meetingRepo, projectRepo, zoomClient)
	taskService := taskUsecase.NewTaskService(taskRepo, projectRepo, userRepo, notifService, logger)
	sprintService := sprintUsecase.NewSprintService(sprintRepo, projectRepo)
	fileService := fileUsecase.NewFileService(fileRepo, projectRepo, dropboxClient, logger)
	recruitmentService := recruitmentUsecase.NewRecruitmentService(recruitmentRepo, applicationRepo, emailSender, logger)
	subscriptionService := subscriptionUsecase.NewSubscriptionService(
		subscriptionRepo,
		planRepo,
		userRepo,
		fedapayClient,
		notifService,
		emailSender,
		hub,
		s.cfg.FedaPayCallbackURL,
		logger,
	)
	remunerationService := remunerationUsecase.NewRemunerationService(remunerationRepo, taskRepo, notifService, logger)

	// ----- Lifecycle sweeper -----
	sweeper := lifecycle.NewSweeper(recruitmentService, subscriptionService, s.cfg.SweepInterval, logger)
	go sweeper.Run(ctx)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:         authHandler.NewAuthHandler(authService),
		ProjectHandler:      projectHandler.NewProjectHandler(projectService, meetingService),
		TaskHandler:         taskHandler.NewTaskHandler(taskService),
		SprintHandler:       sprintHandler.NewSprintHandler(sprintService),
		FileHandler:         fileHandler.NewFileHandler(fileService),
		RecruitmentHandler:  recruitmentHandler.NewRecruitmentHandler(recruitmentService),
		SubscriptionHandler: subscriptionHandler.NewSubscriptionHandler(subscriptionService, fedapayClient, logger),
		RemunerationHandler: remunerationHandler.NewRemunerationHandler(remunerationService),
		NotifHandler:        notifyH.NewNotificationHandler(notifService),
		WSHandler:           wsHandler.NewWebSocketHandler(hub, logger),
		AuthMiddleware:      middleware.NewAuthMiddleware(authService),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	logger.Info("server starting", zap.String("addr", s.cfg.HTTPAddr))
	s.http = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the background loops and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stop != nil {
		s.stop()
	}
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
