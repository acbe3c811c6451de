package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tutorpress_backend/internal/config"
	"tutorpress_backend/internal/controller"
	"tutorpress_backend/internal/repository"
	"tutorpress_backend/internal/service"
	"tutorpress_backend/internal/util"
	"tutorpress_backend/pkg/configwatcher"
	"tutorpress_backend/pkg/database"
	"tutorpress_backend/pkg/events"
	"tutorpress_backend/pkg/logger"
	"tutorpress_backend/pkg/monitoring"
	"tutorpress_backend/pkg/security"
	"tutorpress_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	publisher       events.Publisher
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	quiz       *repository.QuizRepository
	attachment *repository.AttachmentRepository
}

type services struct {
	storage       service.StorageProvider
	quiz          *service.QuizService
	questionTypes *service.QuestionTypeService
	media         *service.MediaService
}

type controllers struct {
	quiz          *controller.QuizController
	questionTypes *controller.QuestionTypeController
	media         *controller.MediaController
	health        *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		quiz:       repository.NewQuizRepository(db),
		attachment: repository.NewAttachmentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageProvider(&cfg.Storage)
	s.questionTypes = service.NewQuestionTypeService(cfg.Quiz)

	var cache service.QuizCache = service.NopQuizCache{}
	if rdb != nil {
		cache = service.NewRedisQuizCache(rdb, cfg.Quiz.CacheTTL())
	}
	s.quiz = service.NewQuizService(repos.quiz, cache, a.publisher, s.questionTypes, cfg)
	s.media = service.NewMediaService(s.storage, repos.attachment, cfg)

	// 配置热更新时刷新题型目录
	a.RegisterConfigCallback(s.questionTypes.Reload)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		quiz:          controller.NewQuizController(s.quiz),
		questionTypes: controller.NewQuestionTypeController(s.questionTypes),
		media:         controller.NewMediaController(s.media),
		health:        controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) initPublisher(cfg *config.Config) events.Publisher {
	if cfg.Events.AMQPURL == "" {
		return events.Nop{}
	}
	pub, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
	if err != nil {
		// 消息队列不可用时测验保存照常进行
		logger.Log.Warn("Failed to connect to AMQP, quiz events disabled", zap.Error(err))
		return events.Nop{}
	}
	return pub
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Failed to initialize redis, quiz cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb
	app.publisher = app.initPublisher(cfg)

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

// watchConfig 监听配置文件变化并通知已注册的回调
func (a *App) watchConfig(ctx context.Context) {
	file := filepath.Join("configs", "config.yaml")
	err := configwatcher.WatchConfig(ctx, file, func(cfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(cfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go a.watchConfig(ctx)

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if pub, ok := a.publisher.(*events.AMQPPublisher); ok {
		pub.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
