package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"survey_wizard/internal/config"
	"survey_wizard/internal/controller"
	"survey_wizard/internal/repository"
	"survey_wizard/internal/service"
	"survey_wizard/internal/wizard"
	"survey_wizard/pkg/configwatcher"
	"survey_wizard/pkg/database"
	"survey_wizard/pkg/logger"
	"survey_wizard/pkg/monitoring"
	"survey_wizard/pkg/security"
	"survey_wizard/pkg/tracing"
	"survey_wizard/web"
)

const surveyBasePath = "/survey"

type App struct {
	Config  *config.Config
	Router  *gin.Engine
	Redis   *redis.Client
	Store   repository.WizardRepository
	Wizards *service.WizardService

	configDir string
	tracer    *sdktrace.TracerProvider
	mu        sync.Mutex
}

type controllers struct {
	survey *controller.SurveyController
	wizard *controller.WizardController
	health *controller.HealthController
}

// PolicyFromConfig extracts the reloadable wizard rules.
func PolicyFromConfig(cfg *config.Config) wizard.Policy {
	return wizard.Policy{
		Scale:          cfg.Survey.Rating,
		FailOpen:       cfg.Survey.ParticipationFailOpen,
		OptionsEnabled: cfg.API.OptionsEnabled(),
	}
}

// applyConfig takes over the settings that can change at runtime. Server,
// store and backend addresses need a restart.
func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	old := a.Config
	a.Config = cfg
	a.mu.Unlock()

	a.Wizards.ApplyPolicy(PolicyFromConfig(cfg))
	if old.Server != cfg.Server || old.Store != cfg.Store || old.API.CatalogBaseURL != cfg.API.CatalogBaseURL ||
		old.API.SubmissionBaseURL != cfg.API.SubmissionBaseURL {
		logger.Log.Warn("Some config changes take effect after a restart")
	}
	logger.Log.Info("Wizard policy updated",
		zap.Float64("rating_min", cfg.Survey.Rating.Min),
		zap.Float64("rating_max", cfg.Survey.Rating.Max),
		zap.Bool("participation_fail_open", cfg.Survey.ParticipationFailOpen),
	)
}

func (a *App) initStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.Store.Type {
	case "redis":
		rdb, err := database.InitRedis(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("init redis: %w", err)
		}
		a.Redis = rdb
		a.Store = repository.NewRedisWizardRepository(rdb, cfg.Store.TTL)
	default:
		a.Store = repository.NewMemoryWizardRepository(cfg.Store.TTL)
	}
	return nil
}

func (a *App) initControllers(cfg *config.Config) *controllers {
	return &controllers{
		survey: controller.NewSurveyController(a.Wizards, surveyBasePath),
		wizard: controller.NewWizardController(a.Wizards),
		health: controller.NewHealthController(a.Store, cfg.Store.Type),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp wires the store, backend clients and HTTP routes. configDir is
// watched for changes once Run starts; pass "" to disable reloading.
func NewApp(ctx context.Context, cfg *config.Config, configDir string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	app := &App{Config: cfg, configDir: configDir}
	if err := app.initStore(ctx, cfg); err != nil {
		return nil, err
	}

	app.Wizards = service.NewWizardService(
		app.Store,
		service.NewCatalogClient(cfg.API),
		service.NewSubmissionClient(cfg.API),
		PolicyFromConfig(cfg),
	)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("survey-wizard", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		app.tracer = tp
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, app.initControllers(cfg))
	app.Router = router

	return app, nil
}

func (a *App) startBackgroundTasks(ctx context.Context) {
	if mem, ok := a.Store.(*repository.MemoryWizardRepository); ok && mem.TTL > 0 {
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if n := mem.Sweep(); n > 0 {
						logger.Log.Debug("expired survey sessions removed",
							zap.Int("count", n), zap.Int("remaining", mem.Len()))
					}
				}
			}
		}()
	}

	if a.configDir != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.configDir, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	port := a.Config.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	a.startBackgroundTasks(bgCtx)

	errCh := make(chan error, 1)
	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	// 等待进行中的请求完成（设置5秒的超时时间）
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	a.Close(shutdownCtx)
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}

// Close releases the tracer and the Redis connection.
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
}
