package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/drivesentinel/drive-sentinel/internal/cache"
	"github.com/drivesentinel/drive-sentinel/internal/database"
	"github.com/drivesentinel/drive-sentinel/internal/errors"
	"github.com/drivesentinel/drive-sentinel/internal/middleware"
	"github.com/drivesentinel/drive-sentinel/internal/models"
	"github.com/drivesentinel/drive-sentinel/internal/monitoring"
	"github.com/drivesentinel/drive-sentinel/internal/prediction"
	"github.com/drivesentinel/drive-sentinel/internal/ratelimit"
	"github.com/drivesentinel/drive-sentinel/internal/security"
	"github.com/drivesentinel/drive-sentinel/internal/sysinfo"
	"github.com/drivesentinel/drive-sentinel/internal/types"
)

type config struct {
	port          string
	dataDir       string
	redisAddr     string
	redisPassword string
	jwtSecret     string
	smartctlPath  string
	cacheTTL      time.Duration
}

func configFromEnv() config {
	return config{
		port:          getEnvOrDefault("PORT", "8080"),
		dataDir:       getEnvOrDefault("DATA_DIR", "./data"),
		redisAddr:     os.Getenv("REDIS_ADDR"),
		redisPassword: os.Getenv("REDIS_PASSWORD"),
		jwtSecret:     os.Getenv("JWT_SECRET"),
		smartctlPath:  os.Getenv("SMARTCTL_PATH"),
		cacheTTL:      5 * time.Minute,
	}
}

// server bundles the long-lived collaborators behind the HTTP handlers.
type server struct {
	orchestrator *prediction.Orchestrator
	wearout      *models.WearoutModel
	controller   *models.ControllerModel
	collector    *sysinfo.Collector
	repo         *database.Repository
	db           *database.DB
	metrics      *monitoring.Metrics
	logger       *monitoring.Logger
	cache        *cache.Cache
	limiter      *ratelimit.RateLimiter
	compressor   *middleware.Compressor
	jwtSecret    string
}

// newServer constructs the process-wide singletons: the model registry,
// threshold resolver, history store, and middleware state. A history
// store failure degrades (no persistence, no training corpus) but does
// not prevent serving predictions.
func newServer(cfg config) *server {
	metrics := monitoring.NewMetrics()
	logger := monitoring.NewLogger()
	collector := sysinfo.NewCollector(cfg.smartctlPath, 3*time.Second)

	var repo *database.Repository
	db, err := database.NewDB(cfg.dataDir)
	if err != nil {
		slog.Error("Failed to initialize assessment history store, continuing without it", "error", err)
		db = nil
	} else {
		repo = database.NewRepository(db)
	}

	// models.SampleSource is satisfied by the repository; a nil source
	// just makes training refuse with an explicit error.
	var samples models.SampleSource
	if repo != nil {
		samples = repo
	}

	wearout := models.NewWearoutModel(samples)
	controller := models.NewControllerModel(samples)
	registry := prediction.NewRegistry(
		wearout,
		models.NewThermalModel(),
		models.NewPowerModel(),
		controller,
	)
	if registry.Loaded() {
		slog.Info("Predictors loaded successfully")
	} else {
		slog.Warn("Predictor loading failed, serving degraded fallback assessments")
	}

	redisClient, err := ratelimit.NewRedisClient(cfg.redisAddr, cfg.redisPassword, 0)
	if err != nil {
		slog.Warn("Redis unavailable for rate limiting", "error", err)
	}

	return &server{
		orchestrator: prediction.NewOrchestrator(registry, collector, metrics),
		wearout:      wearout,
		controller:   controller,
		collector:    collector,
		repo:         repo,
		db:           db,
		metrics:      metrics,
		logger:       logger,
		cache:        cache.NewCache(cfg.cacheTTL),
		limiter:      ratelimit.NewRateLimiter(redisClient, ratelimit.DefaultConfig(), metrics),
		compressor:   middleware.NewCompressor(),
		jwtSecret:    cfg.jwtSecret,
	}
}

func (s *server) router() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	// The compressor must wrap the cache so cached bodies stay plain.
	r.Use(s.compressor.Handler())
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())
	r.Use(security.SecurityHeaders())
	r.Use(security.ValidateContentType())
	r.Use(cors.Default())
	r.Use(s.limiter.IPRateLimitMiddleware())
	r.Use(s.cache.Middleware(s.metrics))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "NVMe Failure Prediction API",
			"status":  "running",
		})
	})

	api := r.Group("/api")
	{
		api.GET("/features", s.handleFeatures)
		api.GET("/system-info", s.handleSystemInfo)
		api.GET("/health", s.handleHealth)
		api.GET("/history", s.handleHistory)
		api.POST("/predict", s.handlePredict)

		train := api.Group("/train")
		train.Use(security.AdminAuth(s.jwtSecret))
		train.Use(s.limiter.EndpointRateLimitMiddleware("train", ratelimit.DefaultConfig().TrainLimitPerMin))
		{
			train.POST("/wearout", s.handleTrain("wearout", s.wearout))
			train.POST("/controller", s.handleTrain("controller", s.controller))
		}
	}

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.metrics.GetStats())
	})
	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.cache.Stats())
	})
	r.GET("/ratelimit/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.limiter.GetStats())
	})
	r.GET("/compression/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.compressor.Stats())
	})
	r.GET("/pools/database", func(c *gin.Context) {
		if s.db == nil {
			c.JSON(http.StatusOK, gin.H{"enabled": false})
			return
		}
		c.JSON(http.StatusOK, s.db.GetPoolStats())
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// handlePredict runs the full pipeline: normalize telemetry, assess all
// four roles (with per-role fallback), reduce to a summary, persist the
// record asynchronously, and assemble the response envelope.
func (s *server) handlePredict(c *gin.Context) {
	start := time.Now()

	var telemetry types.Telemetry
	if err := c.ShouldBindJSON(&telemetry); err != nil {
		errors.Respond(c, errors.NewValidationError("invalid telemetry payload: "+err.Error()))
		return
	}

	assessments := s.orchestrator.Assess(c.Request.Context(), telemetry)
	summary := prediction.Reduce(assessments)
	s.metrics.IncrementPrediction()

	fallbacks := 0
	for _, a := range assessments {
		if a.Status == "Fallback" || a.Status == "Thermal fallback" || a.Status == "Fallback Mode" {
			fallbacks++
		}
	}
	s.logger.PredictionLogger(summary.Status, summary.OverallRisk, summary.HighestRisk, fallbacks, time.Since(start))

	// Persist off the request path; history is best-effort.
	if s.repo != nil {
		go func(t types.Telemetry) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if _, err := s.repo.SaveAssessment(ctx, t, assessments, summary); err != nil {
				slog.Error("Failed to persist assessment", "error", err)
			}
		}(telemetry.Normalize())
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": gin.H{
			"wearout":    assessments[prediction.RoleWearout],
			"thermal":    assessments[prediction.RoleThermal],
			"power":      assessments[prediction.RolePower],
			"controller": assessments[prediction.RoleController],
			"summary":    summary,
			"metadata": types.Metadata{
				Timestamp:        time.Now(),
				PredictorsLoaded: s.orchestrator.PredictorsLoaded(),
			},
		},
	})
}

// handleTrain invokes a model's training capability. Failures surface to
// the caller verbatim; training has no fallback policy.
func (s *server) handleTrain(name string, model prediction.TrainableModel) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		result, err := model.Train(c.Request.Context())
		s.metrics.IncrementTrainingRun()
		if err != nil {
			s.logger.TrainingLogger(name, 0, err, time.Since(start))
			errors.Respond(c, errors.NewTrainingError(err))
			return
		}

		s.logger.TrainingLogger(name, result.Samples, nil, time.Since(start))
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"result":  result,
		})
	}
}

func (s *server) handleFeatures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"features": types.Features,
		"defaults": types.FeatureDefaults,
	})
}

func (s *server) handleSystemInfo(c *gin.Context) {
	info, err := s.collector.GetSystemInfo(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"predictors_loaded":  s.orchestrator.PredictorsLoaded(),
		"smartctl_available": s.collector.SmartctlAvailable(),
	})
}

func (s *server) handleHistory(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "assessment history store unavailable",
		})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 500 {
			limit = l
		}
	}

	records, err := s.repo.RecentAssessments(c.Request.Context(), limit)
	if err != nil {
		errors.Respond(c, errors.NewStorageError("failed to load assessment history", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"assessments": records,
		"count":       len(records),
	})
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := configFromEnv()
	s := newServer(cfg)
	r := s.router()

	srv := &http.Server{
		Addr:    ":" + cfg.port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Warn("Failed to close history store", "error", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
