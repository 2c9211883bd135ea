package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yoockh/careerpilot/config"
	"github.com/yoockh/careerpilot/internal/api/handlers"
	"github.com/yoockh/careerpilot/internal/api/middleware"
	"github.com/yoockh/careerpilot/internal/api/routes"
	"github.com/yoockh/careerpilot/internal/cache"
	"github.com/yoockh/careerpilot/internal/interview"
	"github.com/yoockh/careerpilot/internal/logger"
	"github.com/yoockh/careerpilot/internal/prompts"
	"github.com/yoockh/careerpilot/internal/providers/llm"
	"github.com/yoockh/careerpilot/internal/providers/stt"
	"github.com/yoockh/careerpilot/internal/ratelimit"
	mongorepo "github.com/yoockh/careerpilot/internal/repositories/mongo"
	pgrepo "github.com/yoockh/careerpilot/internal/repositories/postgres"
	"github.com/yoockh/careerpilot/internal/services"
	"github.com/yoockh/careerpilot/internal/storage"
	"github.com/yoockh/careerpilot/internal/workers"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and response workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.AppConfig) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.LogLevel)

	if err := config.InitPostgres(cfg.Postgres.URI); err != nil {
		return err
	}
	log.Info("PostgreSQL connected")

	if err := config.InitMongo(cfg.Mongo.URI, cfg.Mongo.DB); err != nil {
		return err
	}
	log.Info("MongoDB connected")

	// Redis is optional: without it cache and counters stay in memory and
	// answer audio is not transcribed.
	var c cache.Cache = cache.NewMemoryCache()
	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		if err := config.InitRedis(cfg.Redis.Addr); err != nil {
			return err
		}
		log.Info("Redis connected")
		c = cache.NewRedisCache(config.RedisClient, "careerpilot")
		if cfg.RateLimit.Store == "redis" {
			store = ratelimit.NewRedisStore(config.RedisClient, "careerpilot:ratelimit")
		}
	} else if cfg.RateLimit.Store == "redis" {
		log.Warn("ratelimit.store=redis without redis.addr, using memory store")
	}
	limiter := ratelimit.New(store, log)

	// repositories
	jobRepo := pgrepo.NewJobRepo(config.PostgresDB)
	resumeRepo := pgrepo.NewResumeRepo(config.PostgresDB)
	questionRepo := pgrepo.NewQuestionRepo(config.PostgresDB)
	promptRepo := pgrepo.NewPromptRepo(config.PostgresDB)
	interviewRepo := mongorepo.NewInterviewRepo(config.MongoDB)
	responseRepo := mongorepo.NewResponseRepo(config.MongoDB)

	remotePrompts := prompts.NewRemoteSource(promptRepo, c, 10*time.Minute)
	resolver := prompts.NewResolver(log, remotePrompts, prompts.NewStaticSource(prompts.Builtin()))

	var provider llm.Provider
	if p, err := llm.New(ctx, cfg.AI); err != nil {
		log.WithError(err).WithField("provider", cfg.AI.Provider).Warn("LLM provider not configured, generation endpoints will fail")
	} else {
		provider = p
		defer provider.Close()
	}

	// services
	jobSvc := services.NewJobService(jobRepo)
	resumeSvc := services.NewResumeService(resumeRepo)
	questionSvc := services.NewQuestionService(jobRepo, resumeRepo, questionRepo, c, resolver, provider, log, services.QuestionOptions{Timeout: cfg.AI.Timeout})
	assistSvc := services.NewAssistService(jobRepo, resumeRepo, resolver, provider, log, cfg.AI.Timeout)
	interviewSvc := services.NewInterviewService(interviewRepo, jobRepo, questionSvc)
	responseSvc := services.NewResponseService(responseRepo, 24*time.Hour)

	wsOpts := handlers.InterviewWSOptions{
		Live:      interview.LiveConfig{Model: cfg.AI.LiveModel, Voice: cfg.AI.Voice},
		Responses: responseSvc,
		Logger:    log,
	}
	if config.RedisClient != nil {
		wsOpts.Queue = workers.NewQueue(config.RedisClient, workers.DefaultStream)
		wsOpts.Redis = config.RedisClient
		if err := startWorkers(ctx, cfg, log, responseSvc); err != nil {
			return err
		}
	}

	dial := func(ctx context.Context) (interview.Channel, error) {
		key, err := llm.APIKey(cfg.AI)
		if err != nil {
			return nil, err
		}
		if key == "" {
			return nil, llm.ErrNotConfigured
		}
		ch, err := interview.DialLive(ctx, cfg.AI.LiveURL, key)
		if err != nil {
			return nil, err
		}
		return ch, nil
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Config:    cfg,
		Limiter:   limiter,
		Jobs:      handlers.NewJobHandler(jobSvc),
		Resumes:   handlers.NewResumeHandler(resumeSvc),
		Questions: handlers.NewQuestionHandler(questionSvc, log),
		Prompts:   handlers.NewPromptHandler(resolver, remotePrompts),
		Assist:    handlers.NewAssistHandler(assistSvc),
		Interview: handlers.NewInterviewHandler(interviewSvc, responseSvc),
		WS:        handlers.NewInterviewWSHandler(interviewSvc, jobSvc, resolver, dial, wsOpts),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.HTTP.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startWorkers runs the transcription pool. Speech and storage clients are
// optional; chunks are marked skipped when speech is unavailable.
func startWorkers(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger, responses services.ResponseService) error {
	pool := &workers.ResponseWorkerPool{
		Redis:      config.RedisClient,
		Responses:  responses,
		NumWorkers: cfg.Workers.Count,
		Logger:     log,
		STTTimeout: cfg.AI.Timeout,
	}

	if sp, err := stt.NewGoogleSpeech(ctx, 16000); err != nil {
		log.WithError(err).Warn("speech-to-text disabled")
	} else {
		pool.STT = sp
	}

	if cfg.Storage.Bucket != "" {
		up, err := storage.NewGCSUploader(ctx, cfg.Storage.Bucket)
		if err != nil {
			log.WithError(err).Warn("audio upload disabled")
		} else {
			pool.Uploader = up
		}
	}

	return pool.Start(ctx)
}
