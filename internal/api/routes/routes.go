package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yoockh/careerpilot/config"
	"github.com/yoockh/careerpilot/internal/api/handlers"
	"github.com/yoockh/careerpilot/internal/api/middleware"
	"github.com/yoockh/careerpilot/internal/ratelimit"
)

type Deps struct {
	Config    *config.AppConfig
	Limiter   *ratelimit.Limiter
	Jobs      *handlers.JobHandler
	Resumes   *handlers.ResumeHandler
	Questions *handlers.QuestionHandler
	Prompts   *handlers.PromptHandler
	Assist    *handlers.AssistHandler
	Interview *handlers.InterviewHandler
	WS        *handlers.InterviewWSHandler
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	r.Use(cors.New(corsConfig(cfg.HTTP.CORSOrigins)))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	limit := func(action string, lc config.LimitConfig) gin.HandlerFunc {
		return middleware.RateLimit(d.Limiter, action, lc.MaxRequests, lc.Window)
	}

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(cfg.Auth))

	auth.POST("/jobs", d.Jobs.Create)
	auth.GET("/jobs", d.Jobs.List)
	auth.GET("/jobs/:job_id", d.Jobs.Get)
	auth.PATCH("/jobs/:job_id", d.Jobs.Update)

	auth.POST("/resumes", d.Resumes.Create)
	auth.GET("/resumes/:resume_id", d.Resumes.Get)

	auth.POST("/questions/generate", limit("questions", cfg.RateLimit.Questions), d.Questions.Generate)
	auth.POST("/questions", d.Questions.Save)
	auth.GET("/questions/:job_id", d.Questions.Get)

	auth.GET("/prompts", d.Prompts.List)
	auth.GET("/prompts/:name", d.Prompts.Get)
	auth.PUT("/prompts/:name", middleware.RequireAdmin(), d.Prompts.Upsert)

	auth.POST("/assist/cover-letter", limit("assist", cfg.RateLimit.Assist), d.Assist.CoverLetter)
	auth.POST("/assist/resume-suggestions", limit("assist", cfg.RateLimit.Assist), d.Assist.ResumeSuggestions)

	auth.POST("/interviews", limit("interview", cfg.RateLimit.Interview), d.Interview.Start)
	auth.GET("/interviews/:session_id", d.Interview.Get)
	auth.POST("/interviews/:session_id/end", d.Interview.End)

	// WebSocket
	auth.GET("/ws/interviews/:session_id", d.WS.Serve)
}
