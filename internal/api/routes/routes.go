package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nexhire/backend/internal/api/handlers"
	"github.com/nexhire/backend/internal/api/middleware"
)

type Deps struct {
	JWTSecret string
	JWTIssuer string

	Auth        *handlers.AuthHandler
	Interview   *handlers.InterviewHandler
	Job         *handlers.JobHandler
	Application *handlers.ApplicationHandler
	Resume      *handlers.ResumeHandler
	WS          *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public, rate-limited harder than the rest.
	pub := r.Group("/auth")
	pub.Use(middleware.RateLimit(rate.Limit(5), 10))
	pub.POST("/register", d.Auth.Register)
	pub.POST("/login", d.Auth.Login)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth(d.JWTSecret, d.JWTIssuer))
	auth.Use(middleware.RateLimit(rate.Limit(20), 40))

	auth.POST("/interviews/start", d.Interview.Start)
	auth.POST("/interviews/:session_id/responses", d.Interview.SubmitResponse)
	auth.POST("/interviews/:session_id/audio", d.Interview.SubmitAudio)
	auth.POST("/interviews/:session_id/complete", d.Interview.Complete)
	auth.GET("/interviews/:session_id", d.Interview.Get)
	auth.GET("/interviews", middleware.RequireHR(), d.Interview.Results)

	auth.GET("/jobs", d.Job.List)
	auth.GET("/jobs/:job_id", d.Job.Get)
	auth.POST("/jobs", middleware.RequireHR(), d.Job.Create)
	auth.GET("/jobs/mine", middleware.RequireHR(), d.Job.ListMine)

	auth.POST("/applications", d.Application.Apply)
	auth.GET("/applications/mine", d.Application.ListMine)
	auth.GET("/applications", middleware.RequireHR(), d.Application.ListForHR)
	auth.PUT("/applications/:application_id/status", middleware.RequireHR(), d.Application.UpdateStatus)
	auth.GET("/candidate/stats", d.Application.Stats)
	auth.GET("/hr/stats", middleware.RequireHR(), d.Application.HRStats)

	auth.POST("/resume/analyze", d.Resume.Analyze)
	auth.GET("/resume/profile", d.Resume.Profile)
	auth.GET("/candidates/:user_id/similar", middleware.RequireHR(), d.Resume.SimilarCandidates)

	// WebSocket
	auth.GET("/ws/interview/:session_id", d.WS.SessionStatusWS)
}
