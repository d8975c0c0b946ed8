package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/nexhire/backend/config"
	"github.com/nexhire/backend/internal/api/handlers"
	"github.com/nexhire/backend/internal/api/middleware"
	"github.com/nexhire/backend/internal/api/routes"
	"github.com/nexhire/backend/internal/cache"
	"github.com/nexhire/backend/internal/events"
	"github.com/nexhire/backend/internal/logger"
	"github.com/nexhire/backend/internal/providers/analyzer"
	"github.com/nexhire/backend/internal/providers/emotion"
	"github.com/nexhire/backend/internal/providers/resume"
	"github.com/nexhire/backend/internal/providers/transcriber"
	mongorepo "github.com/nexhire/backend/internal/repositories/mongo"
	pgrepo "github.com/nexhire/backend/internal/repositories/postgres"
	"github.com/nexhire/backend/internal/services"
	"github.com/nexhire/backend/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	l := logger.New()
	ctx := context.Background()

	mongoClient, err := config.InitMongo(cfg)
	if err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	l.Info("MongoDB connected")

	if err := config.EnsureMongoIndexes(mongoClient, cfg); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}

	db, err := config.InitPostgres(cfg)
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	l.Info("PostgreSQL connected")

	rdb, err := config.InitRedis(cfg)
	if err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	l.Info("Redis connected")

	// Repositories
	sessionRepo := mongorepo.NewInterviewSessionRepo(mongoClient.Database(cfg.MongoDB))
	userRepo := pgrepo.NewUserRepo(db)
	jobRepo := pgrepo.NewJobRepo(db)
	appRepo := pgrepo.NewApplicationRepo(db)
	profileRepo := pgrepo.NewProfileRepo(db)

	// Providers
	var stt transcriber.Provider
	switch cfg.TranscriberProvider {
	case "google":
		stt, err = transcriber.NewGoogleSpeech(ctx, cfg.GoogleCredentialsFile)
		if err != nil {
			log.Fatalf("Google Speech init error: %v", err)
		}
	default:
		stt = transcriber.NewWhisperHTTP(cfg.TranscriberURL, cfg.TranscriberWait)
	}

	var analysis analyzer.Provider
	switch cfg.AnalyzerProvider {
	case "vertex":
		analysis, err = analyzer.NewVertexGemini(ctx, cfg.VertexProjectID, cfg.VertexLocation, cfg.VertexModel)
		if err != nil {
			log.Fatalf("Vertex init error: %v", err)
		}
	default:
		analysis = analyzer.NewHTTPClient(cfg.AIServiceURL, cfg.AIServiceTimeout)
	}

	emo := emotion.NewHTTPClient(cfg.EmotionServiceURL, cfg.EmotionComplete, cfg.EmotionBasic, l)
	resumeClient := resume.NewClient(cfg.ResumeServiceURL, cfg.AIServiceTimeout)

	var uploader *storage.GCSUploader
	if cfg.GCSBucket != "" {
		uploader, err = storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
	} else {
		l.Warn("GCS_BUCKET not set; resume uploads disabled")
	}

	// Services
	interviewSvc := services.NewInterviewService(services.InterviewDeps{
		Sessions:        sessionRepo,
		STT:             stt,
		Emotion:         emo,
		Analyzer:        analysis,
		Events:          events.NewRedisPublisher(rdb, l),
		Cache:           cache.NewRedisCache(rdb),
		Logger:          l,
		EmotionEnabled:  cfg.EmotionEnabled,
		ResultsCacheTTL: cfg.ResultsCacheTTL,
	})
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTIssuer, l)
	jobSvc := services.NewJobService(jobRepo, l)

	var up storage.Uploader
	var signer storage.Signer
	if uploader != nil {
		up, signer = uploader, uploader
	}
	appSvc := services.NewApplicationService(appRepo, jobRepo, profileRepo, sessionRepo, up, signer, l)
	resumeSvc := services.NewResumeService(profileRepo, resumeClient, l)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret:   cfg.JWTSecret,
		JWTIssuer:   cfg.JWTIssuer,
		Auth:        handlers.NewAuthHandler(authSvc),
		Interview:   handlers.NewInterviewHandler(interviewSvc),
		Job:         handlers.NewJobHandler(jobSvc),
		Application: handlers.NewApplicationHandler(appSvc),
		Resume:      handlers.NewResumeHandler(resumeSvc),
		WS:          handlers.NewWSHandler(interviewSvc, rdb),
	})

	l.WithField("port", cfg.Port).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
