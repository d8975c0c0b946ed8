package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every process-wide option. It is loaded once in main and
// passed into constructors; services never read env vars themselves.
type Config struct {
	Port string

	MongoURI    string
	MongoDB     string
	PostgresURI string
	RedisAddr   string

	JWTSecret string
	JWTIssuer string

	// External AI services.
	AIServiceURL      string
	AIServiceTimeout  time.Duration
	EmotionServiceURL string
	EmotionComplete   time.Duration
	EmotionBasic      time.Duration
	TranscriberURL    string
	TranscriberWait   time.Duration
	ResumeServiceURL  string

	// Emotion analysis is advisory and can be switched off entirely.
	EmotionEnabled bool

	// Provider selection: "whisper"|"google" and "http"|"vertex".
	TranscriberProvider string
	AnalyzerProvider    string

	VertexProjectID string
	VertexLocation  string
	VertexModel     string

	// Optional service-account key path for Google Cloud clients.
	GoogleCredentialsFile string

	GCSBucket string

	ResultsCacheTTL time.Duration
}

func Load() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getenv("MONGO_DB", "nexhire"),
		PostgresURI: os.Getenv("POSTGRES_URI"),
		RedisAddr:   firstenv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: os.Getenv("JWT_ISSUER"),

		AIServiceURL:      getenv("AI_SERVICE_URL", "http://localhost:8001"),
		AIServiceTimeout:  msenv("AI_SERVICE_TIMEOUT_MS", 180000),
		EmotionServiceURL: getenv("AUDIO_EMOTION_URL", "http://localhost:8002"),
		EmotionComplete:   msenv("EMOTION_COMPLETE_TIMEOUT_MS", 30000),
		EmotionBasic:      msenv("EMOTION_BASIC_TIMEOUT_MS", 20000),
		TranscriberURL:    getenv("WHISPER_URL", "http://localhost:8003"),
		TranscriberWait:   msenv("TRANSCRIBE_TIMEOUT_MS", 60000),
		ResumeServiceURL:  getenv("RESUME_SERVICE_URL", "http://localhost:8004"),

		// Default: enabled. Only the literal "false" disables it.
		EmotionEnabled: os.Getenv("ENABLE_EMOTION_ANALYSIS") != "false",

		TranscriberProvider: getenv("TRANSCRIBER_PROVIDER", "whisper"),
		AnalyzerProvider:    getenv("ANALYZER_PROVIDER", "http"),

		VertexProjectID: os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation:  getenv("VERTEX_LOCATION", "us-central1"),
		VertexModel:     getenv("VERTEX_MODEL", "gemini-1.5-flash"),

		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		ResultsCacheTTL: msenv("RESULTS_CACHE_TTL_MS", 30000),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstenv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func msenv(key string, def int64) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return time.Duration(def) * time.Millisecond
}
