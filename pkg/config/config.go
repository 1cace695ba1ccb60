package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL   string
	JWTSecret     string
	JWTExpiration time.Duration
	Port          int

	// open ai (also works with openai-compatible endpoints like ollama)
	OpenAIKey            string
	OpenAIBaseURL        string
	OpenAIWhisperModel   string
	OpenAIChatModel      string
	OpenAIEmbeddingModel string

	// qdrant
	QdrantURL    string
	QdrantAPIKey string

	// pipeline config
	UploadDir             string
	AudioDir              string
	FFmpegPath            string
	MaxTranscribeBytes    int64
	TranscribeBytesPerSec int64
	MinSegmentSeconds     int
	StatusPollInterval    time.Duration
	ExternalCallTimeout   time.Duration
	TranscriptionTimeout  time.Duration
}

func Load() *Config {
	godotenv.Load()
	jwtExp, _ := time.ParseDuration(getEnv("JWT_EXPIRATION", "168h"))

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		port = 8080
	}

	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiration: jwtExp,
		Port:          port,

		// OpenAI
		OpenAIKey:            getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:        getEnv("OPENAI_BASE_URL", ""),
		OpenAIWhisperModel:   getEnv("OPENAI_WHISPER_MODEL", "whisper-1"),
		OpenAIChatModel:      getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		OpenAIEmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),

		// Qdrant
		QdrantURL:    getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey: getEnv("QDRANT_API_KEY", ""),

		// Pipeline config
		UploadDir:             getEnv("UPLOAD_DIR", "./uploads"),
		AudioDir:              getEnv("AUDIO_DIR", "./uploads/audio"),
		FFmpegPath:            getEnv("FFMPEG_PATH", "ffmpeg"),
		MaxTranscribeBytes:    getEnvInt64("MAX_TRANSCRIBE_BYTES", 25*1024*1024),
		TranscribeBytesPerSec: getEnvInt64("TRANSCRIBE_BYTES_PER_SECOND", 16*1024),
		MinSegmentSeconds:     getEnvInt("MIN_SEGMENT_SECONDS", 300),
		StatusPollInterval:    getEnvDuration("STATUS_POLL_INTERVAL", time.Second),
		ExternalCallTimeout:   getEnvDuration("EXTERNAL_CALL_TIMEOUT", 30*time.Second),
		TranscriptionTimeout:  getEnvDuration("TRANSCRIPTION_TIMEOUT", 5*time.Minute),
	}

}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
