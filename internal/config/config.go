package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Director (Ollama)
	DirectorEnabled bool
	OllamaHost      string
	OllamaModel     string

	// Segmentation
	MaxSceneWords int
	// MaxScenes caps how many scenes are sent to the director per book.
	// Zero means no limit.
	MaxScenes int

	// Worker pool
	WorkerCount         int
	MaxQueueSize        int
	MaxConcurrentDirect int

	// Upload limits
	MaxUploadBytes int64

	// Output
	OutputDir string

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("SCENECUT_API_KEY"),

		DirectorEnabled: envBool("DIRECTOR_ENABLED", true),
		OllamaHost:      envOr("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:     envOr("OLLAMA_MODEL", "llama3"),

		MaxSceneWords: envInt("MAX_SCENE_WORDS", 1500),
		MaxScenes:     envInt("MAX_SCENES", 0),

		WorkerCount:         envInt("WORKER_COUNT", 2),
		MaxQueueSize:        envInt("MAX_QUEUE_SIZE", 50),
		MaxConcurrentDirect: envInt("MAX_CONCURRENT_DIRECT", 2),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		OutputDir: envOr("OUTPUT_DIR", "output"),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.MaxSceneWords <= 0 {
		cfg.MaxSceneWords = 1500
	}
	if cfg.MaxScenes < 0 {
		cfg.MaxScenes = 0
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxConcurrentDirect <= 0 {
		cfg.MaxConcurrentDirect = 2
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("SCENECUT_API_KEY is required")
	}
	if c.DirectorEnabled && c.OllamaHost == "" {
		return fmt.Errorf("OLLAMA_HOST is required when the director is enabled")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
