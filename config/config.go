package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the studio reads from the environment.
type Config struct {
	Port             string
	GeminiAPIKey     string
	FFmpegPath       string
	LogLevel         string
	SceneConcurrency int
	ExportWorkers    int
	PlaybackEnabled  bool
	WorkDir          string
}

// LoadConfig reads the environment (seeded from .env when present) into a
// Config. Missing required variables are fatal.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:             getEnv("PORT", "8080", false),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", "", true),
		FFmpegPath:       getEnv("FFMPEG_PATH", "ffmpeg", false),
		LogLevel:         getEnv("LOG_LEVEL", "info", false),
		SceneConcurrency: getEnvInt("SCENE_CONCURRENCY", 5),
		ExportWorkers:    getEnvInt("EXPORT_WORKERS", 2),
		PlaybackEnabled:  getEnvBool("PLAYBACK_ENABLED", false),
		WorkDir:          getEnv("WORK_DIR", os.TempDir(), false),
	}
}

func getEnv(key, fallback string, required bool) string {
	value, exists := os.LookupEnv(key)

	if !exists {
		if required {
			log.Fatalf("FATAL: Required environment variable %s is not set.", key)
		}
		return fallback
	}

	if required && value == "" {
		log.Fatalf("FATAL: Required environment variable %s is set but empty.", key)
	}

	return value
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		log.Printf("Invalid value %q for %s, using %d", value, key, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid value %q for %s, using %t", value, key, fallback)
		return fallback
	}
	return b
}
