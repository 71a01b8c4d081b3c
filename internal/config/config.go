package config

import (
	"log"
	"os"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port           string
	AllowedOrigins string

	GCPProjectID string
	GCPLocation  string
	ModelName    string

	StorageBackend string // "memory" or "firestore"
	UseMockLLM     bool   // true = use mock even on GCP
	UseMockTTS     bool

	ElevenLabsAPIKey string
	ElevenLabsVoice  string

	AuthBackend string // "static" or "http"
	AuthURL     string // identity provider userinfo endpoint
	StaticToken string // dev-only bearer token for the static verifier
	StaticUser  string // caller id the static verifier resolves to

	GenerationTimeout time.Duration
	SynthesisTimeout  time.Duration

	// Optional YAML file overriding the fallback question templates.
	TemplatesFile string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration in %s=%q, using default %s", key, v, def)
		return def
	}
	return d
}

// Load reads all env vars and builds the config
func Load() *Config {
	modeStr := getEnv("JOBJITSU_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port:           getEnv("JOBJITSU_PORT", "8080"),
		AllowedOrigins: getEnv("JOBJITSU_ALLOWED_ORIGINS", "http://localhost:3000"),

		GCPProjectID: getEnv("JOBJITSU_GCP_PROJECT", ""),
		GCPLocation:  getEnv("JOBJITSU_GCP_LOCATION", "us-central1"),
		ModelName:    getEnv("JOBJITSU_MODEL_NAME", "gemini-2.5-flash"),

		StorageBackend: getEnv("JOBJITSU_STORAGE_BACKEND", "memory"),
		UseMockLLM:     getBoolEnv("JOBJITSU_USE_MOCK_LLM", mode == ModeLocal),
		UseMockTTS:     getBoolEnv("JOBJITSU_USE_MOCK_TTS", mode == ModeLocal),

		ElevenLabsAPIKey: getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsVoice:  getEnv("ELEVENLABS_VOICE_ID", "XW70ikSsadUbinwLMZ5w"),

		AuthBackend: getEnv("JOBJITSU_AUTH_BACKEND", "static"),
		AuthURL:     getEnv("JOBJITSU_AUTH_URL", ""),
		StaticToken: getEnv("JOBJITSU_STATIC_TOKEN", "dev-token"),
		StaticUser:  getEnv("JOBJITSU_STATIC_USER", "dev-user"),

		GenerationTimeout: getDurationEnv("JOBJITSU_GENERATION_TIMEOUT", 30*time.Second),
		SynthesisTimeout:  getDurationEnv("JOBJITSU_SYNTHESIS_TIMEOUT", 15*time.Second),

		TemplatesFile: getEnv("JOBJITSU_TEMPLATES_FILE", ""),
	}

	// Minimal validation per backend choice
	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("JOBJITSU_GCP_PROJECT must be set in gcp mode")
	}
	if cfg.AuthBackend == "http" && cfg.AuthURL == "" {
		log.Fatal("JOBJITSU_AUTH_URL must be set for the http auth backend")
	}

	return cfg
}
