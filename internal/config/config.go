// Package config reads server and game settings from the environment.
// A .env file in the working directory is loaded first when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every runtime setting.
type Config struct {
	Port      string // PORT
	LogLevel  string // LOG_LEVEL
	LogFormat string // LOG_FORMAT: "console" or "json"

	JWTSecret    string        // JWT_SECRET
	TokenTTL     time.Duration // TOKEN_TTL
	ClientOrigin string        // CLIENT_ORIGIN

	RootsFile      string // WORDS_ROOT_FILE; empty uses the embedded list
	DictionaryFile string // WORDS_DICTIONARY_FILE; empty uses the embedded list
	DictionaryDSN  string // DICTIONARY_DSN; empty keeps the dictionary in memory
	Language       string // DICTIONARY_LANGUAGE
	DailySalt      string // DAILY_SALT

	SessionIdleTTL time.Duration // SESSION_IDLE_TTL
	RatePerMinute  int           // RATE_LIMIT_PER_MIN; 0 disables limiting
	TrustProxy     bool          // TRUST_PROXY; take client IPs from X-Forwarded-For
}

// LoadEnvFile loads .env from the working directory when present.
// Variables already set in the environment win.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Logging returns only the logging settings. Reading them never logs, so
// callers can configure the logger before FromEnv reports bad values.
func Logging() Config {
	return Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}
}

// FromEnv builds a Config from the process environment only.
func FromEnv() Config {
	return Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       Logging().LogLevel,
		LogFormat:      Logging().LogFormat,
		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		TokenTTL:       getDuration("TOKEN_TTL", 24*time.Hour),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		RootsFile:      os.Getenv("WORDS_ROOT_FILE"),
		DictionaryFile: os.Getenv("WORDS_DICTIONARY_FILE"),
		DictionaryDSN:  os.Getenv("DICTIONARY_DSN"),
		Language:       getEnv("DICTIONARY_LANGUAGE", "en"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		SessionIdleTTL: getDuration("SESSION_IDLE_TTL", 2*time.Hour),
		RatePerMinute:  getInt("RATE_LIMIT_PER_MIN", 120),
		TrustProxy:     getBool("TRUST_PROXY", false),
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Warn().Str("key", k).Str("value", v).Int("default", def).Msg("invalid integer, using default")
		return def
	}
	return n
}

func getBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Bool("default", def).Msg("invalid boolean, using default")
		return def
	}
	return b
}

func getDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Warn().Str("key", k).Str("value", v).Dur("default", def).Msg("invalid duration, using default")
		return def
	}
	return d
}
