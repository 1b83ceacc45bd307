package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Data
	WordsFile string // JSON word list, [{source, target, lesson}]
	MasteryDB string // SQLite file for the mastery ledger

	// Quiz defaults
	DefaultTimePerQuestion time.Duration

	// Prompt labels shown to the user
	SourceLanguage string
	TargetLanguage string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:          mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:        mustGetDuration("SHUTDOWN_TIMEOUT"),
		WordsFile:              getenvDefault("WORDS_FILE", "data/words.json"),
		MasteryDB:              getenvDefault("MASTERY_DB", "mastery.db"),
		DefaultTimePerQuestion: getenvDurationDefault("DEFAULT_TIME_PER_QUESTION", 30*time.Second),
		SourceLanguage:         getenvDefault("SOURCE_LANGUAGE", "Ancient Greek"),
		TargetLanguage:         getenvDefault("TARGET_LANGUAGE", "Bulgarian"),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getenvDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}
