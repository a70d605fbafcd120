package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted for the execution mode, in priority order.
var environmentVars = []string{"DOCPUBLISH_ENV", "GO_ENV"}

// ResolveEnvironment returns the execution mode from the process environment,
// falling back to configured and finally to EnvProduction.
func ResolveEnvironment(configured string) string {
	for _, key := range environmentVars {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return strings.ToLower(v)
		}
	}
	if v := strings.TrimSpace(configured); v != "" {
		return strings.ToLower(v)
	}
	return EnvProduction
}

// loadEnvFiles loads .env and then .env.<environment> from the current directory.
// Existing process environment variables are never overwritten.
func loadEnvFiles() {
	loadEnvFile(".env")
	env := ResolveEnvironment("")
	loadEnvFile(".env." + env)
	loadEnvFile(".env.local")
}

// LoadEnvFile loads a single explicit env file (the --env-file flag).
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return err
	}
	slog.Debug("Loaded environment variables", "path", path)
	return nil
}

func loadEnvFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		slog.Warn("Failed to load env file", "path", path, "error", err)
		return
	}
	slog.Debug("Loaded environment variables", "path", path)
}
