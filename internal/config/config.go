package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	SpreadsheetID   string
	CredentialsFile string
	SessionSecret   string
	// EnvFileFound separates "no .env at all" from ".env present but
	// SPREADSHEET_ID unset" in the remediation message.
	EnvFileFound bool
}

func Load() Config {
	envFileFound := godotenv.Load() == nil

	return Config{
		Port:            getEnv("PORT", "5001"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		SessionSecret:   getEnv("SECRET_KEY", "dev-secret-change-me"),
		EnvFileFound:    envFileFound,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
