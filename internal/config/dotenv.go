package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnvs loads env files in priority order. Variables already set win,
// so earlier files take precedence over later ones:
// .env.<env>.local, .env.local, .env.<env>, .env
func LoadDotEnvs() {
	env := os.Getenv("SERVER_ENV")
	if env == "" {
		env = "development"
	}

	_ = godotenv.Load(".env." + env + ".local")
	if env != "test" {
		_ = godotenv.Load(".env.local")
	}
	_ = godotenv.Load(".env." + env)
	_ = godotenv.Load(".env")
}
