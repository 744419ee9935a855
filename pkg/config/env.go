package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads local .env.local then .env files into the process
// environment, so datasource secrets like OPENWEATHER_API_KEY and
// GITHUB_TOKEN are available to the API-client auth machinery (spec
// §6.4) without the core itself requiring any environment variable.
// Grounded on the teacher's pkg/config/env.go LoadEnvFiles.
func LoadDotEnv() error {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
