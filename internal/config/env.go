package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StageDev  = "dev"
	StageProd = "prod"

	DefaultPort     = 9191
	DefaultLogLevel = "info"
)

// Env holds the process settings read from the environment.
type Env struct {
	Stage       string
	Port        int
	DatabaseURL string
	LogLevel    string
	RulesFile   string
}

func (e *Env) IsProd() bool {
	return e.Stage == StageProd
}

// LoadEnv reads the .env file at envPath unless STAGE is prod, then
// builds Env from the process environment. A missing .env file is not
// an error; prod deployments inject variables directly.
func LoadEnv(envPath string) (*Env, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	env := &Env{
		Stage:       envOrDefault("STAGE", StageDev),
		Port:        DefaultPort,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    envOrDefault("LOG_LEVEL", DefaultLogLevel),
		RulesFile:   os.Getenv("RULES_FILE"),
	}

	if env.Stage != StageDev && env.Stage != StageProd {
		return nil, ValidationError{Field: "STAGE", Message: "must be either dev or prod"}
	}

	if portEnv := os.Getenv("PORT"); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil || port <= 0 || port > 65535 {
			return nil, ValidationError{Field: "PORT", Message: "must be a number between 1 and 65535"}
		}
		env.Port = port
	}

	return env, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
