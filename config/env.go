package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	defaultPort = 9191
)

type Env struct {
	Stage       string
	Port        int
	DatabaseUrl string
	LogLevel    log.Level
	FleetConfig string

	// Zero means seed from the clock
	RandomSeed int64
}

// LoadEnv reads the process configuration. Outside of prod the
// variables are first loaded from envFile.
func LoadEnv(envFile string) (Env, error) {
	var env Env

	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(envFile); err != nil {
			return env, err
		}
	}

	env.Stage = os.Getenv("STAGE")
	if env.Stage != StageDev && env.Stage != StageProd {
		return env, fmt.Errorf("stage must be either dev or prod, got: %q", env.Stage)
	}

	env.Port = defaultPort
	if portEnv := os.Getenv("PORT"); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil {
			return env, fmt.Errorf("invalid PORT: %w", err)
		}
		env.Port = port
	}

	env.LogLevel = log.InfoLevel
	if levelEnv := os.Getenv("LOG_LEVEL"); levelEnv != "" {
		level, err := log.ParseLevel(levelEnv)
		if err != nil {
			return env, err
		}
		env.LogLevel = level
	}

	if seedEnv := os.Getenv("RANDOM_SEED"); seedEnv != "" {
		seed, err := strconv.ParseInt(seedEnv, 10, 64)
		if err != nil {
			return env, fmt.Errorf("invalid RANDOM_SEED: %w", err)
		}
		env.RandomSeed = seed
	}

	env.DatabaseUrl = os.Getenv("DATABASE_URL")
	env.FleetConfig = os.Getenv("FLEET_CONFIG")
	return env, nil
}
