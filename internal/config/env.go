package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env is the process-level configuration read from the environment.
type Env struct {
	DataDir  string `env:"LJSIM_DATA"      envDefault:".ljsim"`
	LogLevel string `env:"LJSIM_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}
