package logger

import (
	"go.uber.org/zap"
)

// NewNamed builds a named zap logger for the given environment. Development
// gets a human-readable console logger; anything else logs structured JSON
// at production settings.
func NewNamed(env, name string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}
