package config

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

func NewLogger(cfg Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	logger := log.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}
