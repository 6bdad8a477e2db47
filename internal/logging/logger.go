// Package logging provides the console logger and the durable event log.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// #region logger

// New builds a sugared zap logger for the given mode ("prod"/"production"
// for JSON output, anything else for the development console encoder).
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// #endregion logger
