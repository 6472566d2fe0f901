// Package logging builds the process-wide structured logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a sugared logger. Debug mode uses the development encoder on
// stdout; otherwise the production JSON encoder is used.
func New(debug bool) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		logger, err = z.Build()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return logger.Sugar(), nil
}

// NewStderr returns a logger that never writes to stdout. The MCP server
// speaks its protocol on stdout, so its logs go to stderr.
func NewStderr(debug bool) (*zap.SugaredLogger, error) {
	z := zap.NewProductionConfig()
	if debug {
		z = zap.NewDevelopmentConfig()
	}
	z.OutputPaths = []string{"stderr"}
	z.ErrorOutputPaths = []string{"stderr"}
	logger, err := z.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}
