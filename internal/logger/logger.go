package logger

import (
	"go.uber.org/zap"
)

// New builds the process logger. Production config (JSON, info level)
// when env is "production", development config otherwise.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
