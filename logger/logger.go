package logger

import (
	"go.uber.org/zap"
)

// Log is the process-wide logger. It defaults to a no-op logger so that
// library code (and tests) can log without ceremony; main swaps in the
// real one via Init.
var Log = zap.NewNop().Sugar()

// Init replaces Log with a production zap logger
func Init() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}
