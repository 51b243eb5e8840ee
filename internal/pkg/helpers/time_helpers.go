package helpers

import (
	"time"

	"github.com/yigit/escolar/internal/pkg/logger"
)

// ParseDuration parses a duration string, falling back to def when it is empty or malformed.
func ParseDuration(durationStr string, def time.Duration) time.Duration {
	if durationStr == "" {
		return def
	}
	duration, err := time.ParseDuration(durationStr)
	if err != nil || duration <= 0 {
		logger.Warn().Err(err).Str("duration", durationStr).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return duration
}
