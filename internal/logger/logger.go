package logger

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func Setup(dev bool) zerolog.Logger {
	var logger zerolog.Logger
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Caller().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, FormatTimestamp: func(i any) string {
			return time.Now().Format(time.RFC3339)
		}}).Level(level).With().Stack().Logger()
	}

	return logger
}

// HTTPRequests returns a fiber middleware that logs each request with
// its method, path, status and duration, using a logger scoped into the
// request context for downstream handlers.
func HTTPRequests(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()

		reqLogger := logger.With().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("addr", c.IP()).
			Logger()
		c.SetUserContext(reqLogger.WithContext(c.UserContext()))

		err := c.Next()

		if err != nil {
			reqLogger.Error().
				Err(err).
				Dur("duration", time.Since(started)).
				Msg("http request")

			return err
		}

		reqLogger.Info().
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(started)).
			Msg("http request")

		return nil
	}
}
