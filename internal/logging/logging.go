package logging

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/indigo-web/pollbin/config"
	"github.com/rs/zerolog"
)

// New returns a human-readable logger writing into w. An unrecognized level results in an
// info-level logger and an error describing the problem.
func New(cfg config.Log, w io.Writer) (zerolog.Logger, error) {
	writer := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.DateTime,
	}
	logger := zerolog.New(writer).With().Timestamp().Logger()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		logger = logger.Level(zerolog.InfoLevel)
		if err == nil {
			err = errors.New("log level must be set")
		}

		return logger, fmt.Errorf("logging: %w", err)
	}

	return logger.Level(level), nil
}
