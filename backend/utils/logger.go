package utils

import (
	"io"
	"log"
	"os"
)

const defaultLogPrefix = "[EduQuiz] "

// LoggerConfig configures InitLogger. The zero value logs to stdout without
// colours.
type LoggerConfig struct {
	Output io.Writer
	Prefix string
	// EnableColors paints the prefix cyan for terminals.
	EnableColors bool
	// Caller adds file:line to every entry.
	Caller bool
}

// InitLogger builds the application logger. Timestamps are UTC.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultLogPrefix
	}
	if cfg.EnableColors {
		prefix = "\033[36m" + prefix + "\033[0m"
	}

	flags := log.LstdFlags | log.LUTC
	if cfg.Caller {
		flags |= log.Lshortfile
	}
	return log.New(cfg.Output, prefix, flags)
}
