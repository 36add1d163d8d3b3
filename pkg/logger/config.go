package logger

// Config configures InitLogger. It is usually populated from the
// server's top-level YAML configuration rather than constructed
// directly.
type Config struct {
	Level      string
	FileName   string
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
}

// DefaultConfig returns a standalone set of logger settings. cmd/server
// does not call it: it builds its Config from pkg/config, whose own
// defaults apply when the configuration file has no log: section.
func DefaultConfig() *Config {
	return &Config{
		Level:      "INFO",
		FileName:   "./logs/debug.log",
		MaxSize:    500,
		MaxAge:     360,
		MaxBackups: 20,
		Compress:   true,
	}
}
