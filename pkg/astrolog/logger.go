// Package astrolog configures the global zerolog logger: a styled
// console writer for interactive runs plus an optional rotating file so
// unattended scheduled captures leave a trail.
package astrolog

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level       string // "debug", "info", "warn", ...
	LogToFile   bool
	LogDir      string // defaults to ./logs
	LogFileName string // base name, defaults to "astrograb"
	MaxFileSize int    // megabytes before rotation
	MaxBackups  int    // rotated files to keep
}

// Init sets up the global logger. Safe to call once at startup.
func Init(cfg Config) {
	zerolog.TimeFieldFormat = "2006-01-02 15:04:05.000"
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().Local()
	}

	writers := []io.Writer{consoleWriter()}
	if cfg.LogToFile {
		if fw := fileWriter(cfg); fw != nil {
			writers = append(writers, fw)
		}
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()

	SetLevel(cfg.Level)
}

// SetLevel applies a level by name, defaulting to info when the name is
// unrecognized.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

func consoleWriter() io.Writer {
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05.000",
	}
}

// fileWriter builds the rotating JSON log file, returning nil when the
// directory cannot be created so logging degrades to console only.
func fileWriter(cfg Config) io.Writer {
	dir := cfg.LogDir
	if dir == "" {
		dir = "./logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Err(err).Str("dir", dir).Msg("could not create log directory")
		return nil
	}

	name := cfg.LogFileName
	if name == "" {
		name = "astrograb"
	}
	size := cfg.MaxFileSize
	if size <= 0 {
		size = 10
	}
	backups := cfg.MaxBackups
	if backups <= 0 {
		backups = 3
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, name+".log"),
		MaxSize:    size,
		MaxBackups: backups,
		MaxAge:     30,
	}
}
