package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
}

var (
	logfile *lumberjack.Logger
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	verbose bool

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// DefaultFile is the log file used when Options.File is empty.
func DefaultFile() string {
	dir, _ := os.UserCacheDir()
	return filepath.Join(dir, "tsketch", "tsketch.log")
}

func Init(o Options) error {
	p := o.File
	if p == "" {
		p = DefaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	if o.MaxSize <= 0 {
		o.MaxSize = 10
	}
	if o.MaxBackups <= 0 {
		o.MaxBackups = 3
	}
	logfile = &lumberjack.Logger{
		Filename:   p,
		MaxSize:    o.MaxSize,
		MaxBackups: o.MaxBackups,
		MaxAge:     30,
		Compress:   true,
	}
	logger = slog.New(slog.NewJSONHandler(logfile, &slog.HandlerOptions{Level: parseLevel(o.Level)}))
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Close() {
	if logfile != nil {
		_ = logfile.Close()
	}
}

// SetOutput redirects console messages; nil leaves a stream unchanged.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

func Info(msg string) {
	fmt.Fprintln(stdout, msg)
	logger.Info(msg)
}

func Success(msg string) {
	fmt.Fprintln(stdout, text.FgGreen.Sprint(msg))
	logger.Info(msg)
}

func Error(msg string) {
	_, _ = fmt.Fprintln(stderr, text.FgRed.Sprint(msg))
	logger.Error(msg)
}

// SetVerbose toggles debug output on the console.
func SetVerbose(v bool) { verbose = v }

// Debug always reaches the log file; the console only sees it in verbose mode.
// It goes to stderr so it never mixes with command output.
func Debug(msg string) {
	logger.Debug(msg)
	if !verbose {
		return
	}
	fmt.Fprintln(stderr, text.FgHiBlack.Sprint(msg))
}
