package logger

import (
	"log/slog"
	"os"
)

var log = slog.Default()

// Init picks the handler by environment: JSON in production, text otherwise.
func Init(environment string) {
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

func Info(msg string, args ...any) {
	log.Info(msg, fields(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, fields(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, fields(args)...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, fields(args)...)
	os.Exit(1)
}

// fields accepts either alternating key/value pairs or bare values (commonly
// a single error), which are attached under the "error" key.
func fields(args []any) []any {
	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i++ {
		if key, ok := args[i].(string); ok && i+1 < len(args) {
			out = append(out, key, args[i+1])
			i++
			continue
		}
		out = append(out, slog.Any("error", args[i]))
	}

	return out
}
