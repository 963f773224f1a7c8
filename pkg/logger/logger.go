package logger

import (
	"log/slog"
	"os"
)

// Init configures the process-wide slog default. Production logs JSON,
// everything else stays human readable.
func Init(environment string) {
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	slog.SetDefault(slog.New(handler))
}

func Info(msg string, args ...any) {
	slog.Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	slog.Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	slog.Error(msg, normalize(args)...)
}

func Fatal(msg string, args ...any) {
	slog.Error(msg, normalize(args)...)
	os.Exit(1)
}

// normalize lets call sites pass either key/value pairs or bare values
// (usually an error) without producing slog BADKEY noise.
func normalize(args []any) []any {
	out := make([]any, 0, len(args))
	for i := 0; i < len(args); i++ {
		if key, ok := args[i].(string); ok && i+1 < len(args) {
			out = append(out, key, args[i+1])
			i++
			continue
		}
		out = append(out, slog.Any("detail", args[i]))
	}
	return out
}
