package logger

import (
	"os"

	"aggyweb/internal/config"

	"golang.org/x/exp/slog"
)

// New подбирает обработчик и уровень логирования под окружение:
// local - цветной вывод для разработки, dev - JSON с debug, prod - JSON с info.
// Непустой level (debug, info, warn, error) заменяет уровень окружения.
func New(env, level string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		log = setupPrettySlog(levelOr(level, slog.LevelDebug))
	case config.EnvDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: levelOr(level, slog.LevelDebug)}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: levelOr(level, slog.LevelInfo)}),
		)
	}

	return log
}

func levelOr(level string, def slog.Level) slog.Level {
	if level == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return def
	}
	return l
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}

// Err упаковывает ошибку в атрибут лога.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
