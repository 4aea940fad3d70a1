// Пакет logger настраивает slog под окружение запуска
package logger

import (
	"io"
	"log/slog"
	"os"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Setup возвращает логгер в stdout: JSON для dev, текст для остальных окружений;
// в prod уровень Info, иначе Debug
func Setup(env string) *slog.Logger {
	return New(os.Stdout, env)
}

// New как Setup, но пишет в w
func New(w io.Writer, env string) *slog.Logger {
	level := slog.LevelDebug
	if env == EnvProd {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch env {
	case EnvDev:
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With(slog.String("env", env))
}

// Err атрибут ошибки для slog
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Discard логгер без вывода для тестов
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
