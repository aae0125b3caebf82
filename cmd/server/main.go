package main

import (
	"log/slog"
	"os"
	"strings"

	"go-life-planner/internal/app"
	"go-life-planner/internal/logger"
)

func main() {
	format := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(logger.New(os.Stdout, format, level))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
