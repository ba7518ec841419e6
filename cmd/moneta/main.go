package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/moneta-dev/moneta/internal/commands"
)

func main() {
	// .env may hold MONETA_CONFIG / MONETA_DB overrides; absence is fine.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
