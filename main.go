package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/adlift/mockup-studio/app"
	"github.com/adlift/mockup-studio/config"
)

func main() {
	cfgPath := flag.String("config", "mockup-studio.json", "path to the JSON config file")
	debugFlag := flag.Bool("debug", false, "enable debug instrumentation")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("config load failed, using defaults", "path", *cfgPath, "error", err)
	}
	if *debugFlag {
		cfg.Debug = true
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)

	application, err := app.NewApp("Mockup Studio", cfg, logger, *cfgPath)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	application.Start()
}
