package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"coworkly/api"
	"coworkly/config"
	"coworkly/session"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	configPath, err := config.DefaultPath()
	if err != nil {
		configPath = ""
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if !cfg.Debug {
		logger = logger.Level(zerolog.InfoLevel)
	}

	statePath := cfg.StateFile
	if statePath == "" {
		statePath, err = session.DefaultStatePath()
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to resolve state path")
		}
	}

	store, err := session.Open(statePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open state store")
	}
	defer store.Close()

	apiClient, err := api.NewClient(cfg.APIBase, store, logger, cfg.RequestTimeout)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create API client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	app := NewApp(apiClient, logger)
	app.Bootstrap(ctx)
	printStatus(app.Status())

	runCLI(ctx, app, cfg.ReportDir)
}
