package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/OkiljonDadakhanov/icho-platform/internal/buildinfo"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/cli"
	"github.com/OkiljonDadakhanov/icho-platform/internal/client/config"
	"github.com/OkiljonDadakhanov/icho-platform/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run(ctx)
}
