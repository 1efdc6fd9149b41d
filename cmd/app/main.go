package main

import (
	"context"

	"innstay/config"
	"innstay/di"
	"innstay/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := di.InitializeApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go app.Sweeper.Run(ctx)
	go app.Consumer.Run(ctx)

	app.HTTP.Serve()
}
