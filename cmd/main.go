package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/admin/tg-bots/astralab-bot/internal/app"
)

const appName = "astralab_bot"

func main() {
	cfg, err := app.NewEnvConfig(appName)
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application := app.New(appName, cfg)

	if err := application.Run(ctx); err != nil {
		panic(err)
	}
}
