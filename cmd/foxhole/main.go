package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pixil98/go-service"

	"github.com/foxhole-game/foxhole/cmd/foxhole/command"
)

func main() {
	app, err := service.NewApp(&command.Config{}, command.BuildWorkers)
	if err != nil {
		slog.Error("creating application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(context.Background()); err != nil {
		slog.Error("running application", "error", err)
		os.Exit(1)
	}

	slog.Info("exiting")
}
