package main

import (
	"context"
	"log"

	"github.com/locvowork/isms_status_exporter/internal/bootstrap"
	"github.com/locvowork/isms_status_exporter/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.InitializeServer(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		log.Fatal(err)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped: %v", err)
		log.Fatal(err)
	}
}
