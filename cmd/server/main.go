package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/stockkeeper/internal/logging"
	"github.com/dmitrijs2005/stockkeeper/internal/server"
	"github.com/dmitrijs2005/stockkeeper/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	app, err := server.NewApp(ctx, cfg, logger)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
