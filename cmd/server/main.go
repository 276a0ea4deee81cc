package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/tenkil247/taskmanager/internal/server"
	"github.com/tenkil247/taskmanager/internal/server/config"
)

func main() {

	// Optional .env for local development; env vars win over defaults.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
