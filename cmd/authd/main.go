package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/brianwits/cowsaltpro/internal/auth/app"
)

func main() {
	// Local development convenience; absence of the file is fine.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
