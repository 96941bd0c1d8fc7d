package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/Apurer/breedmatch-api/internal/app/api"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("breedmatch API exited: %v", err)
	}
}
