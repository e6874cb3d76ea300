package main

import (
	"log"

	"tidewatch/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ tidewatch failed to start: %v", err)
	}
}
