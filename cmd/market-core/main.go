package main

import (
	"log"

	"github.com/cosminpetcu/carstat/internal"
)

func main() {
	app, err := internal.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Application run failed: %v", err)
	}
}
