package main

import (
	"log"

	"github.com/MrSnakeDoc/sniplink/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ sniplink failed to start: %v", err)
	}
}
