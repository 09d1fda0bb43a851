package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/livingtwin/cascade/cmd"
)

func main() {
	// Speech-service credentials live in .env during demos; missing file
	// is fine, live-voice mode just stays unavailable.
	_ = godotenv.Load()

	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
