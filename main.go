package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/spigell/talent-scout/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
