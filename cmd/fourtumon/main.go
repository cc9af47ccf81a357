package main

import (
	"fmt"
	"os"

	"fourtumon/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local setups; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
