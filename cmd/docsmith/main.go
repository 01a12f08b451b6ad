package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Local development convenience; deployment reads real env vars.
	_ = godotenv.Load()
	Execute()
}
