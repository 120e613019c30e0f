package main

import (
	// Load .env before flags and commands read the environment.
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	Execute()
}
