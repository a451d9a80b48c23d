package main

import (
	"os"

	"github.com/lrivero/macrolens/cmd/macrolens/commands"
)

// main is the entry point for the macrolens CLI: go run ./cmd/macrolens [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
