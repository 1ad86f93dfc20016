// Package main is the entry point for applaunch, the detached process
// launcher. It reads a JSON launch descriptor, spawns the described command
// in its own session, and records the resulting pid back into the file.
package main

import (
	"os"

	"github.com/ynput/applaunch/internal/cli"
)

// Version information (set by goreleaser)
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
