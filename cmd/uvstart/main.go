// Command uvstart scaffolds uv-managed Python projects.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/NielsdaWheelz/uvstart/internal/cli"
	"github.com/NielsdaWheelz/uvstart/internal/errors"
)

func main() {
	// UVSTART_* overrides may live in a .env next to where uvstart runs.
	_ = godotenv.Load()

	err := cli.Run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}
