/*
main.go - Application entry point

PURPOSE:
  Loads a .env file when present and hands the command line to the cli
  package. All wiring (settings, logger, store, HTTP server) happens there.

ENVIRONMENT:
  HORASETT_* variables override settings; see settings/settings.go.

EXAMPLES:
  # HTTP API on the default SQLite file
  horasett serve

  # In-memory store on another port
  HORASETT_STORE=memory horasett serve --addr :3000

  # Record a day and see the month
  horasett record save 2025-03-03 --normal 8 --shift mañana
  horasett summary --month 2025-03

SEE ALSO:
  - cli/cli.go: Commands
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/horasett/payroll-engine/cli"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	app := cli.NewCLI(cli.Options{Output: os.Stdout})
	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
