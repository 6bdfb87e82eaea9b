package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mara/opsdesk/internal/app"
	"github.com/mara/opsdesk/internal/cli"
)

func main() {
	// If the user asked for help, avoid initializing the full app (which may prompt)
	skipInit := false
	for _, a := range os.Args[1:] {
		if a == "-h" || a == "--help" || a == "help" {
			skipInit = true
			break
		}
	}

	if !skipInit {
		ctx := context.Background()
		a, err := app.New(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()

		// Fill the caches before any screen or command renders. A failed
		// warm-up is not fatal; the caches stay flagged stale and a later
		// refresh can recover.
		if err := a.Warm(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: initial refresh failed: %v\n", err)
		}
		cli.SetApp(a)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
