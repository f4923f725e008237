// Command conventoryctl imports, exports and templates inventory CSV files
// directly against the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; real environment variables win.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := newApp(os.Stdout, os.Stderr)
	err := a.rootCommand().ExecuteContext(ctx)
	cancel()
	os.Exit(exitCode(err, a))
}

// exitCode is 0 on success, 2 when an import finished with row errors and 1
// for everything else.
func exitCode(err error, a *app) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errRowErrors):
		return 2
	default:
		fmt.Fprintln(a.errOut, "error:", err)
		return 1
	}
}
