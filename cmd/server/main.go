// Command server serves the read-only dictionary API.
//
// Configuration comes from the YAML file at CONFIG_PATH (default
// ./config.yaml) overridden by environment variables. SIGINT and SIGTERM
// trigger a graceful shutdown.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/wiktapi/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
