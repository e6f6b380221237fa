// Command eorctl scrapes the Sentinel Asia EOR index and inspects the stored collection.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/sentinel-eor/cmd/eorctl/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	commands.ExecuteContext(ctx)
}
