package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

type WatchCmd struct{}

// Run keeps the coordinator reconciling against the store's change feed
// until interrupted. With the postgres backend this picks up writes made
// from other devices.
func (c *WatchCmd) Run(ctx *Context) error {
	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println("Watching for remote changes (ctrl-c to stop)...")
	ctx.Coordinator.Watch(runCtx)
	return nil
}
