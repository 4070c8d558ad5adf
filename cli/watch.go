package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
)

type WatchCmd struct {
	ReconcileCmd
}

// Run reconciles once, then re-runs whenever an input file changes.
// Events are debounced because editors and bookkeeping exports often write
// files in several steps.
func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	// Watch mode always writes over its own output.
	cmd.Force = true

	if err := cmd.ReconcileCmd.Run(ctx, globals); err != nil {
		printError(ctx.Stderr, err.Error())
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, file := range cmd.Files {
		if err := watcher.Add(file); err != nil {
			printError(ctx.Stderr, "failed to watch "+file+": "+err.Error())
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	printInfof(ctx.Stderr, "watching %d file(s); Ctrl-C to stop", len(cmd.Files))

	const debounceDelay = 100 * time.Millisecond
	var debounce *time.Timer
	rerun := make(chan struct{}, 1)

	for {
		select {
		case <-stop:
			return nil

		case <-rerun:
			if err := cmd.ReconcileCmd.Run(ctx, globals); err != nil {
				printError(ctx.Stderr, err.Error())
			}
			// Atomic saves replace the file; re-add to keep watching.
			for _, file := range cmd.Files {
				_ = watcher.Add(file)
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, "watch error: "+err.Error())
		}
	}
}
