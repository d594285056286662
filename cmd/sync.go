package main

import (
	"context"

	"crate/internal/tasks"

	"github.com/urfave/cli/v3"
)

// SyncRun runs one full pull-then-push reconciliation against Discogs.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	repo := r.newRepo(db)

	engine := r.newEngine(repo)

	r.logger.Info("starting collection sync", "username", r.config.Discogs.Username)
	r.writePlain("Syncing collection with Discogs...\n\n")

	progressCh := make(chan tasks.Progress, 50)
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		lastPhase := tasks.Phase("")
		for snapshot := range progressCh {
			if snapshot.Phase != lastPhase {
				switch snapshot.Phase {
				case tasks.PhasePull:
					r.writePlain("📥 Pulling remote collection\n")
				case tasks.PhasePush:
					r.writePlain("\n📤 Pushing local records\n")
				}
				lastPhase = snapshot.Phase
			}
			switch snapshot.Phase {
			case tasks.PhasePull:
				r.writePlain("   pulled %d, skipped %d of %d\n", snapshot.Pulled, snapshot.Skipped, snapshot.TotalRemoteItems)
			case tasks.PhasePush:
				r.writePlain("   pushed %d\n", snapshot.Pushed)
			}
		}
	}()

	result, err := engine.Run(ctx, progressCh)
	close(progressCh)
	<-consumed

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete!")
	r.writePlain("Pulled: %d\n", result.Pulled)
	r.writePlain("Pushed: %d\n", result.Pushed)
	r.writePlain("Skipped: %d\n", result.Skipped)
	r.writePlain("Remote collection size: %d\n", result.TotalRemoteItems)

	if len(result.Errors) > 0 {
		r.writePlain("\n%d items failed:\n", len(result.Errors))
		for _, msg := range result.Errors {
			r.writePlain("  - %s\n", msg)
		}
	}

	return nil
}

// syncCommand handles collection sync operations
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "Sync the local collection with Discogs (pull then push)",
		Action: r.SyncRun,
	}
}
