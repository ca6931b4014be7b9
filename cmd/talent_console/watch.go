package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/talent-console/internal/intake"
	"github.com/jonathan/talent-console/internal/observability"
	"github.com/jonathan/talent-console/internal/session"
	"github.com/jonathan/talent-console/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Evaluate resumes as they are dropped into a folder",
	Long: "Watch a folder and submit every new PDF or TXT file as soon as it has been fully " +
		"written. With --job the job's roster is refreshed after each batch; without it the " +
		"per-file results are printed.",
	RunE: runWatch,
}

var (
	watchDir    string
	watchJobID  int64
	watchSettle time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "Folder to watch (default inbox_dir from config)")
	watchCmd.Flags().Int64VarP(&watchJobID, "job", "j", 0, "Score against this job and refresh its roster")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", watch.DefaultSettle, "How long a file must stay unchanged before it is read")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.close()

	dir := watchDir
	if dir == "" {
		dir = e.cfg.InboxDir
	}
	if dir == "" {
		return fmt.Errorf("--dir is required (or set inbox_dir in the config file)")
	}

	var target watch.Enqueuer
	var submit func() error
	out := cmd.OutOrStdout()

	if watchJobID > 0 {
		store, err := e.openJob(ctx, watchJobID)
		if err != nil {
			return err
		}
		target = store
		submit = func() error {
			batch, err := store.Evaluate(ctx, "")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Evaluated %d file(s); roster now has %d candidate(s)\n",
				len(batch.Files), len(store.Roster()))
			printReply(out, batch)
			return nil
		}
	} else {
		composer := session.NewComposer(e.client, e.journal)
		target = composer
		submit = func() error {
			added, err := composer.Send(ctx, "", nil)
			e.printer.PrintTranscript(added)
			return err
		}
	}

	inbox, err := watch.NewInbox(dir, target, watchSettle)
	if err != nil {
		return err
	}
	defer func() { _ = inbox.Close() }()

	_, _ = fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", dir)
	err = inbox.Run(ctx, inboxHandler(cmd, e.printer, submit))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// inboxHandler reports every event of a settled batch and submits the
// queue once when the batch accepted any file.
func inboxHandler(cmd *cobra.Command, printer *observability.Printer, submit func() error) func([]watch.Event) {
	return func(events []watch.Event) {
		accepted := 0
		for _, ev := range events {
			if ev.Err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s: %v\n", ev.Path, ev.Err)
				continue
			}
			printer.PrintWarning(ev.Partition.Warning)
			accepted += len(ev.Partition.Accepted)
		}
		if accepted == 0 {
			return
		}
		if err := submit(); err != nil && !errors.Is(err, intake.ErrBusy) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		}
	}
}
