package main

import (
	"context"
	"fmt"

	"github.com/tandemreader/tandem/internal/shared"
	"github.com/tandemreader/tandem/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlayRun plays one chunk to completion, printing progress as it goes.
func (r *Runner) PlayRun(ctx context.Context, cmd *cli.Command) error {
	return r.runChunk(ctx, cmd, cmd.Bool("resume"))
}

// ResumeRun is PlayRun with the stored bookmark restored unconditionally.
func (r *Runner) ResumeRun(ctx context.Context, cmd *cli.Command) error {
	return r.runChunk(ctx, cmd, true)
}

func (r *Runner) runChunk(ctx context.Context, cmd *cli.Command, resume bool) error {
	chunkID := cmd.StringArg("chunk")
	if chunkID == "" {
		return fmt.Errorf("%w: chunk ID", shared.ErrMissingArgument)
	}

	db, repo, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	session := tasks.NewSession(r.logger, r.library, repo, r.config)

	updates := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range updates {
			r.printUpdate(update)
		}
	}()

	if err := session.Open(updates, chunkID); err != nil {
		close(updates)
		<-drained
		return err
	}

	opts := tasks.Options{
		Sequence: !cmd.Bool("single"),
		Resume:   resume,
		Rate:     cmd.Float("rate"),
	}

	result, err := session.Run(ctx, updates, opts)
	close(updates)
	<-drained

	if err != nil {
		return err
	}

	r.printResult(result)
	return nil
}

// printUpdate renders one progress update for the terminal.
func (r *Runner) printUpdate(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.LoadChunk:
		r.writePlain("📖 %s\n", update.Message)
	case tasks.BuildPlan:
		r.writePlain("🧩 %s\n", update.Message)
	case tasks.Resume:
		r.writePlain("⏪ %s\n", update.Message)
	case tasks.Playback:
		if update.Total > 0 {
			r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
		} else {
			r.writePlain("   %s\n", update.Message)
		}
	case tasks.Done:
		r.writePlain("✅ %s\n", update.Message)
	}
}

// printResult renders the end-of-run summary.
func (r *Runner) printResult(result *tasks.Result) {
	r.writePlain("\n")
	r.writePlainHeader("Playback Complete")
	r.writePlain("Chunk: %s\n", result.ChunkID)
	r.writePlain("Segments played: %d\n", result.SegmentsPlayed)
	r.writePlain("Final position: %s on %s\n",
		shared.FormatSeconds(result.Snapshot.Position), result.Snapshot.Track)
	if result.Resumed {
		r.writePlain("Resumed from bookmark\n")
	}
	if !result.Completed {
		r.writePlain("Stopped before the end of the chunk\n")
	}
}
