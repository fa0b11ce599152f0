package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tandemreader/tandem/internal/plan"
	"github.com/tandemreader/tandem/internal/server"
	"github.com/tandemreader/tandem/internal/shared"
	"github.com/tandemreader/tandem/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve plays a chunk while exposing the session's state over HTTP.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
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

	// The plan is immutable once the session is open, so it is safe to
	// hand to request goroutines.
	activePlan := session.Loop().Coordinator().Plan()

	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(server.NewDebugHandler(r.logger, session, func() *plan.Plan {
		return activePlan
	}))

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		r.logger.Info("debug server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			r.logger.Error("debug server failed", "error", err)
		}
	}()
	defer srv.Shutdown(context.Background())

	r.writePlain("Serving diagnostics on http://%s while playing %s\n\n", addr, chunkID)

	opts := tasks.Options{
		Sequence: !cmd.Bool("single"),
		Resume:   cmd.Bool("resume"),
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
