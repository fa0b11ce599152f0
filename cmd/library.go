package main

import (
	"context"
	"fmt"

	"github.com/tandemreader/tandem/internal/formatter"
	"github.com/tandemreader/tandem/internal/plan"
	"github.com/tandemreader/tandem/internal/shared"
	"github.com/urfave/cli/v3"
)

// LibraryList lists the chunks available in the content library.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	summaries, err := r.library.List()
	if err != nil {
		return fmt.Errorf("failed to list library: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(summaries, cmd.Bool("pretty"))
	}

	if len(summaries) == 0 {
		r.writePlain("No chunks found in %s\n", r.library.Root())
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Library: %s", r.library.Root()))
	for _, summary := range summaries {
		title := summary.Title
		if title == "" {
			title = "(untitled)"
		}
		r.writePlain("%-20s %s (%d sentences)\n", summary.ID, title, summary.SentenceCount)
	}

	return nil
}

// LibraryPlan shows the alternating segment plan built for a chunk.
func (r *Runner) LibraryPlan(ctx context.Context, cmd *cli.Command) error {
	chunkID := cmd.StringArg("chunk")
	if chunkID == "" {
		return fmt.Errorf("%w: chunk ID", shared.ErrMissingArgument)
	}

	chunk, _, err := r.library.Load(chunkID)
	if err != nil {
		return fmt.Errorf("failed to load chunk: %w", err)
	}

	p := plan.Build(chunk)

	if cmd.Bool("json") {
		data, err := formatter.ToMetadataJSON(chunk, p)
		if err != nil {
			return err
		}
		_, err = r.output.Write(append(data, '\n'))
		return err
	}

	text, err := formatter.ExportToText(chunk, p)
	if err != nil {
		return fmt.Errorf("failed to format plan: %w", err)
	}

	_, err = r.output.Write(text)
	return err
}

// LibraryExport writes a chunk's segment plan to disk in the chosen format.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	chunkID := cmd.StringArg("chunk")
	if chunkID == "" {
		return fmt.Errorf("%w: chunk ID", shared.ErrMissingArgument)
	}

	chunk, _, err := r.library.Load(chunkID)
	if err != nil {
		return fmt.Errorf("failed to load chunk: %w", err)
	}

	p := plan.Build(chunk)
	output := cmd.String("output")

	switch format := cmd.String("format"); format {
	case "csv":
		result, err := formatter.WriteCSVExport(chunk, p, output)
		if err != nil {
			return err
		}
		r.writePlain("Wrote %s and %s\n", result.SegmentsFile, result.MetadataFile)

	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(chunk, p, output)
		if err != nil {
			return err
		}
		r.writePlain("Wrote %s\n", result.Files[0])

	case "text", "txt":
		path, err := formatter.WriteTextExport(chunk, p, output)
		if err != nil {
			return err
		}
		r.writePlain("Wrote %s\n", path)

	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	return nil
}
