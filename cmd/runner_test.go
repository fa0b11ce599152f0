package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tandemreader/tandem/internal/content"
	"github.com/tandemreader/tandem/internal/models"
	"github.com/tandemreader/tandem/internal/shared"
	"github.com/urfave/cli/v3"
)

// writeLibrary creates a temp library directory with one playable chunk.
func writeLibrary(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	entry := content.Entry{
		Chunk: models.Chunk{
			ID:    "ch01",
			Title: "First Chapter",
			Sentences: []models.Sentence{
				{
					Index:           0,
					OriginalGate:    &models.Gate{Start: 0, End: 2},
					TranslationGate: &models.Gate{Start: 0, End: 3},
				},
				{
					Index:           1,
					OriginalGate:    &models.Gate{Start: 2.5, End: 4.5},
					TranslationGate: &models.Gate{Start: 3.5, End: 6},
				},
			},
			OriginalDuration:    8,
			TranslationDuration: 10,
		},
		Manifest: models.Manifest{
			OriginalURL:    "media/ch01.orig.mp3",
			TranslationURL: "media/ch01.trans.mp3",
		},
	}

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("failed to marshal entry: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ch01.json"), data, 0644); err != nil {
		t.Fatalf("failed to write entry: %v", err)
	}

	return dir
}

// testRunner builds a Runner over a temp library, temp database, and a
// buffered output writer.
func testRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()

	config := shared.DefaultConfig()
	config.Library.Path = writeLibrary(t)
	config.Database.Path = filepath.Join(t.TempDir(), "tandem.db")

	output := &bytes.Buffer{}
	// The session logs from its own goroutines, so keep the logger off
	// the shared output buffer.
	logger := shared.NewLogger(io.Discard)

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
		Output: output,
	})
	return runner, output
}

// app wraps the runner's commands into a root command for Run-based tests.
func app(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "tandem",
		Commands: r.register(),
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			library := content.NewLibrary(t.TempDir(), logger)

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Library: library,
				Logger:  logger,
				Output:  output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.library != library {
				t.Error("expected library to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.library == nil {
				t.Error("expected library derived from default config")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			if err := runner.writeJSON(data, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if output.String() != "{\"key\":\"value\"}\n" {
				t.Errorf("expected compact JSON, got %s", output.String())
			}
		})
	})
}

func TestLibraryCommands(t *testing.T) {
	t.Run("ListPlain", func(t *testing.T) {
		runner, output := testRunner(t)

		err := app(runner).Run(context.Background(), []string{"tandem", "library", "list", "--pretty=false"})
		if err != nil {
			t.Fatalf("library list failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "ch01") {
			t.Errorf("expected chunk ID in output, got %s", result)
		}
		if !strings.Contains(result, "First Chapter") {
			t.Errorf("expected chunk title in output, got %s", result)
		}
	})

	t.Run("ListJSON", func(t *testing.T) {
		runner, output := testRunner(t)

		err := app(runner).Run(context.Background(), []string{"tandem", "library", "list", "--json"})
		if err != nil {
			t.Fatalf("library list failed: %v", err)
		}

		var summaries []content.Summary
		if err := json.Unmarshal(output.Bytes(), &summaries); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(summaries) != 1 || summaries[0].ID != "ch01" {
			t.Errorf("unexpected summaries: %+v", summaries)
		}
	})

	t.Run("Plan", func(t *testing.T) {
		runner, output := testRunner(t)

		err := app(runner).Run(context.Background(), []string{"tandem", "library", "plan", "ch01"})
		if err != nil {
			t.Fatalf("library plan failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Segments: 4") {
			t.Errorf("expected segment count in output, got %s", result)
		}
	})

	t.Run("PlanMissingChunk", func(t *testing.T) {
		runner, _ := testRunner(t)

		err := app(runner).Run(context.Background(), []string{"tandem", "library", "plan", "missing"})
		if err == nil {
			t.Fatal("expected error for missing chunk")
		}
	})

	t.Run("Export", func(t *testing.T) {
		runner, output := testRunner(t)
		base := filepath.Join(t.TempDir(), "ch01")

		err := app(runner).Run(context.Background(), []string{
			"tandem", "library", "export", "--format", "csv", "--output", base, "ch01",
		})
		if err != nil {
			t.Fatalf("library export failed: %v", err)
		}

		if _, err := os.Stat(base + "_segments.csv"); err != nil {
			t.Errorf("expected segments CSV to exist: %v", err)
		}
		if !strings.Contains(output.String(), "_segments.csv") {
			t.Errorf("expected output to name the file, got %s", output.String())
		}
	})

	t.Run("ExportUnknownFormat", func(t *testing.T) {
		runner, _ := testRunner(t)

		err := app(runner).Run(context.Background(), []string{
			"tandem", "library", "export", "--format", "yaml", "ch01",
		})
		if err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}

func TestSetupAndBookmarks(t *testing.T) {
	t.Run("SetupDatabase", func(t *testing.T) {
		runner, _ := testRunner(t)

		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		dbPath := filepath.Join(dir, "tandem.db")
		conf := "[database]\npath = \"" + dbPath + "\"\nmax_open_conns = 2\nmax_idle_conns = 1\n"
		if err := os.WriteFile(configPath, []byte(conf), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		err := app(runner).Run(context.Background(), []string{
			"tandem", "setup", "database", "--config", configPath,
		})
		if err != nil {
			t.Fatalf("setup database failed: %v", err)
		}

		if _, err := os.Stat(dbPath); err != nil {
			t.Errorf("expected database file to be created: %v", err)
		}
	})

	t.Run("SetupConfig", func(t *testing.T) {
		runner, output := testRunner(t)
		configPath := filepath.Join(t.TempDir(), "config.toml")

		err := app(runner).Run(context.Background(), []string{
			"tandem", "setup", "config", "--config", configPath,
		})
		if err != nil {
			t.Fatalf("setup config failed: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Errorf("expected config file to be created: %v", err)
		}
		if !strings.Contains(output.String(), configPath) {
			t.Errorf("expected output to name the config file, got %s", output.String())
		}
	})

	t.Run("BookmarkListEmpty", func(t *testing.T) {
		runner, output := testRunner(t)

		err := app(runner).Run(context.Background(), []string{"tandem", "bookmark", "list"})
		if err != nil {
			t.Fatalf("bookmark list failed: %v", err)
		}

		if !strings.Contains(output.String(), "No bookmarks stored") {
			t.Errorf("expected empty message, got %s", output.String())
		}
	})

	t.Run("BookmarkDeleteMissing", func(t *testing.T) {
		runner, _ := testRunner(t)

		err := app(runner).Run(context.Background(), []string{"tandem", "bookmark", "delete", "nope"})
		if err == nil {
			t.Fatal("expected error deleting a missing bookmark")
		}
	})
}

func TestPlayCommand(t *testing.T) {
	t.Run("MissingChunkArgument", func(t *testing.T) {
		runner, _ := testRunner(t)

		err := app(runner).Run(context.Background(), []string{"tandem", "play"})
		if err == nil {
			t.Fatal("expected error for missing chunk argument")
		}
	})

	t.Run("SequenceRunCompletes", func(t *testing.T) {
		runner, output := testRunner(t)
		runner.config.Playback.DwellMs = 5
		runner.config.Playback.ExitClearMs = 5
		runner.config.Playback.SamplerHz = 100
		runner.config.Playback.LoadLatencyMs = 0

		err := app(runner).Run(context.Background(), []string{
			"tandem", "play", "--rate", "50", "ch01",
		})
		if err != nil {
			t.Fatalf("play failed: %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Playback Complete") {
			t.Errorf("expected completion banner, got %s", result)
		}
		if !strings.Contains(result, "Chunk: ch01") {
			t.Errorf("expected chunk summary, got %s", result)
		}
	})
}
