package engine

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/tandemreader/tandem/internal/models"
	"github.com/tandemreader/tandem/internal/shared"
	tu "github.com/tandemreader/tandem/internal/testing"
)

func TestLoop(t *testing.T) {
	t.Run("commands and events run on the loop", func(t *testing.T) {
		media := tu.NewFakeMedia(map[string]float64{origURL: 8, transURL: 10})
		l := NewLoop(shared.NewLogger(io.Discard), media, Config{SamplerInterval: 5 * time.Millisecond}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go l.Run(ctx)

		l.SetChunk(testChunk("ch01"), testManifest())
		l.EnterSequence()
		l.Deliver(Event{Kind: EventSeeked})

		deadline := time.After(2 * time.Second)
		for {
			s := l.Snapshot()
			if s.Mode == "sequence" && s.Pending == "" {
				if s.ChunkID != "ch01" {
					t.Errorf("expected chunk ch01, got %s", s.ChunkID)
				}
				return
			}
			select {
			case <-deadline:
				t.Fatalf("loop never settled: %+v", s)
			case <-time.After(5 * time.Millisecond):
			}
		}
	})

	t.Run("deferred direct-seek marker clears via settle passes", func(t *testing.T) {
		media := tu.NewFakeMedia(map[string]float64{origURL: 8, transURL: 10})
		l := NewLoop(shared.NewLogger(io.Discard), media, Config{SamplerInterval: 5 * time.Millisecond}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go l.Run(ctx)

		l.SetChunk(testChunk("ch01"), testManifest())
		l.EnterSequence()
		l.Play()

		// Even without a seeked event, sampler ticks keep the loop
		// turning so the nested settle clear eventually runs.
		deadline := time.After(2 * time.Second)
		for {
			s := l.Snapshot()
			if s.Pending == "" && !s.InTransition {
				return
			}
			select {
			case <-deadline:
				t.Fatalf("pending marker never self-cleared: %+v", s)
			case <-time.After(5 * time.Millisecond):
			}
		}
	})

	t.Run("snapshot after stop returns zero value", func(t *testing.T) {
		media := tu.NewFakeMedia(nil)
		l := NewLoop(shared.NewLogger(io.Discard), media, Config{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		go l.Run(ctx)
		cancel()

		// Wait for the loop to close down.
		<-l.done

		s := l.Snapshot()
		if s.Mode != "" {
			t.Errorf("expected zero snapshot after stop, got %+v", s)
		}
	})

	t.Run("resume through the loop", func(t *testing.T) {
		media := tu.NewFakeMedia(map[string]float64{origURL: 8, transURL: 10})
		l := NewLoop(shared.NewLogger(io.Discard), media, Config{SamplerInterval: 5 * time.Millisecond}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go l.Run(ctx)

		l.SetChunk(testChunk("ch01"), testManifest())
		l.ApplyResume(models.TrackOriginal, 3.0, false)
		l.Deliver(Event{Kind: EventSeeked})

		deadline := time.After(2 * time.Second)
		for {
			s := l.Snapshot()
			if s.Pending == "" && s.Position == 3.0 {
				return
			}
			select {
			case <-deadline:
				t.Fatalf("resume never applied: %+v", s)
			case <-time.After(5 * time.Millisecond):
			}
		}
	})
}
