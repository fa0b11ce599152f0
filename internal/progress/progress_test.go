package progress

import (
	"testing"
	"time"
)

func collect(sink *[]Update) Sink {
	return func(u Update) { *sink = append(*sink, u) }
}

func TestEmitter(t *testing.T) {
	t.Run("first sample for a URL passes", func(t *testing.T) {
		var got []Update
		e := NewEmitter(time.Hour, collect(&got))

		e.Emit("media/a.mp3", 1.0)

		if len(got) != 1 {
			t.Fatalf("expected 1 update, got %d", len(got))
		}
		if got[0].URL != "media/a.mp3" || got[0].Position != 1.0 {
			t.Errorf("unexpected update %+v", got[0])
		}
	})

	t.Run("samples inside the interval are suppressed", func(t *testing.T) {
		var got []Update
		e := NewEmitter(time.Hour, collect(&got))

		e.Emit("media/a.mp3", 1.0)
		e.Emit("media/a.mp3", 1.1)
		e.Emit("media/a.mp3", 1.2)

		if len(got) != 1 {
			t.Errorf("expected throttle to drop repeat samples, got %d updates", len(got))
		}
	})

	t.Run("samples pass again after the interval", func(t *testing.T) {
		var got []Update
		e := NewEmitter(10*time.Millisecond, collect(&got))

		e.Emit("media/a.mp3", 1.0)
		time.Sleep(20 * time.Millisecond)
		e.Emit("media/a.mp3", 2.0)

		if len(got) != 2 {
			t.Errorf("expected 2 updates across the interval, got %d", len(got))
		}
	})

	t.Run("URL change always passes", func(t *testing.T) {
		var got []Update
		e := NewEmitter(time.Hour, collect(&got))

		e.Emit("media/a.mp3", 1.0)
		e.Emit("media/b.mp3", 0.5)

		if len(got) != 2 {
			t.Fatalf("expected URL change to bypass the throttle, got %d updates", len(got))
		}
		if got[1].URL != "media/b.mp3" {
			t.Errorf("expected second update for the new URL, got %s", got[1].URL)
		}
	})

	t.Run("empty URL is dropped", func(t *testing.T) {
		var got []Update
		e := NewEmitter(time.Hour, collect(&got))

		e.Emit("", 1.0)

		if len(got) != 0 {
			t.Errorf("expected no updates for empty URL, got %d", len(got))
		}
	})

	t.Run("Flush bypasses the throttle", func(t *testing.T) {
		var got []Update
		e := NewEmitter(time.Hour, collect(&got))

		e.Emit("media/a.mp3", 1.0)
		e.Flush("media/a.mp3", 9.9)

		if len(got) != 2 {
			t.Fatalf("expected flush to pass, got %d updates", len(got))
		}
		if got[1].Position != 9.9 {
			t.Errorf("expected flushed position 9.9, got %f", got[1].Position)
		}
	})

	t.Run("fan-out reaches every sink", func(t *testing.T) {
		var a, b []Update
		e := NewEmitter(time.Hour, collect(&a))
		e.AddSink(collect(&b))

		e.Emit("media/a.mp3", 1.0)

		if len(a) != 1 || len(b) != 1 {
			t.Errorf("expected both sinks to receive the update, got %d and %d", len(a), len(b))
		}
	})
}
