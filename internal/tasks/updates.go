package tasks

import (
	"fmt"

	"github.com/tandemreader/tandem/internal/models"
)

// ProgressUpdate represents a progress event during a playback session.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Session phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Session phase enumeration
type Phase int

const (
	LoadChunk Phase = iota
	BuildPlan
	Resume
	Playback
	Persist
	Done
)

func (p Phase) String() string {
	switch p {
	case LoadChunk:
		return "load_chunk"
	case BuildPlan:
		return "build_plan"
	case Resume:
		return "resume"
	case Playback:
		return "playback"
	case Persist:
		return "persist"
	case Done:
		return "done"
	default:
		return ""
	}
}

func loadChunkUpdate(chunkID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadChunk,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loading chunk %s...", chunkID),
	}
}

func buildPlanUpdate(segments int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildPlan,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Built segment plan (%d segments)", segments),
	}
}

func resumeUpdate(track models.Track, position float64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Resume,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resuming on %s at %.2fs", track, position),
	}
}

func segmentUpdate(index, total int, segment models.Segment) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Playback,
		Step:    index + 1,
		Total:   total,
		Message: fmt.Sprintf("Sentence %d (%s)", segment.SentenceIndex+1, segment.Track),
		Data:    segment,
	}
}

func trackUpdate(track models.Track, url string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Playback,
		Message: fmt.Sprintf("Switching to %s (%s)", track, url),
	}
}

func persistUpdate(position float64) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Persist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Saved position %.2fs", position),
	}
}

func doneUpdate(chunkID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Finished chunk %s", chunkID),
	}
}

// send delivers an update without blocking; a slow or absent consumer never
// stalls the session.
func send(updates chan<- ProgressUpdate, u ProgressUpdate) {
	if updates == nil {
		return
	}
	select {
	case updates <- u:
	default:
	}
}
