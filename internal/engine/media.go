package engine

import "fmt"

// Media is the native media-playback primitive the engine drives. The
// platform's audio stack provides the implementation; the engine only ever
// talks to it through this interface, and only the coordinator and dwell
// scheduler may call its mutating methods.
//
// Load is asynchronous: the primitive reports completion by delivering an
// [EventLoaded] event, which may arrive after an unbounded network-dependent
// delay. All other calls act on whatever URL is currently loaded.
type Media interface {
	// Load begins loading a new URL, replacing the current one.
	Load(url string)

	// Play resumes playback from the current position.
	Play()

	// Pause halts playback, keeping the current position.
	Pause()

	// Seek moves the play head to the given in-track time in seconds.
	Seek(seconds float64)

	// CurrentTime returns the play head position in seconds.
	CurrentTime() float64

	// Duration returns the loaded media's duration in seconds, or zero
	// when metadata is not yet known.
	Duration() float64
}

// EventKind enumerates the notifications a media primitive delivers.
type EventKind int

const (
	// EventLoaded fires when a loaded URL's metadata becomes available.
	EventLoaded EventKind = iota
	// EventTimeUpdate fires as the play head moves during playback.
	EventTimeUpdate
	// EventEnded fires when playback reaches the end of the loaded media.
	EventEnded
	// EventSeeked fires when a requested seek has been applied.
	EventSeeked
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventTimeUpdate:
		return "timeupdate"
	case EventEnded:
		return "ended"
	case EventSeeked:
		return "seeked"
	default:
		return "unknown"
	}
}

// Event is one media primitive notification.
type Event struct {
	Kind EventKind
	URL  string  // URL the event refers to (loaded events)
	Time float64 // Play head position in seconds (timeupdate, seeked)
}

// String formats the event for logs.
func (e Event) String() string {
	switch e.Kind {
	case EventLoaded:
		return fmt.Sprintf("%s(%s)", e.Kind, e.URL)
	default:
		return fmt.Sprintf("%s(%.3f)", e.Kind, e.Time)
	}
}
