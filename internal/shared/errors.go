package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Content errors
	ErrChunkNotFound   = fmt.Errorf("chunk not found")
	ErrInvalidChunk    = fmt.Errorf("invalid chunk metadata")
	ErrMissingManifest = fmt.Errorf("media manifest missing")

	// Playback errors
	ErrPlanGap          = fmt.Errorf("no usable segment for sentence")
	ErrNoPlayableMedia  = fmt.Errorf("no playable media")
	ErrSeekOutOfRange   = fmt.Errorf("seek target out of range")
	ErrSequenceDisabled = fmt.Errorf("sequence mode infeasible")

	// Persistence errors
	ErrBookmarkNotFound = fmt.Errorf("bookmark not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
