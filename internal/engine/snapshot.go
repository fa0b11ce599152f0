package engine

// Snapshot is a point-in-time view of the coordinator for diagnostic
// overlays and the debug server. It carries no references into live state.
type Snapshot struct {
	Mode          string  `json:"mode"`
	Track         string  `json:"track"`
	SegmentIndex  int     `json:"segment_index"`
	SentenceIndex int     `json:"sentence_index"`
	PlanSize      int     `json:"plan_size"`
	ChunkID       string  `json:"chunk_id,omitempty"`
	LoadedURL     string  `json:"loaded_url,omitempty"`
	Pending       string  `json:"pending,omitempty"`
	Token         uint64  `json:"token"`
	Playing       bool    `json:"playing"`
	Position      float64 `json:"position"`
	InTransition  bool    `json:"in_transition"`
}

// Snapshot captures the coordinator's current state.
func (c *Coordinator) Snapshot() Snapshot {
	s := Snapshot{
		Mode:          c.mode.String(),
		Track:         c.track.String(),
		SegmentIndex:  c.segmentIndex,
		SentenceIndex: c.currentSentenceIndex(),
		PlanSize:      c.plan.Len(),
		ChunkID:       c.plan.ChunkID(),
		LoadedURL:     c.loadedURL,
		Token:         c.token,
		Playing:       c.playing,
		Position:      c.media.CurrentTime(),
		InTransition:  c.timing.InTransition(),
	}
	if c.pending != nil {
		s.Pending = c.pending.String()
	}
	return s
}
