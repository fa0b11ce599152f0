package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/tandemreader/tandem/internal/engine"
	"github.com/tandemreader/tandem/internal/models"
	"github.com/tandemreader/tandem/internal/plan"
)

// SnapshotSource provides point-in-time engine state. The engine loop's
// Snapshot method satisfies it from any goroutine.
type SnapshotSource interface {
	Snapshot() engine.Snapshot
}

// PlanSource provides the active segment plan.
type PlanSource func() *plan.Plan

// DebugHandler serves read-only diagnostics for a running playback session.
type DebugHandler struct {
	logger   *log.Logger
	snapshot SnapshotSource
	plan     PlanSource
}

// NewDebugHandler creates a handler over the given state sources.
func NewDebugHandler(logger *log.Logger, snapshot SnapshotSource, planSource PlanSource) *DebugHandler {
	return &DebugHandler{logger: logger, snapshot: snapshot, plan: planSource}
}

// Routes returns the path patterns this handler serves.
func (h *DebugHandler) Routes() []string {
	return []string{"/healthz", "/snapshot", "/plan"}
}

// ServeHTTP handles the HTTP request and writes the response.
func (h *DebugHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/healthz":
		h.writeJSON(w, map[string]string{"status": "ok"})
	case "/snapshot":
		if h.snapshot == nil {
			http.Error(w, "no session", http.StatusServiceUnavailable)
			return
		}
		h.writeJSON(w, h.snapshot.Snapshot())
	case "/plan":
		if h.plan == nil {
			http.Error(w, "no session", http.StatusServiceUnavailable)
			return
		}
		h.writeJSON(w, planView(h.plan()))
	default:
		http.NotFound(w, r)
	}
}

// writeJSON serializes v to the response with a JSON content type.
func (h *DebugHandler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil && h.logger != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// segmentView is the JSON shape of one plan segment.
type segmentView struct {
	Track         string  `json:"track"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	SentenceIndex int     `json:"sentence_index"`
}

// planView flattens a plan into a JSON-friendly shape.
func planView(p *plan.Plan) map[string]any {
	if p == nil {
		p = &plan.Plan{}
	}
	segments := make([]segmentView, 0, p.Len())
	for _, s := range p.Segments() {
		segments = append(segments, segmentView{
			Track:         s.Track.String(),
			Start:         s.Start,
			End:           s.End,
			SentenceIndex: s.SentenceIndex,
		})
	}
	return map[string]any{
		"chunk_id":           p.ChunkID(),
		"segments":           segments,
		"original_coverage":  p.HasSegments(models.TrackOriginal),
		"translation_coverage": p.HasSegments(models.TrackTranslation),
	}
}
