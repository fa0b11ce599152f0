package engine

// LastWord identifies the most recently highlighted word.
type LastWord struct {
	SentenceIndex int
	VariantKind   string
	TokenIndex    int
}

// TimingContext is the cross-cutting timing store shared between the
// coordinator and highlight consumers: the last highlighted word and
// whether a transition is in flight. It is passed by reference to every
// component that reads or clears it; there is no ambient global copy.
//
// It is only touched from the engine's single logical thread.
type TimingContext struct {
	lastWord    LastWord
	hasLastWord bool

	transitionToken uint64
	inTransition    bool
}

// NewTimingContext returns an empty timing context.
func NewTimingContext() *TimingContext {
	return &TimingContext{}
}

// SetLastWord records the word currently highlighted.
func (t *TimingContext) SetLastWord(w LastWord) {
	t.lastWord = w
	t.hasLastWord = true
}

// LastWord returns the most recently highlighted word, if any.
func (t *TimingContext) LastWord() (LastWord, bool) {
	return t.lastWord, t.hasLastWord
}

// ClearLastWord forgets the highlighted word, e.g. on chunk change.
func (t *TimingContext) ClearLastWord() {
	t.lastWord = LastWord{}
	t.hasLastWord = false
}

// BeginTransition signals that the transition identified by token started.
func (t *TimingContext) BeginTransition(token uint64) {
	t.transitionToken = token
	t.inTransition = true
}

// CompleteTransition signals that the transition identified by token
// finished. A stale token, superseded by a newer transition, is ignored.
func (t *TimingContext) CompleteTransition(token uint64) {
	if t.inTransition && t.transitionToken == token {
		t.inTransition = false
	}
}

// InTransition reports whether a transition is still in flight.
func (t *TimingContext) InTransition() bool {
	return t.inTransition
}
