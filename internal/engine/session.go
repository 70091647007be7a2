package engine

import "time"

// Status is the session state machine state.
type Status int

// Session states. Completed is terminal.
const (
	StatusActive Status = iota
	StatusFrozen
	StatusCompleted
)

// String returns the stable name used in reports and the UI.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFrozen:
		return "frozen"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ErrorEvent records one classified typing error. CorrectedAt stays zero
// until the error is resolved by backspacing; it is set exactly once.
type ErrorEvent struct {
	Kind        Kind
	Position    int
	Expected    rune // 0 when the target had no rune at the position
	Actual      rune
	DetectedAt  time.Time
	CorrectedAt time.Time
}

// Corrected reports whether the error was resolved before session end.
func (e ErrorEvent) Corrected() bool {
	return !e.CorrectedAt.IsZero()
}

// DefaultFreezeThreshold is how many keystrokes may follow an uncorrected
// error before input freezes.
const DefaultFreezeThreshold = 10

// Options tunes session behavior.
type Options struct {
	// FreezeThreshold overrides DefaultFreezeThreshold when > 0.
	FreezeThreshold int
}

// Session is the sole owner and mutator of typing session state. It is
// driven by a single logical writer; Snapshot is a pure read taken between
// keystrokes.
type Session struct {
	target []rune
	source string

	threshold int

	input  []rune
	cursor int
	status Status

	errors          []ErrorEvent
	outstanding     int // index into errors, -1 when no uncorrected error is open
	charsSinceError int

	lastKind Kind
	hasKind  bool

	rec *recorder

	typedChars int
	started    bool
	startedAt  time.Time
	endedAt    time.Time
	endedEarly bool
}

// New creates a session for the given target text. The target must contain
// at least one rune.
func New(target, source string, opts Options) (*Session, error) {
	runes := []rune(target)
	if len(runes) == 0 {
		return nil, ErrEmptyTarget
	}
	threshold := opts.FreezeThreshold
	if threshold <= 0 {
		threshold = DefaultFreezeThreshold
	}
	return &Session{
		target:      runes,
		source:      source,
		threshold:   threshold,
		outstanding: -1,
		rec:         newRecorder(),
	}, nil
}

// Target returns the target runes. Callers must not mutate the slice.
func (s *Session) Target() []rune {
	return s.target
}

// SubmitRune processes one non-backspace keystroke stamped by the caller.
// The returned Kind is the classification of the keystroke. Keystrokes
// arriving while frozen are logged as rejected and otherwise ignored.
func (s *Session) SubmitRune(r rune, at time.Time) (Kind, error) {
	if s.status == StatusCompleted {
		return Correct, ErrSessionEnded
	}
	s.endedAt = at

	if s.status == StatusFrozen {
		// Only backspace is accepted while frozen. The keystroke is
		// retained for analytics but progresses nothing.
		s.rec.record(KeystrokeEvent{Rune: r, At: at, Position: s.cursor}, true)
		return s.classify(r), nil
	}

	if !s.started {
		s.started = true
		s.startedAt = at
	}
	kind := s.classify(r)
	s.input = append(s.input, r)
	s.typedChars++
	s.rec.record(KeystrokeEvent{
		Rune:     r,
		At:       at,
		Accepted: true,
		Position: s.cursor,
		Correct:  kind == Correct && s.outstanding < 0,
	}, kind != Correct || s.outstanding >= 0)

	if s.outstanding >= 0 {
		// An error is open: nothing advances until it is backspaced away.
		s.charsSinceError++
		if s.charsSinceError >= s.threshold {
			s.status = StatusFrozen
		}
		s.lastKind = kind
		s.hasKind = true
		return kind, nil
	}

	switch kind {
	case Correct:
		s.cursor++
		if s.cursor == len(s.target) {
			s.status = StatusCompleted
		}
	default:
		var expected rune
		if s.cursor < len(s.target) {
			expected = s.target[s.cursor]
		}
		s.errors = append(s.errors, ErrorEvent{
			Kind:       kind,
			Position:   s.cursor,
			Expected:   expected,
			Actual:     r,
			DetectedAt: at,
		})
		s.outstanding = len(s.errors) - 1
		s.charsSinceError = 0
	}
	s.lastKind = kind
	s.hasKind = true
	return kind, nil
}

// SubmitBackspace processes one backspace keystroke. While an error is
// outstanding it is a correction attempt; once the input again matches the
// target prefix the error is marked corrected and a frozen session thaws.
// With no outstanding error it simply retreats the cursor.
func (s *Session) SubmitBackspace(at time.Time) error {
	if s.status == StatusCompleted {
		return ErrSessionEnded
	}
	s.endedAt = at

	removed := len(s.input) > 0
	s.rec.record(KeystrokeEvent{At: at, Backspace: true, Accepted: removed, Position: s.cursor}, false)
	if !removed {
		return nil
	}
	s.input = s.input[:len(s.input)-1]

	if s.outstanding >= 0 {
		if len(s.input) == s.cursor {
			// Input matches the target prefix again: the error is resolved.
			s.errors[s.outstanding].CorrectedAt = at
			s.outstanding = -1
			s.charsSinceError = 0
			s.status = StatusActive
		}
		return nil
	}
	if s.cursor > 0 {
		s.cursor--
	}
	return nil
}

// End terminates the session. A naturally completed session is left as-is;
// otherwise the session is marked completed and flagged as ended early.
// End always succeeds and is idempotent.
func (s *Session) End(at time.Time) {
	if s.status == StatusCompleted {
		return
	}
	s.status = StatusCompleted
	s.endedAt = at
	s.endedEarly = true
}

func (s *Session) classify(r rune) Kind {
	var last rune
	hasLast := len(s.input) > 0
	if hasLast {
		last = s.input[len(s.input)-1]
	}
	return Classify(s.target, s.cursor, last, hasLast, r)
}
