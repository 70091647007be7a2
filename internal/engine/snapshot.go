package engine

import "time"

// Snapshot is a read-only view of current session state for the
// presentation layer. Taking a snapshot never mutates the session, and two
// snapshots with no intervening keystroke are identical.
type Snapshot struct {
	Status           Status
	Cursor           int
	Input            []rune
	CharsSinceError  int
	FreezeThreshold  int
	ErrorOutstanding bool

	LastKind Kind
	HasLast  bool

	TypedChars   int
	CorrectChars int
	ErrorCount   int

	Started    bool
	StartedAt  time.Time
	EndedEarly bool
}

// Snapshot returns the current state between keystroke-processing steps.
func (s *Session) Snapshot() Snapshot {
	input := make([]rune, len(s.input))
	copy(input, s.input)
	return Snapshot{
		Status:           s.status,
		Cursor:           s.cursor,
		Input:            input,
		CharsSinceError:  s.charsSinceError,
		FreezeThreshold:  s.threshold,
		ErrorOutstanding: s.outstanding >= 0,
		LastKind:         s.lastKind,
		HasLast:          s.hasKind,
		TypedChars:       s.typedChars,
		CorrectChars:     s.cursor,
		ErrorCount:       len(s.errors),
		Started:          s.started,
		StartedAt:        s.startedAt,
		EndedEarly:       s.endedEarly,
	}
}

// Log is the full session trace handed to the analytics aggregator. All
// slices and maps are copies; a Log taken at session end is immutable.
type Log struct {
	Target []rune
	Source string

	Keystrokes []KeystrokeEvent
	Errors     []ErrorEvent

	Keys     map[rune]KeyAgg
	Digraphs map[[2]rune]DigraphAgg

	TypedChars   int
	CorrectChars int

	Started    bool
	StartedAt  time.Time
	EndedAt    time.Time
	EndedEarly bool
}

// Log captures the keystroke, error, and timing trace accumulated so far.
// Called at session end it yields the complete session record; called
// mid-session it yields a consistent partial one.
func (s *Session) Log() Log {
	keystrokes := make([]KeystrokeEvent, len(s.rec.keystrokes))
	copy(keystrokes, s.rec.keystrokes)
	errs := make([]ErrorEvent, len(s.errors))
	copy(errs, s.errors)
	return Log{
		Target:       s.target,
		Source:       s.source,
		Keystrokes:   keystrokes,
		Errors:       errs,
		Keys:         s.rec.keyAggregates(),
		Digraphs:     s.rec.digraphAggregates(),
		TypedChars:   s.typedChars,
		CorrectChars: s.cursor,
		Started:      s.started,
		StartedAt:    s.startedAt,
		EndedAt:      s.endedAt,
		EndedEarly:   s.endedEarly,
	}
}
