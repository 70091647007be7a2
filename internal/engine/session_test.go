package engine

import (
	"reflect"
	"testing"
	"time"
)

var base = time.Unix(1700000000, 0)

func at(step int) time.Time {
	return base.Add(time.Duration(step) * 100 * time.Millisecond)
}

func mustSession(t *testing.T, target string, opts Options) *Session {
	t.Helper()
	s, err := New(target, "test", opts)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func typeRunes(t *testing.T, s *Session, text string, start int) int {
	t.Helper()
	step := start
	for _, r := range text {
		if _, err := s.SubmitRune(r, at(step)); err != nil {
			t.Fatalf("submit %q: %v", r, err)
		}
		step++
	}
	return step
}

func TestNewEmptyTarget(t *testing.T) {
	if _, err := New("", "test", Options{}); err != ErrEmptyTarget {
		t.Fatalf("expected ErrEmptyTarget, got %v", err)
	}
}

func TestCleanRun(t *testing.T) {
	s := mustSession(t, "cat", Options{FreezeThreshold: 10})
	typeRunes(t, s, "cat", 0)

	snap := s.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %v", snap.Status)
	}
	if snap.ErrorCount != 0 {
		t.Fatalf("expected no errors, got %d", snap.ErrorCount)
	}
	if snap.CorrectChars != 3 || snap.TypedChars != 3 {
		t.Fatalf("unexpected counts: %+v", snap)
	}
	if snap.EndedEarly {
		t.Fatalf("natural completion must not be marked ended early")
	}
}

func TestFreezeAfterThreshold(t *testing.T) {
	s := mustSession(t, "cat", Options{FreezeThreshold: 10})
	typeRunes(t, s, "co", 0)

	snap := s.Snapshot()
	if !snap.ErrorOutstanding || snap.ErrorCount != 1 {
		t.Fatalf("expected one outstanding error, got %+v", snap)
	}

	log := s.Log()
	e := log.Errors[0]
	if e.Kind != Substitution || e.Position != 1 || e.Expected != 'a' || e.Actual != 'o' {
		t.Fatalf("unexpected error event: %+v", e)
	}

	step := 2
	for i := 0; i < 10; i++ {
		if s.Snapshot().Status == StatusFrozen {
			t.Fatalf("frozen too early after %d keystrokes", i)
		}
		if _, err := s.SubmitRune('x', at(step)); err != nil {
			t.Fatalf("submit: %v", err)
		}
		step++
	}
	if s.Snapshot().Status != StatusFrozen {
		t.Fatalf("expected frozen after threshold keystrokes")
	}

	// Frozen: non-backspace keystrokes are rejected but retained.
	before := s.Snapshot()
	logBefore := len(s.Log().Keystrokes)
	if _, err := s.SubmitRune('y', at(step)); err != nil {
		t.Fatalf("submit while frozen: %v", err)
	}
	after := s.Snapshot()
	if after.Cursor != before.Cursor || after.Status != StatusFrozen {
		t.Fatalf("rejected keystroke mutated progression: %+v", after)
	}
	if got := len(s.Log().Keystrokes); got != logBefore+1 {
		t.Fatalf("rejected keystroke not retained: %d -> %d", logBefore, got)
	}
}

func TestCorrectionThawsAndCompletes(t *testing.T) {
	s := mustSession(t, "cat", Options{FreezeThreshold: 2})
	step := typeRunes(t, s, "coxx", 0)
	if s.Snapshot().Status != StatusFrozen {
		t.Fatalf("expected frozen session")
	}

	// Three backspaces remove x, x, o; the last one resolves the error.
	for i := 0; i < 3; i++ {
		if err := s.SubmitBackspace(at(step)); err != nil {
			t.Fatalf("backspace: %v", err)
		}
		step++
	}
	snap := s.Snapshot()
	if snap.Status != StatusActive {
		t.Fatalf("expected active after correction, got %v", snap.Status)
	}
	if snap.ErrorOutstanding || snap.CharsSinceError != 0 {
		t.Fatalf("error not cleared: %+v", snap)
	}

	log := s.Log()
	e := log.Errors[0]
	if !e.Corrected() {
		t.Fatalf("expected corrected error")
	}
	if !e.CorrectedAt.After(e.DetectedAt) {
		t.Fatalf("corrected_at %v not after detected_at %v", e.CorrectedAt, e.DetectedAt)
	}

	typeRunes(t, s, "at", step)
	if got := s.Snapshot().Status; got != StatusCompleted {
		t.Fatalf("expected completed, got %v", got)
	}
}

func TestBackspaceRetreatsCursor(t *testing.T) {
	s := mustSession(t, "cat", Options{})
	step := typeRunes(t, s, "ca", 0)
	if err := s.SubmitBackspace(at(step)); err != nil {
		t.Fatalf("backspace: %v", err)
	}
	snap := s.Snapshot()
	if snap.Cursor != 1 || len(snap.Input) != 1 {
		t.Fatalf("expected cursor retreat, got %+v", snap)
	}
	// Backspace on empty input is a recorded no-op.
	s2 := mustSession(t, "cat", Options{})
	if err := s2.SubmitBackspace(at(0)); err != nil {
		t.Fatalf("backspace on empty: %v", err)
	}
	if got := s2.Snapshot().Cursor; got != 0 {
		t.Fatalf("cursor moved on empty backspace: %d", got)
	}
}

func TestCompletedRejectsInput(t *testing.T) {
	s := mustSession(t, "ab", Options{})
	typeRunes(t, s, "ab", 0)
	if _, err := s.SubmitRune('c', at(9)); err != ErrSessionEnded {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}
	if err := s.SubmitBackspace(at(9)); err != ErrSessionEnded {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}
}

func TestEndEarly(t *testing.T) {
	s := mustSession(t, "cat", Options{})
	typeRunes(t, s, "c", 0)
	s.End(at(5))
	snap := s.Snapshot()
	if snap.Status != StatusCompleted || !snap.EndedEarly {
		t.Fatalf("expected ended-early completion, got %+v", snap)
	}
	// Idempotent.
	s.End(at(6))
	if got := s.Log().EndedAt; !got.Equal(at(5)) {
		t.Fatalf("second End moved the end time: %v", got)
	}
}

func TestSnapshotIdempotent(t *testing.T) {
	s := mustSession(t, "cat", Options{})
	typeRunes(t, s, "co", 0)
	first := s.Snapshot()
	second := s.Snapshot()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("snapshots differ:\n%+v\n%+v", first, second)
	}
}

func TestUncorrectedErrorAtEnd(t *testing.T) {
	s := mustSession(t, "cat", Options{})
	typeRunes(t, s, "co", 0)
	s.End(at(9))
	log := s.Log()
	if len(log.Errors) != 1 || log.Errors[0].Corrected() {
		t.Fatalf("expected one uncorrected error, got %+v", log.Errors)
	}
}

func TestNoNewErrorWhileOutstanding(t *testing.T) {
	s := mustSession(t, "cat", Options{})
	typeRunes(t, s, "cozz", 0)
	if got := s.Snapshot().ErrorCount; got != 1 {
		t.Fatalf("expected a single open error event, got %d", got)
	}
}

func TestRecorderAggregates(t *testing.T) {
	s := mustSession(t, "cat", Options{})
	typeRunes(t, s, "cat", 0)
	log := s.Log()

	key, ok := log.Keys['a']
	if !ok || key.Occurrences != 1 {
		t.Fatalf("missing key aggregate for 'a': %+v", log.Keys)
	}
	if key.TotalLatency != 100*time.Millisecond {
		t.Fatalf("unexpected latency for 'a': %v", key.TotalLatency)
	}
	dg, ok := log.Digraphs[[2]rune{'c', 'a'}]
	if !ok || dg.Occurrences != 1 || dg.TotalLatency != 100*time.Millisecond {
		t.Fatalf("unexpected digraph aggregate: %+v", dg)
	}
}
