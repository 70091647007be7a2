package engine

import "time"

// KeystrokeEvent is one raw keystroke. Events are appended to the session
// log in arrival order and never mutated or removed; rejected keystrokes
// are retained with Accepted=false.
type KeystrokeEvent struct {
	Rune      rune
	At        time.Time
	Backspace bool
	Accepted  bool
	// Position is the cursor position the keystroke was aimed at.
	Position int
	// Correct marks an accepted rune that matched the target.
	Correct bool
}

// KeyAgg accumulates per-character timing and error totals. The first
// accepted keystroke of a session has no latency sample, so LatencyCount
// can lag Occurrences.
type KeyAgg struct {
	Occurrences  int
	TotalLatency time.Duration
	LatencyCount int
	Errors       int
}

// DigraphAgg accumulates totals for an ordered pair of consecutive
// accepted runes. Latency is attributed to the second rune of the pair.
type DigraphAgg struct {
	Occurrences  int
	TotalLatency time.Duration
	Errors       int
}

// recorder owns the append-only keystroke log and the incremental per-key
// and per-digraph aggregates. It records every event, accepted or not.
type recorder struct {
	keystrokes []KeystrokeEvent

	keys     map[rune]*KeyAgg
	digraphs map[[2]rune]*DigraphAgg

	lastAccepted   rune
	hasLast        bool
	lastAcceptedAt time.Time
}

func newRecorder() *recorder {
	return &recorder{
		keys:     map[rune]*KeyAgg{},
		digraphs: map[[2]rune]*DigraphAgg{},
	}
}

// record appends the event and, for accepted runes, folds it into the
// running aggregates. erroneous marks any non-Correct classification.
func (rec *recorder) record(ev KeystrokeEvent, erroneous bool) {
	rec.keystrokes = append(rec.keystrokes, ev)
	if ev.Backspace || !ev.Accepted {
		return
	}

	key, ok := rec.keys[ev.Rune]
	if !ok {
		key = &KeyAgg{}
		rec.keys[ev.Rune] = key
	}
	key.Occurrences++
	if erroneous {
		key.Errors++
	}

	if rec.hasLast {
		latency := ev.At.Sub(rec.lastAcceptedAt)
		key.TotalLatency += latency
		key.LatencyCount++

		pair := [2]rune{rec.lastAccepted, ev.Rune}
		dg, ok := rec.digraphs[pair]
		if !ok {
			dg = &DigraphAgg{}
			rec.digraphs[pair] = dg
		}
		dg.Occurrences++
		dg.TotalLatency += latency
		if erroneous {
			dg.Errors++
		}
	}

	rec.lastAccepted = ev.Rune
	rec.hasLast = true
	rec.lastAcceptedAt = ev.At
}

func (rec *recorder) keyAggregates() map[rune]KeyAgg {
	out := make(map[rune]KeyAgg, len(rec.keys))
	for r, agg := range rec.keys {
		out[r] = *agg
	}
	return out
}

func (rec *recorder) digraphAggregates() map[[2]rune]DigraphAgg {
	out := make(map[[2]rune]DigraphAgg, len(rec.digraphs))
	for pair, agg := range rec.digraphs {
		out[pair] = *agg
	}
	return out
}
