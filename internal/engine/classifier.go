// Package engine implements the typing session core: keystroke
// classification, correction enforcement, and the session state machine.
package engine

// Kind classifies the outcome of a single keystroke against the target text.
type Kind int

// Keystroke outcomes. Overlapping categories resolve toward the
// earliest-listed kind.
const (
	Correct Kind = iota
	Substitution
	Insertion
	Omission
	Repeat
)

// String returns the stable name used in reports.
func (k Kind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Substitution:
		return "substitution"
	case Insertion:
		return "insertion"
	case Omission:
		return "omission"
	case Repeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// insertionLookahead is how far past the cursor Classify searches when
// deciding whether a mismatch jumped ahead of the expected rune.
const insertionLookahead = 3

// Classify compares one incoming rune against the expected position in the
// target. Ambiguity resolves by fixed priority: a match at the cursor is
// Correct; echoing the last accepted rune when the target does not call for
// it is Repeat; a match one position ahead means the cursor rune was skipped
// (Omission); a match further inside the lookahead window means the rune
// arrived ahead of the expected one (Insertion); everything else is a plain
// wrong rune at this position (Substitution).
//
// Classify never mutates session state and backspace never reaches it.
func Classify(target []rune, cursor int, lastAccepted rune, hasLast bool, r rune) Kind {
	if cursor < len(target) && r == target[cursor] {
		return Correct
	}
	if hasLast && r == lastAccepted {
		return Repeat
	}
	if cursor+1 < len(target) && r == target[cursor+1] {
		return Omission
	}
	for i := cursor + 2; i <= cursor+insertionLookahead && i < len(target); i++ {
		if target[i] == r {
			return Insertion
		}
	}
	return Substitution
}
