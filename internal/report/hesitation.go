package report

import (
	"unicode"

	"github.com/verte-zerg/typist/internal/engine"
	"github.com/verte-zerg/typist/internal/model"
)

// Hesitation kind names, stable across report versions.
const (
	HesitationLongPause    = "long_pause"
	HesitationPunctuation  = "punctuation"
	HesitationCaseChange   = "case_change"
	HesitationWordBoundary = "word_boundary"
	HesitationOther        = "other"
)

// hesitations scans the recorded keystroke timeline retrospectively for
// pauses at or above the threshold and classifies each by the target
// context at the paused position.
func hesitations(log engine.Log, opts Options) []model.Hesitation {
	out := []model.Hesitation{}
	var prev engine.KeystrokeEvent
	var hasPrev bool
	for _, ev := range log.Keystrokes {
		if ev.Backspace || !ev.Accepted {
			continue
		}
		if hasPrev {
			pause := ev.At.Sub(prev.At).Milliseconds()
			if pause >= opts.HesitationMs {
				out = append(out, model.Hesitation{
					Position: ev.Position,
					PauseMs:  pause,
					Kind:     classifyPause(log.Target, ev.Position, pause, opts.LongPauseMs),
				})
			}
		}
		prev = ev
		hasPrev = true
	}
	return out
}

func classifyPause(target []rune, pos int, pauseMs, longPauseMs int64) string {
	if pauseMs >= longPauseMs {
		return HesitationLongPause
	}
	if pos < 0 || pos >= len(target) {
		return HesitationOther
	}
	cur := target[pos]
	if unicode.IsPunct(cur) || unicode.IsSymbol(cur) {
		return HesitationPunctuation
	}
	if pos > 0 {
		prev := target[pos-1]
		if unicode.IsLetter(cur) && unicode.IsLetter(prev) &&
			unicode.IsUpper(cur) != unicode.IsUpper(prev) {
			return HesitationCaseChange
		}
		if unicode.IsSpace(prev) {
			return HesitationWordBoundary
		}
	}
	return HesitationOther
}
