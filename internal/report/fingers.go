package report

import (
	"sort"
	"unicode"

	"github.com/verte-zerg/typist/internal/engine"
	"github.com/verte-zerg/typist/internal/model"
)

// fingerUnknown buckets characters outside the reference layout.
const fingerUnknown = "unknown"

// fingerMap is the fixed reference QWERTY layout used for finger-load
// attribution. Uppercase input folds to lowercase before lookup.
var fingerMap = map[rune]string{
	'1': "l-pinky", '2': "l-ring", '3': "l-middle", '4': "l-index", '5': "l-index",
	'6': "r-index", '7': "r-index", '8': "r-middle", '9': "r-ring", '0': "r-pinky",

	'q': "l-pinky", 'w': "l-ring", 'e': "l-middle", 'r': "l-index", 't': "l-index",
	'y': "r-index", 'u': "r-index", 'i': "r-middle", 'o': "r-ring", 'p': "r-pinky",

	'a': "l-pinky", 's': "l-ring", 'd': "l-middle", 'f': "l-index", 'g': "l-index",
	'h': "r-index", 'j': "r-index", 'k': "r-middle", 'l': "r-ring", ';': "r-pinky",
	'\'': "r-pinky",

	'z': "l-pinky", 'x': "l-ring", 'c': "l-middle", 'v': "l-index", 'b': "l-index",
	'n': "r-index", 'm': "r-index", ',': "r-middle", '.': "r-ring", '/': "r-pinky",

	' ': "thumb",
}

func fingerFor(r rune) string {
	if finger, ok := fingerMap[unicode.ToLower(r)]; ok {
		return finger
	}
	return fingerUnknown
}

func fingerLoad(keys map[rune]engine.KeyAgg) []model.FingerLoad {
	type acc struct {
		occurrences  int
		errors       int
		latencySumMs int64
		latencyCount int
	}
	byFinger := map[string]*acc{}
	for r, agg := range keys {
		finger := fingerFor(r)
		a, ok := byFinger[finger]
		if !ok {
			a = &acc{}
			byFinger[finger] = a
		}
		a.occurrences += agg.Occurrences
		a.errors += agg.Errors
		a.latencySumMs += agg.TotalLatency.Milliseconds()
		a.latencyCount += agg.LatencyCount
	}
	out := make([]model.FingerLoad, 0, len(byFinger))
	for finger, a := range byFinger {
		load := model.FingerLoad{
			Finger:      finger,
			Occurrences: a.occurrences,
			ErrorCount:  a.errors,
		}
		if a.latencyCount > 0 {
			load.MeanLatencyMs = float64(a.latencySumMs) / float64(a.latencyCount)
		}
		out = append(out, load)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Finger < out[j].Finger
	})
	return out
}
