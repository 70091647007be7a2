// Package report derives the immutable session report from an engine log.
package report

import (
	"sort"
	"time"

	"github.com/verte-zerg/typist/internal/engine"
	"github.com/verte-zerg/typist/internal/model"
)

// Defaults for report derivation thresholds, all overridable via Options.
const (
	DefaultHesitationMs  = 500
	DefaultLongPauseMs   = 1000
	DefaultTrendBucketMs = 5000
)

// Options tunes hesitation detection and the WPM trend bucketing.
type Options struct {
	HesitationMs  int64
	LongPauseMs   int64
	TrendBucketMs int64
}

func (o Options) withDefaults() Options {
	if o.HesitationMs <= 0 {
		o.HesitationMs = DefaultHesitationMs
	}
	if o.LongPauseMs <= 0 {
		o.LongPauseMs = DefaultLongPauseMs
	}
	if o.TrendBucketMs <= 0 {
		o.TrendBucketMs = DefaultTrendBucketMs
	}
	return o
}

// Build computes the session report from a finished (or partial) engine
// log. The computation is deterministic and idempotent: identical logs
// produce identical reports.
func Build(log engine.Log, opts Options) model.SessionReport {
	opts = opts.withDefaults()

	rep := model.SessionReport{
		Source:            log.Source,
		EndedEarly:        log.EndedEarly,
		TotalCharacters:   log.TypedChars,
		CorrectCharacters: log.CorrectChars,
		Errors:            []model.ReportError{},
		KeyStats:          []model.KeyStat{},
		Digraphs:          []model.DigraphStat{},
		Hesitations:       []model.Hesitation{},
		FingerLoad:        []model.FingerLoad{},
		Trend:             []model.TrendBucket{},
	}
	if log.Started {
		rep.StartedAt = log.StartedAt
		rep.EndedAt = log.EndedAt
		rep.DurationMs = log.EndedAt.Sub(log.StartedAt).Milliseconds()
	}

	minutes := float64(rep.DurationMs) / 60000.0
	if minutes > 0 {
		rep.WPM = (float64(log.CorrectChars) / 5.0) / minutes
	}
	if log.TypedChars > 0 {
		rep.Accuracy = float64(log.CorrectChars) / float64(log.TypedChars)
	}
	rep.MeanLatencyMs = meanLatencyMs(log.Keystrokes)

	buildErrors(&rep, log)
	rep.KeyStats = keyStats(log.Keys)
	rep.Digraphs = digraphStats(log.Digraphs)
	rep.Hesitations = hesitations(log, opts)
	rep.FingerLoad = fingerLoad(log.Keys)
	rep.Trend = trend(log, opts.TrendBucketMs)
	return rep
}

func meanLatencyMs(keystrokes []engine.KeystrokeEvent) float64 {
	var sum time.Duration
	var count int
	var prev time.Time
	var hasPrev bool
	for _, ev := range keystrokes {
		if ev.Backspace || !ev.Accepted {
			continue
		}
		if hasPrev {
			sum += ev.At.Sub(prev)
			count++
		}
		prev = ev.At
		hasPrev = true
	}
	if count == 0 {
		return 0
	}
	return float64(sum.Milliseconds()) / float64(count)
}

func buildErrors(rep *model.SessionReport, log engine.Log) {
	var latencies []float64
	for _, e := range log.Errors {
		re := model.ReportError{
			Kind:       e.Kind.String(),
			Position:   e.Position,
			Actual:     string(e.Actual),
			DetectedMs: e.DetectedAt.Sub(log.StartedAt).Milliseconds(),
		}
		if e.Expected != 0 {
			re.Expected = string(e.Expected)
		}
		if e.Corrected() {
			ms := e.CorrectedAt.Sub(log.StartedAt).Milliseconds()
			lat := float64(e.CorrectedAt.Sub(e.DetectedAt).Milliseconds())
			re.CorrectedMs = &ms
			re.LatencyMs = &lat
			latencies = append(latencies, lat)
		} else {
			rep.UncorrectedErrors++
		}
		switch e.Kind {
		case engine.Substitution:
			rep.ErrorCounts.Substitution++
		case engine.Insertion:
			rep.ErrorCounts.Insertion++
		case engine.Omission:
			rep.ErrorCounts.Omission++
		case engine.Repeat:
			rep.ErrorCounts.Repeat++
		}
		rep.Errors = append(rep.Errors, re)
	}
	rep.Corrections = len(latencies)
	if len(latencies) == 0 {
		return
	}
	var sum float64
	for _, l := range latencies {
		sum += l
	}
	rep.CorrectionMeanMs = sum / float64(len(latencies))
	sorted := append([]float64(nil), latencies...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		rep.CorrectionMedianMs = sorted[mid]
	} else {
		rep.CorrectionMedianMs = (sorted[mid-1] + sorted[mid]) / 2
	}
}

func keyStats(keys map[rune]engine.KeyAgg) []model.KeyStat {
	out := make([]model.KeyStat, 0, len(keys))
	for r, agg := range keys {
		stat := model.KeyStat{
			Char:        string(r),
			Occurrences: agg.Occurrences,
			ErrorCount:  agg.Errors,
		}
		if agg.LatencyCount > 0 {
			stat.MeanLatencyMs = float64(agg.TotalLatency.Milliseconds()) / float64(agg.LatencyCount)
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Char < out[j].Char
	})
	return out
}

// digraphStats ranks digraphs worst-first: most errors, then slowest, then
// most observed (more data means more confidence), then lexicographic.
func digraphStats(digraphs map[[2]rune]engine.DigraphAgg) []model.DigraphStat {
	out := make([]model.DigraphStat, 0, len(digraphs))
	for pair, agg := range digraphs {
		stat := model.DigraphStat{
			Digraph:     string(pair[0]) + string(pair[1]),
			Occurrences: agg.Occurrences,
			ErrorCount:  agg.Errors,
		}
		if agg.Occurrences > 0 {
			stat.MeanLatencyMs = float64(agg.TotalLatency.Milliseconds()) / float64(agg.Occurrences)
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ErrorCount != b.ErrorCount {
			return a.ErrorCount > b.ErrorCount
		}
		if a.MeanLatencyMs != b.MeanLatencyMs {
			return a.MeanLatencyMs > b.MeanLatencyMs
		}
		if a.Occurrences != b.Occurrences {
			return a.Occurrences > b.Occurrences
		}
		return a.Digraph < b.Digraph
	})
	return out
}

func trend(log engine.Log, bucketMs int64) []model.TrendBucket {
	if !log.Started || bucketMs <= 0 {
		return []model.TrendBucket{}
	}
	total := log.EndedAt.Sub(log.StartedAt).Milliseconds()
	if total <= 0 {
		return []model.TrendBucket{}
	}
	count := int(total / bucketMs)
	if total%bucketMs != 0 {
		count++
	}
	buckets := make([]model.TrendBucket, count)
	for i := range buckets {
		start := int64(i) * bucketMs
		end := start + bucketMs
		if end > total {
			end = total
		}
		buckets[i] = model.TrendBucket{StartMs: start, EndMs: end}
	}
	for _, ev := range log.Keystrokes {
		if ev.Backspace || !ev.Accepted || !ev.Correct {
			continue
		}
		offset := ev.At.Sub(log.StartedAt).Milliseconds()
		idx := int(offset / bucketMs)
		if idx < 0 {
			idx = 0
		}
		if idx >= count {
			idx = count - 1
		}
		buckets[idx].WPM++
	}
	for i := range buckets {
		width := float64(buckets[i].EndMs-buckets[i].StartMs) / 60000.0
		if width > 0 {
			buckets[i].WPM = (buckets[i].WPM / 5.0) / width
		} else {
			buckets[i].WPM = 0
		}
	}
	return buckets
}
