// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings for a session.
type Config struct {
	File            string
	Inception       bool
	Size            string
	FreezeThreshold int
	HesitationMs    int64
	LongPauseMs     int64
	TrendBucketMs   int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// ReportError is one classified typing error in a finished report.
type ReportError struct {
	Kind        string   `json:"kind"`
	Position    int      `json:"position"`
	Expected    string   `json:"expected,omitempty"`
	Actual      string   `json:"actual,omitempty"`
	DetectedMs  int64    `json:"detected_ms"`
	CorrectedMs *int64   `json:"corrected_ms,omitempty"`
	LatencyMs   *float64 `json:"correction_latency_ms,omitempty"`
}

// KeyStat aggregates occurrences, latency, and errors for one character.
type KeyStat struct {
	Char          string  `json:"char"`
	Occurrences   int     `json:"occurrences"`
	ErrorCount    int     `json:"error_count"`
	MeanLatencyMs float64 `json:"mean_latency_ms"`
}

// DigraphStat aggregates an ordered pair of consecutive characters.
type DigraphStat struct {
	Digraph       string  `json:"digraph"`
	Occurrences   int     `json:"occurrences"`
	ErrorCount    int     `json:"error_count"`
	MeanLatencyMs float64 `json:"mean_latency_ms"`
}

// Hesitation is an abnormally long pause before a keystroke.
type Hesitation struct {
	Position int    `json:"position"`
	PauseMs  int64  `json:"pause_ms"`
	Kind     string `json:"kind"`
}

// FingerLoad aggregates errors and latency per reference-layout finger.
type FingerLoad struct {
	Finger        string  `json:"finger"`
	Occurrences   int     `json:"occurrences"`
	ErrorCount    int     `json:"error_count"`
	MeanLatencyMs float64 `json:"mean_latency_ms"`
}

// TrendBucket is windowed WPM over a fixed slice of the session timeline.
type TrendBucket struct {
	StartMs int64   `json:"start_ms"`
	EndMs   int64   `json:"end_ms"`
	WPM     float64 `json:"wpm"`
}

// ErrorCounts breaks down typing errors by kind.
type ErrorCounts struct {
	Substitution int `json:"substitution"`
	Insertion    int `json:"insertion"`
	Omission     int `json:"omission"`
	Repeat       int `json:"repeat"`
}

// Total sums all error kinds.
func (c ErrorCounts) Total() int {
	return c.Substitution + c.Insertion + c.Omission + c.Repeat
}

// SessionReport is the immutable record derived from a finished session.
// Field names and nesting are stable; external visualizers depend on them.
type SessionReport struct {
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	DurationMs int64     `json:"duration_ms"`
	Source     string    `json:"source"`
	EndedEarly bool      `json:"ended_early"`

	TotalCharacters   int     `json:"total_characters"`
	CorrectCharacters int     `json:"correct_characters"`
	WPM               float64 `json:"wpm"`
	Accuracy          float64 `json:"accuracy"`
	MeanLatencyMs     float64 `json:"mean_latency_ms"`

	ErrorCounts        ErrorCounts `json:"error_counts"`
	UncorrectedErrors  int         `json:"uncorrected_errors"`
	Corrections        int         `json:"corrections"`
	CorrectionMeanMs   float64     `json:"correction_mean_ms"`
	CorrectionMedianMs float64     `json:"correction_median_ms"`

	Errors      []ReportError `json:"errors"`
	KeyStats    []KeyStat     `json:"key_stats"`
	Digraphs    []DigraphStat `json:"digraphs"`
	Hesitations []Hesitation  `json:"hesitations"`
	FingerLoad  []FingerLoad  `json:"finger_load"`
	Trend       []TrendBucket `json:"wpm_trend"`
}

// SessionAggregate summarizes a stored session for cross-session stats.
type SessionAggregate struct {
	SessionID   int64
	EndedAt     time.Time
	Source      string
	WPM         float64
	Accuracy    float64
	Errors      ErrorCounts
	Uncorrected int
	DurationMs  int64
	EndedEarly  bool
}
