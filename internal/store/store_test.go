package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/typist/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typist.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleReport(start time.Time) model.SessionReport {
	end := start.Add(30 * time.Second)
	return model.SessionReport{
		StartedAt:         start,
		EndedAt:           end,
		DurationMs:        end.Sub(start).Milliseconds(),
		Source:            "sample.txt",
		TotalCharacters:   120,
		CorrectCharacters: 110,
		WPM:               44,
		Accuracy:          110.0 / 120.0,
		MeanLatencyMs:     250,
		ErrorCounts:       model.ErrorCounts{Substitution: 2, Repeat: 1},
		UncorrectedErrors: 1,
		Errors:            []model.ReportError{{Kind: "substitution", Position: 4, Expected: "a", Actual: "o", DetectedMs: 900}},
		KeyStats:          []model.KeyStat{{Char: "a", Occurrences: 12, MeanLatencyMs: 240}},
		Digraphs:          []model.DigraphStat{{Digraph: "th", Occurrences: 6, MeanLatencyMs: 220}},
		Hesitations:       []model.Hesitation{{Position: 9, PauseMs: 750, Kind: "word_boundary"}},
		FingerLoad:        []model.FingerLoad{{Finger: "l-index", Occurrences: 30, MeanLatencyMs: 230}},
		Trend:             []model.TrendBucket{{StartMs: 0, EndMs: 5000, WPM: 40}},
	}
}

func TestInsertAndGetReport(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	rep := sampleReport(time.Unix(1700000000, 0).UTC())
	id, err := st.InsertReport(ctx, rep)
	if err != nil {
		t.Fatalf("insert report: %v", err)
	}
	got, err := st.GetReport(ctx, id)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if !reflect.DeepEqual(rep, got) {
		t.Fatalf("stored report mismatch:\n%+v\n%+v", rep, got)
	}
}

func TestListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Unix(1700000000, 0).UTC()
	for i := 0; i < 3; i++ {
		rep := sampleReport(base.Add(time.Duration(i) * time.Hour))
		if _, err := st.InsertReport(ctx, rep); err != nil {
			t.Fatalf("insert report: %v", err)
		}
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	if !sessions[0].EndedAt.Before(sessions[2].EndedAt) {
		t.Fatalf("sessions not ordered oldest first: %+v", sessions)
	}
	if sessions[0].Errors.Substitution != 2 || sessions[0].Errors.Repeat != 1 {
		t.Fatalf("unexpected error counts: %+v", sessions[0].Errors)
	}

	since := base.Add(90 * time.Minute)
	filtered, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(filtered) != 1 {
		t.Fatalf("expected 1 session since %v, got %d", since, len(filtered))
	}

	last, err := st.ListSessions(ctx, model.StatsConfig{Last: 2})
	if err != nil {
		t.Fatalf("list last: %v", err)
	}
	if len(last) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(last))
	}
}
