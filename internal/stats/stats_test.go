package stats

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/verte-zerg/typist/internal/model"
)

func TestMovingAverage(t *testing.T) {
	values := []float64{10, 20, 30, 40}
	got := MovingAverage(values, 2)
	want := []float64{10, 15, 25, 35}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MovingAverage = %v, want %v", got, want)
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{1, 2, 3}
	got := MovingAverage(values, 1)
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("MovingAverage window 1 = %v, want %v", got, values)
	}
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{0, 5, 10})
	if len(line) != 3 {
		t.Fatalf("sparkline length = %d, want 3", len(line))
	}
	if line[0] != sparkChars[0] {
		t.Fatalf("lowest value should map to first spark char, got %q", line)
	}
	if line[2] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("highest value should map to last spark char, got %q", line)
	}
}

func TestSparklineFlat(t *testing.T) {
	line := Sparkline([]float64{5, 5, 5})
	if len(line) != 3 {
		t.Fatalf("sparkline length = %d, want 3", len(line))
	}
	if line[0] != line[1] || line[1] != line[2] {
		t.Fatalf("flat series should render uniform chars, got %q", line)
	}
}

func TestResample(t *testing.T) {
	values := []float64{1, 3, 5, 7}
	got := Resample(values, 2)
	want := []float64{2, 6}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Resample = %v, want %v", got, want)
	}
}

func TestResampleNoShrink(t *testing.T) {
	values := []float64{1, 2}
	got := Resample(values, 10)
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("Resample should keep short series intact, got %v", got)
	}
}

func TestFormatTableAlignment(t *testing.T) {
	lines := formatTable(
		[]string{"Kind", "Count"},
		[][]string{{"omission", "3"}, {"repeat", "12"}},
		map[int]bool{1: true},
	)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "omission     3" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if lines[2] != "repeat      12" {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

func sampleAggregates() []model.SessionAggregate {
	return []model.SessionAggregate{
		{SessionID: 1, WPM: 40, Accuracy: 0.9, DurationMs: 60000,
			Errors: model.ErrorCounts{Substitution: 2, Omission: 1}, Uncorrected: 1},
		{SessionID: 2, WPM: 50, Accuracy: 0.95, DurationMs: 60000,
			Errors: model.ErrorCounts{Insertion: 1, Repeat: 1}},
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleAggregates()); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Sessions: 2",
		"Avg WPM: 45.00",
		"Best WPM: 50.00",
		"Avg Accuracy: 92.50%",
		"Errors: 5 (1 uncorrected)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("RenderSummary: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestRenderErrorTable(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderErrorTable(&buf, sampleAggregates()); err != nil {
		t.Fatalf("RenderErrorTable: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Errors by Kind") {
		t.Fatalf("missing table title:\n%s", out)
	}
	if !strings.Contains(out, "substitution") || !strings.Contains(out, "40.0%") {
		t.Fatalf("missing substitution share:\n%s", out)
	}
}

func TestRenderCurvesWithWidth(t *testing.T) {
	sessions := make([]model.SessionAggregate, 0, 5)
	for i := 0; i < 5; i++ {
		sessions = append(sessions, model.SessionAggregate{
			SessionID: int64(i + 1),
			WPM:       30 + float64(i)*5,
			Accuracy:  0.8 + float64(i)*0.02,
		})
	}
	var buf bytes.Buffer
	if err := RenderCurvesWithWidth(&buf, sessions, 1, 40); err != nil {
		t.Fatalf("RenderCurvesWithWidth: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Learning Curves") {
		t.Fatalf("missing curves title:\n%s", out)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "WPM") || !strings.HasPrefix(lines[2], "Accuracy") {
		t.Fatalf("unexpected curve labels:\n%s", out)
	}
}

func TestRenderCurvesSingleSession(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{{SessionID: 1, WPM: 40}}
	if err := RenderCurvesWithWidth(&buf, sessions, 1, 40); err != nil {
		t.Fatalf("RenderCurvesWithWidth: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("single session should render nothing, got %q", buf.String())
	}
}

func TestResampleMean(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	got := Resample(values, 3)
	want := []float64{1.5, 3.5, 5.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("Resample = %v, want %v", got, want)
		}
	}
}
