package stats

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/typist/internal/model"
)

const terminalWidthBackup = 80

const curveLabelWidth = 12

// RenderSummary prints aggregate numbers for the selected sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc float64
	bestWPM := 0.0
	var counts model.ErrorCounts
	var uncorrected int
	for _, s := range sessions {
		totalWPM += s.WPM
		totalAcc += s.Accuracy
		if s.WPM > bestWPM {
			bestWPM = s.WPM
		}
		counts.Substitution += s.Errors.Substitution
		counts.Insertion += s.Errors.Insertion
		counts.Omission += s.Errors.Omission
		counts.Repeat += s.Errors.Repeat
		uncorrected += s.Uncorrected
	}
	count := float64(len(sessions))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", totalWPM/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %.2f\n", bestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", (totalAcc/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Errors: %d (%d uncorrected)\n", counts.Total(), uncorrected); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderErrorTable prints error-kind totals across the selected sessions.
func RenderErrorTable(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		return nil
	}
	var counts model.ErrorCounts
	for _, s := range sessions {
		counts.Substitution += s.Errors.Substitution
		counts.Insertion += s.Errors.Insertion
		counts.Omission += s.Errors.Omission
		counts.Repeat += s.Errors.Repeat
	}
	total := counts.Total()
	share := func(n int) string {
		if total == 0 {
			return "0.0%"
		}
		return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
	}
	if _, err := fmt.Fprintln(w, "Errors by Kind"); err != nil {
		return err
	}
	headers := []string{"Kind", "Count", "Share"}
	rows := [][]string{
		{"substitution", fmt.Sprintf("%d", counts.Substitution), share(counts.Substitution)},
		{"insertion", fmt.Sprintf("%d", counts.Insertion), share(counts.Insertion)},
		{"omission", fmt.Sprintf("%d", counts.Omission), share(counts.Omission)},
		{"repeat", fmt.Sprintf("%d", counts.Repeat), share(counts.Repeat)},
	}
	rightAlign := map[int]bool{1: true, 2: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints WPM and accuracy sparklines across sessions.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithWidth(w, sessions, window, terminalWidth())
}

// RenderCurvesWithWidth prints sparklines sized to a given total width.
func RenderCurvesWithWidth(w io.Writer, sessions []model.SessionAggregate, window, totalWidth int) error {
	if len(sessions) < 2 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = s.WPM
		accs[i] = s.Accuracy * 100
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	plotWidth := totalWidth - curveLabelWidth
	if plotWidth < 10 {
		plotWidth = 10
	}
	wpms = Resample(wpms, plotWidth)
	accs = Resample(accs, plotWidth)

	if _, err := fmt.Fprintln(w, "Learning Curves"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-*s%s\n", curveLabelWidth, "WPM", Sparkline(wpms)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-*s%s\n", curveLabelWidth, "Accuracy", Sparkline(accs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
