package tui

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/stats"
)

const reportTopN = 5

func renderReport(rep model.SessionReport, width int) string {
	var b strings.Builder

	title := "Session Report"
	if rep.EndedEarly {
		title += " (ended early)"
	}
	b.WriteString(headingStyle.Render(title))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Source: %s\n", rep.Source)
	fmt.Fprintf(&b, "Duration: %.1fs\n", float64(rep.DurationMs)/1000)
	fmt.Fprintf(&b, "WPM: %.1f\n", rep.WPM)
	fmt.Fprintf(&b, "Accuracy: %.1f%%\n", rep.Accuracy*100)
	fmt.Fprintf(&b, "Characters: %d typed, %d correct\n", rep.TotalCharacters, rep.CorrectCharacters)
	fmt.Fprintf(&b, "Mean latency: %.0fms\n", rep.MeanLatencyMs)
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Errors"))
	b.WriteString("\n")
	c := rep.ErrorCounts
	fmt.Fprintf(&b, "Total %d: %d substitution, %d insertion, %d omission, %d repeat\n",
		c.Total(), c.Substitution, c.Insertion, c.Omission, c.Repeat)
	fmt.Fprintf(&b, "Uncorrected: %d\n", rep.UncorrectedErrors)
	if rep.Corrections > 0 {
		fmt.Fprintf(&b, "Corrections: %d (mean %.0fms, median %.0fms)\n",
			rep.Corrections, rep.CorrectionMeanMs, rep.CorrectionMedianMs)
	}
	b.WriteString("\n")

	if len(rep.Digraphs) > 0 {
		b.WriteString(headingStyle.Render("Problem Digraphs"))
		b.WriteString("\n")
		for i, d := range rep.Digraphs {
			if i >= reportTopN {
				break
			}
			fmt.Fprintf(&b, "%-4q %d errors, %.0fms, %d seen\n",
				d.Digraph, d.ErrorCount, d.MeanLatencyMs, d.Occurrences)
		}
		b.WriteString("\n")
	}

	if len(rep.Hesitations) > 0 {
		b.WriteString(headingStyle.Render("Hesitations"))
		b.WriteString("\n")
		kinds := map[string]int{}
		for _, h := range rep.Hesitations {
			kinds[h.Kind]++
		}
		fmt.Fprintf(&b, "%d total", len(rep.Hesitations))
		for _, kind := range []string{"long_pause", "punctuation", "case_change", "word_boundary", "other"} {
			if n := kinds[kind]; n > 0 {
				fmt.Fprintf(&b, ", %d %s", n, kind)
			}
		}
		b.WriteString("\n\n")
	}

	if len(rep.FingerLoad) > 0 {
		b.WriteString(headingStyle.Render("Finger Load"))
		b.WriteString("\n")
		for _, f := range rep.FingerLoad {
			fmt.Fprintf(&b, "%-10s %4d keys %3d errors %5.0fms\n",
				f.Finger, f.Occurrences, f.ErrorCount, f.MeanLatencyMs)
		}
		b.WriteString("\n")
	}

	if len(rep.Trend) > 1 {
		b.WriteString(headingStyle.Render("WPM Trend"))
		b.WriteString("\n")
		values := make([]float64, len(rep.Trend))
		for i, t := range rep.Trend {
			values[i] = t.WPM
		}
		plotWidth := width - 4
		if plotWidth < 10 {
			plotWidth = 10
		}
		b.WriteString(stats.Sparkline(stats.Resample(values, plotWidth)))
		b.WriteString("\n")
	}

	return b.String()
}
