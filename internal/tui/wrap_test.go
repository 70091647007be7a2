package tui

import (
	"strings"
	"testing"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	target := []rune("ab")
	input := []rune("a")
	cursorIndex := len(input)

	runes := buildStyledRunes(target, input, cursorIndex)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined cursor for second rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	target := []rune("ab")
	input := []rune("ax")
	cursorIndex := len(input)

	runes := buildStyledRunes(target, input, cursorIndex)
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for mistyped rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	target := []rune("one two")
	input := []rune("o")
	cursorIndex := len(input)

	runes := buildStyledRunes(target, input, cursorIndex)
	if runes[1].s != currentWordStyle.Render("n") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	target := []rune("a b")
	input := []rune("ax")
	cursorIndex := len(input)

	runes := buildStyledRunes(target, input, cursorIndex)
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected red dot for wrong space")
	}
}

func TestBuildStyledRunesNewlineMarker(t *testing.T) {
	target := []rune("a\nb")
	input := []rune("a\n")
	cursorIndex := len(input)

	runes := buildStyledRunes(target, input, cursorIndex)
	if !runes[1].isBreak {
		t.Fatalf("expected break flag for newline rune")
	}
	if runes[1].s != correctStyle.Render("⏎") {
		t.Fatalf("expected correct style marker for typed newline")
	}
}

func TestFindWordsSplitsOnNewlines(t *testing.T) {
	words := findWords([]rune("ab\ncd ef"))
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	if words[1].start != 3 || words[1].end != 5 {
		t.Fatalf("unexpected second word range: %+v", words[1])
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := buildStyledRunes([]rune("aa bb cc"), nil, -1)
	wrapped := wrapStyledRunes(runes, 5)
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), wrapped)
	}
}

func TestWrapStyledRunesHardBreak(t *testing.T) {
	runes := buildStyledRunes([]rune("ab\ncd"), nil, -1)
	wrapped := wrapStyledRunes(runes, 80)
	lines := strings.Split(wrapped, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), wrapped)
	}
	if !strings.HasSuffix(lines[0], "⏎") {
		t.Fatalf("expected newline marker at end of first line: %q", lines[0])
	}
}
