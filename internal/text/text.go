// Package text selects practice snippets from files and embedded sources.
package text

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
)

// ChunkSize controls how much text a practice session targets.
type ChunkSize string

// Supported chunk sizes.
const (
	SizeSmall  ChunkSize = "small"
	SizeMedium ChunkSize = "medium"
	SizeLarge  ChunkSize = "large"
)

// ParseChunkSize validates a size name from flags or config.
func ParseChunkSize(value string) (ChunkSize, error) {
	switch ChunkSize(value) {
	case SizeSmall, SizeMedium, SizeLarge:
		return ChunkSize(value), nil
	}
	return "", fmt.Errorf("invalid size %q: expected small, medium, or large", value)
}

func (s ChunkSize) charRange() (int, int) {
	switch s {
	case SizeSmall:
		return 800, 1600
	case SizeLarge:
		return 3200, 4800
	default:
		return 1600, 3200
	}
}

func (s ChunkSize) maxLines() int {
	switch s {
	case SizeSmall:
		return 40
	case SizeLarge:
		return 120
	default:
		return 80
	}
}

// Source is a named practice text ready for a session.
type Source struct {
	Name    string
	Content string
}

// Selector picks practice snippets with seeded randomness.
type Selector struct {
	rnd *rand.Rand
}

// NewSelector returns a Selector seeded with the current time.
func NewSelector() *Selector {
	return &Selector{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSelectorWithSeed returns a Selector with a fixed seed.
func NewSelectorWithSeed(seed int64) *Selector {
	return &Selector{rnd: rand.New(rand.NewSource(seed))}
}

// LoadFile reads a file and extracts a practice snippet of the given size.
func (s *Selector) LoadFile(path string, size ChunkSize) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read practice file: %w", err)
	}
	name := filepath.Base(path)
	content := s.extractSnippet(string(data), name, size)
	if strings.TrimSpace(content) == "" {
		return Source{}, fmt.Errorf("file %s contains no usable text", name)
	}
	return Source{Name: name, Content: content}, nil
}

// FromString extracts a snippet from already loaded content.
func (s *Selector) FromString(name, content string, size ChunkSize) (Source, error) {
	snippet := s.extractSnippet(content, name, size)
	if strings.TrimSpace(snippet) == "" {
		return Source{}, fmt.Errorf("source %s contains no usable text", name)
	}
	return Source{Name: name, Content: snippet}, nil
}

type paragraph struct {
	content string
	chars   int
	score   float64
}

func (s *Selector) extractSnippet(content, name string, size ChunkSize) string {
	minChars, maxChars := size.charRange()

	paragraphs := findParagraphs(content, name)
	for i := range paragraphs {
		paragraphs[i].score = scoreParagraph(paragraphs[i].content, name)
	}
	sort.SliceStable(paragraphs, func(i, j int) bool {
		return paragraphs[i].score > paragraphs[j].score
	})

	var suitable []paragraph
	for _, p := range paragraphs {
		if p.chars >= minChars && p.chars <= maxChars {
			suitable = append(suitable, p)
		}
	}
	if len(suitable) > 0 {
		return strings.TrimSpace(s.pick(suitable).content)
	}

	// No exact fit, accept anything at least half the target.
	var acceptable []paragraph
	for _, p := range paragraphs {
		if p.chars >= minChars/2 {
			acceptable = append(acceptable, p)
		}
	}
	if len(acceptable) > 0 {
		return strings.TrimSpace(s.pick(acceptable).content)
	}

	// Fallback: a line window starting a third of the way in.
	lines := strings.Split(content, "\n")
	start := len(lines) / 3
	end := start + size.maxLines()
	if end > len(lines) {
		end = len(lines)
	}
	return strings.TrimSpace(strings.Join(lines[start:end], "\n"))
}

func (s *Selector) pick(paragraphs []paragraph) paragraph {
	return paragraphs[s.rnd.Intn(len(paragraphs))]
}

var codeExtensions = map[string]bool{
	".rs": true, ".py": true, ".js": true, ".ts": true,
	".cpp": true, ".c": true, ".java": true, ".go": true,
}

func isCodeFile(name string) bool {
	return codeExtensions[strings.ToLower(filepath.Ext(name))]
}

var blockStarters = []string{
	"fn ", "pub fn ", "func ", "struct ", "impl ",
	"enum ", "class ", "def ", "function ", "type ",
}

func startsBlock(trimmed string) bool {
	for _, prefix := range blockStarters {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

func findParagraphs(content, name string) []paragraph {
	if !isCodeFile(name) {
		var paragraphs []paragraph
		for _, block := range strings.Split(content, "\n\n") {
			if len(strings.TrimSpace(block)) > 100 {
				paragraphs = append(paragraphs, paragraph{content: block, chars: len(block)})
			}
		}
		return paragraphs
	}

	// Code files: collect brace-balanced declaration blocks.
	lines := strings.Split(content, "\n")
	var paragraphs []paragraph
	depth := 0
	start := 0
	inBlock := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if depth == 0 && startsBlock(trimmed) {
			start = i
			inBlock = true
		}
		depth += strings.Count(line, "{")
		depth -= strings.Count(line, "}")
		if inBlock && depth == 0 && strings.Contains(line, "}") {
			block := strings.Join(lines[start:i+1], "\n")
			if len(block) > 200 {
				paragraphs = append(paragraphs, paragraph{content: block, chars: len(block)})
			}
			inBlock = false
		}
	}
	return paragraphs
}

func scoreParagraph(content, name string) float64 {
	score := 0.0

	length := float64(len(content))
	if length > 50 && length < 500 {
		score += 10
	} else {
		score += 5
	}

	unique := map[rune]struct{}{}
	for _, r := range content {
		unique[r] = struct{}{}
	}
	score += float64(len(unique)) * 0.5

	if isCodeFile(name) {
		if containsAny(content, "fn ", "func ", "function ", "def ") {
			score += 15
		}
		if containsAny(content, "if ", "for ", "while ", "match ", "switch ") {
			score += 10
		}
		if containsAny(content, "struct ", "class ", "enum ", "type ") {
			score += 12
		}
		if containsAny(content, "Result", "Option", "Error", "try", "catch", "except") {
			score += 8
		}
		if strings.Contains(content, "<") && strings.Contains(content, ">") || strings.Contains(content, "impl ") {
			score += 12
		}
		score -= commentRatio(content) * 10
		if importLineCount(content) > 3 {
			score -= 5
		}
	} else {
		words := float64(len(strings.Fields(content)))
		if words > 20 && words < 150 {
			score += 10
		}
		punct := 0
		sentences := 0
		for _, r := range content {
			if strings.ContainsRune(".,;:!?\"'()-[]{}", r) {
				punct++
			}
			if r == '.' || r == '!' || r == '?' {
				sentences++
			}
		}
		score += float64(punct) * 0.3
		score += float64(sentences) * 2
	}

	if length < 100 {
		score -= 5
	}
	if length > 1000 {
		score -= 3
	}
	if score < 0 {
		score = 0
	}
	return score
}

func containsAny(content string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(content, needle) {
			return true
		}
	}
	return false
}

func commentRatio(content string) float64 {
	lines := strings.Split(content, "\n")
	comments := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "#") {
			comments++
		}
	}
	if len(lines) == 0 {
		return 0
	}
	return float64(comments) / float64(len(lines))
}

func importLineCount(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if containsAny(line, "import ", "use ", "#include") {
			count++
		}
	}
	return count
}

// Normalize prepares raw text for a session: tabs become spaces and
// carriage returns are dropped.
func Normalize(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\t", "    ")
	return strings.Map(func(r rune) rune {
		if r == '\r' {
			return -1
		}
		if unicode.IsControl(r) && r != '\n' {
			return -1
		}
		return r
	}, content)
}
