package pdf

import (
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// Measurer wraps text using the same core-font metrics the renderer draws
// with, so wrapped line counts match the rendered output.
type Measurer struct {
	mu  sync.Mutex
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func NewMeasurer() *Measurer {
	p := fpdf.New("P", "mm", "A4", "")
	return &Measurer{pdf: p, tr: p.UnicodeTranslatorFromDescriptor("")}
}

// Width returns the rendered width of s in millimetres.
func (m *Measurer) Width(s string, fontSize float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(fontFamily, "", fontSize)
	return m.pdf.GetStringWidth(m.tr(s))
}

// Wrap splits text into lines no wider than width. Newlines are kept as hard
// breaks; words longer than a line are broken between characters.
func (m *Measurer) Wrap(text string, fontSize, width float64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(fontFamily, "", fontSize)

	text = strings.ReplaceAll(text, "\r\n", "\n")
	var lines []string
	for _, para := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		lines = append(lines, m.wrapParagraph(expandTabs(para), width)...)
	}
	return lines
}

func (m *Measurer) wrapParagraph(para string, width float64) []string {
	words := strings.Split(para, " ")
	var (
		lines   []string
		current string
		started bool
	)
	for _, word := range words {
		candidate := word
		if started {
			candidate = current + " " + word
		}
		if m.fits(candidate, width) {
			current, started = candidate, true
			continue
		}
		if started {
			lines = append(lines, current)
		}
		// a word that cannot fit on its own line is cut between runes
		for !m.fits(word, width) {
			head := m.longestPrefix(word, width)
			lines = append(lines, head)
			word = word[len(head):]
		}
		current, started = word, true
	}
	return append(lines, current)
}

func (m *Measurer) fits(s string, width float64) bool {
	return m.pdf.GetStringWidth(m.tr(s)) <= width
}

// longestPrefix returns the longest rune prefix of word that fits, at least
// one rune so wrapping always makes progress.
func (m *Measurer) longestPrefix(word string, width float64) string {
	end := 0
	for i := range word {
		if i > 0 && !m.fits(word[:i], width) {
			break
		}
		end = i
	}
	if end == 0 {
		for i := range word {
			if i > 0 {
				return word[:i]
			}
		}
		return word
	}
	return word[:end]
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
