package cli

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/bryanwahyu/opticode/internal/session"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	headColor  = color.New(color.Bold)
	errColor   = color.New(color.FgRed)
	goodColor  = color.New(color.FgGreen, color.Bold)
	fairColor  = color.New(color.FgYellow, color.Bold)
	poorColor  = color.New(color.FgRed, color.Bold)
)

func printResult(w io.Writer, v session.View, width int) {
	titleColor.Fprintln(w, "OptiCode AI - Code Analysis")
	if v.Result != nil && v.Result.Score != nil {
		score := *v.Result.Score
		scoreColor(score).Fprintf(w, "Code Quality Score: %d / 100\n", score)
	}
	fmt.Fprintln(w)
	for _, line := range wrapText(v.Display(), width) {
		fmt.Fprintln(w, line)
	}
	if v.Result == nil || len(v.Result.Suggestions) == 0 {
		return
	}
	fmt.Fprintln(w)
	headColor.Fprintln(w, "Suggestions")
	for i, s := range v.Result.Suggestions {
		for j, line := range wrapText(s.Line(i), width) {
			if j > 0 {
				line = "   " + line
			}
			fmt.Fprintln(w, line)
		}
	}
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 85:
		return goodColor
	case score >= 70:
		return fairColor
	default:
		return poorColor
	}
}

// wrapText breaks text into lines no wider than width terminal cells,
// keeping existing line breaks. Words wider than width are cut.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return strings.Split(text, "\n")
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for runewidth.StringWidth(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					_, size := utf8.DecodeRuneInString(word)
					head = word[:size]
				}
				out = append(out, head)
				word = word[len(head):]
			}
			switch {
			case line == "":
				line = word
			case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
