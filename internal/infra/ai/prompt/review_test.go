package prompt

import (
	"strings"
	"testing"
)

func TestReviewEmbedsCodeVerbatim(t *testing.T) {
	code := "function f(){return 1}\n  // 100% literal %s"
	got := Review(code)

	if !strings.Contains(got, "```\n"+code+"\n```") {
		t.Fatalf("code not fenced verbatim:\n%s", got)
	}
	for i, c := range Categories() {
		want := string(rune('1'+i)) + ". " + c
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(got, "You are an expert code reviewer.") {
		t.Error("prompt missing reviewer instruction")
	}
}
