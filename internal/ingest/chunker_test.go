package ingest

import (
	"fmt"
	"strings"
	"testing"
)

// numberedWords returns "w1 w2 ... wN".
func numberedWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i+1)
	}
	return words
}

func TestSplit_EmptyText(t *testing.T) {
	c := DefaultChunker()
	if got := c.Split(""); got != nil {
		t.Errorf("expected no windows, got %d", len(got))
	}
	if got := c.Split("   \n\t  "); got != nil {
		t.Errorf("expected no windows for whitespace, got %d", len(got))
	}
}

func TestSplit_SingleWindowWhenSmall(t *testing.T) {
	c := DefaultChunker()
	text := strings.Join(numberedWords(10), " ")

	out := c.Split(text)
	if len(out) != 1 {
		t.Fatalf("expected 1 window, got %d", len(out))
	}
	if out[0].content != text {
		t.Errorf("window content %q, want %q", out[0].content, text)
	}
	if out[0].tokens != EstimateTokens(text) {
		t.Errorf("tokens %d, want %d", out[0].tokens, EstimateTokens(text))
	}
}

func TestSplit_WindowBounds(t *testing.T) {
	c := Chunker{Target: 30, Min: 16, Max: 40}
	text := strings.Join(numberedWords(100), " ")

	out := c.Split(text)
	if len(out) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(out))
	}

	for i, w := range out {
		if w.content == "" {
			t.Fatalf("window %d is empty", i)
		}
		if w.tokens > c.Max {
			t.Errorf("window %d has %d tokens, exceeds max %d", i, w.tokens, c.Max)
		}
	}

	if !strings.HasPrefix(out[0].content, "w1 ") {
		t.Errorf("first window should start at the beginning, got %q", out[0].content[:20])
	}
	if !strings.HasSuffix(out[len(out)-1].content, "w100") {
		t.Errorf("last window should reach the end")
	}
}

func TestSplit_OverlapCoversEveryWord(t *testing.T) {
	c := Chunker{Target: 30, Min: 16, Max: 40}
	words := numberedWords(100)
	text := strings.Join(words, " ")

	out := c.Split(text)
	all := make([]string, 0, len(out))
	for _, w := range out {
		all = append(all, w.content)
	}
	joined := " " + strings.Join(all, " ") + " "

	for _, word := range words {
		if !strings.Contains(joined, " "+word+" ") {
			t.Fatalf("word %q lost between windows", word)
		}
	}
}

func TestSplit_PrefersParagraphBreak(t *testing.T) {
	c := Chunker{Target: 30, Min: 16, Max: 40}
	words := numberedWords(60)
	text := strings.Join(words[:20], " ") + "\n\n" + strings.Join(words[20:], " ")

	out := c.Split(text)
	if len(out) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(out))
	}
	if !strings.HasSuffix(out[0].content, "w20") {
		t.Errorf("first window should end at the paragraph break, got suffix %q",
			out[0].content[len(out[0].content)-10:])
	}
}

func TestSplit_FallsBackToSentenceEnd(t *testing.T) {
	c := Chunker{Target: 30, Min: 16, Max: 40}
	words := numberedWords(60)
	words[19] = "w20." // sentence end inside the slack window, no paragraph breaks
	text := strings.Join(words, " ")

	out := c.Split(text)
	if len(out) < 2 {
		t.Fatalf("expected multiple windows, got %d", len(out))
	}
	if !strings.HasSuffix(out[0].content, "w20.") {
		t.Errorf("first window should end at the sentence boundary, got suffix %q",
			out[0].content[len(out[0].content)-10:])
	}
}

func TestSplit_HardCutWithoutBoundaries(t *testing.T) {
	c := Chunker{Target: 30, Min: 16, Max: 40}
	text := strings.Join(numberedWords(100), " ")

	out := c.Split(text)
	// targetWords = 22, so the first hard cut lands before word 23
	if !strings.HasSuffix(out[0].content, "w22") {
		t.Errorf("expected hard cut at the target, got suffix %q",
			out[0].content[len(out[0].content)-8:])
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one", 2},           // (1*4+2)/3
		{"one two three", 4}, // (3*4+2)/3
	}
	for _, tc := range tests {
		if got := EstimateTokens(tc.text); got != tc.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestEndsSentence(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"done.", true},
		{"done!", true},
		{"done?", true},
		{`done."`, true},
		{"done.)", true},
		{"done", false},
		{"3.14", false}, // ends with digit after the dot? no: ends with '4'
		{"", false},
	}
	for _, tc := range tests {
		if got := endsSentence(tc.word); got != tc.want {
			t.Errorf("endsSentence(%q) = %v, want %v", tc.word, got, tc.want)
		}
	}
}
