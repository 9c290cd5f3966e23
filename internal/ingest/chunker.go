package ingest

import (
	"strings"
	"unicode"
)

// Chunker splits text into token-bounded windows with 50% overlap. Within a
// slack window around the target it prefers paragraph breaks, then sentence
// ends, before falling back to a hard cut. The hard cut is a known source of
// non-zero-index chunks that begin mid-sentence.
type Chunker struct {
	Target int // target tokens per window
	Min    int // lower window bound
	Max    int // upper window bound
}

// DefaultChunker matches the corpus defaults: 500–800 token windows around
// a 650 target.
func DefaultChunker() Chunker {
	return Chunker{Target: 650, Min: 500, Max: 800}
}

// window is one emitted slice of a document's text.
type window struct {
	content string
	tokens  int
}

// EstimateTokens approximates the token count of a text from its word count
// (≈ 4 tokens per 3 words for English prose).
func EstimateTokens(s string) int {
	n := len(strings.Fields(s))
	return (n*4 + 2) / 3
}

type wordSpan struct {
	start, end int // byte offsets into the original text
}

// Split chunks text into overlapping windows. Empty or whitespace-only text
// yields no windows.
func (c Chunker) Split(text string) []window {
	words := scanWords(text)
	if len(words) == 0 {
		return nil
	}

	targetWords := c.Target * 3 / 4
	minWords := c.Min * 3 / 4
	maxWords := c.Max * 3 / 4
	if targetWords < 1 {
		targetWords = 1
	}

	// Everything fits in one window.
	if tokensFor(len(words)) <= c.Max {
		content := strings.TrimSpace(text[words[0].start:words[len(words)-1].end])
		return []window{{content: content, tokens: tokensFor(len(words))}}
	}

	var out []window
	start := 0
	for {
		target := start + targetWords
		if target >= len(words) {
			content := strings.TrimSpace(text[words[start].start:words[len(words)-1].end])
			out = append(out, window{content: content, tokens: tokensFor(len(words) - start)})
			break
		}

		lo := start + minWords
		hi := start + maxWords
		if hi > len(words) {
			hi = len(words)
		}
		if lo <= start {
			lo = start + 1
		}
		if lo > hi {
			lo = hi
		}

		cut := c.pickBoundary(text, words, lo, hi, target)

		content := strings.TrimSpace(text[words[start].start:words[cut-1].end])
		out = append(out, window{content: content, tokens: tokensFor(cut - start)})

		if cut >= len(words) {
			break
		}

		// 50% overlap: the next window starts halfway into this one.
		next := start + (cut-start)/2
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return out
}

// pickBoundary chooses the cut index (cut before word `cut`) inside
// [lo, hi]. Preference order: paragraph break nearest the target, sentence
// end nearest the target, hard cut at the target.
func (c Chunker) pickBoundary(text string, words []wordSpan, lo, hi, target int) int {
	bestPara, bestSent := -1, -1

	for j := lo; j <= hi && j <= len(words); j++ {
		if j == len(words) {
			break
		}
		gap := text[words[j-1].end:words[j].start]
		if strings.Contains(gap, "\n\n") && closer(j, bestPara, target) {
			bestPara = j
		}
		if endsSentence(text[words[j-1].start:words[j-1].end]) && closer(j, bestSent, target) {
			bestSent = j
		}
	}

	switch {
	case bestPara >= 0:
		return bestPara
	case bestSent >= 0:
		return bestSent
	default:
		if target > len(words) {
			return len(words)
		}
		return target
	}
}

func closer(candidate, current, target int) bool {
	if current < 0 {
		return true
	}
	return abs(candidate-target) < abs(current-target)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// endsSentence reports whether a word ends a sentence, ignoring trailing
// quotes and brackets.
func endsSentence(word string) bool {
	trimmed := strings.TrimRight(word, `"')]}`)
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func tokensFor(words int) int {
	return (words*4 + 2) / 3
}

// scanWords returns the byte spans of whitespace-separated words.
func scanWords(text string) []wordSpan {
	var spans []wordSpan
	inWord := false
	start := 0

	for i, r := range text {
		if unicode.IsSpace(r) {
			if inWord {
				spans = append(spans, wordSpan{start: start, end: i})
				inWord = false
			}
			continue
		}
		if !inWord {
			start = i
			inWord = true
		}
	}
	if inWord {
		spans = append(spans, wordSpan{start: start, end: len(text)})
	}
	return spans
}
