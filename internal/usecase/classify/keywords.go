package classify

import (
	"strings"
	"unicode"

	"github.com/AazainKhan/luminate-ai-sub001/internal/domain"
)

// Keyword sets for the deterministic scoring path. Phrases (entries with a
// space) match as substrings on word boundaries; single words match whole
// tokens.
var (
	navigateKeywords = []string{
		"find", "search", "show", "locate", "where", "open",
		"materials", "slides", "notes", "lecture", "week", "module",
		"assignment", "syllabus", "reading", "resources", "link", "file",
	}

	educateKeywords = []string{
		"explain", "understand", "why", "how does", "how do", "what is",
		"teach", "learn", "clarify", "difference between", "walk me through",
		"solve", "derive", "prove", "intuition", "concept", "confused",
	}

	topicKeywords = []string{
		"gradient descent", "linear regression", "logistic regression",
		"k-means", "kmeans", "clustering", "classification", "regression",
		"neural network", "backpropagation", "overfitting", "regularization",
		"cross-validation", "decision tree", "random forest", "svm",
		"support vector", "naive bayes", "pca", "dimensionality reduction",
		"feature engineering", "loss function", "activation function",
		"confusion matrix", "precision", "recall", "bias-variance",
	}
)

// score counts keyword hits in the query. Identical text always yields
// identical scores.
func score(query string) domain.KeywordScores {
	lowered := strings.ToLower(query)
	tokens := tokenize(lowered)

	return domain.KeywordScores{
		Navigate: countHits(lowered, tokens, navigateKeywords),
		Educate:  countHits(lowered, tokens, educateKeywords),
		Topic:    countHits(lowered, tokens, topicKeywords),
	}
}

func countHits(lowered string, tokens map[string]int, keywords []string) int {
	total := 0
	for _, kw := range keywords {
		if strings.ContainsRune(kw, ' ') || strings.ContainsRune(kw, '-') {
			total += countPhrase(lowered, kw)
			continue
		}
		total += tokens[kw]
	}
	return total
}

// countPhrase counts non-overlapping occurrences of phrase in text that
// begin and end on word boundaries.
func countPhrase(text, phrase string) int {
	count, offset := 0, 0
	for {
		i := strings.Index(text[offset:], phrase)
		if i < 0 {
			return count
		}
		start := offset + i
		end := start + len(phrase)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			count++
		}
		offset = end
	}
}

func boundaryBefore(text string, i int) bool {
	return i == 0 || !isWordRune(rune(text[i-1]))
}

func boundaryAfter(text string, i int) bool {
	return i >= len(text) || !isWordRune(rune(text[i]))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func tokenize(lowered string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range strings.FieldsFunc(lowered, func(r rune) bool { return !isWordRune(r) }) {
		counts[tok]++
	}
	return counts
}
