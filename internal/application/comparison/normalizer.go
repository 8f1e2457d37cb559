// Package comparison implements the document comparison engine: text
// normalization, similarity scoring, multi-granularity diffing, change
// classification, topic categorization, risk insights and side-by-side
// alignment. Every stage is a pure function of its inputs.
package comparison

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonEssential  = regexp.MustCompile(`[^\w\s.,;:!?()\-]`)
	sentenceDelim = regexp.MustCompile(`[.!?]+`)
)

// Normalize folds compatibility characters, collapses whitespace runs to a
// single space, drops characters outside word characters, whitespace and
// . , ; : ! ? ( ) - and trims both ends.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = nonEssential.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// SplitSentences splits on runs of . ! ? and returns the trimmed, non-empty
// pieces. The terminators are not kept.
func SplitSentences(text string) []string {
	parts := sentenceDelim.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SentenceCount is len(SplitSentences(text)).
func SentenceCount(text string) int {
	return len(SplitSentences(text))
}
