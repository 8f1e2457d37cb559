package comparison

import (
	"sort"
	"strings"
	"unicode/utf8"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

// Default thresholds for pairing a removed sentence with an added one. The
// interval is open on both ends.
const (
	DefaultPairingLower = 0.4
	DefaultPairingUpper = 0.95
)

const (
	lineSearchPrefix    = 50
	contextSearchPrefix = 30
	contextWindow       = 100
)

// Classify turns a sentence-level diff into change records. original and
// revised are the texts searched for line numbers and context.
func Classify(sentenceDiff []domain.Fragment, original, revised string) []domain.ChangeRecord {
	return classify(sentenceDiff, original, revised, DefaultPairingLower, DefaultPairingUpper)
}

func classify(sentenceDiff []domain.Fragment, original, revised string, lower, upper float64) []domain.ChangeRecord {
	var records []domain.ChangeRecord
	nextID := 1
	for _, frag := range sentenceDiff {
		if !frag.Changed() {
			continue
		}
		source := original
		if frag.Added {
			source = revised
		}
		for _, sentence := range SplitSentences(frag.Value) {
			line := EstimateLineNumber(source, sentence)
			conf := ConfidenceFor(sentence)
			snippet := ExtractContext(source, sentence)
			if frag.Added {
				records = append(records, domain.NewAdded(nextID, sentence, line, conf, snippet))
			} else {
				records = append(records, domain.NewRemoved(nextID, sentence, line, conf, snippet))
			}
			nextID++
		}
	}

	records = pairModifications(records, lower, upper)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LineNumber < records[j].LineNumber
	})
	return records
}

// pairModifications replaces each removed record, in order, with a modified
// record when some added record scores strictly between lower and upper. The
// first such added record is consumed.
func pairModifications(records []domain.ChangeRecord, lower, upper float64) []domain.ChangeRecord {
	consumed := make([]bool, len(records))
	for i := range records {
		if records[i].Type != domain.ChangeRemoved {
			continue
		}
		for j := range records {
			if consumed[j] || records[j].Type != domain.ChangeAdded {
				continue
			}
			sim := Similarity(records[i].Content, records[j].Content)
			if sim > lower && sim < upper {
				records[i] = domain.NewModified(records[i], records[j], sim)
				consumed[j] = true
				break
			}
		}
	}

	out := records[:0]
	for i, r := range records {
		if !consumed[i] {
			out = append(out, r)
		}
	}
	return out
}

// ConfidenceFor scores how reliably a sentence boundary was detected from its
// word count.
func ConfidenceFor(sentence string) float64 {
	switch n := len(strings.Fields(sentence)); {
	case n < 3:
		return 0.6
	case n < 10:
		return 0.8
	default:
		return 0.95
	}
}

// EstimateLineNumber returns the 1-based index of the first line of text
// containing the sentence's first 50 characters, or 1 when none does.
func EstimateLineNumber(text, sentence string) int {
	prefix := runePrefix(sentence, lineSearchPrefix)
	for i, line := range strings.Split(text, "\n") {
		if strings.Contains(line, prefix) {
			return i + 1
		}
	}
	return 1
}

// ExtractContext returns up to 100 characters either side of the first
// occurrence of the sentence's 30-character prefix, or "" when the prefix
// does not occur in text.
func ExtractContext(text, sentence string) string {
	prefix := runePrefix(sentence, contextSearchPrefix)
	idx := strings.Index(text, prefix)
	if idx < 0 {
		return ""
	}
	start := backRunes(text, idx, contextWindow)
	end := forwardRunes(text, idx+len(prefix), contextWindow)
	return text[start:end]
}

func runePrefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// backRunes moves n runes left of byte offset from, stopping at 0.
func backRunes(s string, from, n int) int {
	for ; n > 0 && from > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:from])
		from -= size
	}
	return from
}

// forwardRunes moves n runes right of byte offset from, stopping at len(s).
func forwardRunes(s string, from, n int) int {
	for ; n > 0 && from < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[from:])
		from += size
	}
	return from
}
