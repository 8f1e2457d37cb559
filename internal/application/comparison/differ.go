package comparison

import (
	"strings"
	"unicode"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

// DefaultMaxDiffCells bounds the LCS table. Inputs whose trimmed middle
// section would need more cells are reported as one removed and one added
// fragment.
const DefaultMaxDiffCells = 16 << 20

// Diff runs the line, sentence and word passes over already-normalized text.
func Diff(a, b string) domain.RawDiff {
	return diffWithLimit(a, b, DefaultMaxDiffCells)
}

func diffWithLimit(a, b string, maxCells int) domain.RawDiff {
	return domain.RawDiff{
		Line:     diffTokens(tokenizeLines(a), tokenizeLines(b), maxCells),
		Sentence: diffTokens(tokenizeSentences(a), tokenizeSentences(b), maxCells),
		Word:     diffTokens(tokenizeWords(a), tokenizeWords(b), maxCells),
	}
}

// DiffLines diffs newline-terminated lines.
func DiffLines(a, b string) []domain.Fragment {
	return diffTokens(tokenizeLines(a), tokenizeLines(b), DefaultMaxDiffCells)
}

// DiffSentences diffs sentences terminated by runs of . ! ?
func DiffSentences(a, b string) []domain.Fragment {
	return diffTokens(tokenizeSentences(a), tokenizeSentences(b), DefaultMaxDiffCells)
}

// DiffWords diffs whitespace-delimited words.
func DiffWords(a, b string) []domain.Fragment {
	return diffTokens(tokenizeWords(a), tokenizeWords(b), DefaultMaxDiffCells)
}

// tokenizeLines keeps each line's trailing newline.
func tokenizeLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.SplitAfter(strings.TrimSuffix(s, "\n"), "\n")
}

// tokenizeSentences cuts after each run of terminators and attaches the
// following whitespace to the sentence it ends.
func tokenizeSentences(s string) []string {
	var tokens []string
	start := 0
	i := 0
	for i < len(s) {
		if !isTerminator(s[i]) {
			i++
			continue
		}
		for i < len(s) && isTerminator(s[i]) {
			i++
		}
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		tokens = append(tokens, s[start:i])
		start = i
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// tokenizeWords attaches trailing whitespace to each word.
func tokenizeWords(s string) []string {
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range s {
		space := unicode.IsSpace(r)
		if inSpace && !space {
			tokens = append(tokens, s[start:i])
			start = i
		}
		inSpace = space
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

func isTerminator(c byte) bool { return c == '.' || c == '!' || c == '?' }

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v' }

type opKind uint8

const (
	opEqual opKind = iota
	opRemove
	opAdd
)

// diffTokens computes an LCS diff over tokens compared by their trimmed
// value. Common runs carry the original side's text. Each changed run between
// two common runs becomes one removed fragment followed by one added fragment.
func diffTokens(a, b []string, maxCells int) []domain.Fragment {
	keyA := make([]string, len(a))
	for i, t := range a {
		keyA[i] = strings.TrimSpace(t)
	}
	keyB := make([]string, len(b))
	for i, t := range b {
		keyB[i] = strings.TrimSpace(t)
	}

	prefix := 0
	for prefix < len(a) && prefix < len(b) && keyA[prefix] == keyB[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && keyA[len(a)-1-suffix] == keyB[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]opKind, 0, len(a)+len(b))
	for i := 0; i < prefix; i++ {
		ops = append(ops, opEqual)
	}
	ops = append(ops, lcsOps(keyA[prefix:len(a)-suffix], keyB[prefix:len(b)-suffix], maxCells)...)
	for i := 0; i < suffix; i++ {
		ops = append(ops, opEqual)
	}

	return groupOps(ops, a, b)
}

// lcsOps walks a suffix-LCS table forward, preferring removals on ties.
func lcsOps(a, b []string, maxCells int) []opKind {
	n, m := len(a), len(b)
	ops := make([]opKind, 0, n+m)
	if n == 0 || m == 0 || (n+1)*(m+1) > maxCells {
		for i := 0; i < n; i++ {
			ops = append(ops, opRemove)
		}
		for j := 0; j < m; j++ {
			ops = append(ops, opAdd)
		}
		return ops
	}

	w := m + 1
	table := make([]int32, (n+1)*w)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i*w+j] = table[(i+1)*w+j+1] + 1
			} else if down, right := table[(i+1)*w+j], table[i*w+j+1]; down >= right {
				table[i*w+j] = down
			} else {
				table[i*w+j] = right
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, opEqual)
			i++
			j++
		case table[(i+1)*w+j] >= table[i*w+j+1]:
			ops = append(ops, opRemove)
			i++
		default:
			ops = append(ops, opAdd)
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, opRemove)
	}
	for ; j < m; j++ {
		ops = append(ops, opAdd)
	}
	return ops
}

func groupOps(ops []opKind, a, b []string) []domain.Fragment {
	var (
		out                 []domain.Fragment
		common, rem, add    strings.Builder
		nCommon, nRem, nAdd int
		ia, ib              int
	)
	flushChanged := func() {
		if nRem > 0 {
			out = append(out, domain.Fragment{Value: rem.String(), Removed: true, Count: nRem})
			rem.Reset()
			nRem = 0
		}
		if nAdd > 0 {
			out = append(out, domain.Fragment{Value: add.String(), Added: true, Count: nAdd})
			add.Reset()
			nAdd = 0
		}
	}
	flushCommon := func() {
		if nCommon > 0 {
			out = append(out, domain.Fragment{Value: common.String(), Count: nCommon})
			common.Reset()
			nCommon = 0
		}
	}

	for _, op := range ops {
		switch op {
		case opEqual:
			flushChanged()
			common.WriteString(a[ia])
			nCommon++
			ia++
			ib++
		case opRemove:
			flushCommon()
			rem.WriteString(a[ia])
			nRem++
			ia++
		case opAdd:
			flushCommon()
			add.WriteString(b[ib])
			nAdd++
			ib++
		}
	}
	flushCommon()
	flushChanged()
	return out
}
