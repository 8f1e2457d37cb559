package comparison

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

// DefaultAlignmentThreshold is the similarity at or above which a pair of
// points is considered unchanged.
const DefaultAlignmentThreshold = 0.8

const (
	minPointLength = 10
	overlapPrefix  = 30
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Align pairs the points of both documents by index. Pairing is positional:
// an insertion early in the revised text shifts every later pair.
func Align(original, revised string, changes []domain.ChangeRecord) []domain.SideBySidePoint {
	return align(original, revised, changes, DefaultAlignmentThreshold)
}

func align(original, revised string, changes []domain.ChangeRecord, threshold float64) []domain.SideBySidePoint {
	left := SegmentPoints(original, "orig")
	right := SegmentPoints(revised, "rev")

	n := len(left)
	if len(right) > n {
		n = len(right)
	}
	rows := make([]domain.SideBySidePoint, 0, n)
	for i := 0; i < n; i++ {
		row := domain.SideBySidePoint{Index: i}
		if i < len(left) {
			p := left[i]
			row.Original = &p
		}
		if i < len(right) {
			p := right[i]
			row.Revised = &p
		}

		switch {
		case row.Original != nil && row.Revised != nil:
			row.Similarity = Similarity(row.Original.Content, row.Revised.Content)
			if row.Similarity >= threshold {
				row.Status = domain.StatusUnchanged
				break
			}
			row.Status = domain.StatusModified
			if c := findOverlapping(changes, "", row.Original.Content, row.Revised.Content); c != nil {
				row.Change = c
				row.Status = domain.Status(c.Type)
			}
		case row.Original != nil:
			row.Status = domain.StatusRemoved
			row.Change = findOverlapping(changes, domain.ChangeRemoved, row.Original.Content)
		default:
			row.Status = domain.StatusAdded
			row.Change = findOverlapping(changes, domain.ChangeAdded, row.Revised.Content)
		}
		rows = append(rows, row)
	}
	return rows
}

// SegmentPoints splits text into paragraphs on blank lines and paragraphs
// into sentences, dropping sentences of 10 characters or fewer. Point ids
// are idPrefix-1, idPrefix-2 and so on.
func SegmentPoints(text, idPrefix string) []domain.Point {
	var points []domain.Point
	for pi, para := range paragraphBreak.Split(text, -1) {
		si := 0
		for _, raw := range sentenceDelim.Split(para, -1) {
			sentence := strings.Join(strings.Fields(raw), " ")
			if utf8.RuneCountInString(sentence) <= minPointLength {
				continue
			}
			si++
			points = append(points, domain.Point{
				ID:        fmt.Sprintf("%s-%d", idPrefix, len(points)+1),
				Content:   sentence,
				Paragraph: pi + 1,
				Sentence:  si,
				WordCount: len(strings.Fields(sentence)),
			})
		}
	}
	return points
}

// findOverlapping returns a copy of the first change of type want (any type
// when want is empty) whose text contains the normalized 30-character prefix
// of one of the given contents.
func findOverlapping(changes []domain.ChangeRecord, want domain.ChangeType, contents ...string) *domain.ChangeRecord {
	prefixes := make([]string, 0, len(contents))
	for _, c := range contents {
		if p := strings.ToLower(Normalize(runePrefix(c, overlapPrefix))); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	if len(prefixes) == 0 {
		return nil
	}
	for i := range changes {
		if want != "" && changes[i].Type != want {
			continue
		}
		for _, t := range changes[i].Texts() {
			lt := strings.ToLower(t)
			for _, p := range prefixes {
				if strings.Contains(lt, p) {
					c := changes[i]
					return &c
				}
			}
		}
	}
	return nil
}
