package comparison

import (
	"strings"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

// Categorize assigns each change to the first category in PatternCatalogue
// with a matching pattern, falling back to other. Input order is preserved
// within each category and the input slice is not modified.
func Categorize(changes []domain.ChangeRecord) domain.KeyChanges {
	out := domain.NewKeyChanges()
	for _, c := range changes {
		cc := CategorizeOne(c)
		out[cc.Category] = append(out[cc.Category], cc)
	}
	return out
}

// CategorizeOne categorizes a single change.
func CategorizeOne(c domain.ChangeRecord) domain.CategorizedChange {
	text := strings.ToLower(c.Text())
	for _, set := range PatternCatalogue {
		for _, p := range set.Patterns {
			if p.MatchString(text) {
				return domain.CategorizedChange{
					ChangeRecord:   c,
					Category:       set.Category,
					Importance:     domain.ImportanceOf(set.Category),
					MatchedPattern: p.String(),
				}
			}
		}
	}
	return domain.CategorizedChange{
		ChangeRecord: c,
		Category:     domain.CategoryOther,
		Importance:   domain.ImportanceLow,
	}
}
