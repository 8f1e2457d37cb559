package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

func TestCategorizeOne_EachCategory(t *testing.T) {
	tests := []struct {
		content    string
		category   domain.Category
		importance domain.Importance
	}{
		{"The total fee increases", domain.CategoryFinancial, domain.ImportanceHigh},
		{"Payment of 500 USD is required", domain.CategoryFinancial, domain.ImportanceHigh},
		{"Delivery must occur within 30 days", domain.CategoryDates, domain.ImportanceMedium},
		{"Effective from 2024-01-15 onwards", domain.CategoryDates, domain.ImportanceMedium},
		{"The vendor will provide support", domain.CategoryParties, domain.ImportanceMedium},
		{"Goods shall be delivered promptly", domain.CategoryObligations, domain.ImportanceMedium},
		{"This agreement may be terminated for convenience", domain.CategoryTermination, domain.ImportanceHigh},
		{"Neither side is liable for indirect damages", domain.CategoryLiability, domain.ImportanceHigh},
		{"All copyright remains with the author", domain.CategoryIntellectualProperty, domain.ImportanceLow},
		{"Information marked confidential stays protected", domain.CategoryConfidentiality, domain.ImportanceLow},
		{"New clause added", domain.CategoryOther, domain.ImportanceLow},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			cc := CategorizeOne(domain.NewAdded(1, tt.content, 1, 0.8, ""))
			assert.Equal(t, tt.category, cc.Category)
			assert.Equal(t, tt.importance, cc.Importance)
			if tt.category == domain.CategoryOther {
				assert.Empty(t, cc.MatchedPattern)
			} else {
				assert.NotEmpty(t, cc.MatchedPattern)
			}
		})
	}
}

func TestCategorizeOne_FirstCategoryWins(t *testing.T) {
	// Matches both financial (fee) and liability (liable); financial is tested first.
	cc := CategorizeOne(domain.NewAdded(1, "The customer is liable for the fee", 1, 0.8, ""))
	assert.Equal(t, domain.CategoryFinancial, cc.Category)
}

func TestCategorizeOne_CaseInsensitive(t *testing.T) {
	cc := CategorizeOne(domain.NewRemoved(1, "CONFIDENTIAL MATERIAL", 1, 0.6, ""))
	assert.Equal(t, domain.CategoryConfidentiality, cc.Category)
}

func TestCategorizeOne_ModifiedUsesNewContent(t *testing.T) {
	m := domain.NewModified(
		domain.NewRemoved(1, "The deadline is fixed", 1, 0.8, ""),
		domain.NewAdded(2, "The colour is blue", 1, 0.8, ""),
		0.5,
	)
	cc := CategorizeOne(m)
	assert.Equal(t, domain.CategoryOther, cc.Category)
	assert.Equal(t, domain.ChangeModified, cc.Type)
	assert.Equal(t, 1, cc.ID)
}

func TestCategorize_GroupsAndPreservesOrder(t *testing.T) {
	changes := []domain.ChangeRecord{
		domain.NewAdded(1, "The fee is 500", 1, 0.8, ""),
		domain.NewAdded(2, "Nothing notable here", 2, 0.8, ""),
		domain.NewRemoved(3, "Interest accrues monthly", 3, 0.8, ""),
	}

	kc := Categorize(changes)

	require.Len(t, kc, 9)
	require.Len(t, kc[domain.CategoryFinancial], 2)
	assert.Equal(t, 1, kc[domain.CategoryFinancial][0].ID)
	assert.Equal(t, 3, kc[domain.CategoryFinancial][1].ID)
	require.Len(t, kc[domain.CategoryOther], 1)
	assert.Equal(t, domain.ImportanceLow, kc[domain.CategoryOther][0].Importance)
	assert.Empty(t, kc[domain.CategoryDates])
}

func TestCategorize_Idempotent(t *testing.T) {
	changes := []domain.ChangeRecord{
		domain.NewAdded(1, "Licensee shall indemnify licensor", 1, 0.8, ""),
		domain.NewRemoved(2, "Termination requires notice", 2, 0.8, ""),
		domain.NewAdded(3, "Unrelated words only", 3, 0.6, ""),
	}
	snapshot := append([]domain.ChangeRecord(nil), changes...)

	first := Categorize(changes)
	second := Categorize(changes)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, changes)
}

func TestCategorize_Empty(t *testing.T) {
	kc := Categorize(nil)
	assert.Len(t, kc, 9)
	assert.Equal(t, 0, kc.Total())
}

func TestPatternCatalogue_Order(t *testing.T) {
	require.Len(t, PatternCatalogue, len(domain.MatchOrder))
	for i, set := range PatternCatalogue {
		assert.Equal(t, domain.MatchOrder[i], set.Category)
		assert.NotEmpty(t, set.Patterns)
	}
}

func TestCategorizeOne_SymbolPatternsNeedRawText(t *testing.T) {
	tests := []struct {
		raw      string
		category domain.Category
		pattern  string
	}{
		{"Rent rises to $1,200", domain.CategoryFinancial, PatternCatalogue[0].Patterns[0].String()},
		{"Rate of 5%", domain.CategoryFinancial, PatternCatalogue[0].Patterns[5].String()},
		{"Starts 01/02/2024", domain.CategoryDates, PatternCatalogue[1].Patterns[0].String()},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cc := CategorizeOne(domain.NewAdded(1, tt.raw, 1, 0.8, ""))
			assert.Equal(t, tt.category, cc.Category)
			assert.Equal(t, tt.pattern, cc.MatchedPattern)

			normalized := CategorizeOne(domain.NewAdded(1, Normalize(tt.raw), 1, 0.8, ""))
			assert.Equal(t, domain.CategoryOther, normalized.Category)
		})
	}
}
