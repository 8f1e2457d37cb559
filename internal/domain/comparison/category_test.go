package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportanceOf(t *testing.T) {
	cases := map[Category]Importance{
		CategoryFinancial:            ImportanceHigh,
		CategoryLiability:            ImportanceHigh,
		CategoryTermination:          ImportanceHigh,
		CategoryObligations:          ImportanceMedium,
		CategoryDates:                ImportanceMedium,
		CategoryParties:              ImportanceMedium,
		CategoryIntellectualProperty: ImportanceLow,
		CategoryConfidentiality:      ImportanceLow,
		CategoryOther:                ImportanceLow,
	}
	for c, want := range cases {
		assert.Equal(t, want, ImportanceOf(c), string(c))
	}
}

func TestMatchOrder(t *testing.T) {
	require.Len(t, MatchOrder, 8)
	assert.Equal(t, CategoryFinancial, MatchOrder[0])
	assert.Equal(t, CategoryConfidentiality, MatchOrder[7])
	require.Len(t, AllCategories, 9)
	assert.Equal(t, CategoryOther, AllCategories[8])
}

func TestKeyChanges_CountAndTotal(t *testing.T) {
	kc := NewKeyChanges()
	assert.Len(t, kc, 9)
	assert.Equal(t, 0, kc.Total())

	kc[CategoryFinancial] = append(kc[CategoryFinancial], CategorizedChange{Category: CategoryFinancial})
	kc[CategoryOther] = append(kc[CategoryOther], CategorizedChange{Category: CategoryOther})

	assert.Equal(t, 1, kc.Count(CategoryFinancial))
	assert.Equal(t, 0, kc.Count(CategoryDates))
	assert.Equal(t, 2, kc.Total())
}

func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "Intellectual Property", CategoryIntellectualProperty.Label())
	assert.Equal(t, "Other", Category("unknown").Label())
}
