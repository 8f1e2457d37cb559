package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

func TestSegmentPoints(t *testing.T) {
	points := SegmentPoints("First para sentence one. Tiny.\n\nSecond para sentence here!\nabcdefghij.", "orig")

	require.Len(t, points, 2)
	assert.Equal(t, domain.Point{ID: "orig-1", Content: "First para sentence one", Paragraph: 1, Sentence: 1, WordCount: 4}, points[0])
	assert.Equal(t, domain.Point{ID: "orig-2", Content: "Second para sentence here", Paragraph: 2, Sentence: 1, WordCount: 4}, points[1])
}

func TestSegmentPoints_CollapsesInnerWhitespace(t *testing.T) {
	points := SegmentPoints("The supplier\nshall   deliver.", "rev")
	require.Len(t, points, 1)
	assert.Equal(t, "The supplier shall deliver", points[0].Content)
}

func TestSegmentPoints_LengthCountsCharacters(t *testing.T) {
	// ten characters in twelve bytes, then eleven characters
	points := SegmentPoints("Pr\u00e9avis d\u00fb. \u00dcber Geb\u00fchr.", "orig")

	require.Len(t, points, 1)
	assert.Equal(t, "\u00dcber Geb\u00fchr", points[0].Content)
}

func TestAlign_IdenticalTextsAreUnchanged(t *testing.T) {
	text := "The first clause applies here.\n\nThe second clause also applies. Short."

	rows := Align(text, text, nil)

	require.Len(t, rows, 2)
	for i, r := range rows {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, domain.StatusUnchanged, r.Status)
		assert.Equal(t, 1.0, r.Similarity)
		assert.Nil(t, r.Change)
	}
}

func TestAlign_LowSimilarityAdoptsChangeType(t *testing.T) {
	changes := []domain.ChangeRecord{
		domain.NewAdded(7, "The buyer collects goods from the depot", 1, 0.8, ""),
	}

	rows := Align("The seller delivers all goods by ship.", "The buyer collects goods from the depot.", changes)

	require.Len(t, rows, 1)
	assert.Equal(t, domain.StatusAdded, rows[0].Status)
	require.NotNil(t, rows[0].Change)
	assert.Equal(t, 7, rows[0].Change.ID)
	assert.Less(t, rows[0].Similarity, 0.8)
}

func TestAlign_LowSimilarityWithoutChangeIsModified(t *testing.T) {
	rows := Align("The seller delivers all goods by ship.", "The buyer collects goods from the depot.", nil)

	require.Len(t, rows, 1)
	assert.Equal(t, domain.StatusModified, rows[0].Status)
	assert.Nil(t, rows[0].Change)
}

func TestAlign_OneSidedRowsMatchByType(t *testing.T) {
	changes := []domain.ChangeRecord{
		domain.NewAdded(2, "Second clause goes away entirely", 1, 0.8, ""),
		domain.NewRemoved(1, "Second clause goes away entirely", 1, 0.8, ""),
	}

	rows := Align("First clause stays the same. Second clause goes away entirely.", "First clause stays the same.", changes)

	require.Len(t, rows, 2)
	assert.Equal(t, domain.StatusUnchanged, rows[0].Status)
	assert.Equal(t, domain.StatusRemoved, rows[1].Status)
	assert.Nil(t, rows[1].Revised)
	assert.Equal(t, 0.0, rows[1].Similarity)
	require.NotNil(t, rows[1].Change)
	assert.Equal(t, 1, rows[1].Change.ID)

	rows = Align("First clause stays the same.", "First clause stays the same. Second clause goes away entirely.", changes)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.StatusAdded, rows[1].Status)
	assert.Nil(t, rows[1].Original)
	require.NotNil(t, rows[1].Change)
	assert.Equal(t, 2, rows[1].Change.ID)
}

func TestAlign_IsPositional(t *testing.T) {
	original := "Alpha clause about delivery. Beta clause about payment."
	revised := "Inserted clause about scope. Alpha clause about delivery. Beta clause about payment."

	rows := Align(original, revised, nil)

	require.Len(t, rows, 3)
	assert.Equal(t, "Alpha clause about delivery", rows[0].Original.Content)
	assert.Equal(t, "Inserted clause about scope", rows[0].Revised.Content)
	assert.Nil(t, rows[2].Original)
	assert.Equal(t, domain.StatusAdded, rows[2].Status)
}

func TestAlign_EmptyInputs(t *testing.T) {
	assert.Empty(t, Align("", "", nil))
}
