package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_Identity(t *testing.T) {
	for _, s := range []string{"a", "The fee is 100", "Confidential Information", "ü"} {
		assert.Equal(t, 1.0, Similarity(s, s), s)
	}
}

func TestSimilarity_EmptyInputs(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", "x"))
	assert.Equal(t, 0.0, Similarity("x", ""))
	assert.Equal(t, 1.0, Similarity("", ""))
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"The fee is 100", "The fee is 500"},
		{"short", "a much longer sentence"},
		{"abc", ""},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("LICENSEE", "licensee"))
}

func TestSimilarity_Values(t *testing.T) {
	assert.InDelta(t, 13.0/14.0, Similarity("The fee is 100", "The fee is 500"), 1e-12)
	assert.InDelta(t, 4.0/7.0, Similarity("kitten", "sitting"), 1e-12)
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
		{"Case", "case", 1},
		{"naïve", "naive", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevenshteinDistance(tt.a, tt.b), "%q -> %q", tt.a, tt.b)
	}
}
