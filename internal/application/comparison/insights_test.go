package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

func keyChangesWith(counts map[domain.Category]int) domain.KeyChanges {
	kc := domain.NewKeyChanges()
	id := 1
	for cat, n := range counts {
		for i := 0; i < n; i++ {
			kc[cat] = append(kc[cat], domain.CategorizedChange{
				ChangeRecord: domain.NewAdded(id, "x", 1, 0.6, ""),
				Category:     cat,
				Importance:   domain.ImportanceOf(cat),
			})
			id++
		}
	}
	return kc
}

func TestAssessRisk_LiabilityAndFinancial(t *testing.T) {
	kc := keyChangesWith(map[domain.Category]int{
		domain.CategoryLiability: 2,
		domain.CategoryFinancial: 1,
	})

	risk := AssessRisk(kc)

	assert.Equal(t, 42, risk.Score)
	assert.Equal(t, domain.RiskMedium, risk.Level)
	assert.Equal(t, []string{
		"Liability or indemnification terms changed (2)",
		"Financial terms changed (1)",
	}, risk.Factors)
}

func TestAssessRisk_ClampsAt100(t *testing.T) {
	risk := AssessRisk(keyChangesWith(map[domain.Category]int{domain.CategoryLiability: 10}))
	assert.Equal(t, 100, risk.Score)
	assert.Equal(t, domain.RiskHigh, risk.Level)
}

func TestAssessRisk_IgnoresUnweightedCategories(t *testing.T) {
	risk := AssessRisk(keyChangesWith(map[domain.Category]int{
		domain.CategoryConfidentiality:      3,
		domain.CategoryIntellectualProperty: 2,
		domain.CategoryOther:                5,
	}))
	assert.Equal(t, 0, risk.Score)
	assert.Equal(t, domain.RiskLow, risk.Level)
	assert.Empty(t, risk.Factors)
}

func TestRiskLevelFor_Thresholds(t *testing.T) {
	assert.Equal(t, domain.RiskLow, RiskLevelFor(0))
	assert.Equal(t, domain.RiskLow, RiskLevelFor(25))
	assert.Equal(t, domain.RiskMedium, RiskLevelFor(26))
	assert.Equal(t, domain.RiskMedium, RiskLevelFor(50))
	assert.Equal(t, domain.RiskHigh, RiskLevelFor(51))
}

func TestRecommend_OrderAndPriority(t *testing.T) {
	recs := Recommend(keyChangesWith(map[domain.Category]int{
		domain.CategoryDates:     1,
		domain.CategoryFinancial: 2,
		domain.CategoryParties:   4,
	}))

	require.Len(t, recs, 2)
	assert.Equal(t, domain.CategoryFinancial, recs[0].Category)
	assert.Equal(t, domain.PriorityHigh, recs[0].Priority)
	assert.Equal(t, domain.CategoryDates, recs[1].Category)
	assert.Equal(t, domain.PriorityMedium, recs[1].Priority)
}

func TestRecommend_AllPresent(t *testing.T) {
	recs := Recommend(keyChangesWith(map[domain.Category]int{
		domain.CategoryTermination: 1,
		domain.CategoryDates:       1,
		domain.CategoryLiability:   1,
		domain.CategoryFinancial:   1,
	}))

	require.Len(t, recs, 4)
	got := []domain.Category{recs[0].Category, recs[1].Category, recs[2].Category, recs[3].Category}
	assert.Equal(t, []domain.Category{
		domain.CategoryFinancial, domain.CategoryLiability, domain.CategoryTermination, domain.CategoryDates,
	}, got)
	assert.Equal(t, domain.PriorityHigh, recs[1].Priority)
	assert.Equal(t, domain.PriorityMedium, recs[2].Priority)
}

func TestAnalyzeImpact(t *testing.T) {
	ia := AnalyzeImpact(keyChangesWith(map[domain.Category]int{
		domain.CategoryLiability: 2,
		domain.CategoryFinancial: 1,
	}))

	assert.Equal(t, 50, ia.Financial)
	assert.Equal(t, 50, ia.Legal)
	assert.Equal(t, 0, ia.Operational)
	assert.Equal(t, 0, ia.Timeline)
	assert.Equal(t, 50, ia.Overall)
	assert.Equal(t, domain.AxisFinancial, ia.PrimaryConcern, "ties resolve to the earlier axis")
}

func TestAnalyzeImpact_AllAxes(t *testing.T) {
	ia := AnalyzeImpact(keyChangesWith(map[domain.Category]int{
		domain.CategoryIntellectualProperty: 1,
		domain.CategoryConfidentiality:      1,
		domain.CategoryObligations:          2,
		domain.CategoryParties:              1,
		domain.CategoryDates:                1,
		domain.CategoryTermination:          2,
	}))

	assert.Equal(t, 0, ia.Financial)
	assert.Equal(t, 25, ia.Legal)
	assert.Equal(t, 40, ia.Operational)
	assert.Equal(t, 50, ia.Timeline)
	assert.Equal(t, 50, ia.Overall)
	assert.Equal(t, domain.AxisTimeline, ia.PrimaryConcern)
}

func TestAnalyzeImpact_NoChanges(t *testing.T) {
	ia := AnalyzeImpact(domain.NewKeyChanges())
	assert.Equal(t, 0, ia.Overall)
	assert.Equal(t, domain.AxisFinancial, ia.PrimaryConcern)
}

func TestBuildInsights_Summary(t *testing.T) {
	changes := []domain.ChangeRecord{
		domain.NewAdded(1, "a", 1, 0.6, ""),
		domain.NewRemoved(2, "b", 1, 0.6, ""),
		domain.NewModified(domain.NewRemoved(3, "c", 1, 0.6, ""), domain.NewAdded(4, "d", 1, 0.6, ""), 0.5),
	}

	ins := BuildInsights(changes, Categorize(changes))

	assert.Equal(t, 3, ins.Summary.TotalChanges)
	assert.Equal(t, 1, ins.Summary.Added)
	assert.Equal(t, 1, ins.Summary.Removed)
	assert.Equal(t, 1, ins.Summary.Modified)
	assert.Equal(t, "Found 3 changes: 1 additions, 1 removals, and 1 modifications.", ins.Summary.Description)

	empty := BuildInsights(nil, domain.NewKeyChanges())
	assert.Equal(t, "No differences found between the documents.", empty.Summary.Description)
	assert.NotNil(t, empty.Recommendations)
	assert.NotNil(t, empty.RiskAssessment.Factors)
}
