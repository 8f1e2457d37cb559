package comparison

import (
	"fmt"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

// riskWeights lists the contributing categories in factor order.
var riskWeights = []struct {
	category domain.Category
	weight   int
	factor   string
}{
	{domain.CategoryLiability, 15, "Liability or indemnification terms changed"},
	{domain.CategoryFinancial, 12, "Financial terms changed"},
	{domain.CategoryTermination, 10, "Termination or renewal conditions changed"},
	{domain.CategoryObligations, 8, "Contractual obligations changed"},
	{domain.CategoryDates, 6, "Dates or deadlines changed"},
}

const (
	highRiskThreshold   = 50
	mediumRiskThreshold = 25
	maxRiskScore        = 100
)

var recommendationTable = []domain.Recommendation{
	{
		Category: domain.CategoryFinancial,
		Priority: domain.PriorityHigh,
		Title:    "Review financial terms",
		Text:     "Verify every changed amount, fee and payment schedule against the commercial agreement and budget.",
	},
	{
		Category: domain.CategoryLiability,
		Priority: domain.PriorityHigh,
		Title:    "Legal review of liability changes",
		Text:     "Have counsel review changes to liability caps, indemnities and warranties before signing.",
	},
	{
		Category: domain.CategoryTermination,
		Priority: domain.PriorityMedium,
		Title:    "Check termination conditions",
		Text:     "Confirm the revised termination triggers, notice periods and renewal terms are acceptable.",
	},
	{
		Category: domain.CategoryDates,
		Priority: domain.PriorityMedium,
		Title:    "Update deadlines and calendars",
		Text:     "Record the changed dates and deadlines and confirm they are achievable.",
	},
}

// BuildInsights aggregates categorized changes into a summary, a risk
// assessment, recommendations and an impact analysis.
func BuildInsights(changes []domain.ChangeRecord, keyChanges domain.KeyChanges) domain.Insights {
	return domain.Insights{
		Summary:         summarize(changes),
		RiskAssessment:  AssessRisk(keyChanges),
		Recommendations: Recommend(keyChanges),
		ImpactAnalysis:  AnalyzeImpact(keyChanges),
	}
}

func summarize(changes []domain.ChangeRecord) domain.InsightSummary {
	s := domain.InsightSummary{TotalChanges: len(changes)}
	for _, c := range changes {
		switch c.Type {
		case domain.ChangeAdded:
			s.Added++
		case domain.ChangeRemoved:
			s.Removed++
		case domain.ChangeModified:
			s.Modified++
		}
	}
	if s.TotalChanges == 0 {
		s.Description = "No differences found between the documents."
	} else {
		s.Description = fmt.Sprintf("Found %d changes: %d additions, %d removals, and %d modifications.",
			s.TotalChanges, s.Added, s.Removed, s.Modified)
	}
	return s
}

// AssessRisk computes the weighted, clamped risk score and its level.
func AssessRisk(keyChanges domain.KeyChanges) domain.RiskAssessment {
	score := 0
	factors := []string{}
	for _, w := range riskWeights {
		n := keyChanges.Count(w.category)
		if n == 0 {
			continue
		}
		score += n * w.weight
		factors = append(factors, fmt.Sprintf("%s (%d)", w.factor, n))
	}
	if score > maxRiskScore {
		score = maxRiskScore
	}
	if score < 0 {
		score = 0
	}
	return domain.RiskAssessment{Score: score, Level: RiskLevelFor(score), Factors: factors}
}

// RiskLevelFor maps a score to high (>50), medium (>25) or low.
func RiskLevelFor(score int) domain.RiskLevel {
	switch {
	case score > highRiskThreshold:
		return domain.RiskHigh
	case score > mediumRiskThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Recommend returns one recommendation per present category among
// financial, liability, termination and dates, in that order.
func Recommend(keyChanges domain.KeyChanges) []domain.Recommendation {
	out := []domain.Recommendation{}
	for _, r := range recommendationTable {
		if keyChanges.Count(r.Category) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// AnalyzeImpact scores the four impact axes. Scores are not clamped.
func AnalyzeImpact(keyChanges domain.KeyChanges) domain.ImpactAnalysis {
	n := keyChanges.Count
	ia := domain.ImpactAnalysis{
		Financial:   n(domain.CategoryFinancial)*20 + n(domain.CategoryLiability)*15,
		Legal:       n(domain.CategoryLiability)*25 + n(domain.CategoryIntellectualProperty)*15 + n(domain.CategoryConfidentiality)*10,
		Operational: n(domain.CategoryObligations)*15 + n(domain.CategoryParties)*10,
		Timeline:    n(domain.CategoryDates)*20 + n(domain.CategoryTermination)*15,
	}

	axes := []struct {
		name  string
		score int
	}{
		{domain.AxisFinancial, ia.Financial},
		{domain.AxisLegal, ia.Legal},
		{domain.AxisOperational, ia.Operational},
		{domain.AxisTimeline, ia.Timeline},
	}
	ia.Overall = axes[0].score
	ia.PrimaryConcern = axes[0].name
	for _, a := range axes[1:] {
		if a.score > ia.Overall {
			ia.Overall = a.score
			ia.PrimaryConcern = a.name
		}
	}
	return ia
}
