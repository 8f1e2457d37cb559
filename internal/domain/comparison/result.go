package comparison

import "time"

// Fragment is one piece of a raw diff. At most one of Added and Removed is set.
type Fragment struct {
	Value   string `json:"value"`
	Added   bool   `json:"added,omitempty"`
	Removed bool   `json:"removed,omitempty"`
	Count   int    `json:"count"`
}

// Changed reports whether the fragment is an addition or a removal.
func (f Fragment) Changed() bool { return f.Added || f.Removed }

// RawDiff holds the three granularities. Only Sentence feeds classification.
type RawDiff struct {
	Line     []Fragment `json:"lineDiff"`
	Sentence []Fragment `json:"sentenceDiff"`
	Word     []Fragment `json:"wordDiff"`
}

// ComparisonSummary counts changes by type. Unchanged is the larger sentence
// count minus TotalChanges and is negative when classification produces more
// records than there are sentences.
type ComparisonSummary struct {
	TotalChanges int `json:"totalChanges"`
	Added        int `json:"added"`
	Removed      int `json:"removed"`
	Modified     int `json:"modified"`
	Unchanged    int `json:"unchanged"`
}

// ComparisonResult is what CompareTexts returns.
type ComparisonResult struct {
	Changes []ChangeRecord    `json:"changes"`
	Summary ComparisonSummary `json:"summary"`
	RawDiff RawDiff           `json:"rawDiff"`
}

// RiskLevel is the tier derived from a risk score.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// RiskAssessment is the weighted risk of a change set.
type RiskAssessment struct {
	Score   int       `json:"score"`
	Level   RiskLevel `json:"level"`
	Factors []string  `json:"factors"`
}

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Recommendation is a fixed-text action tied to a category.
type Recommendation struct {
	Category Category `json:"category"`
	Priority Priority `json:"priority"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
}

// Impact axes in tie-break order.
const (
	AxisFinancial   = "financial"
	AxisLegal       = "legal"
	AxisOperational = "operational"
	AxisTimeline    = "timeline"
)

// ImpactAnalysis scores the four axes. Overall is the maximum and
// PrimaryConcern the first axis reaching it.
type ImpactAnalysis struct {
	Financial      int    `json:"financial"`
	Legal          int    `json:"legal"`
	Operational    int    `json:"operational"`
	Timeline       int    `json:"timeline"`
	Overall        int    `json:"overall"`
	PrimaryConcern string `json:"primaryConcern"`
}

// InsightSummary extends the counts with a one-sentence description.
type InsightSummary struct {
	TotalChanges int    `json:"totalChanges"`
	Added        int    `json:"added"`
	Removed      int    `json:"removed"`
	Modified     int    `json:"modified"`
	Description  string `json:"description"`
}

// Insights is the output of the insight engine.
type Insights struct {
	Summary         InsightSummary   `json:"summary"`
	RiskAssessment  RiskAssessment   `json:"riskAssessment"`
	Recommendations []Recommendation `json:"recommendations"`
	ImpactAnalysis  ImpactAnalysis   `json:"impactAnalysis"`
}

// Status annotates a side-by-side row.
type Status string

const (
	StatusUnchanged Status = "unchanged"
	StatusAdded     Status = "added"
	StatusRemoved   Status = "removed"
	StatusModified  Status = "modified"
)

// Point is one sentence-sized fragment of a document used for alignment.
type Point struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Paragraph int    `json:"paragraph"`
	Sentence  int    `json:"sentence"`
	WordCount int    `json:"wordCount"`
}

// SideBySidePoint pairs the points at one index. Original or Revised is nil
// when that side has fewer points.
type SideBySidePoint struct {
	Index      int           `json:"index"`
	Original   *Point        `json:"original"`
	Revised    *Point        `json:"revised"`
	Change     *ChangeRecord `json:"change"`
	Status     Status        `json:"status"`
	Similarity float64       `json:"similarity"`
}

// DocumentInfo names a compared document in reports and events.
type DocumentInfo struct {
	Name     string           `json:"name"`
	Metadata DocumentMetadata `json:"metadata"`
}

// ReportData bundles everything the renderer consumes.
type ReportData struct {
	RunID       string            `json:"runId"`
	Result      ComparisonResult  `json:"result"`
	KeyChanges  KeyChanges        `json:"keyChanges"`
	Insights    Insights          `json:"insights"`
	SideBySide  []SideBySidePoint `json:"sideBySide"`
	Original    DocumentInfo      `json:"original"`
	Revised     DocumentInfo      `json:"revised"`
	GeneratedAt time.Time         `json:"generatedAt"`
}
