package comparison

import (
	"time"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
)

// Options tunes the engine. The zero value is not valid; start from
// DefaultOptions.
type Options struct {
	PairingLower       float64
	PairingUpper       float64
	AlignmentThreshold float64
	MaxDiffCells       int
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		PairingLower:       DefaultPairingLower,
		PairingUpper:       DefaultPairingUpper,
		AlignmentThreshold: DefaultAlignmentThreshold,
		MaxDiffCells:       DefaultMaxDiffCells,
	}
}

// Engine exposes the comparison entry points. It holds no per-run state and
// is safe for concurrent use.
type Engine struct {
	opts   Options
	logger logging.Logger
}

// NewEngine creates an Engine. Unset options fall back to the defaults.
func NewEngine(opts Options, logger logging.Logger) *Engine {
	def := DefaultOptions()
	if opts.PairingLower <= 0 {
		opts.PairingLower = def.PairingLower
	}
	if opts.PairingUpper <= 0 {
		opts.PairingUpper = def.PairingUpper
	}
	if opts.AlignmentThreshold <= 0 {
		opts.AlignmentThreshold = def.AlignmentThreshold
	}
	if opts.MaxDiffCells <= 0 {
		opts.MaxDiffCells = def.MaxDiffCells
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{opts: opts, logger: logger.Named("comparison")}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// CompareTexts normalizes both texts, diffs them at three granularities and
// classifies the sentence diff into change records.
func (e *Engine) CompareTexts(text1, text2 string) domain.ComparisonResult {
	start := time.Now()
	n1, n2 := Normalize(text1), Normalize(text2)

	raw := diffWithLimit(n1, n2, e.opts.MaxDiffCells)
	changes := classify(raw.Sentence, text1, text2, e.opts.PairingLower, e.opts.PairingUpper)
	if changes == nil {
		changes = []domain.ChangeRecord{}
	}

	summary := domain.ComparisonSummary{TotalChanges: len(changes)}
	for _, c := range changes {
		switch c.Type {
		case domain.ChangeAdded:
			summary.Added++
		case domain.ChangeRemoved:
			summary.Removed++
		case domain.ChangeModified:
			summary.Modified++
		}
	}
	maxSentences := SentenceCount(n1)
	if s := SentenceCount(n2); s > maxSentences {
		maxSentences = s
	}
	summary.Unchanged = maxSentences - summary.TotalChanges

	e.logger.Debug("texts compared",
		logging.Int("changes", summary.TotalChanges),
		logging.Int("added", summary.Added),
		logging.Int("removed", summary.Removed),
		logging.Int("modified", summary.Modified),
		logging.Int("unchanged", summary.Unchanged),
		logging.Duration("elapsed", time.Since(start)),
	)
	if summary.Unchanged < 0 {
		e.logger.Warn("unchanged sentence count is negative", logging.Int("unchanged", summary.Unchanged))
	}

	return domain.ComparisonResult{Changes: changes, Summary: summary, RawDiff: raw}
}

// ExtractKeyChanges categorizes changes by legal topic.
func (e *Engine) ExtractKeyChanges(changes []domain.ChangeRecord) domain.KeyChanges {
	kc := Categorize(changes)
	e.logger.Debug("changes categorized",
		logging.Int("financial", kc.Count(domain.CategoryFinancial)),
		logging.Int("liability", kc.Count(domain.CategoryLiability)),
		logging.Int("other", kc.Count(domain.CategoryOther)),
	)
	return kc
}

// GenerateInsights builds the risk summary for categorized changes.
func (e *Engine) GenerateInsights(changes []domain.ChangeRecord, keyChanges domain.KeyChanges) domain.Insights {
	ins := BuildInsights(changes, keyChanges)
	e.logger.Debug("insights generated",
		logging.Int("risk_score", ins.RiskAssessment.Score),
		logging.String("risk_level", string(ins.RiskAssessment.Level)),
		logging.String("primary_concern", ins.ImpactAnalysis.PrimaryConcern),
	)
	return ins
}

// CreateSideBySideComparison aligns both texts point by point.
func (e *Engine) CreateSideBySideComparison(original, revised string, changes []domain.ChangeRecord) []domain.SideBySidePoint {
	return align(original, revised, changes, e.opts.AlignmentThreshold)
}

// Analyze runs the full pipeline on two texts and returns everything the
// report renderer needs. Stages run strictly in sequence.
func (e *Engine) Analyze(original, revised string) Analysis {
	result := e.CompareTexts(original, revised)
	kc := e.ExtractKeyChanges(result.Changes)
	return Analysis{
		Result:     result,
		KeyChanges: kc,
		Insights:   e.GenerateInsights(result.Changes, kc),
		SideBySide: e.CreateSideBySideComparison(original, revised, result.Changes),
	}
}

// Analysis is the combined output of one pipeline run.
type Analysis struct {
	Result     domain.ComparisonResult  `json:"result"`
	KeyChanges domain.KeyChanges        `json:"keyChanges"`
	Insights   domain.Insights          `json:"insights"`
	SideBySide []domain.SideBySidePoint `json:"sideBySide"`
}
