package comparison

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/testutil"
)

type EngineTestSuite struct {
	suite.Suite
	logger *testutil.MockLogger
	engine *Engine
}

func (s *EngineTestSuite) SetupTest() {
	s.logger = testutil.NewMockLogger()
	s.engine = NewEngine(DefaultOptions(), s.logger)
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) TestCompareTexts_FeeChangeIsFinancialModification() {
	result := s.engine.CompareTexts("The fee is $100.", "The fee is $500.")

	s.Require().Len(result.Changes, 1)
	s.Equal(domain.ChangeModified, result.Changes[0].Type)
	s.Equal(1, result.Summary.Modified)
	s.Equal(0, result.Summary.Unchanged)

	kc := s.engine.ExtractKeyChanges(result.Changes)
	s.Require().Len(kc[domain.CategoryFinancial], 1)
	s.Equal(domain.ImportanceHigh, kc[domain.CategoryFinancial][0].Importance)
}

func (s *EngineTestSuite) TestCompareTexts_AppendedSentence() {
	result := s.engine.CompareTexts("Term is 30 days.", "Term is 30 days. New clause added.")

	s.Equal(1, result.Summary.Added)
	s.Equal(0, result.Summary.Removed)
	s.Equal(0, result.Summary.Modified)
	s.Equal(1, result.Summary.TotalChanges)
	s.Equal(1, result.Summary.Unchanged)
	s.Require().Len(result.Changes, 1)
	s.Equal("New clause added", result.Changes[0].Content)
	s.NotEmpty(result.RawDiff.Word)
	s.NotEmpty(result.RawDiff.Line)
}

func (s *EngineTestSuite) TestCompareTexts_IdenticalTexts() {
	result := s.engine.CompareTexts("Same text. Same again.", "Same text.   Same again.")

	s.Empty(result.Changes)
	s.NotNil(result.Changes)
	s.Equal(2, result.Summary.Unchanged)
}

func (s *EngineTestSuite) TestCompareTexts_EmptyInputsDegrade() {
	result := s.engine.CompareTexts("", "")
	s.Empty(result.Changes)
	s.Equal(domain.ComparisonSummary{}, result.Summary)

	result = s.engine.CompareTexts("", "Fresh content appears.")
	s.Equal(1, result.Summary.Added)
}

func (s *EngineTestSuite) TestCompareTexts_UnchangedMayBeNegative() {
	result := s.engine.CompareTexts("Alpha one.", "Zeta two.")

	s.Equal(2, result.Summary.TotalChanges)
	s.Equal(-1, result.Summary.Unchanged)
	s.True(s.logger.HasMessage("warn", "unchanged sentence count is negative"))
}

func (s *EngineTestSuite) TestCompareTexts_ResetsIDsPerRun() {
	first := s.engine.CompareTexts("One removed sentence here.", "")
	second := s.engine.CompareTexts("Another removed sentence here.", "")

	s.Equal(1, first.Changes[0].ID)
	s.Equal(1, second.Changes[0].ID)
}

func (s *EngineTestSuite) TestExtractKeyChanges_UnmatchedGoesToOther() {
	kc := s.engine.ExtractKeyChanges([]domain.ChangeRecord{domain.NewAdded(1, "New clause added", 1, 0.6, "")})

	s.Require().Len(kc[domain.CategoryOther], 1)
	s.Equal(domain.ImportanceLow, kc[domain.CategoryOther][0].Importance)
}

func (s *EngineTestSuite) TestGenerateInsights_RiskScenario() {
	changes := []domain.ChangeRecord{
		domain.NewAdded(1, "Each side is liable for losses", 1, 0.8, ""),
		domain.NewAdded(2, "Indemnification covers all claims", 2, 0.8, ""),
		domain.NewAdded(3, "The fee doubles", 3, 0.8, ""),
	}
	kc := s.engine.ExtractKeyChanges(changes)

	ins := s.engine.GenerateInsights(changes, kc)

	s.Equal(42, ins.RiskAssessment.Score)
	s.Equal(domain.RiskMedium, ins.RiskAssessment.Level)
}

func (s *EngineTestSuite) TestAnalyze_RunsFullPipeline() {
	original := "The fee is $100.\n\nThe agreement renews annually."
	revised := "The fee is $500.\n\nThe agreement renews annually."

	a := s.engine.Analyze(original, revised)

	s.Len(a.Result.Changes, 1)
	s.Equal(1, a.KeyChanges.Count(domain.CategoryFinancial))
	s.Equal(12, a.Insights.RiskAssessment.Score)
	s.Require().Len(a.SideBySide, 2)
	s.Equal(domain.StatusUnchanged, a.SideBySide[0].Status, "fee lines are 93% similar")
	s.Equal(domain.StatusUnchanged, a.SideBySide[1].Status)
}

func TestNewEngine_DefaultsUnsetOptions(t *testing.T) {
	e := NewEngine(Options{PairingUpper: 0.9}, nil)

	opts := e.Options()
	assert.Equal(t, DefaultPairingLower, opts.PairingLower)
	assert.Equal(t, 0.9, opts.PairingUpper)
	assert.Equal(t, DefaultAlignmentThreshold, opts.AlignmentThreshold)
	assert.Equal(t, DefaultMaxDiffCells, opts.MaxDiffCells)
}

func TestEngine_CustomPairingUpper(t *testing.T) {
	e := NewEngine(Options{PairingUpper: 0.9}, nil)

	result := e.CompareTexts("The fee is 100.", "The fee is 500.")

	require.Len(t, result.Changes, 2, "13/14 similarity exceeds the custom upper bound")
}
