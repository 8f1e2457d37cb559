package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

type compareOptions struct {
	maxChanges int
	failOn     string
}

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	opts := &compareOptions{}
	cmd := &cobra.Command{
		Use:   "compare <original> <revised>",
		Short: "Compare two versions of a document",
		Long: `Diff two versions of a contract and print the classified changes, the
changes grouped by legal topic, the risk assessment and recommendations.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runCompare(cmd, cliCtx, opts, args[0], args[1])
		},
	}

	cmd.Flags().IntVar(&opts.maxChanges, "max-changes", 50, "maximum changes listed in text output (0 for all)")
	cmd.Flags().StringVar(&opts.failOn, "fail-on", "", "exit non-zero when the risk level is at least this level (low, medium, high)")
	return cmd
}

func runCompare(cmd *cobra.Command, cliCtx *CLIContext, opts *compareOptions, originalPath, revisedPath string) error {
	threshold, err := parseRiskThreshold(opts.failOn)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	data, err := runComparison(ctx, cliCtx, originalPath, revisedPath)
	if err != nil {
		return err
	}
	cliCtx.Logger.Debug("comparison finished",
		logging.String("run_id", data.RunID),
		logging.Int("changes", data.Result.Summary.TotalChanges))

	out := cmd.OutOrStdout()
	if cliCtx.OutputFormat == "json" {
		if err := printJSON(out, data); err != nil {
			return err
		}
	} else {
		writeComparison(out, data, opts.maxChanges)
	}

	if threshold != "" && riskRank(data.Insights.RiskAssessment.Level) >= riskRank(threshold) {
		return errors.Newf(errors.ErrCodeValidation, "risk level %s meets --fail-on %s (score %d)",
			data.Insights.RiskAssessment.Level, threshold, data.Insights.RiskAssessment.Score)
	}
	return nil
}

func parseRiskThreshold(s string) (domain.RiskLevel, error) {
	switch level := domain.RiskLevel(strings.ToLower(s)); level {
	case "":
		return "", nil
	case domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
		return level, nil
	default:
		return "", errors.Newf(errors.ErrCodeValidation, "invalid --fail-on %q (low, medium, high)", s)
	}
}

func riskRank(level domain.RiskLevel) int {
	switch level {
	case domain.RiskHigh:
		return 3
	case domain.RiskMedium:
		return 2
	case domain.RiskLow:
		return 1
	default:
		return 0
	}
}

// writeComparison prints the text rendition of a run.
func writeComparison(w io.Writer, data *domain.ReportData, maxChanges int) {
	summary := data.Result.Summary
	risk := data.Insights.RiskAssessment

	fmt.Fprintf(w, "\n=== Comparison: %s -> %s ===\n\n", data.Original.Name, data.Revised.Name)
	fmt.Fprintf(w, "%s\n\n", data.Insights.Summary.Description)
	fmt.Fprintf(w, "Changes:    %d (added %d, removed %d, modified %d)\n",
		summary.TotalChanges, summary.Added, summary.Removed, summary.Modified)
	fmt.Fprintf(w, "Risk:       %s (score %d)\n", colorizeRiskLevel(risk.Level), risk.Score)
	if impact := data.Insights.ImpactAnalysis; impact.PrimaryConcern != "" {
		fmt.Fprintf(w, "Impact:     %s (financial %d, legal %d, operational %d, timeline %d)\n",
			impact.PrimaryConcern, impact.Financial, impact.Legal, impact.Operational, impact.Timeline)
	}
	for _, f := range risk.Factors {
		fmt.Fprintf(w, "  - %s\n", f)
	}

	if len(data.Result.Changes) == 0 {
		fmt.Fprintln(w, "\nThe documents are identical at sentence level.")
		return
	}

	fmt.Fprintln(w, "\n--- Changes ---")
	table := newTable(w, "#", "Type", "Line", "Confidence", "Text")
	for i, c := range data.Result.Changes {
		if maxChanges > 0 && i >= maxChanges {
			break
		}
		table.Append([]string{
			fmt.Sprintf("%d", c.ID),
			colorizeChangeType(c.Type),
			fmt.Sprintf("%d", c.LineNumber),
			fmt.Sprintf("%.0f%%", c.Confidence*100),
			changeText(c, 80),
		})
	}
	table.Render()
	if maxChanges > 0 && len(data.Result.Changes) > maxChanges {
		fmt.Fprintf(w, "... %d more (use --max-changes 0 or -o json)\n", len(data.Result.Changes)-maxChanges)
	}

	fmt.Fprintln(w, "\n--- Key Changes ---")
	keyTable := newTable(w, "Category", "Importance", "Count", "First Change")
	for _, category := range domain.AllCategories {
		changes := data.KeyChanges[category]
		if len(changes) == 0 {
			continue
		}
		keyTable.Append([]string{
			category.Label(),
			string(domain.ImportanceOf(category)),
			fmt.Sprintf("%d", len(changes)),
			changeText(changes[0].ChangeRecord, 60),
		})
	}
	keyTable.Render()

	if len(data.Insights.Recommendations) > 0 {
		fmt.Fprintln(w, "\n--- Recommendations ---")
		for i, rec := range data.Insights.Recommendations {
			priority := string(rec.Priority)
			if rec.Priority == domain.PriorityHigh {
				priority = color.RedString(priority)
			}
			fmt.Fprintf(w, "  %d. [%s] %s: %s\n", i+1, priority, rec.Title, rec.Text)
		}
	}
}
