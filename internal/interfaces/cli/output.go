package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/extraction"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode output")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	return table
}

func colorizeRiskLevel(level domain.RiskLevel) string {
	label := strings.ToUpper(string(level))
	switch level {
	case domain.RiskHigh:
		return color.RedString(label)
	case domain.RiskMedium:
		return color.YellowString(label)
	case domain.RiskLow:
		return color.GreenString(label)
	default:
		return label
	}
}

func colorizeStatus(status domain.Status) string {
	switch status {
	case domain.StatusAdded:
		return color.GreenString(string(status))
	case domain.StatusRemoved:
		return color.RedString(string(status))
	case domain.StatusModified:
		return color.YellowString(string(status))
	default:
		return string(status)
	}
}

func colorizeChangeType(t domain.ChangeType) string {
	switch t {
	case domain.ChangeAdded:
		return color.GreenString("+ added")
	case domain.ChangeRemoved:
		return color.RedString("- removed")
	default:
		return color.YellowString("~ modified")
	}
}

// changeText renders a record on one line. Modified records show both sides.
func changeText(c domain.ChangeRecord, maxLen int) string {
	if c.Type == domain.ChangeModified {
		return truncateString(c.OldContent, maxLen/2) + " -> " + truncateString(c.NewContent, maxLen/2)
	}
	return truncateString(c.Content, maxLen)
}

func truncateString(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if maxLen <= 0 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// PrintError writes err to the command's error stream with a hint for
// errors the user can fix.
func PrintError(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "%s %v\n", color.RedString("Error:"), err)
	switch {
	case errors.IsCode(err, errors.ErrCodeExtractorUnavailable):
		fmt.Fprintln(w, extraction.InstallInstructions())
		fmt.Fprintln(w, "Or convert the documents to .txt first.")
	case errors.IsCode(err, errors.ErrCodeUnsupportedDocument):
		fmt.Fprintln(w, "Supported inputs are PDF files and UTF-8 text files.")
	}
}
