package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
)

// NewAlignCmd creates the align command.
func NewAlignCmd() *cobra.Command {
	var showAll bool
	cmd := &cobra.Command{
		Use:   "align <original> <revised>",
		Short: "Show the two documents side by side",
		Long: `Pair the sentences of both documents by position and mark each row as
unchanged, added, removed or modified.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			data, err := runComparison(ctx, cliCtx, args[0], args[1])
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == "json" {
				return printJSON(cmd.OutOrStdout(), data.SideBySide)
			}
			writeSideBySide(cmd.OutOrStdout(), data.SideBySide, showAll)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showAll, "all", false, "include unchanged rows")
	return cmd
}

func writeSideBySide(w io.Writer, points []domain.SideBySidePoint, showAll bool) {
	table := newTable(w, "#", "Status", "Similarity", "Original", "Revised")
	shown := 0
	for _, p := range points {
		if !showAll && p.Status == domain.StatusUnchanged {
			continue
		}
		table.Append([]string{
			fmt.Sprintf("%d", p.Index+1),
			colorizeStatus(p.Status),
			fmt.Sprintf("%.2f", p.Similarity),
			pointText(p.Original),
			pointText(p.Revised),
		})
		shown++
	}
	table.Render()
	fmt.Fprintf(w, "\n%d of %d rows shown\n", shown, len(points))
}

func pointText(p *domain.Point) string {
	if p == nil {
		return ""
	}
	return truncateString(p.Content, 50)
}
