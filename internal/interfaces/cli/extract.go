package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/pkg/client"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	var pages bool
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the text extracted from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cliCtx)
			defer cancel()

			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			var text *domain.DocumentText
			if cliCtx.Remote() {
				extracted, err := cliCtx.Client.ExtractDocument(ctx, client.File{Name: doc.Name, Data: doc.Data})
				if err != nil {
					return err
				}
				text = &extracted.DocumentText
			} else {
				text, err = cliCtx.Compare.ExtractDocument(ctx, doc)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if cliCtx.OutputFormat == "json" {
				return printJSON(out, text)
			}
			if !pages {
				fmt.Fprintln(out, text.FullText)
				return nil
			}
			for _, p := range text.Pages {
				fmt.Fprintf(out, "--- page %d ---\n%s\n", p.PageNumber, p.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&pages, "pages", false, "print a marker before each page")
	return cmd
}
