package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/ClauseLens/internal/application/reporting"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/pkg/client"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

type reportOptions struct {
	out     string
	archive bool
}

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report <original> <revised>",
		Short: "Generate a PDF comparison report",
		Long: `Compare two documents and write the PDF report. Without --out the file is
named comparison-report-YYYY-MM-DD.pdf in the current directory. With
--server and --archive the server stores the report instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cliCtx.Remote() {
				return runRemoteReport(cmd, cliCtx, opts, args[0], args[1])
			}
			return runLocalReport(cmd, cliCtx, opts, args[0], args[1])
		},
	}
	cmd.Flags().StringVar(&opts.out, "out", "", "output file path")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "store the report on the server (requires --server)")
	return cmd
}

func runLocalReport(cmd *cobra.Command, cliCtx *CLIContext, opts *reportOptions, originalPath, revisedPath string) error {
	if opts.archive {
		return errors.New(errors.ErrCodeValidation, "--archive requires --server")
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	data, err := runComparison(ctx, cliCtx, originalPath, revisedPath)
	if err != nil {
		return err
	}
	report, err := cliCtx.Reports.GenerateComparisonReport(*data, data.Original.Name, data.Revised.Name)
	if err != nil {
		return err
	}

	path := opts.out
	if path == "" {
		path = report.FileName
	}
	if err := report.Save(path); err != nil {
		return err
	}
	cliCtx.Logger.Info("report written",
		logging.String("path", path),
		logging.Int("pages", report.Pages),
		logging.String("run_id", data.RunID))
	return writeReportResult(cmd, cliCtx, path, report.Size())
}

func runRemoteReport(cmd *cobra.Command, cliCtx *CLIContext, opts *reportOptions, originalPath, revisedPath string) error {
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	original, revised, err := readPair(originalPath, revisedPath)
	if err != nil {
		return err
	}
	origFile := client.File{Name: original.Name, Data: original.Data}
	revFile := client.File{Name: revised.Name, Data: revised.Data}

	if opts.archive {
		stored, err := cliCtx.Client.ArchiveReport(ctx, origFile, revFile)
		if err != nil {
			return err
		}
		if cliCtx.OutputFormat == "json" {
			return printJSON(cmd.OutOrStdout(), stored)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report stored as %s (%d bytes)\n", stored.Key, stored.Size)
		if stored.DownloadURL != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Download: %s\n", stored.DownloadURL)
		}
		return nil
	}

	report, err := cliCtx.Client.GenerateReport(ctx, origFile, revFile)
	if err != nil {
		return err
	}
	path := opts.out
	if path == "" {
		path = report.FileName
	}
	if path == "" {
		path = reporting.ReportFileName(time.Now())
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, errors.ErrCodeReportSaveFailed, "failed to create report directory")
		}
	}
	if err := os.WriteFile(path, report.Data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeReportSaveFailed, "failed to save report")
	}
	cliCtx.Logger.Info("report downloaded", logging.String("path", path), logging.String("run_id", report.RunID))
	return writeReportResult(cmd, cliCtx, path, len(report.Data))
}

func writeReportResult(cmd *cobra.Command, cliCtx *CLIContext, path string, size int) error {
	if cliCtx.OutputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{"path": path, "size": size})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (%d bytes)\n", path, size)
	return nil
}
