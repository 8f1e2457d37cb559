// Package cli implements the clauselens command line tool. Comparisons run
// in-process by default, or against an API server with --server.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/ClauseLens/internal/application/comparison"
	"github.com/turtacn/ClauseLens/internal/application/reporting"
	"github.com/turtacn/ClauseLens/internal/config"
	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/extraction"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/internal/infrastructure/rendering"
	"github.com/turtacn/ClauseLens/pkg/client"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
// Client is set when --server is given; Compare and Reports otherwise.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Compare      comparison.Service
	Reports      reporting.Service
	Client       *client.Client
	OutputFormat string
	Timeout      time.Duration
}

// Remote reports whether commands go through the API server.
func (c *CLIContext) Remote() bool { return c.Client != nil }

// NewRootCommand creates the root cobra command with all global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "clauselens",
		Short: "ClauseLens compares two versions of a legal document",
		Long: "ClauseLens diffs two versions of a contract, classifies every change,\n" +
			"groups changes by legal topic and scores the risk they carry.\n" +
			"Inputs may be PDF (requires poppler's pdftotext) or UTF-8 text files.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./clauselens.yaml, then CLAUSELENS_* env)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 2*time.Minute, "global operation timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "run against a ClauseLens API server instead of in-process")

	cmd.AddCommand(
		NewCompareCmd(),
		NewAlignCmd(),
		NewReportCmd(),
		NewExtractCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// persistentPreRun initializes config, logger and the comparison backend,
// then stores CLIContext.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	if opts.NoColor {
		color.NoColor = true
	}
	if cmd.Name() == "version" {
		return nil
	}
	switch opts.OutputFormat {
	case "text", "json":
	default:
		return errors.Newf(errors.ErrCodeValidation, "unsupported output format %q (text, json)", opts.OutputFormat)
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: opts.OutputFormat,
		Timeout:      opts.Timeout,
	}
	if opts.ServerAddr != "" {
		apiClient, err := client.NewClient(opts.ServerAddr,
			client.WithTimeout(opts.Timeout),
			client.WithUserAgent("clauselens-cli/"+Version))
		if err != nil {
			return err
		}
		cliCtx.Client = apiClient
	} else {
		cliCtx.Compare, cliCtx.Reports = initLocalServices(cfg, logger)
	}

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	cmd.SetContext(context.WithValue(base, cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads --config when given, otherwise the first config file found
// in the search path, otherwise the environment.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	searchPaths := []string{"./clauselens.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".clauselens", "config.yaml"))
	}
	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.Load(p)
		}
	}
	return config.LoadFromEnv()
}

// initLogger creates a logger configured for CLI usage (output to stderr).
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := opts.LogLevel
	if opts.Verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// initLocalServices wires the engine, extraction and rendering in-process.
// PDF inputs fail with ErrCodeExtractorUnavailable when pdftotext is missing.
func initLocalServices(cfg *config.Config, logger logging.Logger) (comparison.Service, reporting.Service) {
	var pdf extraction.Extractor
	pdfExtractor := extraction.NewPDFExtractor(cfg.Extraction, logger)
	if err := pdfExtractor.CheckAvailable(); err != nil {
		logger.Debug("PDF extraction disabled", logging.Err(err))
	} else {
		pdf = pdfExtractor
	}

	engine := comparison.NewEngine(cfg.Comparison.EngineOptions(), logger)
	compare := comparison.NewService(engine, extraction.NewAutoExtractor(pdf, logger), nil, nil,
		comparison.ServiceConfig{CacheTTL: cfg.Comparison.CacheTTL}, logger)

	renderer := reporting.NewRenderer(rendering.Factory(cfg.Report.PDF), cfg.Report.RenderOptions(), logger)
	reports := reporting.NewService(renderer, nil, nil,
		reporting.ServiceConfig{KeyPrefix: cfg.Report.KeyPrefix, URLExpiry: cfg.Report.URLExpiry}, logger)
	return compare, reports
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext bounds a command by --timeout.
func commandContext(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	if cliCtx.Timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), cliCtx.Timeout)
}

// readPair reads both input files.
func readPair(originalPath, revisedPath string) (comparison.Document, comparison.Document, error) {
	original, err := readDocument(originalPath)
	if err != nil {
		return comparison.Document{}, comparison.Document{}, err
	}
	revised, err := readDocument(revisedPath)
	if err != nil {
		return comparison.Document{}, comparison.Document{}, err
	}
	return original, revised, nil
}

func readDocument(path string) (comparison.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return comparison.Document{}, errors.Newf(errors.ErrCodeNotFound, "input file %s does not exist", path)
		}
		return comparison.Document{}, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read "+path)
	}
	return comparison.Document{Name: filepath.Base(path), Data: data}, nil
}

// runComparison compares two files in-process or on the server.
func runComparison(ctx context.Context, cliCtx *CLIContext, originalPath, revisedPath string) (*domain.ReportData, error) {
	original, revised, err := readPair(originalPath, revisedPath)
	if err != nil {
		return nil, err
	}
	if cliCtx.Remote() {
		return cliCtx.Client.CompareFiles(ctx,
			client.File{Name: original.Name, Data: original.Data},
			client.File{Name: revised.Name, Data: revised.Data})
	}
	return cliCtx.Compare.CompareDocuments(ctx, original, revised)
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}
