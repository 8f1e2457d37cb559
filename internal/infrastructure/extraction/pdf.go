// Package extraction turns uploaded document bytes into page-segmented text.
// PDFs go through poppler's pdftotext and pdfinfo; plain text is read as is.
package extraction

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

// ErrPDFToolNotFound is returned when pdftotext is not on PATH.
var ErrPDFToolNotFound = errors.New(errors.ErrCodeExtractorUnavailable,
	"pdftotext not found; install poppler to extract PDF text")

var pdfMagic = []byte("%PDF-")

// Config is passed to the extractor at construction. There is no
// process-wide extractor state.
type Config struct {
	PDFToTextPath string        `mapstructure:"pdftotext_path"`
	PDFInfoPath   string        `mapstructure:"pdfinfo_path"`
	TempDir       string        `mapstructure:"temp_dir"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxBytes      int64         `mapstructure:"max_bytes"`
	Layout        bool          `mapstructure:"layout"`
	RejectBlank   bool          `mapstructure:"reject_blank"`
}

func (c *Config) applyDefaults() {
	if c.PDFToTextPath == "" {
		c.PDFToTextPath = "pdftotext"
	}
	if c.PDFInfoPath == "" {
		c.PDFInfoPath = "pdfinfo"
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 50 << 20
	}
}

// PDFExtractor extracts text from PDF bytes with pdftotext.
type PDFExtractor struct {
	cfg    Config
	runner CommandRunner
	logger logging.Logger
}

// NewPDFExtractor returns an extractor that shells out to poppler.
func NewPDFExtractor(cfg Config, logger logging.Logger) *PDFExtractor {
	return NewPDFExtractorWithRunner(cfg, execRunner{}, logger)
}

// NewPDFExtractorWithRunner injects the command runner.
func NewPDFExtractorWithRunner(cfg Config, runner CommandRunner, logger logging.Logger) *PDFExtractor {
	cfg.applyDefaults()
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &PDFExtractor{cfg: cfg, runner: runner, logger: logger.Named("pdf")}
}

// CheckAvailable reports whether the configured pdftotext binary is on PATH.
func (e *PDFExtractor) CheckAvailable() error {
	return CheckAvailable(e.cfg.PDFToTextPath)
}

// CheckAvailable reports whether bin can be found on PATH.
func CheckAvailable(bin string) error {
	if bin == "" {
		bin = "pdftotext"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return ErrPDFToolNotFound.WithCause(err)
	}
	return nil
}

// InstallInstructions describes how to install poppler per platform.
func InstallInstructions() string {
	return `pdftotext (poppler) is required for PDF comparison:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}

// IsPDF reports whether data starts with the PDF magic bytes.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// Extract writes data to a temporary file, runs pdftotext and pdfinfo on it
// and splits the text into pages on form feeds. Any pdftotext failure is an
// extraction failure; pdfinfo failures only lose metadata.
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (*domain.DocumentText, error) {
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDocument, "document is empty")
	}
	if int64(len(data)) > e.cfg.MaxBytes {
		return nil, errors.Newf(errors.ErrCodeComparisonTooLarge, "document exceeds %d bytes", e.cfg.MaxBytes)
	}
	if !IsPDF(data) {
		return nil, errors.New(errors.ErrCodeUnsupportedDocument, "document is not a PDF")
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	f, err := os.CreateTemp(e.cfg.TempDir, "clauselens-*.pdf")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to create temp file")
	}
	path := f.Name()
	defer os.Remove(path)
	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to write temp file")
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to write temp file")
	}

	args := []string{"-enc", "UTF-8"}
	if e.cfg.Layout {
		args = append(args, "-layout")
	}
	args = append(args, path, "-")
	out, err := e.runner.Run(ctx, e.cfg.PDFToTextPath, args...)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(err, errors.ErrCodeTimeout, "pdftotext timed out")
		}
		return nil, errors.Wrap(err, errors.ErrCodeExtractionFailed, "pdftotext failed")
	}

	meta := domain.DocumentMetadata{}
	if info, err := e.runner.Run(ctx, e.cfg.PDFInfoPath, "-enc", "UTF-8", path); err != nil {
		e.logger.Warn("pdfinfo failed, continuing without metadata", logging.Err(err))
	} else {
		meta = ParsePDFInfo(info)
	}

	doc := domain.NewDocumentText(SplitPages(string(out)), meta)
	if doc.Metadata.Title == "" {
		doc.Metadata.Title = firstLine(doc.FullText)
	}
	if doc.IsBlank() {
		if e.cfg.RejectBlank {
			return nil, errors.New(errors.ErrCodeEmptyDocument, "PDF has no extractable text")
		}
		e.logger.Warn("PDF has no extractable text", logging.Int("pages", doc.Metadata.NumPages))
	}

	e.logger.Debug("pdf extracted",
		logging.Int("pages", doc.Metadata.NumPages),
		logging.Int("chars", len(doc.FullText)),
	)
	return doc, nil
}

// SplitPages splits pdftotext output on form feeds. pdftotext ends every
// page with one, so a trailing empty piece is dropped.
func SplitPages(out string) []string {
	pages := strings.Split(out, "\f")
	if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
		pages = pages[:len(pages)-1]
	}
	return pages
}

// ParsePDFInfo reads the Title, Author, Subject and Pages fields of pdfinfo
// output.
func ParsePDFInfo(out []byte) domain.DocumentMetadata {
	var meta domain.DocumentMetadata
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Title":
			meta.Title = value
		case "Author":
			meta.Author = value
		case "Subject":
			meta.Subject = value
		case "Pages":
			if n, err := strconv.Atoi(value); err == nil {
				meta.NumPages = n
			}
		}
	}
	return meta
}

// firstLine returns the first non-blank line if it is short enough to be a
// title.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > 200 {
			return ""
		}
		return line
	}
	return ""
}
