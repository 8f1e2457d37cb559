package extraction

import (
	"context"
	"strings"
	"unicode/utf8"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

// Extractor is the extraction boundary consumed by the application layer.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*domain.DocumentText, error)
}

// AutoExtractor sends PDFs to the PDF extractor and treats valid UTF-8 as
// plain text, using form feeds as page breaks.
type AutoExtractor struct {
	pdf    Extractor
	logger logging.Logger
}

// NewAutoExtractor wraps a PDF extractor.
func NewAutoExtractor(pdf Extractor, logger logging.Logger) *AutoExtractor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AutoExtractor{pdf: pdf, logger: logger}
}

func (a *AutoExtractor) Extract(ctx context.Context, data []byte) (*domain.DocumentText, error) {
	if IsPDF(data) {
		if a.pdf == nil {
			return nil, errors.New(errors.ErrCodeExtractorUnavailable, "no PDF extractor configured")
		}
		return a.pdf.Extract(ctx, data)
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDocument, "document is empty")
	}
	if !utf8.Valid(data) {
		return nil, errors.New(errors.ErrCodeUnsupportedDocument, "document is neither a PDF nor UTF-8 text")
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	doc := domain.NewDocumentText(SplitPages(text), domain.DocumentMetadata{Title: firstLine(text)})
	a.logger.Debug("plain text document loaded", logging.Int("pages", doc.Metadata.NumPages))
	return doc, nil
}
