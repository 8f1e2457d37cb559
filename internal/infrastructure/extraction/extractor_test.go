package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

type stubPDF struct{ called bool }

func (s *stubPDF) Extract(_ context.Context, _ []byte) (*domain.DocumentText, error) {
	s.called = true
	return domain.NewDocumentText([]string{"pdf"}, domain.DocumentMetadata{}), nil
}

func TestAutoExtractor(t *testing.T) {
	pdf := &stubPDF{}
	a := NewAutoExtractor(pdf, nil)

	doc, err := a.Extract(context.Background(), []byte("Title line\r\nbody\fsecond"))
	require.NoError(t, err)
	assert.False(t, pdf.called)
	assert.Equal(t, "Title line\nbody\nsecond", doc.FullText)
	assert.Equal(t, "Title line", doc.Metadata.Title)
	assert.Equal(t, 2, doc.Metadata.NumPages)

	_, err = a.Extract(context.Background(), samplePDF)
	require.NoError(t, err)
	assert.True(t, pdf.called)

	_, err = a.Extract(context.Background(), []byte{0xff, 0xfe, 0x00})
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedDocument))

	_, err = a.Extract(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptyDocument))
}

func TestAutoExtractor_NoPDFBackend(t *testing.T) {
	a := NewAutoExtractor(nil, nil)
	_, err := a.Extract(context.Background(), samplePDF)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExtractorUnavailable))
}
