package reporting

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/turtacn/ClauseLens/pkg/errors"
)

// ContentTypePDF is the MIME type of rendered reports.
const ContentTypePDF = "application/pdf"

// ReportFileName returns comparison-report-<date>.pdf for t in UTC.
func ReportFileName(t time.Time) string {
	return "comparison-report-" + t.UTC().Format("2006-01-02") + ".pdf"
}

// Report is a rendered comparison document.
type Report struct {
	FileName    string
	Pages       int
	GeneratedAt time.Time

	data []byte
}

// Bytes returns the encoded PDF.
func (r *Report) Bytes() []byte { return r.data }

// Size is the encoded length in bytes.
func (r *Report) Size() int { return len(r.data) }

// WriteTo streams the PDF to w.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(r.data).WriteTo(w)
}

// Save writes the PDF to fileName, or to the report's default file name in
// the working directory when fileName is empty.
func (r *Report) Save(fileName string) error {
	if fileName == "" {
		fileName = r.FileName
	}
	if dir := filepath.Dir(fileName); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, errors.ErrCodeReportSaveFailed, "failed to create report directory")
		}
	}
	if err := os.WriteFile(fileName, r.data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeReportSaveFailed, "failed to save report")
	}
	return nil
}
