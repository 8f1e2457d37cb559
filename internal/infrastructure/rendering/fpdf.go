// Package rendering implements the report drawing surface on top of fpdf.
package rendering

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/turtacn/ClauseLens/internal/application/reporting"
)

// Config selects page geometry and document properties.
type Config struct {
	PageSize     string  `mapstructure:"page_size"`
	FontFamily   string  `mapstructure:"font_family"`
	MarginLeft   float64 `mapstructure:"margin_left"`
	MarginTop    float64 `mapstructure:"margin_top"`
	MarginRight  float64 `mapstructure:"margin_right"`
	MarginBottom float64 `mapstructure:"margin_bottom"`
	Author       string  `mapstructure:"author"`
}

func (c *Config) applyDefaults() {
	if c.PageSize == "" {
		c.PageSize = "A4"
	}
	if c.FontFamily == "" {
		c.FontFamily = "Helvetica"
	}
	if c.MarginLeft <= 0 {
		c.MarginLeft = 15
	}
	if c.MarginTop <= 0 {
		c.MarginTop = 15
	}
	if c.MarginRight <= 0 {
		c.MarginRight = 15
	}
	if c.MarginBottom <= 0 {
		c.MarginBottom = 18
	}
	if c.Author == "" {
		c.Author = "ClauseLens"
	}
}

// lineSpacing scales the font size in millimetres to a line height.
const lineSpacing = 1.35

// Surface draws on an fpdf document using the core fonts. Text is
// translated from UTF-8 to cp1252 before it reaches fpdf.
type Surface struct {
	pdf    *fpdf.Fpdf
	cfg    Config
	tr     func(string) string
	bottom float64
}

var _ reporting.Surface = (*Surface)(nil)

// NewSurface creates an empty portrait document.
func NewSurface(cfg Config) *Surface {
	cfg.applyDefaults()
	pdf := fpdf.New("P", "mm", cfg.PageSize, "")
	pdf.SetMargins(cfg.MarginLeft, cfg.MarginTop, cfg.MarginRight)
	pdf.SetAutoPageBreak(false, cfg.MarginBottom)
	pdf.SetTitle("Document Comparison Report", true)
	pdf.SetAuthor(cfg.Author, true)
	pdf.SetCreator("ClauseLens", true)
	pdf.SetFont(cfg.FontFamily, "", 10)
	return &Surface{
		pdf:    pdf,
		cfg:    cfg,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		bottom: cfg.MarginBottom,
	}
}

// Factory returns a SurfaceFactory producing surfaces with cfg.
func Factory(cfg Config) reporting.SurfaceFactory {
	return func() reporting.Surface { return NewSurface(cfg) }
}

func (s *Surface) AddPage()       { s.pdf.AddPage() }
func (s *Surface) PageCount() int { return s.pdf.PageCount() }
func (s *Surface) SetPage(n int)  { s.pdf.SetPage(n) }
func (s *Surface) Y() float64     { return s.pdf.GetY() }
func (s *Surface) SetY(y float64) { s.pdf.SetY(y) }

func (s *Surface) Line(x1, y1, x2, y2 float64) { s.pdf.Line(x1, y1, x2, y2) }

func (s *Surface) PageSize() (float64, float64) {
	return s.pdf.GetPageSize()
}

func (s *Surface) Margins() (left, top, right, bottom float64) {
	left, top, right, _ = s.pdf.GetMargins()
	return left, top, right, s.bottom
}

func (s *Surface) SetFont(style reporting.FontStyle, size float64) {
	s.pdf.SetFont(s.cfg.FontFamily, string(style), size)
}

func (s *Surface) SetTextColor(c reporting.Color) { s.pdf.SetTextColor(c.R, c.G, c.B) }
func (s *Surface) SetFillColor(c reporting.Color) { s.pdf.SetFillColor(c.R, c.G, c.B) }
func (s *Surface) SetDrawColor(c reporting.Color) { s.pdf.SetDrawColor(c.R, c.G, c.B) }

func (s *Surface) LineHeight() float64 {
	_, unit := s.pdf.GetFontSize()
	return unit * lineSpacing
}

// Text draws a single line. The cursor position is left unchanged.
func (s *Surface) Text(x, y, w, h float64, text string, align reporting.Align) {
	cur := s.pdf.GetY()
	s.pdf.SetXY(x, y)
	s.pdf.CellFormat(w, h, s.tr(text), "", 0, string(align)+"M", false, 0, "")
	s.pdf.SetY(cur)
}

func (s *Surface) Rect(x, y, w, h float64, style reporting.DrawStyle) {
	s.pdf.Rect(x, y, w, h, string(style))
}

func (s *Surface) RoundedRect(x, y, w, h, r float64, style reporting.DrawStyle) {
	s.pdf.RoundedRect(x, y, w, h, r, "1234", string(style))
}

func (s *Surface) width(text string) float64 {
	return s.pdf.GetStringWidth(s.tr(text))
}

// SplitText wraps on whitespace, keeping explicit newlines. Words wider
// than w are broken between runes.
func (s *Surface) SplitText(text string, w float64) []string {
	return wrap(text, w, s.width)
}

func (s *Surface) Output(w io.Writer) error {
	if err := s.pdf.Output(w); err != nil {
		return err
	}
	return s.pdf.Error()
}

// wrap is the greedy word wrapper behind SplitText, parameterised by the
// width function so it can be tested without fonts.
func wrap(text string, w float64, width func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if width(candidate) <= w {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			for width(word) > w && utf8.RuneCountInString(word) > 1 {
				head, rest := breakWord(word, w, width)
				lines = append(lines, head)
				word = rest
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// breakWord returns the longest rune prefix of word that fits in w (at
// least one rune) and the remainder.
func breakWord(word string, w float64, width func(string) float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && width(string(runes[:n+1])) <= w {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
