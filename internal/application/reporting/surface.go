package reporting

import "io"

// Color is an RGB triple in the 0..255 range.
type Color struct {
	R, G, B int
}

// FontStyle selects the weight of the report font.
type FontStyle string

const (
	FontRegular FontStyle = ""
	FontBold    FontStyle = "B"
	FontItalic  FontStyle = "I"
)

// Align positions a single line of text inside its cell.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// DrawStyle selects how a rectangle is painted.
type DrawStyle string

const (
	DrawStroke     DrawStyle = "D"
	DrawFill       DrawStyle = "F"
	DrawFillStroke DrawStyle = "FD"
)

// Surface is the 2-D drawing surface the renderer paints on. Coordinates
// are in millimetres from the top-left corner of the current page. The
// renderer owns pagination, so implementations must not break pages on
// their own.
type Surface interface {
	AddPage()
	PageCount() int
	SetPage(n int)
	PageSize() (width, height float64)
	Margins() (left, top, right, bottom float64)

	Y() float64
	SetY(y float64)

	SetFont(style FontStyle, size float64)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)

	// LineHeight is the measured height of one line in the current font.
	LineHeight() float64
	// SplitText word-wraps s to lines no wider than w in the current font.
	SplitText(s string, w float64) []string
	// Text draws one line inside the box at (x, y) of width w and height h.
	Text(x, y, w, h float64, s string, align Align)

	Rect(x, y, w, h float64, style DrawStyle)
	RoundedRect(x, y, w, h, r float64, style DrawStyle)
	Line(x1, y1, x2, y2 float64)

	Output(w io.Writer) error
}

// SurfaceFactory creates a fresh surface for each report.
type SurfaceFactory func() Surface

var (
	colorText      = Color{31, 41, 55}
	colorMuted     = Color{107, 114, 128}
	colorBorder    = Color{209, 213, 219}
	colorPanel     = Color{243, 244, 246}
	colorPrimary   = Color{37, 99, 235}
	colorInfoBg    = Color{239, 246, 255}
	colorGreen     = Color{22, 163, 74}
	colorGreenBg   = Color{220, 252, 231}
	colorRed       = Color{220, 38, 38}
	colorRedBg     = Color{254, 226, 226}
	colorAmber     = Color{217, 119, 6}
	colorAmberBg   = Color{254, 243, 199}
	colorWhite     = Color{255, 255, 255}
	colorHeaderRow = Color{229, 231, 235}
)
