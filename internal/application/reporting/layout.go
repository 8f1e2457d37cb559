package reporting

const (
	fontBody    = 10.0
	fontSmall   = 8.5
	fontHeading = 14.0
	fontTitle   = 20.0

	sectionGap = 6.0
	cellPad    = 1.5
)

// canvas tracks the content box of the surface and applies the page-break
// policy: a block declares the vertical space it needs and starts on a new
// page when less than that remains.
type canvas struct {
	s      Surface
	left   float64
	top    float64
	width  float64
	bottom float64
}

func newCanvas(s Surface) *canvas {
	pw, ph := s.PageSize()
	l, t, r, b := s.Margins()
	s.AddPage()
	s.SetY(t)
	return &canvas{s: s, left: l, top: t, width: pw - l - r, bottom: ph - b}
}

func (c *canvas) remaining() float64 { return c.bottom - c.s.Y() }

// ensure starts a new page when fewer than min millimetres are left.
// It reports whether a break happened.
func (c *canvas) ensure(min float64) bool {
	if c.remaining() >= min {
		return false
	}
	c.s.AddPage()
	c.s.SetY(c.top)
	return true
}

// fit reserves room for a block of height h that may be split across pages.
// A block taller than a whole page only needs room for its first line.
func (c *canvas) fit(h, first float64) bool {
	if h > c.bottom-c.top {
		h = first
	}
	return c.ensure(h)
}

// linesLeft is how many lines of height lh fit above the bottom margin after
// reserving pad, never less than one.
func (c *canvas) linesLeft(lh, pad float64) int {
	n := int((c.remaining() - pad) / lh)
	if n < 1 {
		return 1
	}
	return n
}

func (c *canvas) advance(dy float64) { c.s.SetY(c.s.Y() + dy) }

func (c *canvas) heading(title string, min float64) {
	c.ensure(min)
	c.s.SetFont(FontBold, fontHeading)
	c.s.SetTextColor(colorText)
	lh := c.s.LineHeight()
	y := c.s.Y()
	c.s.Text(c.left, y, c.width, lh, title, AlignLeft)
	c.s.SetDrawColor(colorBorder)
	c.s.Line(c.left, y+lh+0.5, c.left+c.width, y+lh+0.5)
	c.s.SetY(y + lh + 3)
}

// paragraph writes wrapped text at x with width w, breaking pages between
// lines as needed. It returns the number of lines written.
func (c *canvas) paragraph(x, w float64, text string, style FontStyle, size float64, color Color) int {
	c.s.SetFont(style, size)
	c.s.SetTextColor(color)
	lh := c.s.LineHeight()
	lines := c.s.SplitText(text, w)
	for _, line := range lines {
		c.ensure(lh)
		y := c.s.Y()
		c.s.Text(x, y, w, lh, line, AlignLeft)
		c.s.SetY(y + lh)
	}
	return len(lines)
}

// notice writes a muted italic line, used for caps and empty sections.
func (c *canvas) notice(text string) {
	c.paragraph(c.left, c.width, text, FontItalic, fontSmall, colorMuted)
	c.advance(2)
}

// measure returns the wrapped lines and the height they take in the given
// font without drawing anything.
func (c *canvas) measure(text string, w float64, style FontStyle, size float64) ([]string, float64) {
	c.s.SetFont(style, size)
	lines := c.s.SplitText(text, w)
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines, float64(len(lines)) * c.s.LineHeight()
}

// column is one column of a table: a header and its share of the width.
type column struct {
	title string
	width float64
	align Align
}

// table draws a header row and wrapped rows, repeating the header after a
// page break.
type table struct {
	c    *canvas
	cols []column
}

func (c *canvas) newTable(cols ...column) *table {
	fixed := 0.0
	flex := -1
	for i, col := range cols {
		if col.width == 0 {
			flex = i
			continue
		}
		fixed += col.width
	}
	if flex >= 0 {
		cols[flex].width = c.width - fixed
	}
	return &table{c: c, cols: cols}
}

func (t *table) header() {
	s := t.c.s
	s.SetFont(FontBold, fontSmall)
	lh := s.LineHeight() + 2*cellPad
	t.c.ensure(lh * 2)
	y := s.Y()
	s.SetFillColor(colorHeaderRow)
	s.Rect(t.c.left, y, t.c.width, lh, DrawFill)
	s.SetTextColor(colorText)
	x := t.c.left
	for _, col := range t.cols {
		s.Text(x+cellPad, y+cellPad, col.width-2*cellPad, lh-2*cellPad, col.title, col.align)
		x += col.width
	}
	s.SetY(y + lh)
}

// row draws one table row. A row too tall for the rest of the page
// continues on the next one below a repeated header.
func (t *table) row(values []string, color Color, shade bool) {
	s := t.c.s
	wrapped := make([][]string, len(t.cols))
	total := 0
	for i, col := range t.cols {
		lines, _ := t.c.measure(values[i], col.width-2*cellPad, FontRegular, fontSmall)
		wrapped[i] = lines
		if len(lines) > total {
			total = len(lines)
		}
	}
	s.SetFont(FontRegular, fontSmall)
	lh := s.LineHeight()

	for start := 0; start < total; {
		n := total - start
		if t.c.fit(float64(n)*lh+2*cellPad, lh+2*cellPad) {
			t.header()
		}
		if left := t.c.linesLeft(lh, 2*cellPad); left < n {
			n = left
		}
		height := float64(n)*lh + 2*cellPad

		y := s.Y()
		if shade {
			s.SetFillColor(colorPanel)
			s.Rect(t.c.left, y, t.c.width, height, DrawFill)
		}
		s.SetFont(FontRegular, fontSmall)
		x := t.c.left
		for i, col := range t.cols {
			if i == 1 {
				s.SetTextColor(color)
			} else {
				s.SetTextColor(colorText)
			}
			for j := start; j < start+n && j < len(wrapped[i]); j++ {
				s.Text(x+cellPad, y+cellPad+float64(j-start)*lh, col.width-2*cellPad, lh, wrapped[i][j], col.align)
			}
			x += col.width
		}
		s.SetDrawColor(colorBorder)
		s.Line(t.c.left, y+height, t.c.left+t.c.width, y+height)
		s.SetY(y + height)
		start += n
	}
}

// boxPad is the vertical space a box needs besides its text lines: the label
// strip, the inner padding and the gap below.
const boxPad = 10.0

// box draws text inside a labelled rounded panel. Text that does not fit on
// the page continues in a new panel on the next page.
func (c *canvas) box(label, text string, fg, bg Color) {
	s := c.s
	lines, _ := c.measure(text, c.width-8, FontRegular, fontBody)
	lh := s.LineHeight()
	for start := 0; start < len(lines); {
		n := len(lines) - start
		c.fit(float64(n)*lh+boxPad, lh+boxPad)
		if left := c.linesLeft(lh, boxPad); left < n {
			n = left
		}
		h := float64(n) * lh
		title := label
		if start > 0 {
			title += " (continued)"
		}

		y := s.Y()
		s.SetFillColor(bg)
		s.SetDrawColor(fg)
		s.RoundedRect(c.left, y, c.width, h+8, 1.5, DrawFillStroke)
		s.SetFont(FontBold, fontSmall)
		s.SetTextColor(fg)
		s.Text(c.left+4, y+1.5, c.width-8, 4, title, AlignLeft)
		s.SetFont(FontRegular, fontBody)
		s.SetTextColor(colorText)
		for j := 0; j < n; j++ {
			s.Text(c.left+4, y+6+float64(j)*lh, c.width-8, lh, lines[start+j], AlignLeft)
		}
		s.SetY(y + h + boxPad)
		start += n
	}
}
