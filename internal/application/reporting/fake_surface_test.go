package reporting

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const (
	fakePageW = 210.0
	fakePageH = 297.0
	fakeTop   = 15.0
	fakeBot   = 18.0
)

type drawOp struct {
	page int
	kind string
	text string
	y    float64
	h    float64
}

// fakeSurface records drawing calls. Glyphs are 0.2*size mm wide and a line
// is 0.5*size mm high.
type fakeSurface struct {
	pages   int
	current int
	y       float64
	size    float64
	ops     []drawOp
	outErr  error
}

func newFakeSurface() *fakeSurface { return &fakeSurface{size: 10} }

func (f *fakeSurface) AddPage() {
	f.pages++
	f.current = f.pages
	f.y = fakeTop
	f.ops = append(f.ops, drawOp{page: f.current, kind: "page"})
}

func (f *fakeSurface) PageCount() int { return f.pages }
func (f *fakeSurface) SetPage(n int)  { f.current = n }
func (f *fakeSurface) PageSize() (float64, float64) {
	return fakePageW, fakePageH
}
func (f *fakeSurface) Margins() (float64, float64, float64, float64) {
	return 15, fakeTop, 15, fakeBot
}
func (f *fakeSurface) Y() float64                          { return f.y }
func (f *fakeSurface) SetY(y float64)                      { f.y = y }
func (f *fakeSurface) SetFont(_ FontStyle, size float64)   { f.size = size }
func (f *fakeSurface) SetTextColor(Color)                  {}
func (f *fakeSurface) SetFillColor(Color)                  {}
func (f *fakeSurface) SetDrawColor(Color)                  {}
func (f *fakeSurface) LineHeight() float64                 { return f.size * 0.5 }
func (f *fakeSurface) Line(_, y1, _, _ float64)            { f.record("line", "", y1, 0) }
func (f *fakeSurface) Rect(_, y, _, h float64, _ DrawStyle) { f.record("rect", "", y, h) }
func (f *fakeSurface) RoundedRect(_, y, _, h, _ float64, _ DrawStyle) {
	f.record("rrect", "", y, h)
}

func (f *fakeSurface) Text(_, y, _, h float64, s string, _ Align) {
	f.record("text", s, y, h)
}

func (f *fakeSurface) record(kind, text string, y, h float64) {
	f.ops = append(f.ops, drawOp{page: f.current, kind: kind, text: text, y: y, h: h})
}

func (f *fakeSurface) SplitText(s string, w float64) []string {
	perLine := int(w / (f.size * 0.2))
	if perLine < 1 {
		perLine = 1
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(s) {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= perLine:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	return append(lines, line)
}

func (f *fakeSurface) Output(w io.Writer) error {
	if f.outErr != nil {
		return f.outErr
	}
	_, err := fmt.Fprintf(w, "%%PDF-fake pages=%d ops=%d", f.pages, len(f.ops))
	return err
}

func (f *fakeSurface) texts() []string {
	var out []string
	for _, op := range f.ops {
		if op.kind == "text" {
			out = append(out, op.text)
		}
	}
	return out
}

func (f *fakeSurface) indexOf(text string) int {
	for i, s := range f.texts() {
		if s == text {
			return i
		}
	}
	return -1
}

func (f *fakeSurface) containsText(sub string) bool {
	for _, s := range f.texts() {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
