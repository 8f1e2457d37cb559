package reporting

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	domain "github.com/turtacn/ClauseLens/internal/domain/comparison"
	"github.com/turtacn/ClauseLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ClauseLens/pkg/errors"
)

// Row caps applied by the renderer. Anything beyond a cap is replaced by a
// notice pointing at the full report. Text within a row is never shortened.
const (
	DefaultMaxKeyChangesPerCategory = 15
	DefaultMaxAllChanges            = 30
	DefaultMaxDetailedChanges       = 20
)

// RenderOptions tunes the renderer. Zero values take the defaults.
type RenderOptions struct {
	Title                    string
	MaxKeyChangesPerCategory int
	MaxAllChanges            int
	MaxDetailedChanges       int
	Now                      func() time.Time
}

func (o *RenderOptions) applyDefaults() {
	if o.Title == "" {
		o.Title = "Document Comparison Report"
	}
	if o.MaxKeyChangesPerCategory <= 0 {
		o.MaxKeyChangesPerCategory = DefaultMaxKeyChangesPerCategory
	}
	if o.MaxAllChanges <= 0 {
		o.MaxAllChanges = DefaultMaxAllChanges
	}
	if o.MaxDetailedChanges <= 0 {
		o.MaxDetailedChanges = DefaultMaxDetailedChanges
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Renderer lays out a comparison as a paginated PDF.
type Renderer struct {
	newSurface SurfaceFactory
	opts       RenderOptions
	logger     logging.Logger
}

// NewRenderer returns a renderer drawing on surfaces from newSurface.
func NewRenderer(newSurface SurfaceFactory, opts RenderOptions, logger logging.Logger) *Renderer {
	opts.applyDefaults()
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Renderer{newSurface: newSurface, opts: opts, logger: logger.Named("report")}
}

// Render draws every section in order and returns the finished document.
func (r *Renderer) Render(data domain.ReportData, originalName, revisedName string) (*Report, error) {
	if r.newSurface == nil {
		return nil, errors.New(errors.ErrCodeReportRenderFailed, "no drawing surface configured")
	}
	generated := data.GeneratedAt
	if generated.IsZero() {
		generated = r.opts.Now()
	}
	generated = generated.UTC()

	s := r.newSurface()
	c := newCanvas(s)
	p := &painter{c: c, opts: r.opts, data: data, generated: generated}

	p.titleBlock()
	p.documentInfo(originalName, revisedName)
	p.executiveSummary()
	p.statCards()
	p.riskAssessment()
	p.keyChanges()
	p.allChanges()
	p.detailedChanges()
	p.recommendations()
	p.impactChart()
	pages := p.footers()

	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeReportRenderFailed, "failed to write report")
	}

	r.logger.Debug("report rendered",
		logging.String("run_id", data.RunID),
		logging.Int("pages", pages),
		logging.Int("bytes", buf.Len()),
	)
	return &Report{
		FileName:    ReportFileName(generated),
		Pages:       pages,
		GeneratedAt: generated,
		data:        buf.Bytes(),
	}, nil
}

// painter holds the per-report state while sections are drawn.
type painter struct {
	c         *canvas
	opts      RenderOptions
	data      domain.ReportData
	generated time.Time
}

func (p *painter) titleBlock() {
	c, s := p.c, p.c.s
	s.SetFont(FontBold, fontTitle)
	s.SetTextColor(colorPrimary)
	lh := s.LineHeight()
	y := s.Y()
	s.Text(c.left, y, c.width, lh, p.opts.Title, AlignLeft)
	s.SetY(y + lh + 1)

	sub := "Generated " + p.generated.Format("January 2, 2006 15:04 MST")
	if p.data.RunID != "" {
		sub += "  |  Run " + p.data.RunID
	}
	c.paragraph(c.left, c.width, sub, FontRegular, fontSmall, colorMuted)

	s.SetDrawColor(colorPrimary)
	y = s.Y() + 1
	s.Line(c.left, y, c.left+c.width, y)
	s.SetY(y + sectionGap)
}

func (p *painter) documentInfo(originalName, revisedName string) {
	c, s := p.c, p.c.s
	rows := [][2]string{
		{"Original document", describeDocument(originalName, p.data.Original)},
		{"Revised document", describeDocument(revisedName, p.data.Revised)},
	}
	labelW := 38.0
	valueW := c.width - labelW - 8
	height := 6.0
	wrapped := make([][]string, len(rows))
	for i, row := range rows {
		lines, h := c.measure(row[1], valueW, FontRegular, fontBody)
		wrapped[i] = lines
		height += h + 1
	}
	c.ensure(height + sectionGap)

	y := s.Y()
	s.SetFillColor(colorInfoBg)
	s.SetDrawColor(colorPrimary)
	s.RoundedRect(c.left, y, c.width, height, 2, DrawFillStroke)

	s.SetFont(FontRegular, fontBody)
	lh := s.LineHeight()
	cy := y + 3
	for i, row := range rows {
		s.SetFont(FontBold, fontBody)
		s.SetTextColor(colorText)
		s.Text(c.left+4, cy, labelW, lh, row[0]+":", AlignLeft)
		s.SetFont(FontRegular, fontBody)
		for j, line := range wrapped[i] {
			s.Text(c.left+4+labelW, cy+float64(j)*lh, valueW, lh, line, AlignLeft)
		}
		cy += float64(len(wrapped[i]))*lh + 1
	}
	s.SetY(y + height + sectionGap)
}

func describeDocument(name string, info domain.DocumentInfo) string {
	if name == "" {
		name = info.Name
	}
	if name == "" {
		name = "Untitled document"
	}
	if info.Metadata.Title != "" && info.Metadata.Title != name {
		name += " (" + info.Metadata.Title + ")"
	}
	if n := info.Metadata.NumPages; n > 0 {
		name += fmt.Sprintf(", %d %s", n, plural(n, "page", "pages"))
	}
	return name
}

func (p *painter) executiveSummary() {
	c := p.c
	ins := p.data.Insights
	c.heading("Executive Summary", 30)
	c.paragraph(c.left, c.width, ins.Summary.Description, FontRegular, fontBody, colorText)
	c.advance(1)
	risk := fmt.Sprintf("Overall risk level: %s (score %d/100).",
		strings.ToUpper(string(ins.RiskAssessment.Level)), ins.RiskAssessment.Score)
	if ins.ImpactAnalysis.PrimaryConcern != "" && ins.ImpactAnalysis.Overall > 0 {
		risk += " Primary area of impact: " + titleCase(ins.ImpactAnalysis.PrimaryConcern) + "."
	}
	c.paragraph(c.left, c.width, risk, FontRegular, fontBody, colorText)
	c.advance(sectionGap - 2)
}

func (p *painter) statCards() {
	c, s := p.c, p.c.s
	sum := p.data.Result.Summary
	cards := []struct {
		label string
		value int
		fg    Color
		bg    Color
	}{
		{"Total changes", sum.TotalChanges, colorPrimary, colorInfoBg},
		{"Additions", sum.Added, colorGreen, colorGreenBg},
		{"Removals", sum.Removed, colorRed, colorRedBg},
		{"Modifications", sum.Modified, colorAmber, colorAmberBg},
	}
	const gap, height = 4.0, 22.0
	c.ensure(height + sectionGap)
	w := (c.width - gap*float64(len(cards)-1)) / float64(len(cards))
	y := s.Y()
	for i, card := range cards {
		x := c.left + float64(i)*(w+gap)
		s.SetFillColor(card.bg)
		s.SetDrawColor(card.fg)
		s.RoundedRect(x, y, w, height, 2, DrawFillStroke)
		s.SetFont(FontBold, 18)
		s.SetTextColor(card.fg)
		s.Text(x, y+3, w, 9, fmt.Sprintf("%d", card.value), AlignCenter)
		s.SetFont(FontRegular, fontSmall)
		s.SetTextColor(colorMuted)
		s.Text(x, y+14, w, 5, card.label, AlignCenter)
	}
	s.SetY(y + height + sectionGap)
}

func riskColors(level domain.RiskLevel) (fg, bg Color) {
	switch level {
	case domain.RiskHigh:
		return colorRed, colorRedBg
	case domain.RiskMedium:
		return colorAmber, colorAmberBg
	default:
		return colorGreen, colorGreenBg
	}
}

func (p *painter) riskAssessment() {
	c, s := p.c, p.c.s
	risk := p.data.Insights.RiskAssessment
	fg, bg := riskColors(risk.Level)

	c.heading("Risk Assessment", 40)
	const height = 18.0
	c.ensure(height + 4)
	y := s.Y()
	s.SetFillColor(bg)
	s.SetDrawColor(fg)
	s.RoundedRect(c.left, y, c.width, height, 2, DrawFillStroke)
	s.SetFont(FontBold, 12)
	s.SetTextColor(fg)
	s.Text(c.left+4, y+3, c.width-8, 6, "Risk level: "+strings.ToUpper(string(risk.Level)), AlignLeft)
	s.SetFont(FontRegular, fontBody)
	s.SetTextColor(colorText)
	s.Text(c.left+4, y+10, c.width-8, 5, fmt.Sprintf("Risk score: %d/100", risk.Score), AlignLeft)

	barW := 60.0
	barX := c.left + c.width - barW - 4
	s.SetFillColor(colorWhite)
	s.Rect(barX, y+11, barW, 3, DrawFill)
	s.SetFillColor(fg)
	s.Rect(barX, y+11, barW*float64(clampPercent(risk.Score))/100, 3, DrawFill)
	s.SetY(y + height + 3)

	if len(risk.Factors) == 0 {
		c.notice("No significant risk factors identified.")
	}
	for _, f := range risk.Factors {
		c.paragraph(c.left+4, c.width-4, "• "+f, FontRegular, fontBody, colorText)
	}
	c.advance(sectionGap)
}

func changeLabel(t domain.ChangeType) string {
	switch t {
	case domain.ChangeAdded:
		return "Added"
	case domain.ChangeRemoved:
		return "Removed"
	case domain.ChangeModified:
		return "Modified"
	}
	return string(t)
}

func changeColor(t domain.ChangeType) Color {
	switch t {
	case domain.ChangeAdded:
		return colorGreen
	case domain.ChangeRemoved:
		return colorRed
	case domain.ChangeModified:
		return colorAmber
	}
	return colorText
}

// describeChange is the one-line summary used in tables.
func describeChange(ch domain.ChangeRecord) string {
	switch ch.Type {
	case domain.ChangeModified:
		return fmt.Sprintf("\"%s\" changed to \"%s\"", ch.OldContent, ch.NewContent)
	default:
		return ch.Text()
	}
}

func importanceColor(i domain.Importance) Color {
	switch i {
	case domain.ImportanceHigh:
		return colorRed
	case domain.ImportanceMedium:
		return colorAmber
	}
	return colorMuted
}

func (p *painter) keyChanges() {
	c := p.c
	kc := p.data.KeyChanges
	c.heading("Key Changes by Category", 40)
	if kc.Total() == 0 {
		c.notice("No changes were detected between the documents.")
		c.advance(sectionGap)
		return
	}
	limit := p.opts.MaxKeyChangesPerCategory
	for _, cat := range domain.AllCategories {
		items := kc[cat]
		if len(items) == 0 {
			continue
		}
		c.ensure(30)
		imp := domain.ImportanceOf(cat)
		c.paragraph(c.left, c.width,
			fmt.Sprintf("%s (%d) - %s importance", cat.Label(), len(items), strings.ToUpper(string(imp))),
			FontBold, 11, importanceColor(imp))
		c.advance(1)

		t := c.newTable(
			column{title: "#", width: 10, align: AlignLeft},
			column{title: "Type", width: 22, align: AlignLeft},
			column{title: "Change", align: AlignLeft},
			column{title: "Line", width: 14, align: AlignRight},
		)
		t.header()
		for i, item := range items {
			if i == limit {
				break
			}
			t.row([]string{
				fmt.Sprintf("%d", item.ID),
				changeLabel(item.Type),
				describeChange(item.ChangeRecord),
				fmt.Sprintf("%d", item.LineNumber),
			}, changeColor(item.Type), i%2 == 1)
		}
		c.advance(1)
		if len(items) > limit {
			c.notice(overflowNotice(limit, len(items), "changes in this category"))
		}
		c.advance(3)
	}
	c.advance(sectionGap - 3)
}

func overflowNotice(shown, total int, what string) string {
	return fmt.Sprintf("Showing %d of %d %s. Download the full report for the complete list.", shown, total, what)
}

func (p *painter) allChanges() {
	c := p.c
	changes := p.data.Result.Changes
	c.heading("All Changes", 40)
	if len(changes) == 0 {
		c.notice("No changes were detected between the documents.")
		c.advance(sectionGap)
		return
	}
	t := c.newTable(
		column{title: "#", width: 10, align: AlignLeft},
		column{title: "Type", width: 22, align: AlignLeft},
		column{title: "Line", width: 14, align: AlignRight},
		column{title: "Confidence", width: 22, align: AlignRight},
		column{title: "Content", align: AlignLeft},
	)
	t.header()
	limit := p.opts.MaxAllChanges
	for i, ch := range changes {
		if i == limit {
			break
		}
		t.row([]string{
			fmt.Sprintf("%d", ch.ID),
			changeLabel(ch.Type),
			fmt.Sprintf("%d", ch.LineNumber),
			fmt.Sprintf("%.0f%%", ch.Confidence*100),
			describeChange(ch),
		}, changeColor(ch.Type), i%2 == 1)
	}
	c.advance(1)
	if len(changes) > limit {
		c.notice(overflowNotice(limit, len(changes), "changes"))
	}
	c.advance(sectionGap)
}

func (p *painter) detailedChanges() {
	c, s := p.c, p.c.s
	changes := p.data.Result.Changes
	if len(changes) == 0 {
		return
	}
	c.heading("Detailed Changes", 50)
	limit := p.opts.MaxDetailedChanges
	for i, ch := range changes {
		if i == limit {
			break
		}
		boxes := detailBoxes(ch)
		s.SetFont(FontBold, 11)
		need := s.LineHeight() + 1
		for _, b := range boxes {
			_, h := c.measure(b.text, c.width-8, FontRegular, fontBody)
			need += h + boxPad
		}
		c.fit(need, 30)

		header := fmt.Sprintf("Change %d: %s", ch.ID, changeLabel(ch.Type))
		if ch.LineNumber > 0 {
			header += fmt.Sprintf(" (line %d)", ch.LineNumber)
		}
		header += fmt.Sprintf(" - confidence %.0f%%", ch.Confidence*100)
		c.paragraph(c.left, c.width, header, FontBold, 11, changeColor(ch.Type))
		c.advance(1)

		for _, b := range boxes {
			c.box(b.label, b.text, b.fg, b.bg)
		}
		if ch.Context != "" && ch.Type != domain.ChangeModified {
			c.paragraph(c.left, c.width, "Context: "+ch.Context, FontItalic, fontSmall, colorMuted)
		}
		c.advance(3)
	}
	if len(changes) > limit {
		c.notice(overflowNotice(limit, len(changes), "changes in detail"))
	}
	c.advance(sectionGap)
}

type detailBox struct {
	label string
	text  string
	fg    Color
	bg    Color
}

// detailBoxes picks the split old/new layout for modifications and a single
// content box otherwise.
func detailBoxes(ch domain.ChangeRecord) []detailBox {
	switch ch.Type {
	case domain.ChangeModified:
		return []detailBox{
			{label: "Original text", text: ch.OldContent, fg: colorRed, bg: colorRedBg},
			{label: "Revised text", text: ch.NewContent, fg: colorGreen, bg: colorGreenBg},
		}
	case domain.ChangeRemoved:
		return []detailBox{{label: "Removed text", text: ch.Text(), fg: colorRed, bg: colorRedBg}}
	default:
		return []detailBox{{label: "Added text", text: ch.Text(), fg: colorGreen, bg: colorGreenBg}}
	}
}

func (p *painter) recommendations() {
	c := p.c
	recs := p.data.Insights.Recommendations
	c.heading("Recommendations", 35)
	if len(recs) == 0 {
		c.notice("No specific recommendations. Review the changes as part of a standard contract review.")
		c.advance(sectionGap)
		return
	}
	for _, rec := range recs {
		c.ensure(16)
		color := colorAmber
		if rec.Priority == domain.PriorityHigh {
			color = colorRed
		}
		c.paragraph(c.left, c.width,
			fmt.Sprintf("[%s] %s", strings.ToUpper(string(rec.Priority)), rec.Title),
			FontBold, fontBody, color)
		c.paragraph(c.left+4, c.width-4, rec.Text, FontRegular, fontBody, colorText)
		c.advance(3)
	}
	c.advance(sectionGap - 3)
}

func (p *painter) impactChart() {
	c, s := p.c, p.c.s
	impact := p.data.Insights.ImpactAnalysis
	axes := []struct {
		label string
		score int
	}{
		{"Financial", impact.Financial},
		{"Legal", impact.Legal},
		{"Operational", impact.Operational},
		{"Timeline", impact.Timeline},
	}
	const rowH, labelW, valueW = 10.0, 32.0, 16.0
	c.heading("Impact Analysis", float64(len(axes))*rowH+20)
	barW := c.width - labelW - valueW
	for _, axis := range axes {
		c.ensure(rowH)
		y := s.Y()
		s.SetFont(FontRegular, fontBody)
		s.SetTextColor(colorText)
		s.Text(c.left, y, labelW, 6, axis.label, AlignLeft)
		s.SetFillColor(colorPanel)
		s.Rect(c.left+labelW, y+1, barW, 4, DrawFill)
		if pct := clampPercent(axis.score); pct > 0 {
			s.SetFillColor(scoreColor(axis.score))
			s.Rect(c.left+labelW, y+1, barW*float64(pct)/100, 4, DrawFill)
		}
		s.Text(c.left+labelW+barW, y, valueW, 6, fmt.Sprintf("%d", axis.score), AlignRight)
		s.SetY(y + rowH)
	}
	if impact.Overall > 0 {
		c.paragraph(c.left, c.width,
			fmt.Sprintf("Overall impact %d, primarily %s.", impact.Overall, impact.PrimaryConcern),
			FontItalic, fontSmall, colorMuted)
	}
}

// footers stamps every page with its number and returns the page count.
func (p *painter) footers() int {
	c, s := p.c, p.c.s
	n := s.PageCount()
	_, ph := s.PageSize()
	for i := 1; i <= n; i++ {
		s.SetPage(i)
		y := ph - 12
		s.SetDrawColor(colorBorder)
		s.Line(c.left, y, c.left+c.width, y)
		s.SetFont(FontRegular, fontSmall)
		s.SetTextColor(colorMuted)
		s.Text(c.left, y+1.5, c.width/2, 5, "ClauseLens comparison report, "+p.generated.Format("2006-01-02"), AlignLeft)
		s.Text(c.left+c.width/2, y+1.5, c.width/2, 5, fmt.Sprintf("Page %d of %d", i, n), AlignRight)
	}
	s.SetPage(n)
	return n
}

func scoreColor(score int) Color {
	switch {
	case score > 50:
		return colorRed
	case score > 25:
		return colorAmber
	default:
		return colorGreen
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
