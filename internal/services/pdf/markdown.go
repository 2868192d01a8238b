package pdf

import (
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

type rgb struct{ r, g, b int }

// pageStyle holds the A4 layout and the palette shared with the HTML pack
type pageStyle struct {
	marginLeft   float64
	contentWidth float64
	pageBottom   float64
	lineHeight   float64
	bodyFont     string
	bodySize     float64
	monoFont     string
	headingSizes []float64 // index 0 is level 1
	accent       rgb
	text         rgb
	muted        rgb
	codeFill     rgb
	headerFill   rgb
}

var defaultPageStyle = pageStyle{
	marginLeft:   15,
	contentWidth: 180,
	pageBottom:   297 - 15,
	lineHeight:   5,
	bodyFont:     "Arial",
	bodySize:     10,
	monoFont:     "Courier",
	headingSizes: []float64{16, 13, 11.5, 10.5},
	accent:       rgb{102, 126, 234},
	text:         rgb{51, 51, 51},
	muted:        rgb{108, 117, 125},
	codeFill:     rgb{245, 245, 245},
	headerFill:   rgb{232, 236, 252},
}

const (
	tableFontSize   = 8.0
	tableLineHeight = 4.0
	tableMaxLines   = 8
	tableMinCol     = 12.0
	cellPadding     = 2.0
)

// listState tracks one level of list nesting
type listState struct {
	ordered bool
	next    int
}

// pdfRenderer walks a goldmark AST and draws it onto an fpdf document
type pdfRenderer struct {
	pdf    *fpdf.Fpdf
	source []byte
	tr     func(string) string
	logger arbor.ILogger
	style  pageStyle

	bold   bool
	italic bool
	quote  int
	lists  []listState
}

func newPDFRenderer(doc *fpdf.Fpdf, source []byte, tr func(string) string, logger arbor.ILogger) *pdfRenderer {
	r := &pdfRenderer{
		pdf:    doc,
		source: source,
		tr:     tr,
		logger: logger,
		style:  defaultPageStyle,
	}
	r.resetFont()
	return r
}

func (r *pdfRenderer) render(node ast.Node) error {
	return ast.Walk(node, r.walk)
}

func (r *pdfRenderer) setColor(c rgb) {
	r.pdf.SetTextColor(c.r, c.g, c.b)
}

// resetFont restores the body font with the current emphasis
func (r *pdfRenderer) resetFont() {
	style := ""
	if r.bold {
		style += "B"
	}
	if r.italic || r.quote > 0 {
		style += "I"
	}
	r.pdf.SetFont(r.style.bodyFont, style, r.style.bodySize)
	if r.quote > 0 {
		r.setColor(r.style.muted)
	} else {
		r.setColor(r.style.text)
	}
}

func (r *pdfRenderer) write(s string) {
	r.pdf.Write(r.style.lineHeight, r.tr(s))
}

func (r *pdfRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		r.heading(node, entering)
	case *ast.Paragraph:
		if !entering {
			r.pdf.Ln(r.style.lineHeight + 2)
		}
	case *ast.Text:
		if entering {
			r.write(string(node.Segment.Value(r.source)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				r.write(" ")
			}
		}
	case *ast.Emphasis:
		if node.Level >= 2 {
			r.bold = entering
		} else {
			r.italic = entering
		}
		r.resetFont()
	case *ast.CodeSpan:
		if entering {
			r.pdf.SetFont(r.style.monoFont, "", r.style.bodySize-1)
			r.write(string(node.Text(r.source)))
			r.resetFont()
		}
		return ast.WalkSkipChildren, nil
	case *ast.FencedCodeBlock:
		if entering {
			r.codeBlock(node.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.CodeBlock:
		if entering {
			r.codeBlock(node.Lines())
		}
		return ast.WalkSkipChildren, nil
	case *ast.Blockquote:
		if entering {
			r.quote++
		} else {
			r.quote--
		}
		r.resetFont()
	case *ast.List:
		r.list(node, entering)
	case *ast.ListItem:
		if entering {
			r.listItem()
		}
	case *ast.ThematicBreak:
		if entering {
			y := r.pdf.GetY() + 2
			r.pdf.SetDrawColor(r.style.muted.r, r.style.muted.g, r.style.muted.b)
			r.pdf.Line(r.style.marginLeft, y, r.style.marginLeft+r.style.contentWidth, y)
			r.pdf.Ln(4)
		}
	case *ast.Image:
		if entering {
			r.pdf.SetFont(r.style.bodyFont, "I", r.style.bodySize)
			r.setColor(r.style.muted)
			r.write("[image: " + string(node.Text(r.source)) + "]")
			r.resetFont()
		}
		return ast.WalkSkipChildren, nil
	case *ast.Link:
		if entering {
			r.setColor(r.style.accent)
			r.pdf.WriteLinkString(r.style.lineHeight, r.tr(string(node.Text(r.source))), string(node.Destination))
			r.resetFont()
		}
		return ast.WalkSkipChildren, nil
	case *ast.AutoLink:
		if entering {
			url := string(node.URL(r.source))
			r.setColor(r.style.accent)
			r.pdf.WriteLinkString(r.style.lineHeight, r.tr(url), url)
			r.resetFont()
		}
		return ast.WalkSkipChildren, nil
	case *extast.Table:
		if entering {
			r.table(collectRows(node, r.source, r.tr))
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (r *pdfRenderer) heading(n *ast.Heading, entering bool) {
	if !entering {
		r.pdf.Ln(r.style.lineHeight + 3)
		r.resetFont()
		return
	}
	sizes := r.style.headingSizes
	size := sizes[len(sizes)-1]
	if n.Level-1 < len(sizes) {
		size = sizes[n.Level-1]
	}
	r.pdf.Ln(4)
	r.pdf.SetFont(r.style.bodyFont, "B", size)
	if n.Level <= 2 {
		r.setColor(r.style.accent)
	} else {
		r.setColor(r.style.text)
	}
}

func (r *pdfRenderer) codeBlock(lines *text.Segments) {
	r.pdf.Ln(2)
	r.pdf.SetFont(r.style.monoFont, "", r.style.bodySize-1)
	r.setColor(r.style.text)
	r.pdf.SetFillColor(r.style.codeFill.r, r.style.codeFill.g, r.style.codeFill.b)
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		r.pdf.MultiCell(0, r.style.lineHeight, r.tr(strings.TrimRight(string(line.Value(r.source)), "\r\n")), "", "L", true)
	}
	r.pdf.SetFillColor(255, 255, 255)
	r.resetFont()
	r.pdf.Ln(2)
}

func (r *pdfRenderer) list(n *ast.List, entering bool) {
	if entering {
		start := n.Start
		if start == 0 {
			start = 1
		}
		r.lists = append(r.lists, listState{ordered: n.IsOrdered(), next: start})
		return
	}
	r.lists = r.lists[:len(r.lists)-1]
	if len(r.lists) == 0 {
		r.pdf.Ln(r.style.lineHeight)
	}
}

// listItem starts a new line indented by nesting depth and writes the marker
func (r *pdfRenderer) listItem() {
	if len(r.lists) == 0 {
		return
	}
	r.pdf.Ln(r.style.lineHeight)
	r.pdf.SetX(r.style.marginLeft + float64(len(r.lists))*5)

	top := &r.lists[len(r.lists)-1]
	marker := "- "
	if top.ordered {
		marker = strconv.Itoa(top.next) + ". "
		top.next++
	}
	r.write(marker)
}

// collectRows flattens a table into header and body rows of cell text
func collectRows(table *extast.Table, source []byte, tr func(string) string) [][]string {
	var rows [][]string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		switch row.(type) {
		case *extast.TableHeader, *extast.TableRow:
		default:
			continue
		}
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if _, ok := cell.(*extast.TableCell); ok {
				cells = append(cells, tr(string(cell.Text(source))))
			}
		}
		rows = append(rows, cells)
	}
	return rows
}

// table draws bordered rows with wrapped cells. The first row is the header.
func (r *pdfRenderer) table(rows [][]string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}
	cols := len(rows[0])
	widths := r.columnWidths(rows, cols)

	r.pdf.Ln(2)
	r.setColor(r.style.text)
	left := r.pdf.GetX()

	for i, row := range rows {
		header := i == 0
		if header {
			r.pdf.SetFont(r.style.bodyFont, "B", tableFontSize)
		} else {
			r.pdf.SetFont(r.style.bodyFont, "", tableFontSize)
		}

		wrapped := make([][]string, cols)
		lines := 1
		for j := 0; j < cols && j < len(row); j++ {
			wrapped[j] = r.wrapWords(row[j], widths[j]-cellPadding)
			lines = max(lines, len(wrapped[j]))
		}
		lines = min(lines, tableMaxLines)
		height := float64(lines)*tableLineHeight + cellPadding

		top := r.pdf.GetY()
		if top+height > r.style.pageBottom {
			r.pdf.AddPage()
			top = r.pdf.GetY()
		}

		x := left
		for j := 0; j < cols; j++ {
			if header {
				r.pdf.SetFillColor(r.style.headerFill.r, r.style.headerFill.g, r.style.headerFill.b)
				r.pdf.Rect(x, top, widths[j], height, "FD")
			} else {
				r.pdf.Rect(x, top, widths[j], height, "D")
			}
			r.cellLines(wrapped[j], x+cellPadding/2, top+cellPadding/2, widths[j]-cellPadding, lines)
			x += widths[j]
		}
		r.pdf.SetXY(left, top+height)
	}

	r.pdf.SetFillColor(255, 255, 255)
	r.pdf.Ln(3)
	r.resetFont()
}

// cellLines writes up to maxLines wrapped lines, ending with an ellipsis when cut
func (r *pdfRenderer) cellLines(lines []string, x, y, width float64, maxLines int) {
	for i, line := range lines {
		if i == maxLines {
			break
		}
		if i == maxLines-1 && len(lines) > maxLines {
			runes := []rune(line)
			for len(runes) > 0 && r.pdf.GetStringWidth(string(runes)+"...") > width {
				runes = runes[:len(runes)-1]
			}
			line = string(runes) + "..."
		}
		r.pdf.SetXY(x, y+float64(i)*tableLineHeight)
		r.pdf.CellFormat(width, tableLineHeight, line, "", 0, "L", false, 0, "")
	}
}

// columnWidths sizes columns to their widest cell, clamped and scaled to the content width
func (r *pdfRenderer) columnWidths(rows [][]string, cols int) []float64 {
	total := r.style.contentWidth
	widths := make([]float64, cols)

	for i, row := range rows {
		if i == 0 {
			r.pdf.SetFont(r.style.bodyFont, "B", tableFontSize)
		} else {
			r.pdf.SetFont(r.style.bodyFont, "", tableFontSize)
		}
		for j := 0; j < cols && j < len(row); j++ {
			widths[j] = max(widths[j], r.pdf.GetStringWidth(row[j])+2*cellPadding)
		}
	}

	sum := 0.0
	for j := range widths {
		widths[j] = min(max(widths[j], tableMinCol), total/3)
		sum += widths[j]
	}

	var scale float64
	switch {
	case sum > total:
		scale = total / sum
	case sum < total*0.9:
		scale = min(total*0.95/sum, 1.5)
	default:
		return widths
	}
	for j := range widths {
		widths[j] = max(widths[j]*scale, tableMinCol*0.8)
	}
	return widths
}

// wrapWords breaks text into lines no wider than width in the current font
func (r *pdfRenderer) wrapWords(s string, width float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	space := r.pdf.GetStringWidth(" ")

	var lines []string
	line := words[0]
	lineWidth := r.pdf.GetStringWidth(line)
	for _, word := range words[1:] {
		w := r.pdf.GetStringWidth(word)
		if lineWidth+space+w <= width {
			line += " " + word
			lineWidth += space + w
			continue
		}
		lines = append(lines, line)
		line, lineWidth = word, w
	}
	return append(lines, line)
}
