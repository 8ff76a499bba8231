// Package worksheet prints the word pool of a set of letters as a PDF a
// class can use: one block per letter with its words and a dashed
// line under each word for copying.
package worksheet

import (
	"bytes"
	"errors"
	"fmt"
	"unicode"

	"github.com/jung-kurt/gofpdf/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/DoyleJ11/giftbox-letters/internal/catalog"
	"github.com/DoyleJ11/giftbox-letters/internal/engine"
)

const (
	pageW       = 595
	margin      = 48
	titleSize   = 20
	headingSize = 32
	wordSize    = 16
	lineGap     = 26.0
)

const fontFamily = "worksheet"

// Renderer turns letters into worksheet PDFs. With no FontPath the core
// Helvetica font is used and Vietnamese diacritics are folded away, since
// the core fonts have no glyphs for them.
type Renderer struct {
	Catalog  *catalog.Catalog
	FontPath string // TTF with Vietnamese coverage
	Title    string
}

func (r Renderer) Render(letters []string, lc engine.LetterCase) ([]byte, error) {
	if len(letters) == 0 {
		return nil, engine.ErrNoLetters
	}
	if r.Catalog == nil {
		return nil, errors.New("worksheet: no catalog")
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)

	family, text := "Helvetica", fold
	if r.FontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", r.FontPath)
		pdf.AddUTF8Font(fontFamily, "B", r.FontPath)
		family, text = fontFamily, func(s string) string { return s }
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("worksheet font: %w", err)
	}

	title := r.Title
	if title == "" {
		title = "Mở hộp quà - chữ cái"
	}

	pdf.AddPage()
	pdf.SetTextColor(40, 40, 40)
	pdf.SetFont(family, "B", titleSize)
	pdf.CellFormat(0, 28, text(title), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	for _, letter := range letters {
		drawLetter(pdf, family, text, letter, lc, r.Catalog)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawLetter(pdf *gofpdf.Fpdf, family string, text func(string) string, letter string, lc engine.LetterCase, cat *catalog.Catalog) {
	e, _ := cat.Lookup(letter)

	// Keep the heading together with at least its first word.
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+headingSize+lineGap*2 > pageH-margin {
		pdf.AddPage()
	}

	pdf.SetFont(family, "B", headingSize)
	pdf.SetTextColor(200, 60, 60)
	heading := engine.Uppercase.Apply(letter) + "  " + engine.Lowercase.Apply(letter)
	pdf.CellFormat(0, headingSize+4, text(heading), "B", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(family, "", wordSize)
	pdf.SetTextColor(40, 40, 40)
	if len(e.Words) == 0 {
		pdf.CellFormat(0, lineGap, "-", "", 1, "L", false, 0, "")
	}
	for _, w := range e.Words {
		if lc == engine.Uppercase {
			w = engine.Uppercase.Apply(w)
		}
		y := pdf.GetY()
		pdf.CellFormat(pageW/2-margin, lineGap, text(w), "", 0, "L", false, 0, "")
		pdf.SetDashPattern([]float64{4, 3}, 0)
		pdf.SetDrawColor(160, 160, 160)
		pdf.Line(pageW/2, y+lineGap-6, pageW-margin, y+lineGap-6)
		pdf.SetDashPattern([]float64{}, 0)
		pdf.Ln(lineGap)
	}
	pdf.Ln(12)
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold reduces Vietnamese text to what the core PDF fonts can draw. đ has
// no decomposition and is mapped by hand.
func fold(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	b := []rune(out)
	for i, r := range b {
		switch {
		case r == 'đ':
			b[i] = 'd'
		case r == 'Đ':
			b[i] = 'D'
		case r > unicode.MaxASCII:
			b[i] = '?'
		}
	}
	return string(b)
}
