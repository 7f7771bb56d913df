// Package producer implements the Character Producer contract consumed
// by the core pipeline (spec.md §6): `produce(pdfBytes) → Document`
// with Pages populated with Characters/Figures/Shapes and Font/Color
// registries, failing with ParseError on malformed PDF and IOError
// otherwise.
//
// Grounded on the teacher's extract.go (ExtractPage,
// extractEnrichedChars's per-character pdfium calls; glyph text is passed
// through as pdfium reports it, with no ligature expansion or CJK
// de-duplication) and lines.go
// (extractLinesFromPage's path-object walk, generalized from
// "classify as a ruling line or drop" to "classify as Shape, or as
// Figure for image objects"), using github.com/klippa-app/go-pdfium
// exactly as the teacher does.
package producer

import (
	"math"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"

	"github.com/pdflayout/pdflayout"
	"github.com/pdflayout/pdflayout/internal/errs"
)

// Pool wraps the pdfium worker pool lifetime, mirroring the teacher's
// example/main.go webassembly.Init/pool.GetInstance/pool.Close dance.
type Pool struct {
	pool pdfium.Pool
}

// OpenPool initializes a single-instance pdfium pool, sufficient for a
// CLI run (the teacher's example/main.go uses MinIdle/MaxIdle/MaxTotal
// all set to 1).
func OpenPool() (*Pool, error) {
	pool, err := webassembly.Init(webassembly.Config{MinIdle: 1, MaxIdle: 1, MaxTotal: 1})
	if err != nil {
		return nil, errs.IOError("failed to initialize pdfium", err)
	}
	return &Pool{pool: pool}, nil
}

// Close releases the pool.
func (p *Pool) Close() error { return p.pool.Close() }

// Produce implements the Character Producer contract: it opens pdfBytes,
// extracts every page in [startPage, endPage] (0-indexed, endPage<0
// meaning "last page"), and returns the populated Document.
func (p *Pool) Produce(pdfBytes []byte, startPage, endPage int) (pdflayout.Document, error) {
	instance, err := p.pool.GetInstance(30 * time.Second)
	if err != nil {
		return pdflayout.Document{}, errs.IOError("failed to acquire pdfium instance", err)
	}

	doc, err := instance.OpenDocument(&requests.OpenDocument{File: &pdfBytes})
	if err != nil {
		return pdflayout.Document{}, errs.ParseError("failed to open PDF document", err)
	}
	defer instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})

	pageCountResp, err := instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{Document: doc.Document})
	if err != nil {
		return pdflayout.Document{}, errs.ParseError("failed to get page count", err)
	}
	pageCount := pageCountResp.PageCount

	if startPage < 0 {
		startPage = 0
	}
	if endPage < 0 || endPage >= pageCount {
		endPage = pageCount - 1
	}

	registry := newRegistry()
	var pages []pdflayout.Page
	for i := startPage; i <= endPage; i++ {
		page, err := extractPage(instance, doc.Document, i, registry)
		if err != nil {
			return pdflayout.Document{}, errs.ParseError("failed to extract page", err)
		}
		pages = append(pages, page)
	}

	if len(pages) == 0 {
		return pdflayout.Document{}, errs.EmptyInput("document contains no pages in range")
	}

	return pdflayout.Document{
		Pages:  pages,
		Fonts:  registry.fonts(),
		Colors: registry.colors(),
	}, nil
}

func extractPage(instance pdfium.Pdfium, docRef references.FPDF_DOCUMENT, index int, registry *registry) (pdflayout.Page, error) {
	pageResp, err := instance.FPDF_LoadPage(&requests.FPDF_LoadPage{Document: docRef, Index: index})
	if err != nil {
		return pdflayout.Page{}, err
	}
	defer instance.FPDF_ClosePage(&requests.FPDF_ClosePage{Page: pageResp.Page})

	widthResp, err := instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{Page: requests.Page{ByReference: &pageResp.Page}})
	if err != nil {
		return pdflayout.Page{}, err
	}
	heightResp, err := instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{Page: requests.Page{ByReference: &pageResp.Page}})
	if err != nil {
		return pdflayout.Page{}, err
	}
	pageHeight := float64(heightResp.PageHeight)
	pageNumber := index + 1

	characters, err := extractCharacters(instance, pageResp.Page, pageNumber, pageHeight, registry)
	if err != nil {
		return pdflayout.Page{}, err
	}

	figures, shapes, err := extractFiguresAndShapes(instance, pageResp.Page, pageNumber, pageHeight)
	if err != nil {
		figures, shapes = nil, nil // non-fatal: page still has its characters
	}

	return pdflayout.Page{
		Number:     pageNumber,
		Width:      float64(widthResp.PageWidth),
		Height:     pageHeight,
		Characters: characters,
		Figures:    figures,
		Shapes:     shapes,
	}, nil
}

func extractCharacters(instance pdfium.Pdfium, page references.FPDF_PAGE, pageNumber int, pageHeight float64, registry *registry) ([]pdflayout.Character, error) {
	textPageResp, err := instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{Page: requests.Page{ByReference: &page}})
	if err != nil {
		return nil, err
	}
	defer instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{TextPage: textPageResp.TextPage})

	countResp, err := instance.FPDFText_CountChars(&requests.FPDFText_CountChars{TextPage: textPageResp.TextPage})
	if err != nil {
		return nil, err
	}

	chars := make([]pdflayout.Character, 0, countResp.Count)
	for i := 0; i < countResp.Count; i++ {
		unicodeResp, err := instance.FPDFText_GetUnicode(&requests.FPDFText_GetUnicode{TextPage: textPageResp.TextPage, Index: i})
		if err != nil || unicodeResp.Unicode == 0 {
			continue
		}

		boxResp, err := instance.FPDFText_GetCharBox(&requests.FPDFText_GetCharBox{TextPage: textPageResp.TextPage, Index: i})
		if err != nil {
			continue
		}
		box := pdflayout.Rectangle{
			MinX: boxResp.Left,
			MinY: boxResp.Bottom,
			MaxX: boxResp.Right,
			MaxY: boxResp.Top,
		}

		fontSize := 12.0
		if r, err := instance.FPDFText_GetFontSize(&requests.FPDFText_GetFontSize{TextPage: textPageResp.TextPage, Index: i}); err == nil {
			fontSize = r.FontSize
		}

		fontName := ""
		isBold, isItalic := false, false
		if r, err := instance.FPDFText_GetFontInfo(&requests.FPDFText_GetFontInfo{TextPage: textPageResp.TextPage, Index: i}); err == nil {
			fontName = r.FontName
			isBold = r.Flags&fontFlagForceBold != 0
			isItalic = r.Flags&fontFlagItalic != 0
		}
		if r, err := instance.FPDFText_GetFontWeight(&requests.FPDFText_GetFontWeight{TextPage: textPageResp.TextPage, Index: i}); err == nil {
			isBold = isBold || r.FontWeight >= 600
		}

		r, g, b := 0, 0, 0
		if c, err := instance.FPDFText_GetFillColor(&requests.FPDFText_GetFillColor{TextPage: textPageResp.TextPage, Index: i}); err == nil {
			r, g, b = c.R, c.G, c.B
		}

		rotation := 0.0
		if a, err := instance.FPDFText_GetCharAngle(&requests.FPDFText_GetCharAngle{TextPage: textPageResp.TextPage, Index: i}); err == nil {
			rotation = radiansToDegrees(float64(a.CharAngle))
		}

		font := registry.internFont(fontName, isBold, isItalic)
		color := registry.internColor(r, g, b)

		chars = append(chars, pdflayout.Character{
			Page:     pageNumber,
			Box:      box,
			Face:     pdflayout.FontFace{Font: font, Size: fontSize},
			Color:    color,
			Text:     string(rune(unicodeResp.Unicode)),
			Baseline: box.MinY,
			Rotation: rotation,
		})
	}
	return chars, nil
}

// fontFlagForceBold/fontFlagItalic mirror the PDF font descriptor flag
// bits pdfium surfaces via FPDFText_GetFontInfo (1-based bit 19 =
// ForceBold, bit 7 = Italic), the same bits the teacher's FontFlagsVal carries through
// unused; this is the first consumer.
const (
	fontFlagForceBold = 1 << 18
	fontFlagItalic    = 1 << 6
)

func radiansToDegrees(rad float64) float64 { return rad * 180 / math.Pi }

func extractFiguresAndShapes(instance pdfium.Pdfium, page references.FPDF_PAGE, pageNumber int, pageHeight float64) ([]pdflayout.Figure, []pdflayout.Shape, error) {
	countResp, err := instance.FPDFPage_CountObjects(&requests.FPDFPage_CountObjects{Page: requests.Page{ByReference: &page}})
	if err != nil {
		return nil, nil, err
	}

	var figures []pdflayout.Figure
	var shapes []pdflayout.Shape
	for i := 0; i < countResp.Count; i++ {
		objResp, err := instance.FPDFPage_GetObject(&requests.FPDFPage_GetObject{Page: requests.Page{ByReference: &page}, Index: i})
		if err != nil {
			continue
		}
		typeResp, err := instance.FPDFPageObj_GetType(&requests.FPDFPageObj_GetType{PageObject: objResp.PageObject})
		if err != nil {
			continue
		}

		boundsResp, err := instance.FPDFPageObj_GetBounds(&requests.FPDFPageObj_GetBounds{PageObject: objResp.PageObject})
		if err != nil {
			continue
		}
		rect := pdflayout.Rectangle{
			MinX: float64(boundsResp.Left),
			MinY: float64(boundsResp.Bottom),
			MaxX: float64(boundsResp.Right),
			MaxY: float64(boundsResp.Top),
		}
		pos := pdflayout.Position{Page: pageNumber, Rectangle: rect}

		switch typeResp.Type {
		case enums.FPDF_PAGEOBJ_IMAGE:
			figures = append(figures, pdflayout.Figure{Page: pageNumber, Position: pos})
		case enums.FPDF_PAGEOBJ_PATH:
			if !isPageBorder(rect, pageNumber, pageHeight) {
				shapes = append(shapes, pdflayout.Shape{Page: pageNumber, Position: pos})
			}
		}
	}
	return figures, shapes, nil
}

// isPageBorder drops a path taller than 95% of the page height, the same
// filter the teacher's lines.go applies to avoid treating a page
// border rectangle as table-defining geometry. Only the height is
// checked; the path's width is not.
func isPageBorder(rect pdflayout.Rectangle, pageNumber int, pageHeight float64) bool {
	return rect.Height() > pageHeight*0.95
}
