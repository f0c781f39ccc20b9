package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/legalpipe/legalpipe/constants"
)

// RichExtractor yields the MuPDF text layer plus URI link annotations with
// their rectangles. Anchor text is the native text layer clipped to the link
// rectangle; links whose rectangle covers no text keep an empty anchor.
type RichExtractor struct {
	Logger *slog.Logger
}

func NewRichExtractor(logger *slog.Logger) *RichExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RichExtractor{Logger: logger}
}

func (e *RichExtractor) Extract(ctx context.Context, pdfPath string) View {
	text, err := richText(pdfPath)
	if err != nil {
		e.Logger.Warn("pdftext.rich.text_failed", "path", pdfPath, "error", err)
		return View{Status: constants.ExtractionFailed}
	}

	links, err := linkAnnotations(pdfPath)
	if err != nil {
		// text survived; the link list is best-effort
		e.Logger.Warn("pdftext.rich.links_failed", "path", pdfPath, "error", err)
		links = nil
	}
	if len(links) > 0 {
		attachAnchors(pdfPath, links)
	}

	return View{Text: text, Status: statusFor(text), Links: links}
}

func richText(pdfPath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mupdf text: %v", r)
		}
	}()

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open mupdf: %w", err)
	}
	defer func() { _ = doc.Close() }()

	var b strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		t, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("page %d text: %w", i+1, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(t)
	}
	return b.String(), nil
}

// linkAnnotations lists URI link annotations with rectangles in PDF user space.
func linkAnnotations(pdfPath string) ([]Hyperlink, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	annots, err := api.Annotations(f, nil, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("annotations: %w", err)
	}

	pageNums := make([]int, 0, len(annots))
	for p := range annots {
		pageNums = append(pageNums, p)
	}
	sort.Ints(pageNums)

	var out []Hyperlink
	for _, p := range pageNums {
		annot, ok := annots[p][model.AnnLink]
		if !ok {
			continue
		}
		for _, renderer := range annot.Map {
			la, ok := renderer.(model.LinkAnnotation)
			if !ok {
				continue
			}
			uri := strings.TrimSpace(la.URI)
			if uri == "" {
				continue
			}
			rect := [4]float64{la.Rect.LL.X, la.Rect.LL.Y, la.Rect.UR.X, la.Rect.UR.Y}
			out = append(out, Hyperlink{URL: uri, Rect: &rect})
		}
	}
	return out, nil
}

// attachAnchors fills AnchorText for each link from the positioned native text
// runs that fall inside the link rectangle. Best effort: any failure leaves
// anchors empty.
func attachAnchors(pdfPath string, links []Hyperlink) {
	defer func() { _ = recover() }()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return
	}
	defer func() { _ = f.Close() }()

	var runs []pdf.Text
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		runs = append(runs, page.Content().Text...)
	}
	if len(runs) == 0 {
		return
	}

	for i := range links {
		if links[i].Rect == nil {
			continue
		}
		links[i].AnchorText = clipText(runs, *links[i].Rect)
	}
}

// clipText joins the text runs whose origin lies inside rect, in reading
// order. rect is [x0,y0,x1,y1] with the PDF bottom-left origin.
func clipText(runs []pdf.Text, rect [4]float64) string {
	const slack = 2.0
	var inside []pdf.Text
	for _, t := range runs {
		if t.X >= rect[0]-slack && t.X <= rect[2]+slack &&
			t.Y >= rect[1]-slack && t.Y <= rect[3]+slack {
			inside = append(inside, t)
		}
	}
	if len(inside) == 0 {
		return ""
	}
	sort.SliceStable(inside, func(i, j int) bool {
		if inside[i].Y != inside[j].Y {
			return inside[i].Y > inside[j].Y // higher on the page first
		}
		return inside[i].X < inside[j].X
	})
	var b strings.Builder
	for _, t := range inside {
		b.WriteString(t.S)
	}
	return strings.TrimSpace(b.String())
}
