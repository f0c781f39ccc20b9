package pdftext

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Link annotations arrive per page as an Annot whose Map holds the renderers;
// this keeps the traversal honest against the pdfcpu shapes we consume.
func TestLinkAnnotationTraversalShape(t *testing.T) {
	var pg model.PgAnnots = map[model.AnnotationType]model.Annot{}
	annot, ok := pg[model.AnnLink]
	if ok {
		t.Fatal("empty page annots should have no link entry")
	}
	if len(annot.Map) != 0 {
		t.Fatalf("zero-value Annot.Map should be empty, got %d", len(annot.Map))
	}
}

func TestClipTextReadingOrder(t *testing.T) {
	runs := []pdf.Text{
		{S: "outside", X: 500, Y: 500},
		{S: "section ", X: 10, Y: 100},
		{S: "3", X: 60, Y: 100},
		{S: "See ", X: 10, Y: 112},
	}
	rect := [4]float64{5, 95, 120, 115}
	got := clipText(runs, rect)
	if got != "See section 3" {
		t.Fatalf("clipText = %q, want %q", got, "See section 3")
	}
}

func TestClipTextSlack(t *testing.T) {
	runs := []pdf.Text{
		{S: "edge", X: 4.5, Y: 100}, // within the 2pt slack of x0=5
		{S: "far", X: 0, Y: 100},
	}
	rect := [4]float64{5, 95, 120, 115}
	if got := clipText(runs, rect); got != "edge" {
		t.Fatalf("clipText = %q, want %q", got, "edge")
	}
}

func TestClipTextEmptyRect(t *testing.T) {
	runs := []pdf.Text{{S: "text", X: 300, Y: 300}}
	if got := clipText(runs, [4]float64{0, 0, 10, 10}); got != "" {
		t.Fatalf("clipText = %q, want empty", got)
	}
}
