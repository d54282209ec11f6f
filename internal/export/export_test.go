package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wharfline/depot/internal/label"
	"github.com/wharfline/depot/internal/models"
)

// stubRenderer draws solid squares instead of real labels and can be told
// to fail for specific barcode payloads.
type stubRenderer struct {
	spec   label.Spec
	failOn map[string]bool
}

func newStubRenderer() *stubRenderer {
	return &stubRenderer{
		spec:   label.Spec{WidthMM: 150, HeightMM: 108, DPI: 10, Supersample: 1},
		failOn: map[string]bool{},
	}
}

func (r *stubRenderer) Spec() label.Spec { return r.spec }

func (r *stubRenderer) Bounds() (int, int) { return r.spec.TargetBounds() }

func (r *stubRenderer) Render(c label.Content) (*image.RGBA, error) {
	if r.failOn[c.BarcodePayload] {
		return nil, fmt.Errorf("no glyphs for %q", c.BarcodePayload)
	}
	w, h := r.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img, nil
}

func newTestExporter(t *testing.T, r Renderer) *Exporter {
	t.Helper()
	e, err := New(Options{
		Renderer:   r,
		OutDir:     t.TempDir(),
		ImageDelay: time.Millisecond,
		PDFDelay:   time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func testItems(n int) []Item {
	load := models.Load{ID: "STS2990", Company: "Cardinal Maritime"}
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, Item{
			Load: load,
			Shipment: models.Shipment{
				ID:       fmt.Sprintf("ship-%d", i+1),
				LoadID:   load.ID,
				StsJob:   10001 + i,
				Quantity: 10,
				Importer: "ImpAlpha Co",
				Exporter: "ExpBeta Ltd",
			},
		})
	}
	return items
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Options{OutDir: "out"}); err == nil {
		t.Error("missing renderer accepted")
	}
	if _, err := New(Options{Renderer: newStubRenderer()}); err == nil {
		t.Error("missing output directory accepted")
	}
}

func TestExportImages(t *testing.T) {
	e := newTestExporter(t, newStubRenderer())

	res, err := e.ExportImages(context.Background(), "STS2990", testItems(3))
	if err != nil {
		t.Fatalf("ExportImages: %v", err)
	}
	if len(res.Failures) != 0 {
		t.Fatalf("failures = %+v", res.Failures)
	}
	want := []string{
		"label-STS2990-10001.png",
		"label-STS2990-10002.png",
		"label-STS2990-10003.png",
	}
	if len(res.Artifacts) != len(want) {
		t.Fatalf("artifacts = %v", res.Artifacts)
	}
	for i, path := range res.Artifacts {
		if filepath.Base(path) != want[i] {
			t.Errorf("artifact %d = %q, want %q", i, filepath.Base(path), want[i])
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("artifact missing: %v", err)
		}
	}
}

func TestExportImages_FailureContinuesBatch(t *testing.T) {
	r := newStubRenderer()
	r.failOn["ship-2"] = true
	e := newTestExporter(t, r)

	res, err := e.ExportImages(context.Background(), "STS2990", testItems(3))
	if err != nil {
		t.Fatalf("ExportImages: %v", err)
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("artifacts = %v", res.Artifacts)
	}
	if len(res.Failures) != 1 || res.Failures[0].StsJob != 10002 {
		t.Errorf("failures = %+v", res.Failures)
	}
}

func TestExportComposites_GroupsOfTwo(t *testing.T) {
	e := newTestExporter(t, newStubRenderer())

	// Five labels in groups of two: two full sheets and a final single.
	res, err := e.ExportComposites(context.Background(), "STS2990", testItems(5))
	if err != nil {
		t.Fatalf("ExportComposites: %v", err)
	}
	want := []string{
		"labels-page-1-trailer-STS2990.png",
		"labels-page-2-trailer-STS2990.png",
		"labels-page-3-trailer-STS2990.png",
	}
	if len(res.Artifacts) != len(want) {
		t.Fatalf("artifacts = %v", res.Artifacts)
	}
	for i, path := range res.Artifacts {
		if filepath.Base(path) != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, filepath.Base(path), want[i])
		}
	}
}

func TestExportComposites_FailedChunkKeepsPageNumbers(t *testing.T) {
	r := newStubRenderer()
	r.failOn["ship-1"] = true
	r.failOn["ship-2"] = true
	e := newTestExporter(t, r)

	// The first chunk fails entirely; the second still carries its own
	// chunk number.
	res, err := e.ExportComposites(context.Background(), "STS2990", testItems(4))
	if err != nil {
		t.Fatalf("ExportComposites: %v", err)
	}
	if len(res.Artifacts) != 1 {
		t.Fatalf("artifacts = %v", res.Artifacts)
	}
	if got := filepath.Base(res.Artifacts[0]); got != "labels-page-2-trailer-STS2990.png" {
		t.Errorf("sheet = %q, want labels-page-2-trailer-STS2990.png", got)
	}
	if len(res.Failures) != 2 {
		t.Errorf("failures = %+v", res.Failures)
	}
}

func TestExportComposites_SheetGeometry(t *testing.T) {
	r := newStubRenderer()
	e := newTestExporter(t, r)

	imgs := []*image.RGBA{
		image.NewRGBA(image.Rect(0, 0, 59, 43)),
		image.NewRGBA(image.Rect(0, 0, 59, 43)),
	}
	sheet := e.stack(imgs)

	pad := r.spec.MarginPx()
	w, h := r.Bounds()
	if got := sheet.Bounds().Dx(); got != w+2*pad {
		t.Errorf("sheet width = %d, want %d", got, w+2*pad)
	}
	if got := sheet.Bounds().Dy(); got != 2*h+3*pad {
		t.Errorf("sheet height = %d, want %d", got, 2*h+3*pad)
	}
}

func TestExportPDF(t *testing.T) {
	e := newTestExporter(t, newStubRenderer())

	res, err := e.ExportPDF(context.Background(), "STS2990", testItems(2))
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	if len(res.Artifacts) != 1 || filepath.Base(res.Artifacts[0]) != "labels_trailer_STS2990.pdf" {
		t.Fatalf("artifacts = %v", res.Artifacts)
	}
	info, err := os.Stat(res.Artifacts[0])
	if err != nil {
		t.Fatalf("stat pdf: %v", err)
	}
	if info.Size() == 0 {
		t.Error("pdf is empty")
	}
}

func TestExportPDF_AllItemsFail(t *testing.T) {
	r := newStubRenderer()
	r.failOn["ship-1"] = true
	e := newTestExporter(t, r)

	res, err := e.ExportPDF(context.Background(), "STS2990", testItems(1))
	if err != nil {
		t.Fatalf("ExportPDF: %v", err)
	}
	if len(res.Artifacts) != 0 || len(res.Failures) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestExport_CancelBetweenItems(t *testing.T) {
	e := newTestExporter(t, newStubRenderer())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The first item always runs; cancellation takes effect at the pause.
	res, err := e.ExportImages(ctx, "STS2990", testItems(3))
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(res.Artifacts) != 1 {
		t.Errorf("artifacts = %v", res.Artifacts)
	}
}
