package label

import (
	"image/color"
	"testing"
	"time"

	"github.com/wharfline/depot/internal/models"
)

func TestPixelsForMM(t *testing.T) {
	tests := []struct {
		mm   float64
		dpi  int
		want int
	}{
		{150, 150, 886},
		{108, 150, 638},
		{5, 150, 30},
		{25.4, 300, 300},
	}
	for _, tt := range tests {
		if got := PixelsForMM(tt.mm, tt.dpi); got != tt.want {
			t.Errorf("PixelsForMM(%v, %d) = %d, want %d", tt.mm, tt.dpi, got, tt.want)
		}
	}
}

func TestSpec_TargetBounds(t *testing.T) {
	w, h := DefaultSpec().TargetBounds()
	if w != 886 || h != 638 {
		t.Errorf("bounds = %dx%d, want 886x638", w, h)
	}
}

func TestContentFor(t *testing.T) {
	arrival := models.NewTime(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))
	load := models.Load{ID: "STS2990", Company: "Cardinal Maritime", ArrivalDate: arrival}
	shipment := models.Shipment{ID: "ship-1", StsJob: 10001, Quantity: 50, Importer: "ImpAlpha Co"}

	c := ContentFor(shipment, load, time.Now())
	if c.Date != "14/03/2025" {
		t.Errorf("date = %q", c.Date)
	}
	if c.Agent != "Cardinal Maritime" {
		t.Errorf("agent = %q", c.Agent)
	}
	if c.Reference != "STS2990 / 10001" {
		t.Errorf("reference = %q", c.Reference)
	}
	if c.Pieces != 50 || c.Importer != "ImpAlpha Co" || c.BarcodePayload != "ship-1" {
		t.Errorf("content = %+v", c)
	}
}

func TestContentFor_Fallbacks(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	// Missing arrival date falls back to now; missing company and id get
	// their literal placeholders.
	c := ContentFor(models.Shipment{StsJob: 1, Quantity: 1}, models.Load{ID: "L1"}, now)
	if c.Date != "01/06/2025" {
		t.Errorf("date fallback = %q", c.Date)
	}
	if c.Agent != "N/A" {
		t.Errorf("agent fallback = %q", c.Agent)
	}
	if c.BarcodePayload != "error-no-id" {
		t.Errorf("payload fallback = %q", c.BarcodePayload)
	}

	// A malformed stored date decodes to zero and likewise falls back.
	zero := &models.Time{}
	c = ContentFor(models.Shipment{}, models.Load{ID: "L1", ArrivalDate: zero}, now)
	if c.Date != "01/06/2025" {
		t.Errorf("zero-date fallback = %q", c.Date)
	}
}

func TestRenderer_RenderBounds(t *testing.T) {
	r, err := NewRenderer(DefaultSpec())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	img, err := r.Render(Content{
		Date: "14/03/2025", Agent: "TCB", Importer: "ImpAlpha Co",
		Pieces: 50, Reference: "STS2990 / 10001", BarcodePayload: "ship-1",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != 886 || b.Dy() != 638 {
		t.Errorf("rendered %dx%d, want 886x638", b.Dx(), b.Dy())
	}
}

func TestRenderer_RenderInk(t *testing.T) {
	r, err := NewRenderer(DefaultSpec())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	img, err := r.Render(Content{
		Date: "14/03/2025", Agent: "TCB", Importer: "ImpAlpha Co",
		Pieces: 50, Reference: "STS2990 / 10001", BarcodePayload: "ship-1",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// The gap between the reference line and the separator is blank
	// label background.
	cr, cg, cb, _ := img.At(20, 460).RGBA()
	if cr < 0xf000 || cg < 0xf000 || cb < 0xf000 {
		t.Errorf("interior corner not white: %v", color.RGBA64{R: uint16(cr), G: uint16(cg), B: uint16(cb)})
	}

	// The barcode band near the bottom must contain dark modules.
	dark := 0
	y := img.Bounds().Dy() - 40
	for x := 0; x < img.Bounds().Dx(); x++ {
		cr, cg, cb, _ := img.At(x, y).RGBA()
		if (cr+cg+cb)/3 < 0x4000 {
			dark++
		}
	}
	if dark == 0 {
		t.Error("no barcode ink in bottom band")
	}
}

func TestRenderer_NarrowGeometry(t *testing.T) {
	// At 30 DPI the inner width is well below the module count of a long
	// payload; the barcode composites at native width instead of failing.
	r, err := NewRenderer(Spec{WidthMM: 150, HeightMM: 108, DPI: 30, Supersample: 1})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	img, err := r.Render(Content{
		Date: "14/03/2025", Agent: "TCB", Importer: "ImpAlpha Co",
		Pieces: 50, Reference: "STS2990 / 10001",
		BarcodePayload: "1b7ac0f2-51c6-4d0e-9f3a-8c2d6e4b1a90",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wantW, wantH := r.Bounds()
	if img.Bounds().Dx() != wantW || img.Bounds().Dy() != wantH {
		t.Errorf("rendered %dx%d, want %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), wantW, wantH)
	}

	dark := 0
	y := img.Bounds().Dy() - 40
	for x := 0; x < img.Bounds().Dx(); x++ {
		cr, cg, cb, _ := img.At(x, y).RGBA()
		if (cr+cg+cb)/3 < 0x4000 {
			dark++
		}
	}
	if dark == 0 {
		t.Error("no barcode ink in bottom band")
	}
}

func TestRenderer_InvalidSpec(t *testing.T) {
	if _, err := NewRenderer(Spec{}); err == nil {
		t.Error("zero spec accepted")
	}
}
