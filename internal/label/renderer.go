package label

import (
	"fmt"
	"image"
	"image/color"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Explicit point sizes per row, matching the print stylesheet the layout
// replaces. Semibold rows use the bold face; the 600-weight distinction
// does not survive label rasterization.
const (
	dateFontPt      = 28.0
	agentFontPt     = 32.0
	importerFontPt  = 32.0
	piecesLabelPt   = 36.0
	piecesValuePt   = 48.0
	referenceFontPt = 40.0
)

// spacingUnit is the 4px spacing-scale unit, applied at render scale.
const spacingUnit = 4

// rootPadding is the label's inner padding in unscaled pixels.
const rootPadding = 6

// barcodeHeight is the bar height in unscaled pixels.
const barcodeHeight = 100

// Renderer draws label content into RGBA images. It is safe for sequential
// reuse; batch export renders one label at a time by design.
type Renderer struct {
	spec    Spec
	regular *sfnt.Font
	bold    *sfnt.Font
}

// NewRenderer parses the embedded fonts and returns a renderer for spec.
func NewRenderer(spec Spec) (*Renderer, error) {
	if spec.WidthMM <= 0 || spec.HeightMM <= 0 || spec.DPI <= 0 {
		return nil, fmt.Errorf("label: invalid spec %+v", spec)
	}
	if spec.Supersample < 1 {
		spec.Supersample = 1
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("label: parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("label: parse bold font: %w", err)
	}
	return &Renderer{spec: spec, regular: regular, bold: bold}, nil
}

// Spec returns the renderer's geometry.
func (r *Renderer) Spec() Spec {
	return r.spec
}

// Bounds returns the final output size in pixels.
func (r *Renderer) Bounds() (w, h int) {
	return r.spec.TargetBounds()
}

// Render rasterizes one label: white background, black 1px border, the
// field rows, the centered reference line, and a CODE128 barcode above the
// bottom edge. Rendering happens at Supersample resolution and is
// downscaled to the exact target bounds.
func (r *Renderer) Render(c Content) (*image.RGBA, error) {
	targetW, targetH := r.spec.TargetBounds()
	scale := r.spec.Supersample
	w, h := targetW*scale, targetH*scale

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), color.White)
	drawBorder(img, scale)

	pad := rootPadding * scale
	unit := spacingUnit * scale
	left, right := pad, w-pad

	face := func(f *sfnt.Font, pt float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{
			Size:    pt,
			DPI:     float64(r.spec.DPI * scale),
			Hinting: font.HintingFull,
		})
	}

	y := pad
	rows := []struct {
		label   string
		value   string
		labelPt float64
		valuePt float64
		mbUnits int
	}{
		{"Date:", c.Date, dateFontPt, dateFontPt, 1},
		{"Agent:", c.Agent, agentFontPt, agentFontPt, 1},
		{"Importer:", c.Importer, importerFontPt, importerFontPt, 1},
		{"Pieces:", fmt.Sprintf("%d", c.Pieces), piecesLabelPt, piecesValuePt, 2},
	}
	for _, row := range rows {
		labelFace, err := face(r.bold, row.labelPt)
		if err != nil {
			return nil, fmt.Errorf("label: font face: %w", err)
		}
		valueFace, err := face(r.bold, row.valuePt)
		if err != nil {
			labelFace.Close()
			return nil, fmt.Errorf("label: font face: %w", err)
		}

		rowH := drawRow(img, left, right, y, row.label, labelFace, row.value, valueFace)
		y += rowH + row.mbUnits*unit

		labelFace.Close()
		valueFace.Close()
	}

	refFace, err := face(r.bold, referenceFontPt)
	if err != nil {
		return nil, fmt.Errorf("label: font face: %w", err)
	}
	drawCentered(img, w, y, c.Reference, refFace)
	refFace.Close()

	if err := r.drawBarcode(img, c.BarcodePayload, pad, unit, scale); err != nil {
		return nil, err
	}

	if scale == 1 {
		return img, nil
	}
	out := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return out, nil
}

// drawBarcode encodes payload as CODE128 and composites it above the
// bottom padding, under a dashed separator. The barcode background is
// treated as transparent: only dark modules are drawn, so the label's
// white background shows through.
func (r *Renderer) drawBarcode(img *image.RGBA, payload string, pad, unit, scale int) error {
	bc, err := code128.Encode(payload)
	if err != nil {
		return fmt.Errorf("label: encode barcode %q: %w", payload, err)
	}

	w := img.Bounds().Dx()
	barH := barcodeHeight * scale
	barW := w - 2*pad - 2*unit
	// Scale refuses widths below the encoded module count; at narrow
	// geometries composite at the barcode's native width instead and let
	// the edges clip.
	if min := bc.Bounds().Dx(); barW < min {
		barW = min
	}
	scaled, err := barcode.Scale(bc, barW, barH)
	if err != nil {
		return fmt.Errorf("label: scale barcode: %w", err)
	}

	barTop := img.Bounds().Dy() - pad - barH
	compositeDark(img, scaled, image.Pt((w-barW)/2, barTop))
	drawDashedLine(img, pad, w-pad, barTop-unit, scale)
	return nil
}

// drawRow draws a left-aligned label and right-aligned value on a shared
// baseline, returning the row height.
func drawRow(img *image.RGBA, left, right, y int, labelText string, labelFace font.Face, valueText string, valueFace font.Face) int {
	lm, vm := labelFace.Metrics(), valueFace.Metrics()
	ascent := maxI26(lm.Ascent, vm.Ascent).Ceil()
	descent := maxI26(lm.Descent, vm.Descent).Ceil()
	baseline := y + ascent

	d := &font.Drawer{Dst: img, Src: image.Black, Face: labelFace}
	d.Dot = fixed.P(left, baseline)
	d.DrawString(labelText)

	d.Face = valueFace
	valueW := d.MeasureString(valueText).Ceil()
	d.Dot = fixed.P(right-valueW, baseline)
	d.DrawString(valueText)

	return ascent + descent
}

// drawCentered draws text horizontally centered at y.
func drawCentered(img *image.RGBA, w, y int, text string, f font.Face) int {
	m := f.Metrics()
	d := &font.Drawer{Dst: img, Src: image.Black, Face: f}
	textW := d.MeasureString(text).Ceil()
	d.Dot = fixed.P((w-textW)/2, y+m.Ascent.Ceil())
	d.DrawString(text)
	return (m.Ascent + m.Descent).Ceil()
}

// drawBorder draws a border of thickness scale pixels around the edge.
func drawBorder(img *image.RGBA, scale int) {
	b := img.Bounds()
	fill(img, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+scale), color.Black)
	fill(img, image.Rect(b.Min.X, b.Max.Y-scale, b.Max.X, b.Max.Y), color.Black)
	fill(img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+scale, b.Max.Y), color.Black)
	fill(img, image.Rect(b.Max.X-scale, b.Min.Y, b.Max.X, b.Max.Y), color.Black)
}

// drawDashedLine draws a horizontal dashed separator at y.
func drawDashedLine(img *image.RGBA, x0, x1, y, scale int) {
	dash := 4 * scale
	for x := x0; x < x1; x += dash * 2 {
		end := x + dash
		if end > x1 {
			end = x1
		}
		fill(img, image.Rect(x, y, end, y+scale), color.Black)
	}
}

// compositeDark copies only the dark pixels of src onto dst at offset,
// treating light pixels as transparent.
func compositeDark(dst *image.RGBA, src image.Image, at image.Point) {
	b := src.Bounds()
	for sy := b.Min.Y; sy < b.Max.Y; sy++ {
		for sx := b.Min.X; sx < b.Max.X; sx++ {
			cr, cg, cb, _ := src.At(sx, sy).RGBA()
			// Luma threshold at half intensity.
			if (cr+cg+cb)/3 < 0x8000 {
				dst.Set(at.X+sx-b.Min.X, at.Y+sy-b.Min.Y, color.Black)
			}
		}
	}
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func maxI26(a, b fixed.Int26_6) fixed.Int26_6 {
	if a > b {
		return a
	}
	return b
}
