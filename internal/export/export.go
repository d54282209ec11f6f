// Package export writes label artifacts for a trailer's shipments: one PNG
// per shipment, grouped composite sheets, or a multi-page PDF at exact
// physical size. Batches run strictly sequentially with a fixed pause
// between emissions so slow print spoolers are not flooded.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/wharfline/depot/internal/label"
	"github.com/wharfline/depot/internal/models"
)

// Default pacing between emitted artifacts.
const (
	DefaultGroupSize  = 2
	DefaultImageDelay = 1000 * time.Millisecond
	DefaultPDFDelay   = 250 * time.Millisecond
)

// Renderer rasterizes one label. *label.Renderer satisfies it.
type Renderer interface {
	Spec() label.Spec
	Bounds() (w, h int)
	Render(c label.Content) (*image.RGBA, error)
}

// Item pairs a shipment with its parent load for content derivation.
type Item struct {
	Shipment models.Shipment
	Load     models.Load
}

// ItemFailure records a shipment whose label could not be produced. The
// batch keeps going; failures surface in the Result.
type ItemFailure struct {
	StsJob int
	Err    error
}

// Result lists the artifact paths written and any per-item failures.
type Result struct {
	Artifacts []string
	Failures  []ItemFailure
}

// Options configures an Exporter. Renderer and OutDir are required.
type Options struct {
	Renderer   Renderer
	OutDir     string
	Logger     *zap.Logger
	GroupSize  int
	ImageDelay time.Duration
	PDFDelay   time.Duration
}

// Exporter writes label artifacts into a fixed output directory.
type Exporter struct {
	renderer   Renderer
	outDir     string
	log        *zap.Logger
	groupSize  int
	imageDelay time.Duration
	pdfDelay   time.Duration
	now        func() time.Time
}

func New(opts Options) (*Exporter, error) {
	if opts.Renderer == nil {
		return nil, fmt.Errorf("export: renderer is required")
	}
	if opts.OutDir == "" {
		return nil, fmt.Errorf("export: output directory is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.GroupSize < 1 {
		opts.GroupSize = DefaultGroupSize
	}
	if opts.ImageDelay <= 0 {
		opts.ImageDelay = DefaultImageDelay
	}
	if opts.PDFDelay <= 0 {
		opts.PDFDelay = DefaultPDFDelay
	}
	return &Exporter{
		renderer:   opts.Renderer,
		outDir:     opts.OutDir,
		log:        opts.Logger,
		groupSize:  opts.GroupSize,
		imageDelay: opts.ImageDelay,
		pdfDelay:   opts.PDFDelay,
		now:        time.Now,
	}, nil
}

// ImageName is the artifact name for a single shipment label.
func ImageName(loadID string, stsJob int) string {
	return fmt.Sprintf("label-%s-%d.png", loadID, stsJob)
}

// CompositeName is the artifact name for one composite sheet.
func CompositeName(page int, loadID string) string {
	return fmt.Sprintf("labels-page-%d-trailer-%s.png", page, loadID)
}

// PDFName is the artifact name for a trailer's label PDF.
func PDFName(loadID string) string {
	return fmt.Sprintf("labels_trailer_%s.pdf", loadID)
}

// ExportImages writes one PNG per item, pausing between items. A failed
// item is recorded and the batch continues. Cancellation stops the batch
// between items only.
func (e *Exporter) ExportImages(ctx context.Context, loadID string, items []Item) (Result, error) {
	var res Result
	if err := e.ensureOutDir(); err != nil {
		return res, err
	}

	for i, item := range items {
		if i > 0 {
			if err := pause(ctx, e.imageDelay); err != nil {
				return res, err
			}
		}

		img, err := e.render(item)
		if err != nil {
			res.Failures = append(res.Failures, ItemFailure{StsJob: item.Shipment.StsJob, Err: err})
			e.log.Warn("label render failed",
				zap.Int("stsJob", item.Shipment.StsJob), zap.Error(err))
			continue
		}

		path := filepath.Join(e.outDir, ImageName(loadID, item.Shipment.StsJob))
		if err := writePNG(path, img); err != nil {
			res.Failures = append(res.Failures, ItemFailure{StsJob: item.Shipment.StsJob, Err: err})
			e.log.Warn("label write failed",
				zap.Int("stsJob", item.Shipment.StsJob), zap.Error(err))
			continue
		}
		res.Artifacts = append(res.Artifacts, path)
		e.log.Info("label exported",
			zap.String("load", loadID), zap.Int("stsJob", item.Shipment.StsJob))
	}
	return res, nil
}

// ExportComposites stacks labels vertically in chunks of the group size
// and writes one sheet per chunk, pausing between sheets. Page numbers
// follow the chunk index from 1, so a fully failed chunk leaves a gap
// rather than renumbering later sheets.
func (e *Exporter) ExportComposites(ctx context.Context, loadID string, items []Item) (Result, error) {
	var res Result
	if err := e.ensureOutDir(); err != nil {
		return res, err
	}

	page := 0
	for start := 0; start < len(items); start += e.groupSize {
		page++
		if start > 0 {
			if err := pause(ctx, e.imageDelay); err != nil {
				return res, err
			}
		}

		end := start + e.groupSize
		if end > len(items) {
			end = len(items)
		}

		var rendered []*image.RGBA
		for _, item := range items[start:end] {
			img, err := e.render(item)
			if err != nil {
				res.Failures = append(res.Failures, ItemFailure{StsJob: item.Shipment.StsJob, Err: err})
				e.log.Warn("label render failed",
					zap.Int("stsJob", item.Shipment.StsJob), zap.Error(err))
				continue
			}
			rendered = append(rendered, img)
		}
		if len(rendered) == 0 {
			continue
		}

		sheet := e.stack(rendered)
		path := filepath.Join(e.outDir, CompositeName(page, loadID))
		if err := writePNG(path, sheet); err != nil {
			return res, fmt.Errorf("export: write sheet %d: %w", page, err)
		}
		res.Artifacts = append(res.Artifacts, path)
		e.log.Info("composite sheet exported",
			zap.String("load", loadID), zap.Int("page", page), zap.Int("labels", len(rendered)))
	}
	return res, nil
}

// ExportPDF writes a single PDF with one label per page at the spec's
// exact physical dimensions, in input order, pausing between pages.
func (e *Exporter) ExportPDF(ctx context.Context, loadID string, items []Item) (Result, error) {
	var res Result
	if err := e.ensureOutDir(); err != nil {
		return res, err
	}

	spec := e.renderer.Spec()
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: spec.WidthMM, Ht: spec.HeightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	pages := 0
	for i, item := range items {
		if i > 0 {
			if err := pause(ctx, e.pdfDelay); err != nil {
				return res, err
			}
		}

		img, err := e.render(item)
		if err != nil {
			res.Failures = append(res.Failures, ItemFailure{StsJob: item.Shipment.StsJob, Err: err})
			e.log.Warn("label render failed",
				zap.Int("stsJob", item.Shipment.StsJob), zap.Error(err))
			continue
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			res.Failures = append(res.Failures, ItemFailure{StsJob: item.Shipment.StsJob, Err: err})
			continue
		}

		pages++
		name := ImageName(loadID, item.Shipment.StsJob)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, spec.WidthMM, spec.HeightMM, false, opts, 0, "")
	}
	if pages == 0 {
		return res, nil
	}
	if pdf.Err() {
		return res, fmt.Errorf("export: build pdf: %w", pdf.Error())
	}

	path := filepath.Join(e.outDir, PDFName(loadID))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return res, fmt.Errorf("export: write pdf: %w", err)
	}
	res.Artifacts = append(res.Artifacts, path)
	e.log.Info("pdf exported",
		zap.String("load", loadID), zap.Int("pages", pages))
	return res, nil
}

func (e *Exporter) render(item Item) (*image.RGBA, error) {
	return e.renderer.Render(label.ContentFor(item.Shipment, item.Load, e.now()))
}

// stack composites rendered labels vertically with the physical margin
// as outer padding and inter-label gap.
func (e *Exporter) stack(imgs []*image.RGBA) *image.RGBA {
	spec := e.renderer.Spec()
	pad := spec.MarginPx()
	w, h := e.renderer.Bounds()

	sheetW := w + 2*pad
	sheetH := len(imgs)*h + (len(imgs)+1)*pad
	sheet := image.NewRGBA(image.Rect(0, 0, sheetW, sheetH))
	draw.Draw(sheet, sheet.Bounds(), image.White, image.Point{}, draw.Src)

	y := pad
	for _, img := range imgs {
		r := image.Rect(pad, y, pad+w, y+h)
		draw.Draw(sheet, r, img, img.Bounds().Min, draw.Src)
		y += h + pad
	}
	return sheet
}

func (e *Exporter) ensureOutDir() error {
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return fmt.Errorf("export: create output directory: %w", err)
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// pause waits for d or until ctx is cancelled.
func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
