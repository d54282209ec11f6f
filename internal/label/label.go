// Package label renders a (shipment, load) pair into a raster label at
// fixed physical dimensions for thermal/laser label printers. The layout is
// drawn directly at a supersampled resolution and downscaled to the exact
// target pixel bounds.
package label

import (
	"fmt"
	"math"
	"time"

	"github.com/wharfline/depot/internal/models"
)

// Physical label constants. These are policy values, not derived; the
// config layer may override them per install.
const (
	DefaultWidthMM     = 150.0
	DefaultHeightMM    = 108.0
	DefaultDPI         = 150
	DefaultSupersample = 2

	// MarginMM is the physical margin used for composite padding and
	// inter-label gaps.
	MarginMM = 5.0

	mmPerInch = 25.4
)

// barcodeFallbackPayload is encoded when a shipment somehow has no id, so
// the label still renders and the bad state is visible on paper.
const barcodeFallbackPayload = "error-no-id"

// labelDateLayout is dd/MM/yyyy.
const labelDateLayout = "02/01/2006"

// PixelsForMM converts a physical length to raster pixels at a density.
func PixelsForMM(mm float64, dpi int) int {
	return int(math.Round(mm / mmPerInch * float64(dpi)))
}

// Spec fixes the physical geometry of a label render.
type Spec struct {
	WidthMM     float64
	HeightMM    float64
	DPI         int
	Supersample int
}

// DefaultSpec returns the standard 150mm x 108mm geometry at 150 DPI with
// 2x supersampling.
func DefaultSpec() Spec {
	return Spec{
		WidthMM:     DefaultWidthMM,
		HeightMM:    DefaultHeightMM,
		DPI:         DefaultDPI,
		Supersample: DefaultSupersample,
	}
}

// TargetBounds returns the final output size in pixels.
func (s Spec) TargetBounds() (w, h int) {
	return PixelsForMM(s.WidthMM, s.DPI), PixelsForMM(s.HeightMM, s.DPI)
}

// MarginPx returns the composite padding/gap in final output pixels.
func (s Spec) MarginPx() int {
	return PixelsForMM(MarginMM, s.DPI)
}

// Content holds the semantic fields printed on one label.
type Content struct {
	Date           string
	Agent          string
	Importer       string
	Pieces         int
	Reference      string
	BarcodePayload string
}

// ContentFor assembles label content from a shipment and its load. The
// label date is the load's arrival date; a missing or unparseable stored
// date falls back to today, because a label must always render something.
func ContentFor(s models.Shipment, l models.Load, now time.Time) Content {
	date := now
	if l.ArrivalDate != nil && !l.ArrivalDate.IsZero() {
		date = l.ArrivalDate.Time
	}

	agent := l.Company
	if agent == "" {
		agent = "N/A"
	}

	loadID := l.ID
	if loadID == "" {
		loadID = "N/A"
	}

	payload := s.ID
	if payload == "" {
		payload = barcodeFallbackPayload
	}

	return Content{
		Date:           date.Format(labelDateLayout),
		Agent:          agent,
		Importer:       s.Importer,
		Pieces:         s.Quantity,
		Reference:      fmt.Sprintf("%s / %d", loadID, s.StsJob),
		BarcodePayload: payload,
	}
}
