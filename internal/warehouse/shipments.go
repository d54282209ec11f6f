package warehouse

import (
	"strings"

	"github.com/google/uuid"
	"github.com/wharfline/depot/internal/models"
)

// ShipmentForm carries caller-supplied fields for AddShipment. The id and
// initial clearance date are derived, never supplied.
type ShipmentForm struct {
	LoadID                 string   `json:"loadId"`
	StsJob                 int      `json:"stsJob"`
	CustomerJobNumber      string   `json:"customerJobNumber"`
	Quantity               int      `json:"quantity"`
	Importer               string   `json:"importer"`
	Exporter               string   `json:"exporter"`
	InitialLocationName    string   `json:"initialLocationName"`
	InitialLocationPallets *int     `json:"initialLocationPallets"`
	ReleaseDocumentName    string   `json:"releaseDocumentName"`
	ClearanceDocumentName  string   `json:"clearanceDocumentName"`
	Released               bool     `json:"released"`
	Cleared                bool     `json:"cleared"`
	OnHold                 bool     `json:"onHold"`
	Weight                 *float64 `json:"weight"`
	PalletSpace            *float64 `json:"palletSpace"`
	EmptyPalletRequired    int      `json:"emptyPalletRequired"`
	MRN                    string   `json:"mrn"`
	Comments               string   `json:"comments"`
}

// ShipmentUpdate is a partial update for an existing shipment. Absent fields
// keep their previous values. ClearanceDate accepts explicit null, which
// wins over any derivation from the Cleared flag.
type ShipmentUpdate struct {
	StsJob                Opt[int]               `json:"stsJob"`
	CustomerJobNumber     Opt[string]            `json:"customerJobNumber"`
	Quantity              Opt[int]               `json:"quantity"`
	Importer              Opt[string]            `json:"importer"`
	Exporter              Opt[string]            `json:"exporter"`
	Locations             Opt[[]models.Location] `json:"locations"`
	ReleaseDocumentName   Opt[string]            `json:"releaseDocumentName"`
	ClearanceDocumentName Opt[string]            `json:"clearanceDocumentName"`
	Released              Opt[bool]              `json:"released"`
	Cleared               Opt[bool]              `json:"cleared"`
	OnHold                Opt[bool]              `json:"onHold"`
	Weight                Opt[float64]           `json:"weight"`
	PalletSpace           Opt[float64]           `json:"palletSpace"`
	ReleasedAt            Opt[*models.Time]      `json:"releasedAt"`
	EmptyPalletRequired   Opt[int]               `json:"emptyPalletRequired"`
	MRN                   Opt[string]            `json:"mrn"`
	ClearanceDate         Opt[*models.Time]      `json:"clearanceDate"`
	Comments              Opt[string]            `json:"comments"`
}

// AddShipment creates a shipment with a generated id. The location list is
// built from the initial location when given, otherwise the sentinel. The
// initial clearance date is now iff the shipment arrives cleared or with a
// clearance document attached.
func (e *Engine) AddShipment(form ShipmentForm) (models.Shipment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := validateShipmentForm(form); err != nil {
		return models.Shipment{}, err
	}

	locations := models.PendingLocations()
	if form.InitialLocationName != "" {
		locations = []models.Location{{
			Name:    form.InitialLocationName,
			Pallets: form.InitialLocationPallets,
		}}
	}

	var clearanceDate *models.Time
	if form.Cleared || form.ClearanceDocumentName != "" {
		clearanceDate = e.timestamp()
	}

	s := models.Shipment{
		ID:                    uuid.NewString(),
		LoadID:                form.LoadID,
		StsJob:                form.StsJob,
		CustomerJobNumber:     form.CustomerJobNumber,
		Quantity:              form.Quantity,
		Importer:              form.Importer,
		Exporter:              form.Exporter,
		Locations:             locations,
		ReleaseDocumentName:   form.ReleaseDocumentName,
		ClearanceDocumentName: form.ClearanceDocumentName,
		Released:              form.Released,
		Cleared:               form.Cleared,
		OnHold:                form.OnHold,
		Weight:                form.Weight,
		PalletSpace:           form.PalletSpace,
		EmptyPalletRequired:   form.EmptyPalletRequired,
		MRN:                   form.MRN,
		ClearanceDate:         clearanceDate,
		Comments:              form.Comments,
	}

	e.shipments = append(e.shipments, s)
	if err := e.persistShipments(); err != nil {
		return models.Shipment{}, err
	}
	e.publish(EventShipmentAdded, s.ID)
	return s, nil
}

// UpdateShipment applies a partial update under the clearance-date
// reconciliation rules, in strict precedence order:
//
//  1. An explicitly supplied clearanceDate (including null) wins verbatim.
//  2. cleared turning true with no existing date sets the date to now.
//  3. cleared turning false clears the date.
//  4. A newly attached clearance document with no existing date sets now.
//  5. Otherwise the date is untouched.
//
// A missing id is a silent no-op.
func (e *Engine) UpdateShipment(id string, upd ShipmentUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.shipmentIndex(id)
	if idx < 0 {
		return nil
	}
	if err := validateShipmentUpdate(upd); err != nil {
		return err
	}

	prev := e.shipments[idx]
	s := prev

	if upd.StsJob.Provided() {
		s.StsJob = upd.StsJob.Value()
	}
	if upd.Quantity.Provided() {
		s.Quantity = upd.Quantity.Value()
	}
	s.Importer = upd.Importer.Or(s.Importer)
	s.Exporter = upd.Exporter.Or(s.Exporter)
	s.ReleaseDocumentName = upd.ReleaseDocumentName.Or(s.ReleaseDocumentName)
	s.ClearanceDocumentName = upd.ClearanceDocumentName.Or(s.ClearanceDocumentName)
	s.Released = upd.Released.Or(s.Released)
	s.Cleared = upd.Cleared.Or(s.Cleared)
	s.OnHold = upd.OnHold.Or(s.OnHold)
	if upd.Weight.Provided() {
		w := upd.Weight.Value()
		s.Weight = &w
	}
	if upd.PalletSpace.Provided() {
		p := upd.PalletSpace.Value()
		s.PalletSpace = &p
	}
	if upd.ReleasedAt.Provided() {
		s.ReleasedAt = upd.ReleasedAt.Value()
	}

	// Explicit value wins, absent preserves — distinct from a blanket merge
	// because empty strings are meaningful values for these three.
	s.CustomerJobNumber = upd.CustomerJobNumber.Or(s.CustomerJobNumber)
	s.MRN = upd.MRN.Or(s.MRN)
	s.Comments = upd.Comments.Or(s.Comments)

	// Locations: replaced only by a non-empty, non-sentinel list; otherwise
	// existing real locations are preserved, or the sentinel (re)applied.
	switch {
	case upd.Locations.Provided() && len(upd.Locations.Value()) > 0 && !models.IsSentinelOnly(upd.Locations.Value()):
		s.Locations = models.CloneLocations(upd.Locations.Value())
	case !upd.Locations.Provided():
		if len(prev.Locations) == 0 || models.IsSentinelOnly(prev.Locations) {
			s.Locations = models.PendingLocations()
		}
	default:
		s.Locations = models.PendingLocations()
	}

	// Validation rejects negative values, so an omitted field keeps the
	// stored count unchanged.
	if upd.EmptyPalletRequired.Provided() {
		s.EmptyPalletRequired = upd.EmptyPalletRequired.Value()
	}

	docNewlyAttached := upd.ClearanceDocumentName.Provided() &&
		upd.ClearanceDocumentName.Value() != "" &&
		prev.ClearanceDocumentName == ""

	switch {
	case upd.ClearanceDate.Provided():
		s.ClearanceDate = upd.ClearanceDate.Value()
	case upd.Cleared.Provided() && upd.Cleared.Value() && prev.ClearanceDate == nil:
		s.ClearanceDate = e.timestamp()
	case upd.Cleared.Provided() && !upd.Cleared.Value():
		s.ClearanceDate = nil
	case docNewlyAttached && prev.ClearanceDate == nil:
		s.ClearanceDate = e.timestamp()
	}

	e.shipments[idx] = s
	if err := e.persistShipments(); err != nil {
		return err
	}
	e.publish(EventShipmentUpdated, id)
	return nil
}

// DeleteShipment removes a shipment by exact id. No cascade; a missing id
// is a silent no-op.
func (e *Engine) DeleteShipment(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.shipmentIndex(id)
	if idx < 0 {
		return nil
	}
	e.shipments = append(e.shipments[:idx], e.shipments[idx+1:]...)
	if err := e.persistShipments(); err != nil {
		return err
	}
	e.publish(EventShipmentDeleted, id)
	return nil
}

// MarkShipmentAsPrinted stamps releasedAt with the current instant. This is
// an audit action independent of the Released permission flag. A missing id
// is a silent no-op.
func (e *Engine) MarkShipmentAsPrinted(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.shipmentIndex(id)
	if idx < 0 {
		return nil
	}
	e.shipments[idx].ReleasedAt = e.timestamp()
	if err := e.persistShipments(); err != nil {
		return err
	}
	e.publish(EventShipmentUpdated, id)
	return nil
}

// GetShipmentByID looks a shipment up by exact id.
func (e *Engine) GetShipmentByID(id string) (models.Shipment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.shipmentIndex(id)
	if idx < 0 {
		return models.Shipment{}, false
	}
	s := e.shipments[idx]
	s.Locations = models.CloneLocations(s.Locations)
	return s, true
}

// GetShipmentsByLoadID returns every shipment whose loadId matches
// case-insensitively, in insertion order.
func (e *Engine) GetShipmentsByLoadID(loadID string) []models.Shipment {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []models.Shipment
	for _, s := range e.shipments {
		if strings.EqualFold(s.LoadID, loadID) {
			s.Locations = models.CloneLocations(s.Locations)
			out = append(out, s)
		}
	}
	return out
}

// Shipments returns a copy of the shipment collection in insertion order.
func (e *Engine) Shipments() []models.Shipment {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Shipment, len(e.shipments))
	copy(out, e.shipments)
	for i := range out {
		out[i].Locations = models.CloneLocations(out[i].Locations)
	}
	return out
}

// shipmentIndex finds a shipment by exact id. Callers must hold e.mu.
func (e *Engine) shipmentIndex(id string) int {
	for i, s := range e.shipments {
		if s.ID == id {
			return i
		}
	}
	return -1
}
