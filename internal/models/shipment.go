package models

// SentinelLocationName marks a shipment that has no real storage location
// assigned yet. A shipment's location list is never empty; this placeholder
// fills the gap.
const SentinelLocationName = "Pending Assignment"

// Location is one storage position holding part of a shipment.
type Location struct {
	Name    string `json:"name"`
	Pallets *int   `json:"pallets,omitempty"`
}

// PendingLocations returns a fresh sentinel-only location list.
func PendingLocations() []Location {
	return []Location{{Name: SentinelLocationName}}
}

// IsSentinelOnly reports whether locs is exactly the pending-assignment
// placeholder and nothing else.
func IsSentinelOnly(locs []Location) bool {
	return len(locs) == 1 && locs[0].Name == SentinelLocationName
}

// CloneLocations copies a location list so callers never share backing
// arrays with engine state.
func CloneLocations(locs []Location) []Location {
	if locs == nil {
		return nil
	}
	out := make([]Location, len(locs))
	copy(out, locs)
	return out
}

// Shipment is an individual consignment within a load. IDs are generated,
// never user-typed, so lookups on them are exact-match.
type Shipment struct {
	ID                string     `json:"id"`
	LoadID            string     `json:"loadId"`
	StsJob            int        `json:"stsJob"`
	CustomerJobNumber string     `json:"customerJobNumber,omitempty"`
	Quantity          int        `json:"quantity"`
	Importer          string     `json:"importer"`
	Exporter          string     `json:"exporter"`
	Locations         []Location `json:"locations"`

	ReleaseDocumentName   string `json:"releaseDocumentName,omitempty"`
	ClearanceDocumentName string `json:"clearanceDocumentName,omitempty"`

	Released bool `json:"released"`
	Cleared  bool `json:"cleared"`
	OnHold   bool `json:"onHold"`

	Weight      *float64 `json:"weight,omitempty"`
	PalletSpace *float64 `json:"palletSpace,omitempty"`

	// ReleasedAt records the print/release action, independent of the
	// Released permission flag.
	ReleasedAt          *Time  `json:"releasedAt,omitempty"`
	EmptyPalletRequired int    `json:"emptyPalletRequired"`
	MRN                 string `json:"mrn,omitempty"`
	// ClearanceDate is nil until the shipment clears customs; see the
	// reconciliation rules in the warehouse engine.
	ClearanceDate *Time  `json:"clearanceDate"`
	Comments      string `json:"comments,omitempty"`
}
