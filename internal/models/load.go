// Package models defines the depot data model shared by the store, the
// warehouse engine, and the label pipeline. Collections are persisted as
// JSON blobs, so every field carries its wire name.
package models

// LoadStatus is the lifecycle stage of a load.
type LoadStatus string

const (
	StatusScheduled  LoadStatus = "Scheduled"
	StatusArrived    LoadStatus = "Arrived"
	StatusLoading    LoadStatus = "Loading"
	StatusOffloading LoadStatus = "Offloading"
	StatusDevanned   LoadStatus = "Devanned"
)

// LoadStatuses lists every valid status in lifecycle order.
var LoadStatuses = []LoadStatus{
	StatusScheduled,
	StatusArrived,
	StatusLoading,
	StatusOffloading,
	StatusDevanned,
}

// Valid reports whether s is a known load status.
func (s LoadStatus) Valid() bool {
	for _, known := range LoadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Load is a top-level trailer/shipping unit grouping one or more shipments.
// The ID is user-assigned and unique across the collection.
type Load struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Status          LoadStatus `json:"status"`
	Company         string     `json:"company,omitempty"`
	SprattJobNumber string     `json:"sprattJobNumber,omitempty"`
	ArrivalDate     *Time      `json:"arrivalDate,omitempty"`
	// StorageExpiryDate is never before ArrivalDate when both are present.
	StorageExpiryDate *Time    `json:"storageExpiryDate,omitempty"`
	Weight            *float64 `json:"weight,omitempty"`
	CustomField1      string   `json:"customField1,omitempty"`
	CustomField2      string   `json:"customField2,omitempty"`

	// Document slots hold filenames only; no binary content is ever stored.
	OutturnReportDocumentName *string `json:"outturnReportDocumentName,omitempty"`
	T1SummaryDocumentName     *string `json:"t1SummaryDocumentName,omitempty"`
	ManifestDocumentName      *string `json:"manifestDocumentName,omitempty"`
	ACPDocumentName           *string `json:"acpDocumentName,omitempty"`
}
