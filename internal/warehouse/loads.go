package warehouse

import (
	"strings"

	"github.com/wharfline/depot/internal/models"
)

// LoadForm carries caller-supplied fields for AddLoad. The ID is assigned by
// the caller and must be unique across the collection.
type LoadForm struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Status            models.LoadStatus `json:"status"`
	Company           string            `json:"company"`
	SprattJobNumber   string            `json:"sprattJobNumber"`
	ArrivalDate       *models.Time      `json:"arrivalDate"`
	StorageExpiryDate *models.Time      `json:"storageExpiryDate"`
	Weight            *float64          `json:"weight"`
	CustomField1      string            `json:"customField1"`
	CustomField2      string            `json:"customField2"`
}

// LoadUpdate is a partial update for an existing load. Absent fields keep
// their previous values; the document-name fields accept explicit null to
// clear a slot.
type LoadUpdate struct {
	Name              Opt[string]            `json:"name"`
	Status            Opt[models.LoadStatus] `json:"status"`
	Company           Opt[string]            `json:"company"`
	SprattJobNumber   Opt[string]            `json:"sprattJobNumber"`
	ArrivalDate       Opt[*models.Time]      `json:"arrivalDate"`
	StorageExpiryDate Opt[*models.Time]      `json:"storageExpiryDate"`
	Weight            Opt[float64]           `json:"weight"`
	CustomField1      Opt[string]            `json:"customField1"`
	CustomField2      Opt[string]            `json:"customField2"`

	OutturnReportDocumentName Opt[*string] `json:"outturnReportDocumentName"`
	T1SummaryDocumentName     Opt[*string] `json:"t1SummaryDocumentName"`
	ManifestDocumentName      Opt[*string] `json:"manifestDocumentName"`
	ACPDocumentName           Opt[*string] `json:"acpDocumentName"`
}

// AddLoad appends a new load. A duplicate id is the one reportable failure
// in the add/update/delete family; it leaves the collection untouched.
func (e *Engine) AddLoad(form LoadForm) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := validateLoadForm(form); err != nil {
		return err
	}
	// Lookups are case-insensitive, so ids differing only in case would be
	// ambiguous — reject them as duplicates too.
	for _, l := range e.loads {
		if strings.EqualFold(l.ID, form.ID) {
			return validationErrorf("load %s already exists", form.ID)
		}
	}

	status := form.Status
	if status == "" {
		status = models.StatusScheduled
	}

	load := models.Load{
		ID:                form.ID,
		Name:              form.Name,
		Status:            status,
		Company:           form.Company,
		SprattJobNumber:   form.SprattJobNumber,
		ArrivalDate:       form.ArrivalDate,
		StorageExpiryDate: form.StorageExpiryDate,
		Weight:            form.Weight,
		CustomField1:      form.CustomField1,
		CustomField2:      form.CustomField2,
	}
	e.loads = append(e.loads, load)
	if err := e.persistLoads(); err != nil {
		return err
	}
	e.publish(EventLoadAdded, load.ID)
	return nil
}

// UpdateLoad merges a partial update into the load matching id exactly.
// A missing id is a silent no-op. Shipments are not cascaded.
func (e *Engine) UpdateLoad(id string, upd LoadUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.loadIndex(id)
	if idx < 0 {
		return nil
	}
	if err := validateLoadUpdate(e.loads[idx], upd); err != nil {
		return err
	}

	l := e.loads[idx]
	l.Name = upd.Name.Or(l.Name)
	l.Status = upd.Status.Or(l.Status)
	l.Company = upd.Company.Or(l.Company)
	l.SprattJobNumber = upd.SprattJobNumber.Or(l.SprattJobNumber)
	if upd.ArrivalDate.Provided() {
		l.ArrivalDate = upd.ArrivalDate.Value()
	}
	if upd.StorageExpiryDate.Provided() {
		l.StorageExpiryDate = upd.StorageExpiryDate.Value()
	}
	if upd.Weight.Provided() {
		w := upd.Weight.Value()
		l.Weight = &w
	}
	l.CustomField1 = upd.CustomField1.Or(l.CustomField1)
	l.CustomField2 = upd.CustomField2.Or(l.CustomField2)
	if upd.OutturnReportDocumentName.Provided() {
		l.OutturnReportDocumentName = upd.OutturnReportDocumentName.Value()
	}
	if upd.T1SummaryDocumentName.Provided() {
		l.T1SummaryDocumentName = upd.T1SummaryDocumentName.Value()
	}
	if upd.ManifestDocumentName.Provided() {
		l.ManifestDocumentName = upd.ManifestDocumentName.Value()
	}
	if upd.ACPDocumentName.Provided() {
		l.ACPDocumentName = upd.ACPDocumentName.Value()
	}

	e.loads[idx] = l
	if err := e.persistLoads(); err != nil {
		return err
	}
	e.publish(EventLoadUpdated, id)
	return nil
}

// UpdateLoadStatus is the single-field convenience form of UpdateLoad.
func (e *Engine) UpdateLoadStatus(id string, status models.LoadStatus) error {
	return e.UpdateLoad(id, LoadUpdate{Status: Set(status)})
}

// DeleteLoad removes the load and every shipment whose loadId matches
// case-sensitively. No dangling shipments remain afterwards. A missing id
// is a silent no-op.
func (e *Engine) DeleteLoad(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.loadIndex(id)
	if idx < 0 {
		return nil
	}

	e.loads = append(e.loads[:idx], e.loads[idx+1:]...)
	kept := e.shipments[:0]
	for _, s := range e.shipments {
		if s.LoadID != id {
			kept = append(kept, s)
		}
	}
	e.shipments = kept

	if err := e.persistLoads(); err != nil {
		return err
	}
	if err := e.persistShipments(); err != nil {
		return err
	}
	e.publish(EventLoadDeleted, id)
	return nil
}

// GetLoadByID looks a load up case-insensitively: load ids are user-typed
// and historical inputs vary in case.
func (e *Engine) GetLoadByID(id string) (models.Load, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, l := range e.loads {
		if strings.EqualFold(l.ID, id) {
			return l, true
		}
	}
	return models.Load{}, false
}

// Loads returns a copy of the load collection in insertion order.
func (e *Engine) Loads() []models.Load {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Load, len(e.loads))
	copy(out, e.loads)
	return out
}

// loadIndex finds a load by exact id. Callers must hold e.mu.
func (e *Engine) loadIndex(id string) int {
	for i, l := range e.loads {
		if l.ID == id {
			return i
		}
	}
	return -1
}
