package warehouse

import (
	"unicode/utf8"

	"github.com/wharfline/depot/internal/models"
)

// maxCommentLength bounds shipment comments, in runes.
const maxCommentLength = 500

func validateLoadForm(form LoadForm) error {
	if form.ID == "" {
		return validationErrorf("load id is required")
	}
	if form.Status != "" && !form.Status.Valid() {
		return validationErrorf("unknown load status %q", form.Status)
	}
	if form.Weight != nil && *form.Weight <= 0 {
		return validationErrorf("load weight must be positive")
	}
	if form.ArrivalDate != nil && form.StorageExpiryDate != nil &&
		form.StorageExpiryDate.Before(form.ArrivalDate.Time) {
		return validationErrorf("storage expiry precedes arrival")
	}
	return nil
}

// validateLoadUpdate checks the merged result without applying it, so a
// rejected update leaves no partial mutation.
func validateLoadUpdate(existing models.Load, upd LoadUpdate) error {
	if upd.Status.Provided() && !upd.Status.Value().Valid() {
		return validationErrorf("unknown load status %q", upd.Status.Value())
	}
	if upd.Weight.Provided() && upd.Weight.Value() <= 0 {
		return validationErrorf("load weight must be positive")
	}

	arrival := existing.ArrivalDate
	if upd.ArrivalDate.Provided() {
		arrival = upd.ArrivalDate.Value()
	}
	expiry := existing.StorageExpiryDate
	if upd.StorageExpiryDate.Provided() {
		expiry = upd.StorageExpiryDate.Value()
	}
	if arrival != nil && expiry != nil && expiry.Before(arrival.Time) {
		return validationErrorf("storage expiry precedes arrival")
	}
	return nil
}

func validateShipmentForm(form ShipmentForm) error {
	if form.LoadID == "" {
		return validationErrorf("shipment loadId is required")
	}
	if form.StsJob <= 0 {
		return validationErrorf("stsJob must be positive")
	}
	if form.Quantity < 1 {
		return validationErrorf("quantity must be at least 1")
	}
	if form.Importer == "" {
		return validationErrorf("importer is required")
	}
	if form.Exporter == "" {
		return validationErrorf("exporter is required")
	}
	if form.Weight != nil && *form.Weight <= 0 {
		return validationErrorf("shipment weight must be positive")
	}
	if form.PalletSpace != nil && *form.PalletSpace <= 0 {
		return validationErrorf("pallet space must be positive")
	}
	if form.EmptyPalletRequired < 0 {
		return validationErrorf("emptyPalletRequired cannot be negative")
	}
	if utf8.RuneCountInString(form.Comments) > maxCommentLength {
		return validationErrorf("comments exceed %d characters", maxCommentLength)
	}
	return nil
}

func validateShipmentUpdate(upd ShipmentUpdate) error {
	if upd.StsJob.Provided() && upd.StsJob.Value() <= 0 {
		return validationErrorf("stsJob must be positive")
	}
	if upd.Quantity.Provided() && upd.Quantity.Value() < 1 {
		return validationErrorf("quantity must be at least 1")
	}
	if upd.Importer.Provided() && upd.Importer.Value() == "" {
		return validationErrorf("importer is required")
	}
	if upd.Exporter.Provided() && upd.Exporter.Value() == "" {
		return validationErrorf("exporter is required")
	}
	if upd.Weight.Provided() && upd.Weight.Value() <= 0 {
		return validationErrorf("shipment weight must be positive")
	}
	if upd.PalletSpace.Provided() && upd.PalletSpace.Value() <= 0 {
		return validationErrorf("pallet space must be positive")
	}
	if upd.EmptyPalletRequired.Provided() && upd.EmptyPalletRequired.Value() < 0 {
		return validationErrorf("emptyPalletRequired cannot be negative")
	}
	if upd.Comments.Provided() && utf8.RuneCountInString(upd.Comments.Value()) > maxCommentLength {
		return validationErrorf("comments exceed %d characters", maxCommentLength)
	}
	return nil
}

func validateQuizReport(report models.QuizReport) error {
	if report.CompletedBy == "" {
		return validationErrorf("completedBy is required")
	}
	for _, item := range report.Items {
		if item.UserAnswer != models.AnswerYes && item.UserAnswer != models.AnswerNo {
			return validationErrorf("answer for %s must be yes or no", item.ID)
		}
	}
	return nil
}
