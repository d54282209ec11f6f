// Package quiz derives stock-check question sets from the live warehouse
// state. It is pure derivation: items are built from loads and shipments,
// and a completed run is handed back to the engine as a report.
package quiz

import (
	"fmt"

	"github.com/wharfline/depot/internal/models"
)

const arrivalLayout = "02/01/2006"

// ItemID combines shipment id and location name so every question in a
// run is unique even when one shipment spans several locations.
func ItemID(shipmentID, locationName string) string {
	return shipmentID + "::" + locationName
}

// BuildItems produces one question per shipment-location pair, in shipment
// then location order. Shipments whose load is unknown still yield items;
// the load-derived fields fall back like the printed label does.
func BuildItems(loads []models.Load, shipments []models.Shipment) []models.QuizItem {
	byID := make(map[string]models.Load, len(loads))
	for _, l := range loads {
		byID[l.ID] = l
	}

	var items []models.QuizItem
	for _, s := range shipments {
		load := byID[s.LoadID]

		arrival := "N/A"
		if load.ArrivalDate != nil && !load.ArrivalDate.IsZero() {
			arrival = load.ArrivalDate.Format(arrivalLayout)
		}

		for _, loc := range s.Locations {
			items = append(items, models.QuizItem{
				ID:                       ItemID(s.ID, loc.Name),
				ShipmentID:               s.ID,
				StsJob:                   s.StsJob,
				LoadID:                   s.LoadID,
				LoadCompany:              load.Company,
				LoadArrivalDateFormatted: arrival,
				ShipmentQuantity:         s.Quantity,
				LocationName:             loc.Name,
				LocationPallets:          loc.Pallets,
			})
		}
	}
	return items
}

// Answer marks one item with the operator's yes/no response.
func Answer(item models.QuizItem, answer string) (models.AnsweredQuizItem, error) {
	if answer != models.AnswerYes && answer != models.AnswerNo {
		return models.AnsweredQuizItem{}, fmt.Errorf("quiz: answer must be yes or no, got %q", answer)
	}
	return models.AnsweredQuizItem{QuizItem: item, UserAnswer: answer}, nil
}

// NewReport assembles a completed run. The engine fills in id and
// completion time when the report is added.
func NewReport(completedBy string, items []models.AnsweredQuizItem) models.QuizReport {
	return models.QuizReport{CompletedBy: completedBy, Items: items}
}
