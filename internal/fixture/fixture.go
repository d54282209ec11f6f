// Package fixture seeds a demonstration data set through the public engine
// operations, so seeded state passes the same validation and derivation as
// operator input.
package fixture

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/wharfline/depot/internal/models"
	"github.com/wharfline/depot/internal/warehouse"
)

const shipmentsPerLoad = 5

var companies = []string{
	"Cardinal Maritime",
	"Harbor Freight Ltd",
	"Blue Anchor Logistics",
	"Meridian Shipping",
}

var importers = []string{
	"ImpAlpha Co",
	"Northgate Trading",
	"Severn Imports",
	"Quayside Foods",
	"Atlas Components",
}

var exporters = []string{
	"ExpBeta Ltd",
	"Rotterdam Freight BV",
	"Hanse Export GmbH",
	"Calais Outbound SARL",
}

var locations = []string{
	"Bay A",
	"Bay B",
	"Rack 12",
	"Cold Store 1",
	"Yard Overflow",
}

// Seed populates the engine with the demonstration trailers STS2990-STS2999
// and STS3034, five shipments each. It returns the number of loads and
// shipments created, stopping at the first error.
func Seed(eng *warehouse.Engine) (loads, shipments int, err error) {
	rng := rand.New(rand.NewSource(2990))

	ids := make([]string, 0, 11)
	for n := 2990; n <= 2999; n++ {
		ids = append(ids, fmt.Sprintf("STS%d", n))
	}
	ids = append(ids, "STS3034")

	now := time.Now()
	stsJob := 10001
	for i, id := range ids {
		arrival := now.AddDate(0, 0, -i)
		expiry := arrival.AddDate(0, 0, 14)
		weight := 18000 + rng.Float64()*6000

		form := warehouse.LoadForm{
			ID:                id,
			Name:              fmt.Sprintf("Trailer %s", id),
			Company:           companies[i%len(companies)],
			SprattJobNumber:   fmt.Sprintf("SPR-%04d", 4100+i),
			ArrivalDate:       models.NewTime(arrival),
			StorageExpiryDate: models.NewTime(expiry),
			Weight:            &weight,
		}
		if err := eng.AddLoad(form); err != nil {
			return loads, shipments, fmt.Errorf("fixture: seed load %s: %w", id, err)
		}
		loads++

		for j := 0; j < shipmentsPerLoad; j++ {
			pallets := 1 + rng.Intn(8)
			shipWeight := 400 + rng.Float64()*1800

			sf := warehouse.ShipmentForm{
				LoadID:            id,
				StsJob:            stsJob,
				CustomerJobNumber: fmt.Sprintf("CJ-%05d", stsJob),
				Quantity:          5 + rng.Intn(60),
				Importer:          importers[(i+j)%len(importers)],
				Exporter:          exporters[(i+j)%len(exporters)],
				Weight:            &shipWeight,
			}
			// Leave some shipments on the sentinel location so the
			// stock-check run has unassigned stock to flag.
			if j%3 != 0 {
				sf.InitialLocationName = locations[(i+j)%len(locations)]
				sf.InitialLocationPallets = &pallets
			}
			if j%2 == 0 {
				sf.Cleared = true
				sf.ClearanceDocumentName = fmt.Sprintf("clearance-%d.pdf", stsJob)
			}

			if _, err := eng.AddShipment(sf); err != nil {
				return loads, shipments, fmt.Errorf("fixture: seed shipment %d: %w", stsJob, err)
			}
			shipments++
			stsJob++
		}
	}
	return loads, shipments, nil
}
