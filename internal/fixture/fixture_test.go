package fixture

import (
	"testing"

	"github.com/wharfline/depot/internal/models"
	"github.com/wharfline/depot/internal/store"
	"github.com/wharfline/depot/internal/warehouse"
)

func TestSeed(t *testing.T) {
	eng, err := warehouse.New(store.NewMemory())
	if err != nil {
		t.Fatal(err)
	}

	loads, shipments, err := Seed(eng)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if loads != 11 {
		t.Errorf("loads = %d, want 11", loads)
	}
	if shipments != 55 {
		t.Errorf("shipments = %d, want 55", shipments)
	}

	if _, ok := eng.GetLoadByID("STS3034"); !ok {
		t.Error("STS3034 not seeded")
	}
	for _, s := range eng.Shipments() {
		if len(s.Locations) == 0 {
			t.Fatalf("shipment %s has no locations", s.ID)
		}
		if s.Cleared && s.ClearanceDate == nil {
			t.Errorf("cleared shipment %d missing clearance date", s.StsJob)
		}
	}
	if got := eng.GetShipmentsByLoadID("STS2990"); len(got) != 5 {
		t.Errorf("STS2990 shipments = %d, want 5", len(got))
	}
}

func TestSeed_TwiceFailsOnDuplicate(t *testing.T) {
	eng, err := warehouse.New(store.NewMemory())
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Seed(eng); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Seed(eng); err == nil {
		t.Error("expected duplicate error on second seed")
	}
}

func TestSeed_SentinelMix(t *testing.T) {
	eng, err := warehouse.New(store.NewMemory())
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := Seed(eng); err != nil {
		t.Fatal(err)
	}

	pending := 0
	for _, s := range eng.Shipments() {
		if len(s.Locations) == 1 && s.Locations[0].Name == models.SentinelLocationName {
			pending++
		}
	}
	if pending == 0 {
		t.Error("no shipments left on the sentinel location")
	}
}
