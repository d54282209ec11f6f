package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/wharfline/depot/internal/models"
)

func TestFormatTime(t *testing.T) {
	if got := formatTime(nil); got != "-" {
		t.Errorf("nil = %q", got)
	}
	if got := formatTime(&models.Time{}); got != "-" {
		t.Errorf("zero = %q", got)
	}
	ts := models.NewTime(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))
	if got := formatTime(ts); got != "14/03/2025" {
		t.Errorf("formatted = %q", got)
	}
}

func TestFormatLocations(t *testing.T) {
	three := 3
	locs := []models.Location{
		{Name: "Bay A", Pallets: &three},
		{Name: "Yard Overflow"},
	}
	if got := formatLocations(locs); got != "Bay A (3), Yard Overflow" {
		t.Errorf("formatted = %q", got)
	}
}

func TestPrintLoadsTable(t *testing.T) {
	var buf bytes.Buffer
	printLoadsTable(&buf, []models.Load{
		{ID: "STS2990", Status: models.StatusArrived, Company: "Cardinal Maritime"},
	})
	out := buf.String()
	if !strings.Contains(out, "STS2990") || !strings.Contains(out, "Arrived") {
		t.Errorf("table = %q", out)
	}
}
