package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/wharfline/depot/internal/models"
)

const tableDateLayout = "02/01/2006"

// formatTime renders an optional timestamp for table output.
func formatTime(t *models.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format(tableDateLayout)
}

// formatLocations renders a location list as "name (pallets)" pairs.
func formatLocations(locs []models.Location) string {
	parts := make([]string, 0, len(locs))
	for _, l := range locs {
		if l.Pallets != nil {
			parts = append(parts, fmt.Sprintf("%s (%d)", l.Name, *l.Pallets))
			continue
		}
		parts = append(parts, l.Name)
	}
	return strings.Join(parts, ", ")
}

// yesNo renders a boolean for table output.
func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func printLoadsTable(out io.Writer, loads []models.Load) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCOMPANY\tARRIVED\tEXPIRES\tNAME")
	for _, l := range loads {
		status := string(l.Status)
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, status, l.Company, formatTime(l.ArrivalDate), formatTime(l.StorageExpiryDate), l.Name)
	}
	w.Flush()
}

func printShipmentsTable(out io.Writer, shipments []models.Shipment) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STS JOB\tLOAD\tQTY\tIMPORTER\tCLEARED\tRELEASED\tLOCATIONS")
	for _, s := range shipments {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			s.StsJob, s.LoadID, s.Quantity, s.Importer,
			yesNo(s.Cleared), yesNo(s.Released), formatLocations(s.Locations))
	}
	w.Flush()
}
