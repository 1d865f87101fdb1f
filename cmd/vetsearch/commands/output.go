package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/vetconnect/backend/internal/application/state"
	"github.com/vetconnect/backend/internal/domain/entities"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSearch(w io.Writer, s state.State) error {
	result := s.Search.Result
	if asJSON {
		return printJSON(w, result)
	}

	if s.Location.Status == state.LocationStatusResolved && s.Location.Label != "" {
		fmt.Fprintf(w, "Near %s\n", s.Location.Label)
	}
	if err := printVeterinarians(w, result.Items); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d shown, %d candidates", len(result.Items), result.TotalCount)
	if result.Excluded > 0 {
		fmt.Fprintf(w, ", %d without a usable clinic", result.Excluded)
	}
	if result.HasMore {
		fmt.Fprintf(w, ", more from offset %d", s.Search.Filters.Offset+pageSize(s.Search.Filters))
	}
	fmt.Fprintln(w)
	return nil
}

func printVeterinarians(w io.Writer, items []entities.VeterinarianResult) error {
	if len(items) == 0 {
		fmt.Fprintln(w, "No veterinarians found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIALTIES\tRATING\tCLINIC\tDISTANCE\tOPEN")
	for _, item := range items {
		clinic := "-"
		if item.Clinic != nil {
			clinic = item.Clinic.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\t%s\t%s\n",
			item.Veterinarian.ID,
			item.Veterinarian.Name,
			strings.Join(item.Veterinarian.Specialties, ", "),
			item.Veterinarian.Rating,
			clinic,
			orDash(item.DistanceLabel),
			openLabel(item.OpenNow),
		)
	}
	return tw.Flush()
}

func printClinicResults(w io.Writer, items []entities.ClinicResult) error {
	if asJSON {
		return printJSON(w, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No clinics found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tDISTANCE\tOPEN")
	for _, item := range items {
		open := item.OpenNow
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			item.Clinic.ID, item.Clinic.Name, formatAddress(item.Clinic.Address), item.DistanceLabel, openLabel(&open))
	}
	return tw.Flush()
}

func printOpenClinics(w io.Writer, clinics []*entities.Clinic, at time.Time) error {
	if asJSON {
		return printJSON(w, clinics)
	}
	if len(clinics) == 0 {
		fmt.Fprintf(w, "No clinics are open at %s.\n", at.Format(time.RFC1123))
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tCLOSES")
	for _, c := range clinics {
		status := c.Hours.StatusAt(c.LocalTime(at))
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, formatAddress(c.Address), orDash(status.ClosesAt))
	}
	return tw.Flush()
}

func formatAddress(a entities.Address) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.City, a.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return orDash(strings.Join(parts, ", "))
}

func openLabel(open *bool) string {
	switch {
	case open == nil:
		return "-"
	case *open:
		return "open"
	default:
		return "closed"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
