package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vetconnect/backend/internal/domain/entities"
)

func openCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "open [clinic-id]",
		Short: "Show which clinics are open, or whether one clinic is",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			when := time.Now()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at, expected RFC3339: %w", err)
				}
				when = parsed
			}

			if len(args) == 1 {
				clinic, status, err := appCtx.clinics.OpenStatus(cmd.Context(), args[0], when)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), map[string]interface{}{
						"clinic_id": clinic.ID,
						"name":      clinic.Name,
						"status":    status,
					})
				}
				return printStatus(cmd.OutOrStdout(), clinic.Name, status)
			}

			clinics, err := appCtx.clinics.OpenClinics(cmd.Context(), when)
			if err != nil {
				return err
			}
			return printOpenClinics(cmd.OutOrStdout(), clinics, when)
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "evaluate at this RFC3339 instant instead of now")
	return cmd
}

func printStatus(w io.Writer, name string, status entities.OpenStatus) error {
	var err error
	switch {
	case status.Open && status.ClosesAt != "":
		_, err = fmt.Fprintf(w, "%s is open until %s\n", name, status.ClosesAt)
	case status.Open:
		_, err = fmt.Fprintf(w, "%s is open\n", name)
	case status.OpensAt != "":
		_, err = fmt.Fprintf(w, "%s is closed (%s), opens at %s\n", name, status.State, status.OpensAt)
	default:
		_, err = fmt.Fprintf(w, "%s is closed (%s)\n", name, status.State)
	}
	return err
}
