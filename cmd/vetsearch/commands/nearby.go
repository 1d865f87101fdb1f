package commands

import (
	"github.com/spf13/cobra"
)

func nearbyCmd() *cobra.Command {
	var (
		origin   originFlags
		radiusKm float64
	)

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List veterinarians nearest to a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := appCtx.requireOrigin(cmd, &origin)
			if err != nil {
				return err
			}
			result, err := appCtx.proximity.NearbyVeterinarians(cmd.Context(), from, radiusKm)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			return printVeterinarians(cmd.OutOrStdout(), result.Items)
		},
	}

	origin.register(cmd)
	cmd.Flags().Float64Var(&radiusKm, "radius", 0, "search radius in km (default from SEARCH_DEFAULT_RADIUS_KM)")
	return cmd
}

func emergencyCmd() *cobra.Command {
	var (
		origin   originFlags
		radiusKm float64
	)

	cmd := &cobra.Command{
		Use:   "emergency",
		Short: "List emergency-capable veterinarians near a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := appCtx.requireOrigin(cmd, &origin)
			if err != nil {
				return err
			}
			result, err := appCtx.proximity.EmergencyVeterinarians(cmd.Context(), from, radiusKm)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			return printVeterinarians(cmd.OutOrStdout(), result.Items)
		},
	}

	origin.register(cmd)
	cmd.Flags().Float64Var(&radiusKm, "radius", 0, "search radius in km (default from SEARCH_EMERGENCY_RADIUS_KM)")
	return cmd
}

func clinicsCmd() *cobra.Command {
	var (
		origin   originFlags
		radiusKm float64
	)

	cmd := &cobra.Command{
		Use:   "clinics",
		Short: "List clinics near a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := appCtx.requireOrigin(cmd, &origin)
			if err != nil {
				return err
			}
			results, err := appCtx.proximity.NearbyClinics(cmd.Context(), from, radiusKm)
			if err != nil {
				return err
			}
			return printClinicResults(cmd.OutOrStdout(), results)
		},
	}

	origin.register(cmd)
	cmd.Flags().Float64Var(&radiusKm, "radius", 0, "search radius in km (default from SEARCH_DEFAULT_RADIUS_KM)")
	return cmd
}
