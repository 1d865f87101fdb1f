package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vetconnect/backend/pkg/geo"
)

func distanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distance <from-lat> <from-lon> <to-lat> <to-lon>",
		Short: "Measure the great-circle distance between two points",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]float64, len(args))
			for i, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("argument %d: %w", i+1, err)
				}
				values[i] = v
			}

			from := geo.Coordinate{Latitude: values[0], Longitude: values[1]}
			to := geo.Coordinate{Latitude: values[2], Longitude: values[3]}
			km, label, err := appCtx.proximity.Distance(from, to, "")
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"distance_km":    km,
					"distance_miles": geo.KmToMiles(km),
					"label":          label,
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), label)
			return err
		},
	}
	return cmd
}
