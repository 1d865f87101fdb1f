package commands

import (
	"github.com/spf13/cobra"

	"github.com/vetconnect/backend/internal/application/services"
	"github.com/vetconnect/backend/internal/application/state"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

// originFlags are the ways a command can be told where to search from
type originFlags struct {
	lat  float64
	lon  float64
	near string
	here bool
}

func (f *originFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.lat, "lat", 0, "origin latitude")
	cmd.Flags().Float64Var(&f.lon, "lon", 0, "origin longitude")
	cmd.Flags().StringVar(&f.near, "near", "", "place name to search around")
	cmd.Flags().BoolVar(&f.here, "here", false, "search around the device position (see --position)")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
	cmd.MarkFlagsMutuallyExclusive("lat", "near", "here")
}

// resolveOrigin resolves the origin and records the outcome in the store.
// A nil origin with a nil error means no origin was asked for.
func (a *app) resolveOrigin(cmd *cobra.Command, f *originFlags) (*services.Origin, error) {
	ctx := cmd.Context()

	var (
		origin *services.Origin
		err    error
	)
	switch {
	case cmd.Flags().Changed("lat"):
		origin, err = a.locations.ResolveOrigin(ctx, &geo.Coordinate{Latitude: f.lat, Longitude: f.lon}, "")
	case f.here:
		origin, err = a.locations.CurrentPosition(ctx)
	default:
		origin, err = a.locations.ResolveOrigin(ctx, nil, f.near)
	}

	if err != nil {
		a.store.Dispatch(state.LocationFailed{Err: err})
		return nil, err
	}
	if origin == nil {
		a.store.Dispatch(state.LocationCleared{})
		return nil, nil
	}

	a.store.Dispatch(state.LocationResolved{Origin: origin.Coordinate, Label: origin.Label})
	return origin, nil
}

// requireOrigin is resolveOrigin for commands that cannot run without one
func (a *app) requireOrigin(cmd *cobra.Command, f *originFlags) (geo.Coordinate, error) {
	origin, err := a.resolveOrigin(cmd, f)
	if err != nil {
		return geo.Coordinate{}, err
	}
	if origin == nil {
		return geo.Coordinate{}, apperrors.NewValidationError("a location is required: pass --lat and --lon, --near or --here")
	}
	return origin.Coordinate, nil
}
