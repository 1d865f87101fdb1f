package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vetconnect/backend/internal/adapters/providers/geolocation"
	"github.com/vetconnect/backend/internal/application/services"
	"github.com/vetconnect/backend/internal/application/state"
	"github.com/vetconnect/backend/internal/bootstrap"
	"github.com/vetconnect/backend/internal/infrastructure/observability"
	"github.com/vetconnect/backend/pkg/config"
	"github.com/vetconnect/backend/pkg/geo"
)

var (
	source   string
	units    string
	position string
	asJSON   bool
	verbose  bool

	appCtx *app
)

// app is what every subcommand works against
type app struct {
	cfg       *config.Config
	res       *bootstrap.Resources
	proximity *services.ProximityService
	search    *services.SearchService
	clinics   *services.ClinicService
	locations *services.LocationService
	store     *state.Store
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vetsearch",
		Short:         "Find veterinarians and clinics near you",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.InitLogger("vetsearch", "development")
			if !verbose {
				log.Logger = log.Logger.Level(zerolog.WarnLevel)
			}

			a, err := newApp(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			appCtx = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				appCtx.res.Close()
				appCtx = nil
			}
		},
	}

	root.PersistentFlags().StringVar(&source, "source", getEnv("DATA_SOURCE", config.DataSourceFixture), "data source: fixture, postgres or typesense")
	root.PersistentFlags().StringVar(&units, "units", "", "distance units: metric or imperial (default from DISTANCE_UNITS)")
	root.PersistentFlags().StringVar(&position, "position", os.Getenv("VETSEARCH_POSITION"), `device position as "lat,lon", used by --here`)
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(searchCmd(), nearbyCmd(), emergencyCmd(), clinicsCmd(), openCmd(), distanceCmd())
	return root
}

func newApp(ctx context.Context, stderr io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	cfg.DataSource = strings.ToLower(strings.TrimSpace(source))
	if cfg.DataSource == config.DataSourceFixture {
		cfg.Redis.Enabled = false
	}
	if units != "" {
		if cfg.Search.Units, err = geo.ParseUnitSystem(units); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var device *geo.Coordinate
	if position != "" {
		if device, err = parseCoordinate(position); err != nil {
			return nil, fmt.Errorf("invalid --position: %w", err)
		}
	}

	res, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	geocoder, err := geolocation.NewProvider(cfg.Geolocation, res.Cache)
	if err != nil {
		res.Close()
		return nil, err
	}

	proximity := services.NewProximityService(res.Source, cfg.Search, cfg.Timeouts, nil)
	a := &app{
		cfg:       cfg,
		res:       res,
		proximity: proximity,
		search:    services.NewSearchService(res.Source, proximity, nil, cfg.Search, cfg.Timeouts, nil),
		clinics:   services.NewClinicService(res.Source, cfg.Search, cfg.Timeouts, nil),
		locations: services.NewLocationService(geocoder, geolocation.NewStaticPositionProvider(device), cfg.Timeouts, nil),
		store:     state.NewStore(state.Initial()),
	}

	var reported error
	a.store.Subscribe(func(s state.State) {
		if s.Location.Err == nil || s.Location.Err == reported {
			return
		}
		reported = s.Location.Err
		fmt.Fprintf(stderr, "location %s: %v\n", strings.ReplaceAll(string(s.Location.Status), "_", " "), s.Location.Err)
	})

	return a, nil
}

// parseCoordinate reads "lat,lon"
func parseCoordinate(value string) (*geo.Coordinate, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected \"lat,lon\", got %q", value)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}
	coord := &geo.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return nil, fmt.Errorf("coordinate %q is out of range", value)
	}
	return coord, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
