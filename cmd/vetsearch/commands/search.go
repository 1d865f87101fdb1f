package commands

import (
	"github.com/spf13/cobra"

	"github.com/vetconnect/backend/internal/application/state"
	"github.com/vetconnect/backend/internal/domain/entities"
	apperrors "github.com/vetconnect/backend/pkg/errors"
)

func searchCmd() *cobra.Command {
	var (
		origin  originFlags
		filters entities.SearchFilters
		sortBy  string
		pages   int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search veterinarians by name, specialty, rating and distance",
		Long: "Search veterinarians. Without a location the results are ordered by rating;\n" +
			"a location that cannot be resolved is reported and the search continues without it.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				filters.Query = args[0]
			}
			filters.SortBy = entities.SortOrder(sortBy)

			if _, err := appCtx.resolveOrigin(cmd, &origin); err != nil && apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				return err
			}

			appCtx.store.Dispatch(state.SearchRequested{Filters: filters})
			for page := 1; ; page++ {
				result, err := appCtx.search.Search(cmd.Context(), appCtx.store.State().SearchFilters())
				if err != nil {
					appCtx.store.Dispatch(state.SearchFailed{Err: err})
					return err
				}

				s := appCtx.store.Dispatch(state.SearchSucceeded{Result: result})
				if err := printSearch(cmd.OutOrStdout(), s); err != nil {
					return err
				}

				if page >= pages || !result.HasMore {
					return nil
				}
				appCtx.store.Dispatch(state.PageRequested{Offset: s.Search.Filters.Offset + pageSize(s.Search.Filters)})
			}
		},
	}

	origin.register(cmd)
	cmd.Flags().StringSliceVar(&filters.Specialties, "specialty", nil, "only veterinarians with one of these specialties")
	cmd.Flags().Float64Var(&filters.MinRating, "min-rating", 0, "minimum rating, 0 to 5")
	cmd.Flags().IntVar(&filters.MinExperience, "min-experience", 0, "minimum years of experience")
	cmd.Flags().BoolVar(&filters.EmergencyOnly, "emergency", false, "only veterinarians who handle emergencies")
	cmd.Flags().BoolVar(&filters.OpenNow, "open-now", false, "only veterinarians whose clinic is open now")
	cmd.Flags().Float64Var(&filters.RadiusKm, "radius", 0, "search radius in km (default from SEARCH_DEFAULT_RADIUS_KM)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort by distance, rating or experience")
	cmd.Flags().IntVar(&filters.Limit, "limit", 0, "page size (default from SEARCH_DEFAULT_PAGE_SIZE)")
	cmd.Flags().IntVar(&filters.Offset, "offset", 0, "number of candidates to skip")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to fetch")
	return cmd
}

// pageSize is the limit a search will actually apply
func pageSize(filters entities.SearchFilters) int {
	limit := filters.Limit
	if limit <= 0 {
		limit = appCtx.cfg.Search.DefaultPageSize
	}
	if limit > appCtx.cfg.Search.MaxPageSize {
		limit = appCtx.cfg.Search.MaxPageSize
	}
	return limit
}
