package geolocation

import (
	"context"

	"github.com/vetconnect/backend/internal/domain/providers"
	apperrors "github.com/vetconnect/backend/pkg/errors"
	"github.com/vetconnect/backend/pkg/geo"
)

// StaticPositionProvider reports a fixed position, typically taken from
// configuration or command line flags
type StaticPositionProvider struct {
	coord  *geo.Coordinate
	denied bool
}

var _ providers.PositionProvider = (*StaticPositionProvider)(nil)

// NewStaticPositionProvider reports coord. A nil coord makes every lookup UNAVAILABLE.
func NewStaticPositionProvider(coord *geo.Coordinate) *StaticPositionProvider {
	return &StaticPositionProvider{coord: coord}
}

// NewDeniedPositionProvider refuses every lookup with PERMISSION_DENIED
func NewDeniedPositionProvider() *StaticPositionProvider {
	return &StaticPositionProvider{denied: true}
}

// CurrentPosition returns the configured position
func (s *StaticPositionProvider) CurrentPosition(ctx context.Context) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, err
	}
	if s.denied {
		return geo.Coordinate{}, apperrors.NewPermissionDeniedError("location access was denied")
	}
	if s.coord == nil {
		return geo.Coordinate{}, apperrors.NewUnavailableError("no position is configured", nil)
	}
	if !s.coord.Valid() {
		return geo.Coordinate{}, apperrors.NewValidationError("configured position is out of range")
	}
	return *s.coord, nil
}
