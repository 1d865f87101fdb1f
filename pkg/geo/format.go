package geo

import (
	"fmt"
	"math"
	"strings"
)

// UnitSystem selects how distances are presented
type UnitSystem string

const (
	// UnitMetric presents kilometers, or meters below one kilometer
	UnitMetric UnitSystem = "metric"

	// UnitImperial presents miles, or feet below one mile
	UnitImperial UnitSystem = "imperial"
)

// ParseUnitSystem parses a unit system name. Empty input yields metric.
func ParseUnitSystem(value string) (UnitSystem, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "metric", "km":
		return UnitMetric, nil
	case "imperial", "mi", "miles":
		return UnitImperial, nil
	default:
		return "", fmt.Errorf("unknown unit system %q", value)
	}
}

// FormatDistance renders a distance given in kilometers for display. The
// small unit is used only while the rounded value stays below one large unit.
func FormatDistance(km float64, unit UnitSystem) string {
	if unit == UnitImperial {
		miles := KmToMiles(km)
		if feet := math.Round(miles * feetPerMile); feet < feetPerMile {
			return fmt.Sprintf("%d ft", int(feet))
		}
		return fmt.Sprintf("%.1f mi", miles)
	}

	if meters := math.Round(km * metersPerKm); meters < metersPerKm {
		return fmt.Sprintf("%d m", int(meters))
	}
	return fmt.Sprintf("%.1f km", km)
}
