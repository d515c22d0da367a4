package domain

// Distance units accepted by the geo query endpoints. Anything other than
// miles is treated as kilometers.
const (
	UnitMiles      = "mi"
	UnitKilometers = "km"
)

// Earth radii used to convert a linear distance into the angular radius
// (radians) required by a spherical-distance predicate.
const (
	earthRadiusMiles      = 3963.2
	earthRadiusKilometers = 6378.1
)

// EarthRadiusMeters is the sphere radius used when computing raw distances.
const EarthRadiusMeters = 6378100.0

// Multipliers from meters into the requested unit.
const (
	metersToMiles      = 0.000621371
	metersToKilometers = 0.001
)

// AngularRadius converts a linear distance in the given unit to the angular
// radius in radians on a sphere of matching radius.
func AngularRadius(distance float64, unit string) float64 {
	if unit == UnitMiles {
		return distance / earthRadiusMiles
	}
	return distance / earthRadiusKilometers
}

// DistanceMultiplier returns the factor that scales a distance in meters into
// the requested unit.
func DistanceMultiplier(unit string) float64 {
	if unit == UnitMiles {
		return metersToMiles
	}
	return metersToKilometers
}
