package domain

import (
	"strconv"

	"github.com/uber/h3-go/v4"
)

// Immutable geographic coordinates (longitude, latitude) in degrees.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return the "x,y" form used by directions queries.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

// Shift returns a copy moved by the given offset.
func (c Coordinates) Shift(o Offset) Coordinates {
	return Coordinates{Lon: c.Lon + o.DLon, Lat: c.Lat + o.DLat}
}

// DistanceMeters returns the great-circle distance to other.
func (c Coordinates) DistanceMeters(other Coordinates) float64 {
	return h3.GreatCircleDistanceM(
		h3.NewLatLng(c.Lat, c.Lon),
		h3.NewLatLng(other.Lat, other.Lon),
	)
}

// Offset is a small displacement in degrees.
type Offset struct {
	DLon float64 `yaml:"dlon" json:"dlon"`
	DLat float64 `yaml:"dlat" json:"dlat"`
}

// Represents a successfully geocoded point.
type ResolvedLocation struct {
	Coordinates
	DisplayAddress string
}
