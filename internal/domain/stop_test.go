package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStopsReportsEveryRow(t *testing.T) {
	stops := []Stop{
		{VehicleID: " 1호차 ", Sequence: 1, CustomerName: "강남 물류센터", Address: "서울특별시 강남구 테헤란로 152"},
		{VehicleID: "", Sequence: 2, CustomerName: "판교", Address: " "},
		{VehicleID: "2호차", Sequence: 1, CustomerName: "", Address: "인천광역시 연수구 센트럴로 194"},
	}

	err := ValidateStops(stops)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldProblem{
		{Row: 2, Fields: []string{"vehicle_id", "address"}},
		{Row: 3, Fields: []string{"customer_name"}},
	}, verr.Problems)
	assert.Equal(t, "1호차", stops[0].VehicleID)
	assert.Contains(t, err.Error(), "row 2: missing vehicle_id, address")
}

func TestValidateStopsAcceptsCompleteInput(t *testing.T) {
	stops := []Stop{{VehicleID: "V1", Sequence: 1, CustomerName: "A", Address: "addr1"}}
	assert.NoError(t, ValidateStops(stops))
}

func TestCoordinatesDistanceMeters(t *testing.T) {
	a := Coordinates{Lon: 126.9780, Lat: 37.5665}

	// 0.0005 deg of latitude is roughly 55 m anywhere.
	assert.InDelta(t, 55.6, a.DistanceMeters(a.Shift(Offset{DLat: 0.0005})), 1.0)
	assert.InDelta(t, 0.0, a.DistanceMeters(a), 1e-9)
	assert.Equal(t, "126.978,37.5665", a.String())
}

func TestDispatchResultTotal(t *testing.T) {
	r := DispatchResult{Summaries: []VehicleSummary{
		{VehicleID: "1", StopCount: 3, TotalDistanceMeters: 1000, TotalDurationSeconds: 60},
		{VehicleID: "2", StopCount: 2, TotalDistanceMeters: 500, TotalDurationSeconds: 30},
	}}

	assert.Equal(t, GrandTotal{Vehicles: 2, StopCount: 5, TotalDistanceMeters: 1500, TotalDurationSeconds: 90}, r.Total())
}

func TestResolvedLocationPromotesCoordinates(t *testing.T) {
	loc := ResolvedLocation{
		Coordinates:    Coordinates{Lon: 127.0276, Lat: 37.4979},
		DisplayAddress: "서울 강남구 테헤란로 152",
	}

	assert.Equal(t, 127.0276, loc.Lon)
	assert.Equal(t, 37.4979, loc.Lat)
	assert.Equal(t, "127.0276,37.4979", loc.String())
	assert.InDelta(t, 0.0, loc.DistanceMeters(loc.Coordinates), 1e-9)
}
