package services

import "dispatch-route-service/internal/domain"

// FullOffsets perturbs along the four cardinal directions and the four diagonals by
// 0.0005 deg, then the four cardinals by 0.001 deg. At Korean latitudes 0.001 deg is
// about 111 m north-south and 88 m east-west.
var FullOffsets = []domain.Offset{
	{DLon: 0.0005, DLat: 0}, {DLon: -0.0005, DLat: 0},
	{DLon: 0, DLat: 0.0005}, {DLon: 0, DLat: -0.0005},
	{DLon: 0.0005, DLat: 0.0005}, {DLon: -0.0005, DLat: 0.0005},
	{DLon: -0.0005, DLat: -0.0005}, {DLon: 0.0005, DLat: -0.0005},
	{DLon: 0.001, DLat: 0}, {DLon: -0.001, DLat: 0},
	{DLon: 0, DLat: 0.001}, {DLon: 0, DLat: -0.001},
}

// CompactOffsets trades retry coverage for latency: the four 0.0005 deg cardinals
// plus one larger step east and north.
var CompactOffsets = []domain.Offset{
	{DLon: 0.0005, DLat: 0}, {DLon: -0.0005, DLat: 0},
	{DLon: 0, DLat: 0.0005}, {DLon: 0, DLat: -0.0005},
	{DLon: 0.001, DLat: 0}, {DLon: 0, DLat: 0.001},
}

// Attempt is one perturbed query of the retry loop.
type Attempt struct {
	Origin      domain.Coordinates
	Destination domain.Coordinates
}

// RetryPlan lists, in order, every perturbed pair tried after an unreachable result:
// per offset the origin shifted, then the destination, then both.
func RetryPlan(origin, destination domain.Coordinates, offsets []domain.Offset) []Attempt {
	plan := make([]Attempt, 0, 3*len(offsets))
	for _, off := range offsets {
		plan = append(plan,
			Attempt{Origin: origin.Shift(off), Destination: destination},
			Attempt{Origin: origin, Destination: destination.Shift(off)},
			Attempt{Origin: origin.Shift(off), Destination: destination.Shift(off)},
		)
	}
	return plan
}
