package domain

import (
	"errors"
	"time"
)

// FromLabel of the first hop of every itinerary. Customers may use the same name,
// so SegmentResult.FromOrigin is what marks the hop as leaving the origin.
const OriginLabel = "origin"

const (
	NoteNone              = ""
	NoteAddressUnresolved = "address unresolved"
	NoteRouteFailed       = "route computation failed"
)

var (
	// ErrAddressUnresolved means neither lookup tier produced a candidate.
	ErrAddressUnresolved = errors.New("address unresolved")
	// ErrOriginUnresolved aborts a dispatch run before any itinerary is computed.
	ErrOriginUnresolved = errors.New("origin address unresolved")
)

// Represents one hop of a vehicle itinerary, emitted exactly once per input stop.
// DistanceMeters and DurationSeconds are nil when the segment could not be computed;
// cumulative values only include successful segments.
type SegmentResult struct {
	VehicleID                 string
	Sequence                  int
	FromLabel                 string
	FromOrigin                bool
	ToLabel                   string
	DistanceMeters            *int
	DurationSeconds           *int
	CumulativeDistanceMeters  int
	CumulativeDurationSeconds int
	Note                      string
}

type VehicleSummary struct {
	VehicleID            string
	StopCount            int
	TotalDistanceMeters  int
	TotalDurationSeconds int
}

// Sum over all vehicles of a dispatch run.
type GrandTotal struct {
	Vehicles             int
	StopCount            int
	TotalDistanceMeters  int
	TotalDurationSeconds int
}

// DispatchResult is the complete output of one run.
type DispatchResult struct {
	Origin    ResolvedLocation
	Segments  []SegmentResult
	Summaries []VehicleSummary
}

func (r DispatchResult) Total() GrandTotal {
	t := GrandTotal{Vehicles: len(r.Summaries)}
	for _, s := range r.Summaries {
		t.StopCount += s.StopCount
		t.TotalDistanceMeters += s.TotalDistanceMeters
		t.TotalDurationSeconds += s.TotalDurationSeconds
	}
	return t
}

// A persisted dispatch run.
type DispatchRun struct {
	ID            string
	OriginAddress string
	CreatedAt     time.Time
	Result        DispatchResult
}
