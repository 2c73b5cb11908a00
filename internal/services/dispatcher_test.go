package services

import (
	"context"
	"dispatch-route-service/internal/adapters/mock"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEngine wires the real resolver chain over stateless scripted providers.
func newEngine(concurrency, prefetch int) (*Dispatcher, *mock.Directions) {
	lookup := mock.NewLookup(map[string][]ports.AddressCandidate{
		"depot": {{Coordinates: depot, RoadAddress: "서울 중구 세종대로 110"}},
		"addr1": {{Coordinates: ptA}},
		"addr3": {{Coordinates: ptB}},
		"addr4": {{Coordinates: ptC}},
		"addr5": {{Coordinates: ptD}},
	})
	directions := mock.NewDirections([]mock.Pair{
		{From: depot, To: ptA, Routes: mock.Route(120000, 3600)},
		{From: depot, To: ptB, Routes: mock.Code(105)},
		{From: depot.Shift(FullOffsets[0]), To: ptB, Routes: mock.Route(30000, 1800)},
		{From: ptB, To: ptC, Routes: mock.Route(15000, 1200)},
		{From: depot, To: ptD, Routes: mock.Code(2)},
	})

	geo := NewCoordinateResolver(lookup, mock.NewLookup(nil), nil)
	routes := NewRouteResolver(NewRouteProbe(directions, nil), FullOffsets, DefaultSameSiteMeters)
	return NewDispatcher(geo, NewItinerary(geo, routes, prefetch), concurrency), directions
}

func sampleStops() []domain.Stop {
	return []domain.Stop{
		{VehicleID: "2호차", Sequence: 2, CustomerName: "수원 창고", Address: "addr4"},
		{VehicleID: "1호차", Sequence: 1, CustomerName: "강남 물류센터", Address: "addr1"},
		{VehicleID: "2호차", Sequence: 1, CustomerName: "판교 배송센터", Address: "addr3"},
		{VehicleID: "1호차", Sequence: 2, CustomerName: "없는 주소", Address: "addr2"},
		{VehicleID: "3호차", Sequence: 1, CustomerName: "인천 물류창고", Address: "addr5"},
	}
}

func TestDispatcherRun(t *testing.T) {
	d, _ := newEngine(1, 0)

	res, err := d.Run(context.Background(), sampleStops(), "depot")
	require.NoError(t, err)

	assert.Equal(t, domain.ResolvedLocation{Coordinates: depot, DisplayAddress: "서울 중구 세종대로 110"}, res.Origin)
	assert.Equal(t, []domain.VehicleSummary{
		{VehicleID: "2호차", StopCount: 2, TotalDistanceMeters: 45000, TotalDurationSeconds: 3000},
		{VehicleID: "1호차", StopCount: 2, TotalDistanceMeters: 120000, TotalDurationSeconds: 3600},
		{VehicleID: "3호차", StopCount: 1},
	}, res.Summaries)

	want := []domain.SegmentResult{
		{VehicleID: "2호차", Sequence: 1, FromLabel: "origin", FromOrigin: true, ToLabel: "판교 배송센터",
			DistanceMeters: intp(30000), DurationSeconds: intp(1800),
			CumulativeDistanceMeters: 30000, CumulativeDurationSeconds: 1800},
		{VehicleID: "2호차", Sequence: 2, FromLabel: "판교 배송센터", ToLabel: "수원 창고",
			DistanceMeters: intp(15000), DurationSeconds: intp(1200),
			CumulativeDistanceMeters: 45000, CumulativeDurationSeconds: 3000},
		{VehicleID: "1호차", Sequence: 1, FromLabel: "origin", FromOrigin: true, ToLabel: "강남 물류센터",
			DistanceMeters: intp(120000), DurationSeconds: intp(3600),
			CumulativeDistanceMeters: 120000, CumulativeDurationSeconds: 3600},
		{VehicleID: "1호차", Sequence: 2, FromLabel: "강남 물류센터", ToLabel: "없는 주소",
			CumulativeDistanceMeters: 120000, CumulativeDurationSeconds: 3600,
			Note: domain.NoteAddressUnresolved},
		{VehicleID: "3호차", Sequence: 1, FromLabel: "origin", FromOrigin: true, ToLabel: "인천 물류창고",
			Note: domain.NoteRouteFailed},
	}
	if diff := cmp.Diff(want, res.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, domain.GrandTotal{Vehicles: 3, StopCount: 5, TotalDistanceMeters: 165000, TotalDurationSeconds: 6600}, res.Total())
}

func TestDispatcherIsDeterministic(t *testing.T) {
	sequential, _ := newEngine(1, 0)
	first, err := sequential.Run(context.Background(), sampleStops(), "depot")
	require.NoError(t, err)
	second, err := sequential.Run(context.Background(), sampleStops(), "depot")
	require.NoError(t, err)

	parallel, _ := newEngine(8, 4)
	third, err := parallel.Run(context.Background(), sampleStops(), "depot")
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeat run differs:\n%s", diff)
	}
	if diff := cmp.Diff(first, third); diff != "" {
		t.Fatalf("parallel run differs:\n%s", diff)
	}
}

func TestDispatcherOriginUnresolved(t *testing.T) {
	d, directions := newEngine(2, 0)

	res, err := d.Run(context.Background(), sampleStops(), "nowhere")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrOriginUnresolved))
	assert.Empty(t, directions.Calls())
}

func TestDispatcherRejectsMalformedInput(t *testing.T) {
	lookup := mock.NewLookup(nil)
	geo := NewCoordinateResolver(lookup, lookup, nil)
	d := NewDispatcher(geo, NewItinerary(geo, newFakeRoutes(), 0), 1)

	_, err := d.Run(context.Background(), []domain.Stop{
		{VehicleID: "1", Sequence: 1, CustomerName: "A"},
	}, "depot")
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []domain.FieldProblem{{Row: 1, Fields: []string{"address"}}}, verr.Problems)

	_, err = d.Run(context.Background(), nil, " ")
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"origin"}, verr.Problems[0].Fields)

	assert.Empty(t, lookup.Calls())
}

func TestDispatcherReportsProgress(t *testing.T) {
	d, _ := newEngine(3, 0)

	var mu sync.Mutex
	var done []string
	d.OnVehicleDone = func(s domain.VehicleSummary) {
		mu.Lock()
		defer mu.Unlock()
		done = append(done, s.VehicleID)
	}

	_, err := d.Run(context.Background(), sampleStops(), "depot")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1호차", "2호차", "3호차"}, done)
}

func TestGroupByVehicleFirstAppearance(t *testing.T) {
	groups := GroupByVehicle(sampleStops())
	require.Len(t, groups, 3)
	assert.Equal(t, "2호차", groups[0].ID)
	assert.Equal(t, "1호차", groups[1].ID)
	assert.Equal(t, "3호차", groups[2].ID)
	assert.Equal(t, "수원 창고", groups[0].Stops[0].CustomerName)
}
