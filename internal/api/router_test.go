package api

import (
	"bytes"
	"dispatch-route-service/internal/adapters/mock"
	"dispatch-route-service/internal/adapters/repositories"
	"dispatch-route-service/internal/adapters/sheet"
	"dispatch-route-service/internal/api/dto"
	"dispatch-route-service/internal/ports"
	"dispatch-route-service/internal/services"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const depot = "서울특별시 중구 세종대로 110"

func newTestServer(t *testing.T, lookup ports.AddressLookup) *httptest.Server {
	t.Helper()
	geo := services.NewCoordinateResolver(lookup, lookup, nil)
	routes := services.NewRouteResolver(services.NewRouteProbe(mock.Offline{}, nil), services.FullOffsets, services.DefaultSameSiteMeters)
	d := services.NewDispatcher(geo, services.NewItinerary(geo, routes, 2), 2)

	srv := httptest.NewServer(NewRouter(Deps{
		Geocoder:      geo,
		Dispatcher:    d,
		Runs:          repositories.NewMemoryRunRepository(),
		DefaultOrigin: depot,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	res, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, mock.Offline{})

	res := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
}

func TestGeocode(t *testing.T) {
	srv := newTestServer(t, mock.Offline{})

	res := get(t, srv.URL+"/geocode?address="+strings.ReplaceAll(depot, " ", "+"))
	require.Equal(t, http.StatusOK, res.StatusCode)
	var loc dto.LocationResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&loc))
	assert.Equal(t, depot, loc.DisplayAddress)
	assert.InDelta(t, 37.56, loc.Lat, 0.2)

	assert.Equal(t, http.StatusBadRequest, get(t, srv.URL+"/geocode").StatusCode)

	empty := newTestServer(t, mock.NewLookup(nil))
	assert.Equal(t, http.StatusNotFound, get(t, empty.URL+"/geocode?address=nowhere").StatusCode)
}

const dispatchBody = `{
	"stops": [
		{"vehicle_id": "2호차", "sequence": 1, "customer_name": "인천 물류창고", "address": "인천광역시 연수구 센트럴로 194"},
		{"vehicle_id": "1호차", "sequence": 2, "customer_name": "판교 배송센터", "address": "경기도 성남시 분당구 판교역로 235"},
		{"vehicle_id": "1호차", "sequence": 1, "customer_name": "강남 물류센터", "address": "서울특별시 강남구 테헤란로 152"}
	]
}`

func TestCreateAndGetDispatch(t *testing.T) {
	srv := newTestServer(t, mock.Offline{})

	res := postJSON(t, srv.URL+"/dispatches", dispatchBody)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var created dto.DispatchResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, depot, created.Origin.Query)
	require.Len(t, created.Segments, 3)
	require.Len(t, created.Summaries, 2)

	assert.Equal(t, "2호차", created.Summaries[0].VehicleID)
	assert.Equal(t, "origin", created.Segments[1].From)
	assert.True(t, created.Segments[1].FromOrigin)
	assert.False(t, created.Segments[2].FromOrigin)
	assert.Equal(t, "강남 물류센터", created.Segments[1].To)
	assert.Equal(t, "강남 물류센터", created.Segments[2].From)
	assert.Equal(t, 3, created.Total.StopCount)
	for _, s := range created.Segments {
		require.NotNil(t, s.DistanceMeters)
		assert.Empty(t, s.Note)
	}

	res = get(t, srv.URL+"/dispatches/"+created.ID)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var fetched dto.DispatchResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&fetched))
	assert.Equal(t, created.Segments, fetched.Segments)
	assert.Equal(t, created.Total, fetched.Total)

	assert.Equal(t, http.StatusNotFound, get(t, srv.URL+"/dispatches/missing").StatusCode)
}

func TestCreateDispatchRejectsInvalidInput(t *testing.T) {
	srv := newTestServer(t, mock.Offline{})

	res := postJSON(t, srv.URL+"/dispatches", `{"stops":[{"vehicle_id":"1","sequence":1,"customer_name":"A"}]}`)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	var verr dto.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&verr))
	assert.Equal(t, []dto.ProblemResponse{{Row: 1, Fields: []string{"address"}}}, verr.Problems)

	res = postJSON(t, srv.URL+"/dispatches", `{"stops":[], "depot":"x"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCreateDispatchOriginUnresolved(t *testing.T) {
	srv := newTestServer(t, mock.NewLookup(nil))

	res := postJSON(t, srv.URL+"/dispatches", dispatchBody)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
}

func TestTemplateAndSheetDispatch(t *testing.T) {
	srv := newTestServer(t, mock.Offline{})

	res := get(t, srv.URL+"/template.xlsx")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Disposition"), "input_template.xlsx")
	template, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "input.xlsx")
	require.NoError(t, err)
	_, err = part.Write(template)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	res, err = http.Post(srv.URL+"/dispatches/xlsx", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Dispatch-Run-ID"))

	run := get(t, srv.URL+"/dispatches/"+res.Header.Get("X-Dispatch-Run-ID"))
	var fetched dto.DispatchResponse
	require.NoError(t, json.NewDecoder(run.Body).Decode(&fetched))
	assert.Len(t, fetched.Segments, len(sheet.SampleStops()))
	assert.Equal(t, 3, fetched.Total.Vehicles)
}

func TestSheetDispatchRequiresFile(t *testing.T) {
	srv := newTestServer(t, mock.Offline{})

	res, err := http.Post(srv.URL+"/dispatches/xlsx", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, mock.Offline{})
	get(t, srv.URL+"/health")

	res := get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, res.StatusCode)
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), `http_requests_total{method="GET",path="/health",status="200"}`)
}
