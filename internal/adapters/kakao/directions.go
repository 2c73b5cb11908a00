package kakao

import (
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"encoding/json"
	"fmt"
	"net/http"
)

type directionsResponse struct {
	Routes []struct {
		ResultCode int    `json:"result_code"`
		ResultMsg  string `json:"result_msg"`
		Summary    *struct {
			Distance int `json:"distance"`
			Duration int `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// Directions queries Kakao Mobility /v1/directions with RECOMMEND priority.
func (c *Client) Directions(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) ([]ports.DirectionsRoute, error) {
	var decoded directionsResponse
	err := c.get(ctx, "directions", c.directionsTimeout, c.naviBaseURL+"/v1/directions",
		map[string]string{
			"origin":      origin.String(),
			"destination": destination.String(),
			"priority":    "RECOMMEND",
		},
		func(resp *http.Response) error {
			return json.NewDecoder(resp.Body).Decode(&decoded)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("directions %s -> %s: %w", origin, destination, err)
	}

	out := make([]ports.DirectionsRoute, 0, len(decoded.Routes))
	for _, r := range decoded.Routes {
		route := ports.DirectionsRoute{ResultCode: r.ResultCode, ResultMsg: r.ResultMsg}
		if r.Summary != nil {
			route.DistanceMeters = r.Summary.Distance
			route.DurationSeconds = r.Summary.Duration
		}
		out = append(out, route)
	}

	return out, nil
}
