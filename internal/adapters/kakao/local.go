package kakao

import (
	"context"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

type addressResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"`
		Y           string `json:"y"`
		RoadAddress *struct {
			AddressName string `json:"address_name"`
		} `json:"road_address"`
	} `json:"documents"`
}

type keywordResponse struct {
	Documents []struct {
		PlaceName       string `json:"place_name"`
		AddressName     string `json:"address_name"`
		RoadAddressName string `json:"road_address_name"`
		X               string `json:"x"`
		Y               string `json:"y"`
	} `json:"documents"`
}

// AddressSearch resolves structured addresses via /v2/local/search/address.json.
type AddressSearch struct {
	client *Client
}

func (a *AddressSearch) Lookup(ctx context.Context, query string) ([]ports.AddressCandidate, error) {
	c := a.client

	var decoded addressResponse
	err := c.get(ctx, "address", c.geocodeTimeout, c.localBaseURL+"/v2/local/search/address.json",
		map[string]string{"query": query},
		func(resp *http.Response) error {
			return json.NewDecoder(resp.Body).Decode(&decoded)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("address search %q: %w", query, err)
	}

	out := make([]ports.AddressCandidate, 0, len(decoded.Documents))
	for _, d := range decoded.Documents {
		coords, err := parseXY(d.X, d.Y)
		if err != nil {
			return nil, fmt.Errorf("address search %q: %w", query, err)
		}

		cand := ports.AddressCandidate{Coordinates: coords, Address: d.AddressName}
		if d.RoadAddress != nil {
			cand.RoadAddress = d.RoadAddress.AddressName
		}
		out = append(out, cand)
	}

	return out, nil
}

// KeywordSearch resolves place names via /v2/local/search/keyword.json.
type KeywordSearch struct {
	client *Client
}

func (k *KeywordSearch) Lookup(ctx context.Context, query string) ([]ports.AddressCandidate, error) {
	c := k.client

	var decoded keywordResponse
	err := c.get(ctx, "keyword", c.geocodeTimeout, c.localBaseURL+"/v2/local/search/keyword.json",
		map[string]string{"query": query},
		func(resp *http.Response) error {
			return json.NewDecoder(resp.Body).Decode(&decoded)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("keyword search %q: %w", query, err)
	}

	out := make([]ports.AddressCandidate, 0, len(decoded.Documents))
	for _, d := range decoded.Documents {
		coords, err := parseXY(d.X, d.Y)
		if err != nil {
			return nil, fmt.Errorf("keyword search %q: %w", query, err)
		}

		out = append(out, ports.AddressCandidate{
			Coordinates: coords,
			RoadAddress: d.RoadAddressName,
			Address:     d.AddressName,
		})
	}

	return out, nil
}

// Kakao Local returns x (longitude) and y (latitude) as decimal strings.
func parseXY(x, y string) (domain.Coordinates, error) {
	lon, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid x %q: %w", x, err)
	}
	lat, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("invalid y %q: %w", y, err)
	}
	return domain.Coordinates{Lon: lon, Lat: lat}, nil
}
