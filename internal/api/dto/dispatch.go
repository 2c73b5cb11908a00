package dto

import "time"

type StopRequest struct {
	VehicleID    string `json:"vehicle_id"`
	Sequence     int    `json:"sequence"`
	CustomerName string `json:"customer_name"`
	Address      string `json:"address"`
}

type DispatchRequest struct {
	// Origin defaults to the server's DEFAULT_ORIGIN when empty.
	Origin string        `json:"origin"`
	Stops  []StopRequest `json:"stops"`
}

type LocationResponse struct {
	Query          string  `json:"query,omitempty"`
	DisplayAddress string  `json:"display_address"`
	Lon            float64 `json:"lon"`
	Lat            float64 `json:"lat"`
}

type SegmentResponse struct {
	VehicleID                 string `json:"vehicle_id"`
	Sequence                  int    `json:"sequence"`
	From                      string `json:"from"`
	FromOrigin                bool   `json:"from_origin"`
	To                        string `json:"to"`
	DistanceMeters            *int   `json:"distance_meters"`
	DurationSeconds           *int   `json:"duration_seconds"`
	CumulativeDistanceMeters  int    `json:"cumulative_distance_meters"`
	CumulativeDurationSeconds int    `json:"cumulative_duration_seconds"`
	Note                      string `json:"note,omitempty"`
}

type SummaryResponse struct {
	VehicleID            string `json:"vehicle_id"`
	StopCount            int    `json:"stop_count"`
	TotalDistanceMeters  int    `json:"total_distance_meters"`
	TotalDurationSeconds int    `json:"total_duration_seconds"`
}

type TotalResponse struct {
	Vehicles             int `json:"vehicles"`
	StopCount            int `json:"stop_count"`
	TotalDistanceMeters  int `json:"total_distance_meters"`
	TotalDurationSeconds int `json:"total_duration_seconds"`
}

type DispatchResponse struct {
	// ID is empty when the run could not be stored.
	ID        string            `json:"id,omitempty"`
	CreatedAt *time.Time        `json:"created_at,omitempty"`
	Origin    LocationResponse  `json:"origin"`
	Segments  []SegmentResponse `json:"segments"`
	Summaries []SummaryResponse `json:"summaries"`
	Total     TotalResponse     `json:"total"`
}

type ProblemResponse struct {
	Row    int      `json:"row,omitempty"`
	Fields []string `json:"fields"`
}

type ValidationErrorResponse struct {
	Error    string            `json:"error"`
	Problems []ProblemResponse `json:"problems"`
}
