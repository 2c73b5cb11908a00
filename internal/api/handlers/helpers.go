package handlers

import (
	"dispatch-route-service/internal/api/dto"
	"dispatch-route-service/internal/domain"
	"encoding/json"
	"log"
	"net/http"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, verr *domain.ValidationError) {
	res := dto.ValidationErrorResponse{
		Error:    verr.Error(),
		Problems: make([]dto.ProblemResponse, 0, len(verr.Problems)),
	}
	for _, p := range verr.Problems {
		res.Problems = append(res.Problems, dto.ProblemResponse{Row: p.Row, Fields: p.Fields})
	}
	writeJSON(w, r, http.StatusBadRequest, res)
}

func toDispatchResponse(res *domain.DispatchResult) dto.DispatchResponse {
	out := dto.DispatchResponse{
		Origin: dto.LocationResponse{
			DisplayAddress: res.Origin.DisplayAddress,
			Lon:            res.Origin.Lon,
			Lat:            res.Origin.Lat,
		},
		Segments:  make([]dto.SegmentResponse, 0, len(res.Segments)),
		Summaries: make([]dto.SummaryResponse, 0, len(res.Summaries)),
	}
	for _, s := range res.Segments {
		out.Segments = append(out.Segments, dto.SegmentResponse{
			VehicleID:                 s.VehicleID,
			Sequence:                  s.Sequence,
			From:                      s.FromLabel,
			FromOrigin:                s.FromOrigin,
			To:                        s.ToLabel,
			DistanceMeters:            s.DistanceMeters,
			DurationSeconds:           s.DurationSeconds,
			CumulativeDistanceMeters:  s.CumulativeDistanceMeters,
			CumulativeDurationSeconds: s.CumulativeDurationSeconds,
			Note:                      s.Note,
		})
	}
	for _, s := range res.Summaries {
		out.Summaries = append(out.Summaries, dto.SummaryResponse{
			VehicleID:            s.VehicleID,
			StopCount:            s.StopCount,
			TotalDistanceMeters:  s.TotalDistanceMeters,
			TotalDurationSeconds: s.TotalDurationSeconds,
		})
	}
	t := res.Total()
	out.Total = dto.TotalResponse{
		Vehicles:             t.Vehicles,
		StopCount:            t.StopCount,
		TotalDistanceMeters:  t.TotalDistanceMeters,
		TotalDurationSeconds: t.TotalDurationSeconds,
	}
	return out
}
