package handlers

import (
	"dispatch-route-service/internal/api/dto"
	"dispatch-route-service/internal/services"
	"log"
	"net/http"
	"strings"
)

// GeocodeHandler resolves a single address, for checking an address before a run.
type GeocodeHandler struct {
	Geocoder services.Geocoder
}

func (h *GeocodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, r, http.StatusBadRequest, "address is required")
		return
	}

	loc, err := h.Geocoder.Resolve(r.Context(), address)
	if services.IsUnresolved(err) {
		writeError(w, r, http.StatusNotFound, "address unresolved")
		return
	}
	if err != nil {
		log.Printf("geocode failed address=%q: %v", address, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.LocationResponse{
		Query:          address,
		DisplayAddress: loc.DisplayAddress,
		Lon:            loc.Lon,
		Lat:            loc.Lat,
	})
}
