package handlers

import (
	"bytes"
	"context"
	"dispatch-route-service/internal/adapters/sheet"
	"dispatch-route-service/internal/api/dto"
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/ports"
	"dispatch-route-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const (
	maxUploadBytes = 32 << 20
	xlsxMediaType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DispatchRunner computes every vehicle itinerary of one dispatch.
type DispatchRunner interface {
	Run(ctx context.Context, stops []domain.Stop, originAddress string) (*domain.DispatchResult, error)
}

// DispatchHandler runs dispatches from JSON or spreadsheet input and serves stored runs.
type DispatchHandler struct {
	Dispatcher    DispatchRunner
	Runs          ports.RunRepository
	DefaultOrigin string
}

func (h *DispatchHandler) origin(requested string) string {
	if o := strings.TrimSpace(requested); o != "" {
		return o
	}
	return strings.TrimSpace(h.DefaultOrigin)
}

// Create runs a dispatch from a JSON body and stores the result.
func (h *DispatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DispatchRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	stops := make([]domain.Stop, 0, len(req.Stops))
	for _, s := range req.Stops {
		stops = append(stops, domain.Stop{
			VehicleID:    s.VehicleID,
			Sequence:     s.Sequence,
			CustomerName: s.CustomerName,
			Address:      s.Address,
		})
	}

	origin := h.origin(req.Origin)
	res, ok := h.run(w, r, stops, origin)
	if !ok {
		return
	}

	out := toDispatchResponse(res)
	out.Origin.Query = origin
	if run := h.record(r, origin, res); run != nil {
		out.ID = run.ID
		out.CreatedAt = &run.CreatedAt
	}

	writeJSON(w, r, http.StatusOK, out)
}

// Get returns a stored run.
func (h *DispatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Runs.GetRun(r.Context(), id)
	if errors.Is(err, ports.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "dispatch run not found")
		return
	}
	if err != nil {
		log.Printf("get run failed id=%s: %v", id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	out := toDispatchResponse(&run.Result)
	out.ID = run.ID
	out.CreatedAt = &run.CreatedAt
	out.Origin.Query = run.OriginAddress
	writeJSON(w, r, http.StatusOK, out)
}

// CreateFromSheet runs a dispatch from an uploaded workbook (multipart field "file")
// and responds with the result workbook.
func (h *DispatchHandler) CreateFromSheet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	stops, err := sheet.ReadStops(file)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, r, verr)
			return
		}
		writeError(w, r, http.StatusBadRequest, "unreadable workbook")
		return
	}

	origin := h.origin(r.URL.Query().Get("origin"))
	res, ok := h.run(w, r, stops, origin)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := sheet.WriteResult(&buf, res); err != nil {
		log.Printf("write result workbook failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if run := h.record(r, origin, res); run != nil {
		w.Header().Set("X-Dispatch-Run-ID", run.ID)
	}
	writeWorkbook(w, r, "dispatch_result.xlsx", buf.Bytes())
}

// Template serves the input workbook with sample rows.
func Template(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := sheet.WriteTemplate(&buf); err != nil {
		log.Printf("write template failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeWorkbook(w, r, "input_template.xlsx", buf.Bytes())
}

// run maps engine errors to responses; ok is false when a response was already written.
func (h *DispatchHandler) run(
	w http.ResponseWriter,
	r *http.Request,
	stops []domain.Stop,
	origin string,
) (*domain.DispatchResult, bool) {
	res, err := h.Dispatcher.Run(r.Context(), stops, origin)
	if err == nil {
		return res, true
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, r, verr)
	case errors.Is(err, domain.ErrOriginUnresolved):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("dispatch failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
	return nil, false
}

// record stores the run; a storage failure is logged and does not fail the request.
func (h *DispatchHandler) record(r *http.Request, origin string, res *domain.DispatchResult) *domain.DispatchRun {
	if h.Runs == nil {
		return nil
	}
	run, err := services.RecordRun(r.Context(), h.Runs, origin, res)
	if err != nil {
		log.Printf("store run failed: %v", err)
		return nil
	}
	return run
}

func writeWorkbook(w http.ResponseWriter, r *http.Request, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxMediaType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("write workbook failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}
