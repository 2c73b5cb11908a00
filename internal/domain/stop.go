package domain

import (
	"fmt"
	"strings"
)

// Represents a single customer visit assigned to a vehicle.
// Sequence orders stops within a vehicle; values need not be contiguous or unique.
type Stop struct {
	VehicleID    string
	Sequence     int
	CustomerName string
	Address      string
}

// FieldProblem names the missing fields of one input row (1-based).
type FieldProblem struct {
	Row    int
	Fields []string
}

// MissingFields lists the required fields left blank.
func (s Stop) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(s.VehicleID) == "" {
		missing = append(missing, "vehicle_id")
	}
	if strings.TrimSpace(s.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(s.Address) == "" {
		missing = append(missing, "address")
	}
	return missing
}

// ValidationError reports every malformed stop at once, before any provider call.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Row == 0 {
			parts = append(parts, "missing "+strings.Join(p.Fields, ", "))
			continue
		}
		parts = append(parts, fmt.Sprintf("row %d: missing %s", p.Row, strings.Join(p.Fields, ", ")))
	}
	return "invalid stops: " + strings.Join(parts, "; ")
}

// ValidateStops checks required fields and trims whitespace in place.
func ValidateStops(stops []Stop) error {
	var problems []FieldProblem
	for i := range stops {
		s := &stops[i]
		s.VehicleID = strings.TrimSpace(s.VehicleID)
		s.CustomerName = strings.TrimSpace(s.CustomerName)
		s.Address = strings.TrimSpace(s.Address)

		if missing := s.MissingFields(); len(missing) > 0 {
			problems = append(problems, FieldProblem{Row: i + 1, Fields: missing})
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
