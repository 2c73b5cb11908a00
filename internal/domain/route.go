package domain

import "fmt"

type RouteStatus int

const (
	RouteFailure RouteStatus = iota
	RouteSuccess
	RouteUnreachable
)

func (s RouteStatus) String() string {
	switch s {
	case RouteSuccess:
		return "success"
	case RouteUnreachable:
		return "unreachable"
	default:
		return "failure"
	}
}

// RouteOutcome is the classified result of one directions query.
// DistanceMeters and DurationSeconds are set only on success; Code only when unreachable.
type RouteOutcome struct {
	Status          RouteStatus
	DistanceMeters  int
	DurationSeconds int
	Code            int
}

func Success(meters, seconds int) RouteOutcome {
	return RouteOutcome{Status: RouteSuccess, DistanceMeters: meters, DurationSeconds: seconds}
}

func Unreachable(code int) RouteOutcome {
	return RouteOutcome{Status: RouteUnreachable, Code: code}
}

func Failure() RouteOutcome {
	return RouteOutcome{Status: RouteFailure}
}

func (o RouteOutcome) OK() bool { return o.Status == RouteSuccess }

func (o RouteOutcome) String() string {
	switch o.Status {
	case RouteSuccess:
		return fmt.Sprintf("success(%dm, %ds)", o.DistanceMeters, o.DurationSeconds)
	case RouteUnreachable:
		return fmt.Sprintf("unreachable(%d)", o.Code)
	default:
		return "failure"
	}
}
