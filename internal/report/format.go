// Package report renders dispatch results for people: kilometres, minutes and
// Korean duration strings shared by the spreadsheet export and the CLI.
package report

import (
	"dispatch-route-service/internal/domain"
	"fmt"
	"math"
)

// Placeholder shown for a segment that has no distance or duration.
const Missing = "-"

// OriginName is how the shared origin is labelled in operator-facing output.
const OriginName = "상차지"

// Km converts metres to kilometres rounded to one decimal (half to even).
func Km(meters int) float64 {
	return math.RoundToEven(float64(meters)/100) / 10
}

// Minutes converts seconds to whole minutes (half to even).
func Minutes(seconds int) int {
	return int(math.RoundToEven(float64(seconds) / 60))
}

// Duration formats seconds as "H시간 M분", or "M분" under an hour. Minutes are truncated.
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%d시간 %d분", hours, minutes)
	}
	return fmt.Sprintf("%d분", minutes)
}

// From returns the display name of the segment's starting point.
func From(s domain.SegmentResult) string {
	if s.FromOrigin {
		return OriginName
	}
	return s.FromLabel
}

// Note translates a segment note for the workbook.
func Note(n string) string {
	switch n {
	case domain.NoteAddressUnresolved:
		return "주소 확인 필요"
	case domain.NoteRouteFailed:
		return "경로 계산 실패"
	default:
		return n
	}
}

// SegmentKm returns the segment distance in km, or Missing.
func SegmentKm(s domain.SegmentResult) any {
	if s.DistanceMeters == nil {
		return Missing
	}
	return Km(*s.DistanceMeters)
}

// SegmentMinutes returns the segment duration in minutes, or Missing.
func SegmentMinutes(s domain.SegmentResult) any {
	if s.DurationSeconds == nil {
		return Missing
	}
	return Minutes(*s.DurationSeconds)
}
