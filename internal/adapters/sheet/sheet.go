// Package sheet reads dispatch stops from and writes results to xlsx workbooks.
package sheet

import (
	"dispatch-route-service/internal/domain"
	"dispatch-route-service/internal/report"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Input columns.
const (
	ColVehicle  = "배송호차"
	ColSequence = "운행순번"
	ColCustomer = "거래처명"
	ColAddress  = "거래처주소"
)

// Sheet names.
const (
	TemplateSheet = "배송데이터"
	DetailSheet   = "배송상세"
	SummarySheet  = "호차별요약"
)

var requiredColumns = []string{ColVehicle, ColSequence, ColCustomer, ColAddress}

var detailHeader = []any{
	ColVehicle, ColSequence, "출발지", "도착지",
	"구간거리(km)", "구간소요시간(분)", "누적거리(km)", "누적시간", "비고",
}

var summaryHeader = []any{ColVehicle, "거래처수", "총 운행거리(km)", "총 운행시간"}

// ReadStops parses the first worksheet. Columns are located by header name; vehicle ids
// are kept as text and blank rows are skipped. Missing columns, blank required cells or
// non-integer sequences yield a *domain.ValidationError citing worksheet row numbers.
func ReadStops(r io.Reader) ([]domain.Stop, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read stops: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("read stops: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read stops: sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, &domain.ValidationError{Problems: []domain.FieldProblem{{Fields: requiredColumns}}}
	}

	idx := map[string]int{}
	for i, h := range rows[0] {
		idx[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Problems: []domain.FieldProblem{{Fields: missing}}}
	}

	cell := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var stops []domain.Stop
	var problems []domain.FieldProblem
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}

		seq, ok := parseSequence(cell(row, ColSequence))
		stop := domain.Stop{
			VehicleID:    cell(row, ColVehicle),
			Sequence:     seq,
			CustomerName: cell(row, ColCustomer),
			Address:      cell(row, ColAddress),
		}
		// Problems cite worksheet rows: the header is row 1.
		fields := stop.MissingFields()
		if !ok {
			fields = append(fields, "sequence")
		}
		if len(fields) > 0 {
			problems = append(problems, domain.FieldProblem{Row: i + 2, Fields: fields})
		}
		stops = append(stops, stop)
	}
	if len(problems) > 0 {
		return nil, &domain.ValidationError{Problems: problems}
	}

	return stops, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseSequence accepts integers, including integral floats like "2.0" from numeric cells.
func parseSequence(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// WriteResult writes the detail and per-vehicle summary sheets, ending the summary
// with a grand-total row.
func WriteResult(w io.Writer, res *domain.DispatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DetailSheet); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("write result: style: %w", err)
	}

	detail := [][]any{detailHeader}
	for _, s := range res.Segments {
		detail = append(detail, []any{
			s.VehicleID,
			s.Sequence,
			report.From(s),
			s.ToLabel,
			report.SegmentKm(s),
			report.SegmentMinutes(s),
			report.Km(s.CumulativeDistanceMeters),
			report.Duration(s.CumulativeDurationSeconds),
			report.Note(s.Note),
		})
	}
	if err := writeRows(f, DetailSheet, detail, bold); err != nil {
		return err
	}

	summary := [][]any{summaryHeader}
	for _, s := range res.Summaries {
		summary = append(summary, []any{
			s.VehicleID,
			s.StopCount,
			report.Km(s.TotalDistanceMeters),
			report.Duration(s.TotalDurationSeconds),
		})
	}
	total := res.Total()
	summary = append(summary, []any{
		"합계",
		total.StopCount,
		report.Km(total.TotalDistanceMeters),
		report.Duration(total.TotalDurationSeconds),
	})
	if err := writeRows(f, SummarySheet, summary, bold); err != nil {
		return err
	}
	if err := boldRow(f, SummarySheet, len(summary), len(summaryHeader), bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// WriteTemplate writes an input workbook with the required header and sample rows.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", TemplateSheet); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("write template: style: %w", err)
	}

	rows := [][]any{{ColVehicle, ColSequence, ColCustomer, ColAddress}}
	for _, s := range SampleStops() {
		rows = append(rows, []any{s.VehicleID, s.Sequence, s.CustomerName, s.Address})
	}
	if err := writeRows(f, TemplateSheet, rows, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// SampleStops are the template's example rows.
func SampleStops() []domain.Stop {
	return []domain.Stop{
		{VehicleID: "1호차", Sequence: 1, CustomerName: "강남 물류센터", Address: "서울특별시 강남구 테헤란로 152"},
		{VehicleID: "1호차", Sequence: 2, CustomerName: "판교 배송센터", Address: "경기도 성남시 분당구 판교역로 235"},
		{VehicleID: "1호차", Sequence: 3, CustomerName: "수원 창고", Address: "경기도 수원시 영통구 광교중앙로 170"},
		{VehicleID: "2호차", Sequence: 1, CustomerName: "인천 물류창고", Address: "인천광역시 연수구 센트럴로 194"},
		{VehicleID: "2호차", Sequence: 2, CustomerName: "부천 배송센터", Address: "경기도 부천시 원미구 부일로 309"},
		{VehicleID: "3호차", Sequence: 1, CustomerName: "일산 물류센터", Address: "경기도 고양시 일산동구 중앙로 1261"},
		{VehicleID: "3호차", Sequence: 2, CustomerName: "파주 배송센터", Address: "경기도 파주시 금릉역로 87"},
		{VehicleID: "3호차", Sequence: 3, CustomerName: "김포 창고", Address: "경기도 김포시 양촌읍 김포대로 1243"},
	}
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 {
		if err := boldRow(f, sheet, 1, len(rows[0]), headerStyle); err != nil {
			return err
		}
		last, err := excelize.ColumnNumberToName(len(rows[0]))
		if err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return nil
}

func boldRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("sheet %s: %w", sheet, err)
	}
	return nil
}
