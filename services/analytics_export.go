package services

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportOverviewXLSX renders the overview as a workbook with an "Overview" sheet
// of totals and a "Monthly" sheet ordered oldest month first.
func ExportOverviewXLSX(o *PlatformOverview, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const overview = "Overview"
	if err := f.SetSheetName("Sheet1", overview); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total students", o.TotalStudents},
		{"Total teachers", o.TotalTeachers},
		{"Total courses", o.TotalCourses},
		{"Published courses", o.PublishedCourses},
		{"Total enrollments", o.TotalEnrollments},
		{"Completed enrollments", o.CompletedEnrollments},
		{"Completion rate (%)", o.CompletionRate},
		{"Generated at (UTC)", generatedAt.UTC().Format(time.RFC3339)},
	}
	if err := writeRows(f, overview, rows); err != nil {
		return nil, err
	}

	const monthly = "Monthly"
	if _, err := f.NewSheet(monthly); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	keys := make([]string, 0, len(o.MonthlyData))
	for k := range o.MonthlyData {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return monthKeyLess(keys[i], keys[j]) })

	monthlyRows := [][]interface{}{{"Month", "Students", "Enrollments", "Completion rate (%)"}}
	for _, k := range keys {
		p := o.MonthlyData[k]
		monthlyRows = append(monthlyRows, []interface{}{k, p.Students, p.Enrollments, p.CompletionRate})
	}
	if err := writeRows(f, monthly, monthlyRows); err != nil {
		return nil, err
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(overview, 1, 1, style)
		_ = f.SetRowStyle(monthly, 1, 1, style)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// monthKeyLess orders "YYYY-M" keys chronologically ("2025-9" before "2025-10").
func monthKeyLess(a, b string) bool {
	var ay, am, by, bm int
	fmt.Sscanf(a, "%d-%d", &ay, &am)
	fmt.Sscanf(b, "%d-%d", &by, &bm)
	if ay != by {
		return ay < by
	}
	return am < bm
}
