package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/phpdave11/gofpdf"

	"coworkly/types"
)

// exportReportPDF writes the loaded admin report as a PDF next to the other
// exports and returns the file path. Labels stay latin: the core PDF fonts
// carry no cyrillic glyphs.
func exportReportPDF(report *types.ReportResponse, dir string) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Coworkly booking report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	s := report.Summary
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	summaryLines := []string{
		fmt.Sprintf("Total bookings: %d", s.TotalBookings),
		fmt.Sprintf("Confirmed: %d   Pending: %d   Canceled: %d   Completed: %d",
			s.Confirmed, s.Pending, s.Canceled, s.Completed),
		fmt.Sprintf("Average duration: %.1f min", s.AvgDurationMinutes),
		fmt.Sprintf("Total revenue: $%.2f", float64(s.TotalRevenueCents)/100),
	}
	for _, line := range summaryLines {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(report.ByType) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Bookings by space type", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, "Type", "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, "Bookings", "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, "Duration, min", "1", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, bt := range report.ByType {
			pdf.CellFormat(60, 6, bt.Type, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("%d", bt.Bookings), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 6, fmt.Sprintf("%.1f", bt.DurationMinutes), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(report.Daily) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Bookings per day", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, d := range report.Daily {
			pdf.CellFormat(0, 6, fmt.Sprintf("%s: %d", d.Day, d.Bookings), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(report.TopSpaces) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Top spaces", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, ts := range report.TopSpaces {
			pdf.CellFormat(0, 6, fmt.Sprintf("#%d %s: %d bookings", ts.SpaceID, ts.SpaceName, ts.Bookings), "", 1, "L", false, 0, "")
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("coworkly-report-%s.pdf", time.Now().Format("20060102-150405")))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write report PDF: %w", err)
	}
	return path, nil
}
