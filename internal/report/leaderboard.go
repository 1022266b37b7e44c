// Package report renders the leaderboard for people: a plain-text table for the terminal
// and a spreadsheet for classroom use.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/xuri/excelize/v2"
	"mathquest/internal/domain"
)

const sheetName = "Leaderboard"

var header = []string{"Rank", "User", "Points", "Badges", "Last updated"}

// WriteTable prints the leaderboard as aligned columns.
func WriteTable(w io.Writer, lb domain.Leaderboard) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, e := range lb.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", i+1, e.UserID, e.Points, e.BadgeCount, formatTime(e.LastUpdated))
	}
	return tw.Flush()
}

// WriteXLSX writes the leaderboard as a single-sheet workbook.
func WriteXLSX(w io.Writer, lb domain.Leaderboard) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", bold); err != nil {
		return err
	}

	for i, e := range lb.Entries {
		row := []any{i + 1, e.UserID, e.Points, e.BadgeCount, formatTime(e.LastUpdated)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheetName, "B", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "E", "E", 22); err != nil {
		return err
	}
	return f.Write(w)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
