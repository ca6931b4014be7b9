// Package export writes roster reports for offline review.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/talent-console/internal/types"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the generated workbook.
const (
	SummarySheet     = "Summary"
	CandidatesSheet  = "Candidates"
	ShortlistedSheet = "Shortlisted"
)

var rosterHeaders = []any{"Rank", "ID", "Name", "Email", "Score", "Experience", "Skills", "Shortlisted", "Resume"}

// WriteShortlistReport writes the roster of job to an .xlsx workbook with a
// summary sheet, every candidate, and the shortlisted subset. shadow decides
// which candidates count as shortlisted. It returns the path written.
func WriteShortlistReport(outputPath string, job types.Job, roster []types.Candidate, shadow map[int64]bool) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{CandidatesSheet, ShortlistedSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return "", fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	var shortlisted []types.Candidate
	for _, c := range roster {
		if shadow[c.ID] {
			shortlisted = append(shortlisted, c)
		}
	}

	if err := writeSummary(f, job, roster, shortlisted); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeRoster(f, CandidatesSheet, roster, shadow); err != nil {
		return "", fmt.Errorf("failed to create candidates sheet: %w", err)
	}
	if err := writeRoster(f, ShortlistedSheet, shortlisted, shadow); err != nil {
		return "", fmt.Errorf("failed to create shortlisted sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return outputPath, nil
}

func writeSummary(f *excelize.File, job types.Job, roster, shortlisted []types.Candidate) error {
	sheet := SummarySheet
	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 50); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	_ = f.SetCellValue(sheet, "A1", "Shortlist Report")
	_ = f.MergeCell(sheet, "A1", "B1")
	_ = f.SetCellStyle(sheet, "A1", "B1", headerStyle)

	rows := [][2]any{
		{"Job:", fmt.Sprintf("#%d %s", job.ID, job.Title)},
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Candidates:", len(roster)},
		{"Shortlisted:", len(shortlisted)},
	}
	if len(roster) > 0 {
		total := 0
		for _, c := range roster {
			total += c.Score
		}
		rows = append(rows,
			[2]any{"Highest Score:", roster[0].Score},
			[2]any{"Average Score:", fmt.Sprintf("%.1f", float64(total)/float64(len(roster)))},
		)
	}
	for _, band := range scoreBands(roster) {
		rows = append(rows, [2]any{band.label + ":", band.count})
	}

	for i, r := range rows {
		row := i + 3
		label := fmt.Sprintf("A%d", row)
		_ = f.SetCellValue(sheet, label, r[0])
		_ = f.SetCellStyle(sheet, label, label, labelStyle)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1])
	}
	return nil
}

type band struct {
	label string
	floor int
	color string
	count int
}

// scoreBands mirrors the roster score filter thresholds.
func scoreBands(roster []types.Candidate) []band {
	bands := []band{
		{label: "85 and above", floor: 85, color: "C6EFCE"},
		{label: "70 to 84", floor: 70, color: "FFEB9C"},
		{label: "40 to 69", floor: 40, color: "FFC7CE"},
		{label: "Below 40", floor: 0, color: "FF9999"},
	}
	for _, c := range roster {
		bands[bandIndex(c.Score)].count++
	}
	return bands
}

func bandIndex(score int) int {
	switch {
	case score >= 85:
		return 0
	case score >= 70:
		return 1
	case score >= 40:
		return 2
	default:
		return 3
	}
}

func borderedFill(color string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	}
}

func writeRoster(f *excelize.File, sheet string, roster []types.Candidate, shadow map[int64]bool) error {
	widths := []float64{8, 8, 25, 30, 8, 14, 40, 12, 14}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	header := borderedFill("4472C4")
	header.Font = &excelize.Font{Bold: true, Color: "FFFFFF"}
	header.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	headerStyle, err := f.NewStyle(header)
	if err != nil {
		return err
	}

	bands := scoreBands(nil)
	bandStyles := make([]int, len(bands))
	for i, b := range bands {
		if bandStyles[i], err = f.NewStyle(borderedFill(b.color)); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &rosterHeaders); err != nil {
		return err
	}
	_ = f.SetCellStyle(sheet, "A1", "I1", headerStyle)

	for i, c := range roster {
		row := i + 2
		start := fmt.Sprintf("A%d", row)
		shortlisted := "No"
		if shadow[c.ID] {
			shortlisted = "Yes"
		}
		values := []any{i + 1, c.ID, c.Name, c.Email, c.Score, c.ExperienceLevel,
			strings.Join(c.SkillsFound, ", "), shortlisted, ""}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}
		_ = f.SetCellStyle(sheet, start, fmt.Sprintf("I%d", row), bandStyles[bandIndex(c.Score)])

		if c.ResumeURL != "" {
			cell := fmt.Sprintf("I%d", row)
			_ = f.SetCellValue(sheet, cell, "Open resume")
			if err := f.SetCellHyperLink(sheet, cell, c.ResumeURL, "External"); err != nil {
				return err
			}
		}
	}

	if len(roster) > 0 {
		if err := f.AutoFilter(sheet, fmt.Sprintf("A1:I%d", len(roster)+1), []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
