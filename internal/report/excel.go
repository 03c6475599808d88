// Package report renders aggregated data into downloadable workbooks.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/workforce-service/internal/domain"
)

const timestampLayout = "2006-01-02 15:04"

func newWorkbook(sheet string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return nil, err
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, rowIdx int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// ComplaintsWorkbook renders complaints into an xlsx workbook.
func ComplaintsWorkbook(complaints []domain.Complaint) ([]byte, error) {
	const sheet = "Complaints"
	headers := []string{"Code", "Customer", "Phone", "Issue Type", "Priority", "Status",
		"Escalation Level", "Created At", "Resolved At", "Satisfaction"}

	f, err := newWorkbook(sheet, headers)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i, c := range complaints {
		resolvedAt := ""
		if c.ResolvedAt != nil {
			resolvedAt = c.ResolvedAt.Format(timestampLayout)
		}
		satisfaction := ""
		if c.CustomerSatisfaction != nil {
			satisfaction = fmt.Sprintf("%d", *c.CustomerSatisfaction)
		}
		row := []any{
			c.Code, c.CustomerName, c.CustomerPhone, c.IssueType,
			string(c.Priority), string(c.Status), c.EscalationLevel,
			c.CreatedAt.Format(timestampLayout), resolvedAt, satisfaction,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	return workbookBytes(f)
}

// WorkforceWorkbook renders shift entries into an xlsx workbook.
func WorkforceWorkbook(entries []domain.WorkforceEntry) ([]byte, error) {
	const sheet = "Workforce"
	headers := []string{"Staff ID", "Shift Date", "Check In", "Check Out", "Status", "Hours Worked"}

	f, err := newWorkbook(sheet, headers)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i, e := range entries {
		checkIn, checkOut := "", ""
		if e.CheckInTime != nil {
			checkIn = e.CheckInTime.Format("15:04")
		}
		if e.CheckOutTime != nil {
			checkOut = e.CheckOutTime.Format("15:04")
		}
		row := []any{
			e.StaffID, e.ShiftDate.Format("2006-01-02"), checkIn, checkOut,
			string(e.Status), e.HoursWorked(),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}
	return workbookBytes(f)
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
