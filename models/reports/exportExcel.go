package reports

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"
)

var historyHeaders = []string{
	"Session Number", "User Id", "Status", "Opened At", "Closed At", "Duration",
	"Opening Balance", "Total Sales", "Cash In", "Cash Out", "Refunds",
	"Expected Balance", "Closing Balance", "Discrepancy",
}

// ExportSessionHistoryExcel streams the session history as an xlsx workbook.
func ExportSessionHistoryExcel(w http.ResponseWriter, summaries []*SessionSummaryResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	for i, header := range historyHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, header)
	}

	for i, s := range summaries {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), s.SessionNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), s.UserId)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), string(s.Status))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), s.OpenedAt)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), s.ClosedAt)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), s.Duration)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), s.OpeningBalance.String())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), s.TotalSales.String())
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), s.TotalIn.String())
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), s.TotalOut.String())
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), s.TotalRefunds.String())
		if s.ExpectedBalance != nil {
			f.SetCellValue(sheet, fmt.Sprintf("L%d", row), s.ExpectedBalance.String())
		}
		if s.ClosingBalance != nil {
			f.SetCellValue(sheet, fmt.Sprintf("M%d", row), s.ClosingBalance.String())
		}
		if s.Discrepancy != nil {
			f.SetCellValue(sheet, fmt.Sprintf("N%d", row), s.Discrepancy.String())
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=cash_session_history.xlsx")
	return f.Write(w)
}
