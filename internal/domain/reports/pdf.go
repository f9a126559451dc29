package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

func renderStatement(userID string, month time.Time, lines []StatementLine) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Allowance Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("User: %s", userID))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Month: %s", month.Format("January 2006")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 7, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 7, "Kind", "1", 0, "", false, 0, "")
	pdf.CellFormat(75, 7, "Detail", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 7, "Status", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 7, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	var total float64
	for _, line := range lines {
		pdf.CellFormat(25, 7, line.Date.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 7, line.Kind, "1", 0, "", false, 0, "")
		pdf.CellFormat(75, 7, line.Detail, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, line.Status, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", line.Amount), "1", 1, "R", false, 0, "")
		if line.Status == "APPROVED" {
			total += line.Amount
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Approved total: %.2f", total))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
