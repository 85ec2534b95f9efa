package renderfeasibilitypdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"bizhealth-workers/internal/models"
)

const (
	pageWidth   = 190.0
	labelWidth  = 120.0
	amountWidth = 70.0
	rowHeight   = 7.0
)

// Render lays out report as a single A4 document. Core fonts only cover
// Latin-1, so amounts are prefixed with "INR" instead of the rupee sign.
func Render(report *models.FeasibilityReport, author string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.SetTitle("Feasibility Report "+report.ID, false)
	pdf.SetAuthor(author, false)
	pdf.SetCreationDate(report.CreatedAt)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pageWidth, 10, "Business Feasibility Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pageWidth, 6, fmt.Sprintf("%s in %s", report.BusinessType.DisplayName(), report.City), "", 1, "C", false, 0, "")
	pdf.CellFormat(pageWidth, 6, "Generated "+report.CreatedAt.Format("02 Jan 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	analysis := report.Analysis

	heading(pdf, "Summary")
	row(pdf, "Total capital expenditure", analysis.TotalCapex, true)
	row(pdf, "Monthly operating cost", analysis.MonthlyOpex, false)
	row(pdf, "Projected monthly revenue", analysis.ProjectedRevenue, false)
	row(pdf, "Projected monthly profit", analysis.MonthlyProfit(), false)
	row(pdf, "Break-even revenue", analysis.BreakEvenPoint, false)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(labelWidth, rowHeight, "Break-even period", "B", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, rowHeight, breakEvenText(analysis.BreakEvenMonths), "B", 1, "R", false, 0, "")
	pdf.Ln(4)

	heading(pdf, "Capital expenditure")
	for _, item := range models.SortedLineItems(analysis.CapexBreakdown) {
		row(pdf, item.Name, item.Amount, false)
	}
	pdf.Ln(4)

	heading(pdf, "Monthly operating costs")
	for _, item := range models.SortedLineItems(analysis.OpexBreakdown) {
		row(pdf, item.Name, item.Amount, false)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(pageWidth, 4, fmt.Sprintf(
		"Location data source: %s. Figures are estimates for planning purposes.", report.LocationSource,
	), "", "L", false)

	if pdf.Err() {
		return nil, pdf.Error()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(230, 236, 245)
	pdf.CellFormat(pageWidth, 8, text, "", 1, "L", true, 0, "")
}

func row(pdf *fpdf.Fpdf, label string, amount decimal.Decimal, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(labelWidth, rowHeight, label, "B", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, rowHeight, formatINR(amount), "B", 1, "R", false, 0, "")
}

func breakEvenText(months *int64) string {
	switch {
	case months == nil:
		return "Not reached"
	case *months == 1:
		return "1 month"
	default:
		return fmt.Sprintf("%d months", *months)
	}
}

// formatINR groups digits the Indian way: 12,34,567.00.
func formatINR(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	whole, frac := fixed[:len(fixed)-3], fixed[len(fixed)-3:]

	if len(whole) > 3 {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		whole = strings.Join(groups, ",") + "," + tail
	}
	return "INR " + sign + whole + frac
}
