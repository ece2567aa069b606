package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/dealership-contracts/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders a one-page contract summary. The contract must
// carry its car (with model), customer, user, meetings and documents.
func (g *Generator) Generate(contract model.Contract) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Vehicle Sales Contract", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Contract %s", contract.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", contract.Status), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addPartyBlock(pdf, g.fontName, "Customer", contract.Customer.Name, contract.Customer.PhoneNumber, contract.Customer.Email)
	pdf.Ln(2)
	addPartyBlock(pdf, g.fontName, "Dealer", contract.User.Name, contract.User.PhoneNumber, contract.User.Email)
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Vehicle", "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)

	headers := []string{"Plate number", "Model", "Year", "Mileage", "Price"}
	colWidths := []float64{40, 50, 20, 30, 40}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)
	row := []string{
		contract.Car.CarNumber,
		contract.Car.CarModel.Model,
		fmt.Sprintf("%d", contract.Car.ManufacturingYear),
		fmt.Sprintf("%d km", contract.Car.Mileage),
		formatPrice(contract.ContractPrice),
	}
	drawTableRow(pdf, g.fontName, row, colWidths, false)

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Contract price: %s", formatPrice(contract.ContractPrice)), "", 1, "R", false, 0, "")
	if contract.ResolutionDate != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Resolved on: %s", formatDate(*contract.ResolutionDate)), "", 1, "R", false, 0, "")
	}

	if len(contract.Meetings) > 0 {
		pdf.Ln(4)
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Scheduled meetings", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		for _, meeting := range contract.Meetings {
			line := formatDateTime(meeting.Date)
			if len(meeting.Alarms) > 0 {
				line += fmt.Sprintf("  (alarms: %s)", strings.Join(meeting.Alarms, ", "))
			}
			pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		}
	}

	if len(contract.Documents) > 0 {
		pdf.Ln(4)
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Attached documents", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		for _, doc := range contract.Documents {
			pdf.CellFormat(0, 5, doc.FileName, "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(8)
	signatureBlock(pdf, g.fontName, "Customer", contract.Customer.Name)
	signatureBlock(pdf, g.fontName, "Dealer", contract.User.Name)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addPartyBlock(pdf *gofpdf.Fpdf, fontName, title, name, phone, email string) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		name,
		fmt.Sprintf("Phone: %s", safeValue(phone)),
		fmt.Sprintf("Email: %s", safeValue(email)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, line, "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func signatureBlock(pdf *gofpdf.Fpdf, fontName, label, name string) {
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s: ______________________ /%s/", label, safeValue(name)), "", 1, "L", false, 0, "")
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatPrice(value int64) string {
	return fmt.Sprintf("%d KRW", value)
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}
