package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/dealership-contracts/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a dashboard snapshot as a two-sheet workbook:
// a summary sheet and a per-car-type breakdown.
func (g *Generator) Generate(companyName string, dashboard model.Dashboard) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, companyName, dashboard); err != nil {
		return nil, err
	}

	breakdownSheet := "By car type"
	file.NewSheet(breakdownSheet)
	if err := g.writeBreakdown(file, breakdownSheet, dashboard); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet, companyName string, dashboard model.Dashboard) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Company")
	set("B1", companyName)
	set("A2", "Sales this month")
	set("B2", dashboard.MonthlySales)
	set("A3", "Sales last month")
	set("B3", dashboard.LastMonthSales)
	set("A4", "Growth rate")
	set("B4", fmt.Sprintf("%.2f%%", dashboard.GrowthRate*100))
	set("A5", "Contracts in progress")
	set("B5", dashboard.ProceedingContractsCount)
	set("A6", "Contracts completed")
	set("B6", dashboard.CompletedContractsCount)

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 20)
	return nil
}

func (g *Generator) writeBreakdown(file *excelize.File, sheet string, dashboard model.Dashboard) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Car type")
	set("B1", "Completed contracts")
	set("C1", "Sales")

	salesByType := make(map[string]int64, len(dashboard.SalesByCarType))
	for _, row := range dashboard.SalesByCarType {
		salesByType[row.CarType] = row.Sales
	}

	for i, row := range dashboard.ContractsByCarType {
		rowNum := i + 2
		set(fmt.Sprintf("A%d", rowNum), row.CarType)
		set(fmt.Sprintf("B%d", rowNum), row.Count)
		set(fmt.Sprintf("C%d", rowNum), salesByType[row.CarType])
	}

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "C", 20)
	return nil
}
