package excel

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/dealership-contracts/internal/model"
)

func TestGenerate(t *testing.T) {
	dashboard := model.Dashboard{
		MonthlySales:             1500,
		LastMonthSales:           1000,
		GrowthRate:               0.5,
		ProceedingContractsCount: 2,
		CompletedContractsCount:  3,
		ContractsByCarType: []model.CarTypeCount{
			{CarType: "SUV", Count: 1},
			{CarType: "Sedan", Count: 2},
		},
		SalesByCarType: []model.CarTypeSales{
			{CarType: "SUV", Sales: 35000},
			{CarType: "Sedan", Sales: 41000},
		},
	}

	content, err := NewGenerator().Generate("River Motors", dashboard)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(content) == 0 {
		t.Fatal("empty workbook")
	}

	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()

	checkCell := func(sheet, cell, want string) {
		t.Helper()
		got, err := file.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("read %s!%s: %v", sheet, cell, err)
		}
		if got != want {
			t.Fatalf("%s!%s: expected %q, got %q", sheet, cell, want, got)
		}
	}

	checkCell("Summary", "B1", "River Motors")
	checkCell("Summary", "B2", "1500")
	checkCell("Summary", "B3", "1000")
	checkCell("Summary", "B4", "50.00%")
	checkCell("Summary", "B5", "2")
	checkCell("Summary", "B6", "3")

	checkCell("By car type", "A2", "SUV")
	checkCell("By car type", "B2", "1")
	checkCell("By car type", "C2", "35000")
	checkCell("By car type", "A3", "Sedan")
	checkCell("By car type", "C3", "41000")
}

func TestGenerate_EmptyBreakdown(t *testing.T) {
	content, err := NewGenerator().Generate("River Motors", model.Dashboard{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()

	got, err := file.GetCellValue("By car type", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty breakdown row, got %q", got)
	}
}
