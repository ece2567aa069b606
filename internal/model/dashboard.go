package model

type CarTypeCount struct {
	CarType string `json:"carType"`
	Count   int64  `json:"count"`
}

type CarTypeSales struct {
	CarType string `json:"carType"`
	Sales   int64  `json:"sales"`
}

// Dashboard is the aggregated sales snapshot for one company. It is
// recomputed on demand and may be served from a short-lived cache.
type Dashboard struct {
	MonthlySales             int64          `json:"monthlySales"`
	LastMonthSales           int64          `json:"lastMonthSales"`
	GrowthRate               float64        `json:"growthRate"`
	ProceedingContractsCount int64          `json:"proceedingContractsCount"`
	CompletedContractsCount  int64          `json:"completedContractsCount"`
	ContractsByCarType       []CarTypeCount `json:"contractsByCarType"`
	SalesByCarType           []CarTypeSales `json:"salesByCarType"`
}
