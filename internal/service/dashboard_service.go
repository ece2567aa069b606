package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/dealership-contracts/internal/model"
	"github.com/nurpe/dealership-contracts/internal/repository"
)

// DashboardCache memoizes dashboard snapshots per company. Reads may
// lag writes by up to the cache TTL; entries are replaced, not merged.
type DashboardCache interface {
	Get(ctx context.Context, companyID uuid.UUID) (*model.Dashboard, bool)
	Set(ctx context.Context, companyID uuid.UUID, dashboard *model.Dashboard)
}

// ExcelGenerator renders a dashboard snapshot as a workbook.
type ExcelGenerator interface {
	Generate(companyName string, dashboard model.Dashboard) ([]byte, error)
}

type DashboardService struct {
	store *repository.Store
	cache DashboardCache
	excel ExcelGenerator
	log   zerolog.Logger
	now   func() time.Time
}

// NewDashboardService builds the aggregator. cache may be nil to
// disable memoization.
func NewDashboardService(store *repository.Store, cache DashboardCache, excel ExcelGenerator, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		store: store,
		cache: cache,
		excel: excel,
		log:   log,
		now:   time.Now,
	}
}

// Get returns the company dashboard, from cache when a fresh snapshot
// exists.
func (s *DashboardService) Get(ctx context.Context, operatorID uuid.UUID) (*model.Dashboard, error) {
	companyID, err := s.store.GetCompanyIDForUser(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: operator", ErrNotFound)
		}
		return nil, err
	}

	if s.cache != nil {
		if dashboard, ok := s.cache.Get(ctx, companyID); ok {
			return dashboard, nil
		}
	}

	dashboard, err := s.compute(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, companyID, dashboard)
	}
	return dashboard, nil
}

// ExportExcel renders the current dashboard as an XLSX workbook.
func (s *DashboardService) ExportExcel(ctx context.Context, operatorID uuid.UUID) (string, []byte, error) {
	companyID, err := s.store.GetCompanyIDForUser(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: operator", ErrNotFound)
		}
		return "", nil, err
	}

	company, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: company", ErrNotFound)
		}
		return "", nil, err
	}

	dashboard, err := s.compute(ctx, companyID)
	if err != nil {
		return "", nil, err
	}

	content, err := s.excel.Generate(company.CompanyName, *dashboard)
	if err != nil {
		return "", nil, err
	}
	fileName := fmt.Sprintf("dashboard-%s.xlsx", s.now().Format("20060102"))
	return fileName, content, nil
}

func (s *DashboardService) compute(ctx context.Context, companyID uuid.UUID) (*model.Dashboard, error) {
	now := s.now()
	currentStart, currentEnd := monthWindow(now, 0)
	lastStart, lastEnd := monthWindow(now, -1)

	monthlySales, err := s.store.SalesSum(ctx, companyID, currentStart, currentEnd)
	if err != nil {
		return nil, err
	}
	lastMonthSales, err := s.store.SalesSum(ctx, companyID, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	proceeding, err := s.store.ProceedingContractsCount(ctx, companyID)
	if err != nil {
		return nil, err
	}
	completed, err := s.store.CompletedContractsCount(ctx, companyID)
	if err != nil {
		return nil, err
	}
	aggregates, err := s.store.SuccessfulContractsByCarType(ctx, companyID)
	if err != nil {
		return nil, err
	}

	dashboard := &model.Dashboard{
		MonthlySales:             monthlySales,
		LastMonthSales:           lastMonthSales,
		GrowthRate:               growthRate(monthlySales, lastMonthSales),
		ProceedingContractsCount: proceeding,
		CompletedContractsCount:  completed,
		ContractsByCarType:       make([]model.CarTypeCount, 0, len(aggregates)),
		SalesByCarType:           make([]model.CarTypeSales, 0, len(aggregates)),
	}
	for _, agg := range aggregates {
		carType := agg.CarType
		if carType == "" {
			carType = "Unknown"
		}
		dashboard.ContractsByCarType = append(dashboard.ContractsByCarType, model.CarTypeCount{
			CarType: carType,
			Count:   agg.Count,
		})
		dashboard.SalesByCarType = append(dashboard.SalesByCarType, model.CarTypeSales{
			CarType: carType,
			Sales:   agg.Sales,
		})
	}
	return dashboard, nil
}

// monthWindow returns the inclusive bounds of the calendar month
// offset months away from t. time.Date normalizes out-of-range months,
// so year boundaries roll over correctly.
func monthWindow(t time.Time, offset int) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// growthRate is 0 when there were no sales last month. Dividing by
// zero here would poison the dashboard for every new company.
func growthRate(current, last int64) float64 {
	if last == 0 {
		return 0
	}
	return float64(current-last) / float64(last)
}
