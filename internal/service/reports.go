package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/rndrianasolo/commercepro/internal/entities"
)

type ReportsRepo interface {
	TotalSalesAmount(ctx context.Context) (float64, error)
	CountSales(ctx context.Context) (int, error)
	ListRecentSales(ctx context.Context, count int) ([]entities.Sale, error)
}

type StockReader interface {
	TotalStock(ctx context.Context) (int, error)
}

type DutyCounter interface {
	CountOnDuty(ctx context.Context) (int, error)
}

type DashboardStats struct {
	Revenue       float64
	Orders        int
	StockTotal    int
	ActiveDrivers int
}

type TopProduct struct {
	Name     string
	Quantity int
}

type reportsService struct {
	logger  *slog.Logger
	sales   ReportsRepo
	stock   StockReader
	drivers DutyCounter
}

func NewReportsService(logger *slog.Logger, sales ReportsRepo, stock StockReader, drivers DutyCounter) *reportsService {
	return &reportsService{
		logger:  logger.With(slog.String("service", "reports")),
		sales:   sales,
		stock:   stock,
		drivers: drivers,
	}
}

// Dashboard aggregates the headline numbers. Each read degrades to zero on
// failure instead of failing the whole dashboard: supervision screens stay
// up when the store is flaky.
func (s *reportsService) Dashboard(ctx context.Context) DashboardStats {
	var stats DashboardStats

	if revenue, err := s.sales.TotalSalesAmount(ctx); err == nil {
		stats.Revenue = revenue
	} else {
		s.logger.Error("failed to read revenue", slog.Any("error", err))
	}
	if orders, err := s.sales.CountSales(ctx); err == nil {
		stats.Orders = orders
	} else {
		s.logger.Error("failed to count sales", slog.Any("error", err))
	}
	if stock, err := s.stock.TotalStock(ctx); err == nil {
		stats.StockTotal = stock
	} else {
		s.logger.Error("failed to read stock total", slog.Any("error", err))
	}
	if drivers, err := s.drivers.CountOnDuty(ctx); err == nil {
		stats.ActiveDrivers = drivers
	} else {
		s.logger.Error("failed to count active drivers", slog.Any("error", err))
	}

	return stats
}

// RecentSales returns the latest sales with items; a read failure degrades
// to an empty list.
func (s *reportsService) RecentSales(ctx context.Context, count int) []entities.Sale {
	if count <= 0 {
		count = 10
	}
	sales, err := s.sales.ListRecentSales(ctx, count)
	if err != nil {
		s.logger.Error("failed to list recent sales", slog.Any("error", err))
		return []entities.Sale{}
	}
	return sales
}

// TopProducts ranks products by quantity sold across the given sales.
func TopProducts(sales []entities.Sale, limit int) []TopProduct {
	byName := make(map[string]int)
	for _, sale := range sales {
		for _, it := range sale.Items {
			byName[it.ProductName] += it.Quantity
		}
	}

	top := make([]TopProduct, 0, len(byName))
	for name, qty := range byName {
		top = append(top, TopProduct{Name: name, Quantity: qty})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Quantity != top[j].Quantity {
			return top[i].Quantity > top[j].Quantity
		}
		return top[i].Name < top[j].Name
	})

	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top
}
