package repository

import (
	"context"

	"github.com/Rhzslya/sinari-server-sub000/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository runs the read-only aggregate queries behind the
// dashboard endpoint.
type DashboardRepository interface {
	CountProducts(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	// SumSalesToday sums revenue and profit from today's non-voided sale
	// logs. Voided rows are excluded so a reversed sale never inflates
	// the numbers.
	SumSalesToday(ctx context.Context) (revenue, profit decimal.Decimal, err error)
	CountServicesByStatus(ctx context.Context) (map[string]int64, error)
}

type dashboardRepo struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db: db}
}

func (r *dashboardRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("active = true").Count(&n).Error
	return n, err
}

func (r *dashboardRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("active = true AND stock <= ?", threshold).Count(&n).Error
	return n, err
}

func (r *dashboardRepo) SumSalesToday(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		Revenue decimal.Decimal
		Profit  decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.ProductLog{}).
		Select("COALESCE(SUM(total_revenue), 0) AS revenue, COALESCE(SUM(total_profit), 0) AS profit").
		Where("action = ? AND is_voided = false AND DATE(created_at) = CURRENT_DATE", model.ActionSaleOffline).
		Scan(&row).Error
	return row.Revenue, row.Profit, err
}

func (r *dashboardRepo) CountServicesByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Service{}).
		Select("status, COUNT(*) AS count").
		Where("active = true").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}
