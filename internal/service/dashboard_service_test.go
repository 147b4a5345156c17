package service_test

import (
	"context"
	"testing"

	"github.com/Rhzslya/sinari-server-sub000/internal/repository"
	"github.com/Rhzslya/sinari-server-sub000/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDashboardRepo struct {
	products int64
	lowStock int64
	revenue  decimal.Decimal
	profit   decimal.Decimal
	byStatus map[string]int64
}

func (r *stubDashboardRepo) CountProducts(_ context.Context) (int64, error) { return r.products, nil }
func (r *stubDashboardRepo) CountLowStock(_ context.Context, _ int) (int64, error) {
	return r.lowStock, nil
}
func (r *stubDashboardRepo) SumSalesToday(_ context.Context) (decimal.Decimal, decimal.Decimal, error) {
	return r.revenue, r.profit, nil
}
func (r *stubDashboardRepo) CountServicesByStatus(_ context.Context) (map[string]int64, error) {
	return r.byStatus, nil
}

var _ repository.DashboardRepository = (*stubDashboardRepo)(nil)

func TestDashboardOverview(t *testing.T) {
	repo := &stubDashboardRepo{
		products: 42,
		lowStock: 3,
		revenue:  decimal.NewFromInt(30000),
		profit:   decimal.NewFromInt(6000),
		byStatus: map[string]int64{"PENDING": 2, "PROCESS": 1},
	}
	svc := service.NewDashboardService(repo, nil)

	resp, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.TotalProducts)
	assert.Equal(t, int64(3), resp.LowStock)
	assert.Equal(t, "30000", resp.RevenueToday.String())
	assert.Equal(t, "6000", resp.ProfitToday.String())
	assert.Equal(t, int64(2), resp.ServicesByState["PENDING"])
	assert.NotEmpty(t, resp.GeneratedAt)
}
