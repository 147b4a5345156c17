package dto

import "github.com/shopspring/decimal"

// DashboardResponse aggregates the read-only store overview. Revenue and
// profit sums exclude voided sale logs.
type DashboardResponse struct {
	TotalProducts   int64            `json:"total_products"`
	LowStock        int64            `json:"low_stock"`
	RevenueToday    decimal.Decimal  `json:"revenue_today"`
	ProfitToday     decimal.Decimal  `json:"profit_today"`
	ServicesByState map[string]int64 `json:"services_by_status"`
	GeneratedAt     string           `json:"generated_at"`
}
