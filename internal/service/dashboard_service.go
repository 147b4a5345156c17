package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Rhzslya/sinari-server-sub000/internal/dto"
	"github.com/Rhzslya/sinari-server-sub000/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	dashboardCacheKey = "dashboard:overview"
	dashboardCacheTTL = 30 * time.Second
	lowStockThreshold = 5
)

type DashboardService interface {
	Overview(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
	rdb  *redis.Client
}

func NewDashboardService(repo repository.DashboardRepository, rdb *redis.Client) DashboardService {
	return &dashboardService{repo: repo, rdb: rdb}
}

// Overview aggregates the store dashboard. The result is cached briefly —
// the queries scan product_logs and services and the frontend polls this
// endpoint.
func (s *dashboardService) Overview(ctx context.Context) (*dto.DashboardResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var cached dto.DashboardResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	totalProducts, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.CountLowStock(ctx, lowStockThreshold)
	if err != nil {
		return nil, err
	}
	revenue, profit, err := s.repo.SumSalesToday(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.CountServicesByStatus(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		TotalProducts:   totalProducts,
		LowStock:        lowStock,
		RevenueToday:    revenue,
		ProfitToday:     profit,
		ServicesByState: byStatus,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL).Err()
		}
	}
	return resp, nil
}
