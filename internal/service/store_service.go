package service

import (
	"context"

	"github.com/Rhzslya/sinari-server-sub000/internal/dto"
	"github.com/Rhzslya/sinari-server-sub000/internal/model"
	"github.com/Rhzslya/sinari-server-sub000/internal/repository"
)

type StoreService interface {
	Get(ctx context.Context) (*dto.StoreSettingResponse, error)
	Upsert(ctx context.Context, req dto.UpsertStoreSettingRequest) (*dto.StoreSettingResponse, error)
}

type storeService struct {
	repo repository.StoreSettingRepository
}

func NewStoreService(repo repository.StoreSettingRepository) StoreService {
	return &storeService{repo: repo}
}

func (s *storeService) Get(ctx context.Context) (*dto.StoreSettingResponse, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		// The singleton row does not exist until the first upsert.
		return nil, ErrNotFound
	}
	return storeToResponse(setting), nil
}

func (s *storeService) Upsert(ctx context.Context, req dto.UpsertStoreSettingRequest) (*dto.StoreSettingResponse, error) {
	setting := &model.StoreSetting{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		LogoURL: req.LogoURL,
	}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return storeToResponse(setting), nil
}

func storeToResponse(s *model.StoreSetting) *dto.StoreSettingResponse {
	return &dto.StoreSettingResponse{
		Name:    s.Name,
		Address: s.Address,
		Phone:   s.Phone,
		Email:   s.Email,
		LogoURL: s.LogoURL,
	}
}
