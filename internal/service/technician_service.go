package service

import (
	"context"

	"github.com/Rhzslya/sinari-server-sub000/internal/dto"
	"github.com/Rhzslya/sinari-server-sub000/internal/model"
	"github.com/Rhzslya/sinari-server-sub000/internal/repository"

	"github.com/google/uuid"
)

type TechnicianService interface {
	Create(ctx context.Context, req dto.CreateTechnicianRequest) (*dto.TechnicianResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.TechnicianResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.TechnicianResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateTechnicianRequest) (*dto.TechnicianResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type technicianService struct {
	repo repository.TechnicianRepository
}

func NewTechnicianService(repo repository.TechnicianRepository) TechnicianService {
	return &technicianService{repo: repo}
}

func (s *technicianService) Create(ctx context.Context, req dto.CreateTechnicianRequest) (*dto.TechnicianResponse, error) {
	t := &model.Technician{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Specialty:   req.Specialty,
		Active:      true,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return technicianToResponse(t), nil
}

func (s *technicianService) GetByID(ctx context.Context, id uuid.UUID) (*dto.TechnicianResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return technicianToResponse(t), nil
}

func (s *technicianService) List(ctx context.Context, includeInactive bool) ([]dto.TechnicianResponse, error) {
	techs, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TechnicianResponse, len(techs))
	for i := range techs {
		resp[i] = *technicianToResponse(&techs[i])
	}
	return resp, nil
}

func (s *technicianService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateTechnicianRequest) (*dto.TechnicianResponse, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		t.PhoneNumber = *req.PhoneNumber
	}
	if req.Specialty != nil {
		t.Specialty = *req.Specialty
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return technicianToResponse(t), nil
}

func (s *technicianService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

func technicianToResponse(t *model.Technician) *dto.TechnicianResponse {
	return &dto.TechnicianResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		PhoneNumber: t.PhoneNumber,
		Specialty:   t.Specialty,
		Active:      t.Active,
	}
}
