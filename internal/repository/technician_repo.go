package repository

import (
	"context"

	"github.com/Rhzslya/sinari-server-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TechnicianRepository interface {
	Create(ctx context.Context, t *model.Technician) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Technician, error)
	List(ctx context.Context, includeInactive bool) ([]model.Technician, error)
	Update(ctx context.Context, t *model.Technician) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type technicianRepo struct{ db *gorm.DB }

func NewTechnicianRepository(db *gorm.DB) TechnicianRepository {
	return &technicianRepo{db: db}
}

func (r *technicianRepo) Create(ctx context.Context, t *model.Technician) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *technicianRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Technician, error) {
	var t model.Technician
	err := r.db.WithContext(ctx).Where("id = ? AND active = true", id).First(&t).Error
	return &t, err
}

func (r *technicianRepo) List(ctx context.Context, includeInactive bool) ([]model.Technician, error) {
	var techs []model.Technician
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Order("name ASC").Find(&techs).Error
	return techs, err
}

func (r *technicianRepo) Update(ctx context.Context, t *model.Technician) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *technicianRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Technician{}).Where("id = ?", id).Update("active", false).Error
}
