package repository

import (
	"context"

	"github.com/Rhzslya/sinari-server-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceLogRepository is append-only: no update or delete methods exist,
// and none should be added.
type ServiceLogRepository interface {
	CreateTx(tx *gorm.DB, l *model.ServiceLog) error
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.ServiceLog, error)
}

type serviceLogRepo struct{ db *gorm.DB }

func NewServiceLogRepository(db *gorm.DB) ServiceLogRepository {
	return &serviceLogRepo{db: db}
}

func (r *serviceLogRepo) CreateTx(tx *gorm.DB, l *model.ServiceLog) error {
	return tx.Create(l).Error
}

func (r *serviceLogRepo) ListByService(ctx context.Context, serviceID uuid.UUID) ([]model.ServiceLog, error) {
	var logs []model.ServiceLog
	err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
