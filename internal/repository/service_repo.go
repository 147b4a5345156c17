package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Rhzslya/sinari-server-sub000/internal/dto"
	"github.com/Rhzslya/sinari-server-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Service, error)
	List(ctx context.Context, filter dto.ServiceFilter) ([]model.Service, int64, error)
	UpdateTx(tx *gorm.DB, s *model.Service) error
	ReplaceItemsTx(tx *gorm.DB, serviceID uuid.UUID, items []model.ServiceItem) error
	SetActiveTx(tx *gorm.DB, id uuid.UUID, active bool) error
	NextCode(ctx context.Context, tx *gorm.DB) (string, error)
	DB() *gorm.DB
}

type serviceRepo struct{ db *gorm.DB }

func NewServiceRepository(db *gorm.DB) ServiceRepository { return &serviceRepo{db: db} }

func (r *serviceRepo) DB() *gorm.DB { return r.db }

func (r *serviceRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Service) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *serviceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var s model.Service
	err := r.db.WithContext(ctx).Preload("Items").Preload("Technician").
		Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *serviceRepo) FindActiveByID(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	var s model.Service
	err := r.db.WithContext(ctx).Preload("Items").Preload("Technician").
		Where("id = ? AND active = true", id).First(&s).Error
	return &s, err
}

func (r *serviceRepo) List(ctx context.Context, filter dto.ServiceFilter) ([]model.Service, int64, error) {
	var services []model.Service
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Service{}).Where("active = true")

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerName != "" {
		q = q.Where("customer_name ILIKE ?", "%"+filter.CustomerName+"%")
	}
	if filter.Code != "" {
		q = q.Where("code = ?", filter.Code)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&services).Error
	return services, total, err
}

func (r *serviceRepo) UpdateTx(tx *gorm.DB, s *model.Service) error {
	// Items are replaced separately; avoid Save cascading stale associations.
	return tx.Omit("Items", "Technician").Save(s).Error
}

func (r *serviceRepo) ReplaceItemsTx(tx *gorm.DB, serviceID uuid.UUID, items []model.ServiceItem) error {
	if err := tx.Where("service_id = ?", serviceID).Delete(&model.ServiceItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ServiceID = serviceID
	}
	return tx.Create(&items).Error
}

func (r *serviceRepo) SetActiveTx(tx *gorm.DB, id uuid.UUID, active bool) error {
	return tx.Model(&model.Service{}).Where("id = ?", id).Update("active", active).Error
}

// NextCode generates a human-readable ticket code from a PostgreSQL sequence,
// e.g. SVC-20250114-0042.
func (r *serviceRepo) NextCode(ctx context.Context, tx *gorm.DB) (string, error) {
	var num int
	if err := tx.WithContext(ctx).Raw("SELECT nextval('services_code_seq')").Scan(&num).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("SVC-%s-%04d", time.Now().Format("20060102"), num), nil
}
