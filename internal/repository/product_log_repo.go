package repository

import (
	"context"

	"github.com/Rhzslya/sinari-server-sub000/internal/dto"
	"github.com/Rhzslya/sinari-server-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductLogRepository interface {
	CreateTx(tx *gorm.DB, l *model.ProductLog) error
	// FindByIDTx locks the row (FOR UPDATE) so concurrent voids of the same
	// log serialize; the loser sees is_voided already set.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.ProductLog, error)
	// MarkVoidedTx flags the row; the row itself is never deleted.
	MarkVoidedTx(tx *gorm.DB, id uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID, filter dto.ProductLogFilter) ([]model.ProductLog, int64, error)
}

type productLogRepo struct{ db *gorm.DB }

func NewProductLogRepository(db *gorm.DB) ProductLogRepository {
	return &productLogRepo{db: db}
}

func (r *productLogRepo) CreateTx(tx *gorm.DB, l *model.ProductLog) error {
	return tx.Create(l).Error
}

func (r *productLogRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.ProductLog, error) {
	var l model.ProductLog
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&l).Error
	return &l, err
}

func (r *productLogRepo) MarkVoidedTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.ProductLog{}).Where("id = ?", id).
		Update("is_voided", true).Error
}

func (r *productLogRepo) ListByProduct(ctx context.Context, productID uuid.UUID, filter dto.ProductLogFilter) ([]model.ProductLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ProductLog{}).
		Where("product_id = ?", productID)

	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	switch filter.Voided {
	case "true":
		q = q.Where("is_voided = true")
	case "false":
		q = q.Where("is_voided = false")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	var logs []model.ProductLog
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}
