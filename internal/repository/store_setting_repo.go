package repository

import (
	"context"

	"github.com/Rhzslya/sinari-server-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreSettingRepository interface {
	Get(ctx context.Context) (*model.StoreSetting, error)
	Upsert(ctx context.Context, s *model.StoreSetting) error
}

type storeSettingRepo struct{ db *gorm.DB }

func NewStoreSettingRepository(db *gorm.DB) StoreSettingRepository {
	return &storeSettingRepo{db: db}
}

func (r *storeSettingRepo) Get(ctx context.Context) (*model.StoreSetting, error) {
	var s model.StoreSetting
	err := r.db.WithContext(ctx).First(&s, 1).Error
	return &s, err
}

// Upsert pins the singleton row to id=1; the row is created lazily on first write.
func (r *storeSettingRepo) Upsert(ctx context.Context, s *model.StoreSetting) error {
	s.ID = 1
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(s).Error
}
