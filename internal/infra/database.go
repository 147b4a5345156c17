package infra

import (
	"fmt"

	"github.com/Rhzslya/sinari-server-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for all tables, then applies the SQL objects GORM cannot express (the
// ticket code sequence and a couple of partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates or updates the schema. Also used by integration
// helpers so a fresh database comes up without a separate migrate step.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.ProductLog{},
		&model.Service{},
		&model.ServiceItem{},
		&model.ServiceLog{},
		&model.Technician{},
		&model.StoreSetting{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Daily-unique ticket codes are built from this sequence.
		`CREATE SEQUENCE IF NOT EXISTS services_code_seq START 1`,

		// The audit list is almost always filtered by product and ordered by time.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_product_logs_product_created') THEN
		    CREATE INDEX idx_product_logs_product_created
		        ON product_logs (product_id, created_at DESC);
		  END IF;
		END $$`,

		// The dashboard revenue query only ever touches non-voided offline sales.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_product_logs_sales') THEN
		    CREATE INDEX idx_product_logs_sales
		        ON product_logs (created_at)
		        WHERE action = 'SALE_OFFLINE' AND is_voided = false;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
