package infra

import (
	"fmt"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// and then applies the idempotent SQL patches that GORM cannot express
// (partial indexes).
//
// TranslateError is enabled so unique violations surface as
// gorm.ErrDuplicatedKey and services can map them to domain errors.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
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

// RunMigrations creates/updates the schema. Also used by integration tests
// against a throwaway container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Producto{},
		&model.Presentacion{},
		&model.Cliente{},
		&model.Venta{},
		&model.VentaItem{},
		&model.MovimientoStock{},
		&model.HistorialCosto{},
		&model.Recibo{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index for the receipt retry cron query.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_recibos_pending_retry') THEN
		    CREATE INDEX idx_recibos_pending_retry
		        ON recibos (next_retry_at)
		        WHERE estado = 'pendiente' AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
		// Ledger queries are always per product in reverse chronological order.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_producto_fecha') THEN
		    CREATE INDEX idx_movimientos_producto_fecha
		        ON movimientos_stock (producto_id, created_at DESC);
		  END IF;
		END $$`,
		// At most one walk-in customer row.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_clientes_consumidor_final') THEN
		    CREATE UNIQUE INDEX idx_clientes_consumidor_final
		        ON clientes (es_consumidor_final)
		        WHERE es_consumidor_final = true;
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
