package config

import (
	"fmt"

	"atelier-backend/models"
	"atelier-backend/utils"

	"gorm.io/gorm"
)

// Migrate creates the tables the engine reads and writes. The merge-key unique index
// is best effort: a database that already holds duplicate lines keeps working without
// it, and ProbeCapabilities reports its absence.
func Migrate(db *gorm.DB, logg *utils.Logger) error {
	if err := db.AutoMigrate(
		&models.CatalogEntry{},
		&models.Ticket{},
		&models.Sequence{},
		&models.CompanyProfile{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	for _, kind := range models.LineKinds {
		table := kind.Table()
		if err := db.Table(table).AutoMigrate(&models.OrderLine{}); err != nil {
			return fmt.Errorf("auto-migrate %s: %w", table, err)
		}
		if err := db.Exec(fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_%s_ticket_id ON %s (ticket_id)", table, table,
		)).Error; err != nil {
			return fmt.Errorf("index %s.ticket_id: %w", table, err)
		}
		if err := db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (ticket_id, label, prix_ht_snapshot, tva_snapshot)",
			kind.MergeIndex(), table,
		)).Error; err != nil {
			logg.Warn("merge-key index not created, duplicate lines may exist",
				"table", table, "error", err)
		}
	}
	return nil
}
