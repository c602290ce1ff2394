package config

import (
	"atelier-backend/models"
	"atelier-backend/utils"

	"gorm.io/gorm"
)

// Capabilities describes optional schema features, probed once at startup.
type Capabilities struct {
	// CatalogPartColumns is false on databases created before the catalog gained
	// piece_libelle / piece_prix_ht.
	CatalogPartColumns bool
	// LineMergeIndex is true when both line tables carry the unique merge-key index,
	// which lets inserts fold into an existing line atomically.
	LineMergeIndex bool
}

// FullCapabilities is what a freshly migrated database provides.
func FullCapabilities() Capabilities {
	return Capabilities{CatalogPartColumns: true, LineMergeIndex: true}
}

func ProbeCapabilities(db *gorm.DB, logg *utils.Logger) Capabilities {
	m := db.Migrator()
	caps := Capabilities{
		CatalogPartColumns: m.HasColumn(&models.CatalogEntry{}, "piece_libelle") &&
			m.HasColumn(&models.CatalogEntry{}, "piece_prix_ht"),
		LineMergeIndex: true,
	}
	for _, kind := range models.LineKinds {
		if !m.HasIndex(kind.Table(), kind.MergeIndex()) {
			caps.LineMergeIndex = false
		}
	}
	logg.Info("schema capabilities",
		"catalog_part_columns", caps.CatalogPartColumns,
		"line_merge_index", caps.LineMergeIndex)
	return caps
}
