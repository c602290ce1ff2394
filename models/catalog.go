package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultPartLabel   = "Pièce"
	DefaultCategory    = "Autre"
	DefaultDurationMin = 15
)

// DefaultTaxRate is the catalog's tax percentage when none is set. It is carried
// onto line snapshots but never applied to totals.
var DefaultTaxRate = decimal.NewFromInt(20)

// CatalogEntry is a priced service template. The part columns were added to the
// table later and may be missing on older databases.
type CatalogEntry struct {
	ID          string          `gorm:"column:id;primaryKey;type:varchar(64)"`
	Category    string          `gorm:"column:categorie;index"`
	Label       string          `gorm:"column:libelle;not null"`
	LaborPrice  decimal.Decimal `gorm:"column:prix_main_oeuvre_ht;type:decimal(10,2);not null;default:0"`
	PartLabel   string          `gorm:"column:piece_libelle;default:'Pièce'"`
	PartPrice   decimal.Decimal `gorm:"column:piece_prix_ht;type:decimal(10,2);default:0"`
	TaxRate     decimal.Decimal `gorm:"column:tva_pct;type:decimal(5,2);default:20"`
	DurationMin int             `gorm:"column:duree_min;default:15"`
	DeletedAt   gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (CatalogEntry) TableName() string { return "prestations_catalogue" }

// CatalogGroup is one category of the catalog as shown to the workshop.
type CatalogGroup struct {
	Category string         `json:"category"`
	Entries  []CatalogEntry `json:"entries"`
}
