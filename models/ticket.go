package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is a repair job. The engine only ever writes its cached totals.
type Ticket struct {
	ID          uint   `gorm:"primaryKey"`
	ClientID    *uint  `gorm:"index"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"type:varchar(20);default:'open'"`

	ServicesTotal decimal.Decimal `gorm:"column:total_mo_ht;type:decimal(10,2);default:0"`
	PartsTotal    decimal.Decimal `gorm:"column:total_pieces_ht;type:decimal(10,2);default:0"`
	TotalHT       decimal.Decimal `gorm:"column:total_ht;type:decimal(10,2);default:0"`
	TotalTVA      decimal.Decimal `gorm:"column:total_tva;type:decimal(10,2);default:0"`
	TotalTTC      decimal.Decimal `gorm:"column:total_ttc;type:decimal(10,2);default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Ticket) TableName() string { return "tickets" }

// Totals are the authoritative sums of a ticket's lines. Combined never carries tax.
type Totals struct {
	ServiceSum decimal.Decimal `json:"serviceSum"`
	PartSum    decimal.Decimal `json:"partSum"`
	Combined   decimal.Decimal `json:"combined"`
}
