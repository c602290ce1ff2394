package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKind selects one of the two physically separate line tables.
type LineKind string

const (
	ServiceLine LineKind = "service"
	PartLine    LineKind = "part"
)

// LineKinds lists every kind in the order lines are processed.
var LineKinds = []LineKind{ServiceLine, PartLine}

func (k LineKind) Table() string {
	if k == PartLine {
		return "ticket_consommables"
	}
	return "ticket_prestations"
}

// MergeIndex is the name of the unique (ticket, label, price, tax) index on the kind's table.
func (k LineKind) MergeIndex() string {
	return "idx_" + k.Table() + "_merge_key"
}

// OrderLine is a priced snapshot attached to a ticket. Label, price and tax never
// change once written; only Quantity grows.
type OrderLine struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	TicketID  uint            `gorm:"column:ticket_id;not null" json:"ticketId"`
	Label     string          `gorm:"column:label;not null" json:"label"`
	Quantity  int             `gorm:"column:quantite;not null;default:1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:prix_ht_snapshot;type:decimal(10,2);not null" json:"unitPrice"`
	TaxRate   decimal.Decimal `gorm:"column:tva_snapshot;type:decimal(5,2);not null;default:0" json:"taxRate"`
	IsCustom  bool            `gorm:"column:is_custom;default:false" json:"isCustom"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"createdAt"`
}

// Extended returns quantity × unit price.
func (l OrderLine) Extended() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// MergeKey identifies the line a contribution folds into. Price and tax are kept as
// fixed two-decimal strings so 25, 25.0 and 25.00 compare equal.
type MergeKey struct {
	Kind  LineKind
	Label string
	Price string
	Tax   string
}

func NewMergeKey(kind LineKind, label string, price, tax decimal.Decimal) MergeKey {
	return MergeKey{
		Kind:  kind,
		Label: label,
		Price: price.StringFixed(2),
		Tax:   tax.StringFixed(2),
	}
}

// Key returns the merge key of a persisted line of the given kind.
func (l OrderLine) Key(kind LineKind) MergeKey {
	return NewMergeKey(kind, l.Label, l.UnitPrice, l.TaxRate)
}
