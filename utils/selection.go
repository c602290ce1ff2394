// utils/selection.go
package utils

import (
	"strconv"
	"strings"

	"atelier-backend/models"

	"github.com/shopspring/decimal"
)

// Form field names posted by the ticket and quote builders. Each is a parallel array
// indexed by row.
const (
	FieldCatalogID         = "prest_id"
	FieldServiceQty        = "qty"
	FieldServiceOverride   = "price_override"
	FieldPartQty           = "piece_qty"
	FieldPartPriceOverride = "piece_price_override"
)

// ParseSelections folds the parallel form arrays into one record per row. Rows are
// kept in posted order; rows without a catalog id are dropped. Unparseable numbers
// become zero (quantities) or no override (prices).
func ParseSelections(form map[string][]string) []models.SubmittedSelection {
	ids := formArray(form, FieldCatalogID)
	qtys := formArray(form, FieldServiceQty)
	overrides := formArray(form, FieldServiceOverride)
	partQtys := formArray(form, FieldPartQty)
	partOverrides := formArray(form, FieldPartPriceOverride)

	out := make([]models.SubmittedSelection, 0, len(ids))
	for i, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		out = append(out, models.SubmittedSelection{
			CatalogID:            id,
			ServiceQty:           ParseQuantity(at(qtys, i)),
			ServicePriceOverride: ParsePrice(at(overrides, i)),
			PartQty:              ParseQuantity(at(partQtys, i)),
			PartPriceOverride:    ParsePrice(at(partOverrides, i)),
		})
	}
	return out
}

// NormalizeSelections applies the same rules to selections decoded from JSON.
func NormalizeSelections(in []models.SubmittedSelection) []models.SubmittedSelection {
	out := make([]models.SubmittedSelection, 0, len(in))
	for _, s := range in {
		s.CatalogID = strings.TrimSpace(s.CatalogID)
		if s.CatalogID == "" {
			continue
		}
		s.ServiceQty = max(s.ServiceQty, 0)
		s.PartQty = max(s.PartQty, 0)
		s.ServicePriceOverride = roundPrice(s.ServicePriceOverride)
		s.PartPriceOverride = roundPrice(s.PartPriceOverride)
		out = append(out, s)
	}
	return out
}

// ParseQuantity reads a form quantity. "3", " 3 " and "3.7" give 3; negatives and
// garbage give 0.
func ParseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if ferr != nil {
			return 0
		}
		n = int(f)
	}
	return max(n, 0)
}

// ParsePrice reads an optional price override, accepting a decimal comma. Blank or
// unparseable input means "no override".
func ParsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return nil
	}
	return roundPrice(&d)
}

func roundPrice(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := d.Round(2)
	return &r
}

func formArray(form map[string][]string, name string) []string {
	if v, ok := form[name+"[]"]; ok {
		return v
	}
	return form[name]
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
