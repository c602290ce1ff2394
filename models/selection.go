package models

import "github.com/shopspring/decimal"

// SubmittedSelection is one catalog pick from the ticket form, already normalized:
// quantities are never negative and an override is nil when the field was blank or
// not a number.
type SubmittedSelection struct {
	CatalogID            string           `json:"catalogId"`
	ServiceQty           int              `json:"serviceQty"`
	ServicePriceOverride *decimal.Decimal `json:"servicePriceOverride,omitempty"`
	PartQty              int              `json:"partQty"`
	PartPriceOverride    *decimal.Decimal `json:"partPriceOverride,omitempty"`
}
