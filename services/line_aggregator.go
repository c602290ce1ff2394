package services

import (
	"context"
	"errors"

	"atelier-backend/models"
	"atelier-backend/utils"

	"github.com/shopspring/decimal"
)

// MergeResult counts what a Merge call did.
type MergeResult struct {
	Inserted    int `json:"inserted"`
	Incremented int `json:"incremented"`
	// Skipped counts selections whose catalog id did not resolve.
	Skipped int `json:"skipped"`
}

// LineAggregator folds catalog selections into a ticket's service and part lines and
// recomputes the ticket totals.
//
// Merge is additive: submitting the same selections twice doubles the quantities.
// It is not atomic either; when a write fails, keys processed before the failure stay
// applied.
type LineAggregator struct {
	catalog CatalogLookup
	lines   LineStore
	tickets TicketStore
	log     *utils.Logger
}

func NewLineAggregator(catalog CatalogLookup, lines LineStore, tickets TicketStore, baseLog *utils.Logger) *LineAggregator {
	return &LineAggregator{
		catalog: catalog,
		lines:   lines,
		tickets: tickets,
		log:     baseLog.With("service", "LineAggregator"),
	}
}

type pendingLine struct {
	key      models.MergeKey
	label    string
	price    decimal.Decimal
	tax      decimal.Decimal
	quantity int
}

// pendingSet accumulates quantities per merge key, remembering first-seen order.
type pendingSet struct {
	order []*pendingLine
	byKey map[models.MergeKey]*pendingLine
}

func newPendingSet() *pendingSet {
	return &pendingSet{byKey: make(map[models.MergeKey]*pendingLine)}
}

func (p *pendingSet) add(kind models.LineKind, label string, price, tax decimal.Decimal, qty int) {
	key := models.NewMergeKey(kind, label, price, tax)
	if pl, ok := p.byKey[key]; ok {
		pl.quantity += qty
		return
	}
	pl := &pendingLine{key: key, label: label, price: price, tax: tax, quantity: qty}
	p.byKey[key] = pl
	p.order = append(p.order, pl)
}

// Merge applies the selections to the ticket's lines. It does not check that the
// ticket exists and does not touch the ticket totals; call RecomputeTotals after.
func (a *LineAggregator) Merge(ctx context.Context, ticketID uint, selections []models.SubmittedSelection) (MergeResult, error) {
	var result MergeResult

	pending := newPendingSet()
	for _, sel := range selections {
		if sel.CatalogID == "" {
			continue
		}
		entry, err := a.catalog.FindByID(ctx, sel.CatalogID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				result.Skipped++
				catalogMisses.Inc()
				a.log.Debug("catalog entry not found, selection skipped",
					"ticket_id", ticketID, "catalog_id", sel.CatalogID)
				continue
			}
			return result, storageError("resolve selection", err)
		}
		addContributions(pending, entry, sel)
	}

	if len(pending.order) == 0 {
		return result, nil
	}

	existing := make(map[models.MergeKey]uint)
	for _, kind := range models.LineKinds {
		lines, err := a.lines.List(ctx, ticketID, kind)
		if err != nil {
			return result, err
		}
		for _, l := range lines {
			key := l.Key(kind)
			if _, dup := existing[key]; !dup {
				existing[key] = l.ID
			}
		}
	}

	for _, pl := range pending.order {
		kind := pl.key.Kind
		if pl.quantity <= 0 {
			continue
		}

		if id, ok := existing[pl.key]; ok {
			err := a.lines.Increment(ctx, kind, id, pl.quantity)
			if err == nil {
				result.Incremented++
				linesMerged.WithLabelValues(string(kind), "increment").Inc()
				continue
			}
			if !errors.Is(err, ErrNotFound) {
				return result, err
			}
			// Deleted since we listed it: fall through and insert.
		}

		line := &models.OrderLine{
			TicketID:  ticketID,
			Label:     pl.label,
			Quantity:  pl.quantity,
			UnitPrice: pl.price,
			TaxRate:   pl.tax,
			IsCustom:  kind == models.PartLine,
		}
		if err := a.lines.Insert(ctx, kind, line); err != nil {
			return result, err
		}
		result.Inserted++
		linesMerged.WithLabelValues(string(kind), "insert").Inc()
	}

	a.log.Debug("lines merged",
		"ticket_id", ticketID,
		"inserted", result.Inserted,
		"incremented", result.Incremented,
		"skipped", result.Skipped)
	return result, nil
}

// addContributions turns one resolved selection into at most one service and one
// part contribution.
func addContributions(pending *pendingSet, entry *models.CatalogEntry, sel models.SubmittedSelection) {
	if sel.ServiceQty > 0 {
		price := entry.LaborPrice
		if sel.ServicePriceOverride != nil {
			price = *sel.ServicePriceOverride
		}
		pending.add(models.ServiceLine, entry.Label, price.Round(2), entry.TaxRate, sel.ServiceQty)
	}

	qty := max(sel.PartQty, 0)
	price := entry.PartPrice
	if sel.PartPriceOverride != nil {
		price = *sel.PartPriceOverride
	}
	if qty == 0 {
		// A priced part without a quantity still counts once.
		if sel.PartPriceOverride == nil || !price.IsPositive() {
			return
		}
		qty = 1
	}
	label := entry.PartLabel
	if label == "" {
		label = models.DefaultPartLabel
	}
	pending.add(models.PartLine, label, price.Round(2), entry.TaxRate, qty)
}

// RecomputeTotals sums the ticket's lines and stores the result on the ticket.
func (a *LineAggregator) RecomputeTotals(ctx context.Context, ticketID uint) (models.Totals, error) {
	serviceSum, err := a.lines.Sum(ctx, ticketID, models.ServiceLine)
	if err != nil {
		return models.Totals{}, err
	}
	partSum, err := a.lines.Sum(ctx, ticketID, models.PartLine)
	if err != nil {
		return models.Totals{}, err
	}

	totals := models.Totals{
		ServiceSum: serviceSum,
		PartSum:    partSum,
		Combined:   serviceSum.Add(partSum),
	}
	if err := a.tickets.UpdateTotals(ctx, ticketID, totals); err != nil {
		return totals, err
	}
	return totals, nil
}
