package services

import (
	"context"
	"errors"
	"time"

	"atelier-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TicketStore persists the cached totals of a ticket.
type TicketStore interface {
	Get(ctx context.Context, id uint) (*models.Ticket, error)
	UpdateTotals(ctx context.Context, id uint, totals models.Totals) error
}

var _ TicketStore = (*ticketStore)(nil)

type ticketStore struct {
	db *gorm.DB
}

func NewTicketStore(db *gorm.DB) TicketStore {
	return &ticketStore{db: db}
}

func (s *ticketStore) Get(ctx context.Context, id uint) (*models.Ticket, error) {
	var t models.Ticket
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError("get ticket", err)
	}
	return &t, nil
}

// UpdateTotals writes the sums onto the ticket. Tax is always zero, so the
// tax-inclusive total equals the combined sum.
func (s *ticketStore) UpdateTotals(ctx context.Context, id uint, totals models.Totals) error {
	res := s.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_mo_ht":     totals.ServiceSum,
			"total_pieces_ht": totals.PartSum,
			"total_ht":        totals.Combined,
			"total_tva":       decimal.Zero,
			"total_ttc":       totals.Combined,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return storageError("update ticket totals", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
