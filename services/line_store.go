package services

import (
	"context"

	"atelier-backend/config"
	"atelier-backend/models"
	"atelier-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LineStore reads and writes the two line tables of a ticket.
type LineStore interface {
	List(ctx context.Context, ticketID uint, kind models.LineKind) ([]models.OrderLine, error)
	// Increment adds delta to a line's quantity in a single statement. It returns
	// ErrNotFound when the line no longer exists.
	Increment(ctx context.Context, kind models.LineKind, lineID uint, delta int) error
	// Insert writes a new line. When the merge-key index exists, an insert that
	// collides with an existing line adds its quantity to that line instead.
	Insert(ctx context.Context, kind models.LineKind, line *models.OrderLine) error
	// Sum returns Σ quantity × unit price over the ticket's lines of one kind.
	Sum(ctx context.Context, ticketID uint, kind models.LineKind) (decimal.Decimal, error)
	// Delete removes one line of the ticket; ErrNotFound when it is not there.
	Delete(ctx context.Context, kind models.LineKind, ticketID, lineID uint) error
	// Clear removes every line of the ticket, both kinds.
	Clear(ctx context.Context, ticketID uint) error
}

var _ LineStore = (*lineStore)(nil)

var mergeKeyColumns = []clause.Column{
	{Name: "ticket_id"},
	{Name: "label"},
	{Name: "prix_ht_snapshot"},
	{Name: "tva_snapshot"},
}

type lineStore struct {
	db   *gorm.DB
	caps config.Capabilities
	log  *utils.Logger
}

func NewLineStore(db *gorm.DB, caps config.Capabilities, baseLog *utils.Logger) LineStore {
	return &lineStore{
		db:   db,
		caps: caps,
		log:  baseLog.With("repo", "LineStore"),
	}
}

func (s *lineStore) List(ctx context.Context, ticketID uint, kind models.LineKind) ([]models.OrderLine, error) {
	var out []models.OrderLine
	if err := s.db.WithContext(ctx).
		Table(kind.Table()).
		Where("ticket_id = ?", ticketID).
		Order("id").
		Find(&out).Error; err != nil {
		return nil, storageError("list "+kind.Table(), err)
	}
	return out, nil
}

func (s *lineStore) Increment(ctx context.Context, kind models.LineKind, lineID uint, delta int) error {
	res := s.db.WithContext(ctx).
		Table(kind.Table()).
		Where("id = ?", lineID).
		UpdateColumn("quantite", gorm.Expr("quantite + ?", delta))
	if res.Error != nil {
		return storageError("increment "+kind.Table(), res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *lineStore) Insert(ctx context.Context, kind models.LineKind, line *models.OrderLine) error {
	table := kind.Table()
	tx := s.db.WithContext(ctx).Table(table)
	if s.caps.LineMergeIndex {
		tx = tx.Clauses(clause.OnConflict{
			Columns: mergeKeyColumns,
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantite": gorm.Expr(table + ".quantite + excluded.quantite"),
			}),
		})
	}
	if err := tx.Create(line).Error; err != nil {
		return storageError("insert "+table, err)
	}
	return nil
}

func (s *lineStore) Sum(ctx context.Context, ticketID uint, kind models.LineKind) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := s.db.WithContext(ctx).
		Table(kind.Table()).
		Select("COALESCE(SUM(quantite * prix_ht_snapshot), 0)").
		Where("ticket_id = ?", ticketID).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, storageError("sum "+kind.Table(), err)
	}
	return sum.Round(2), nil
}

func (s *lineStore) Delete(ctx context.Context, kind models.LineKind, ticketID, lineID uint) error {
	res := s.db.WithContext(ctx).
		Table(kind.Table()).
		Where("id = ? AND ticket_id = ?", lineID, ticketID).
		Delete(&models.OrderLine{})
	if res.Error != nil {
		return storageError("delete "+kind.Table(), res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *lineStore) Clear(ctx context.Context, ticketID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, kind := range models.LineKinds {
			if err := tx.Table(kind.Table()).
				Where("ticket_id = ?", ticketID).
				Delete(&models.OrderLine{}).Error; err != nil {
				return storageError("clear "+kind.Table(), err)
			}
		}
		return nil
	})
}
