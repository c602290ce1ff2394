package services

import (
	"context"
	"fmt"
	"time"

	"atelier-backend/config"
	"atelier-backend/models"
	"atelier-backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	fallbackPad = 4
	// maxPad keeps 10^pad inside int64.
	maxPad = 18
)

// NumberingService mints document numbers ("FA-0001") from named sequences.
//
// The sequences row lock taken inside the transaction is what keeps concurrent
// callers from receiving the same number. When the database cannot be used, Next
// still answers with a number derived from the clock; such numbers are not recorded
// and may collide across processes.
type NumberingService struct {
	db  *gorm.DB
	cfg config.NumberingConfig
	now func() time.Time
	log *utils.Logger
}

// NewNumberingService accepts a nil db, in which case every number is a fallback number.
func NewNumberingService(db *gorm.DB, cfg config.NumberingConfig, baseLog *utils.Logger) *NumberingService {
	return &NumberingService{
		db:  db,
		cfg: cfg,
		now: time.Now,
		log: baseLog.With("service", "NumberingService"),
	}
}

// WithClock replaces the clock used for fallback numbers.
func (s *NumberingService) WithClock(now func() time.Time) *NumberingService {
	s.now = now
	return s
}

// Next returns prefix + the next value of the sequence, zero padded to pad digits.
func (s *NumberingService) Next(ctx context.Context, name string, pad int) string {
	pad = s.padWidth(pad)
	prefix := s.defaultPrefix(name)

	if s.db != nil {
		next, storedPrefix, err := s.nextPersisted(ctx, name, prefix)
		if err == nil {
			sequenceNumbersIssued.WithLabelValues("persisted").Inc()
			return formatNumber(storedPrefix, next, pad)
		}
		s.log.Warn("sequence unavailable, issuing non-persistent number",
			"sequence", name, "error", err)
	}

	sequenceNumbersIssued.WithLabelValues("fallback").Inc()
	return formatNumber(prefix, s.now().UnixMilli()%pow10(pad), pad)
}

func (s *NumberingService) nextPersisted(ctx context.Context, name, prefix string) (int64, string, error) {
	var (
		next         int64
		storedPrefix string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq models.Sequence
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", name).
			Limit(1).
			Find(&seq)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			seq = models.Sequence{Name: name, Prefix: prefix, LastNumber: 1}
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq)
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected == 1 {
				next, storedPrefix = 1, prefix
				return nil
			}
			// Another caller created the row between our read and insert.
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("name = ?", name).
				Take(&seq).Error; err != nil {
				return err
			}
		}

		seq.LastNumber++
		if err := tx.Model(&models.Sequence{}).
			Where("name = ?", name).
			Update("last_number", seq.LastNumber).Error; err != nil {
			return err
		}
		next, storedPrefix = seq.LastNumber, seq.Prefix
		return nil
	})
	if err != nil {
		return 0, "", storageError("next "+name, err)
	}
	return next, storedPrefix, nil
}

// Current peeks at the last issued value without locking. ok is false when the
// sequence has never been used.
func (s *NumberingService) Current(ctx context.Context, name string) (int64, bool, error) {
	if s.db == nil {
		return 0, false, nil
	}
	var seq models.Sequence
	res := s.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&seq)
	if res.Error != nil {
		return 0, false, storageError("current "+name, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}
	return seq.LastNumber, true, nil
}

func (s *NumberingService) defaultPrefix(name string) string {
	if p, ok := s.cfg.Prefixes[name]; ok {
		return p
	}
	return s.cfg.DefaultPrefix
}

func (s *NumberingService) padWidth(pad int) int {
	if pad <= 0 {
		pad = s.cfg.DefaultPad
	}
	if pad <= 0 {
		pad = fallbackPad
	}
	return min(pad, maxPad)
}

func formatNumber(prefix string, n int64, pad int) string {
	return fmt.Sprintf("%s%0*d", prefix, pad, n)
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}
