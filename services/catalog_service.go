package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"atelier-backend/config"
	"atelier-backend/models"
	"atelier-backend/utils"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogLookup resolves live catalog entries by id. A miss is reported as ErrNotFound.
type CatalogLookup interface {
	FindByID(ctx context.Context, id string) (*models.CatalogEntry, error)
}

var _ CatalogLookup = (*CatalogService)(nil)

const (
	catalogColumns = "id, COALESCE(TRIM(categorie), '') AS categorie, libelle, " +
		"COALESCE(prix_main_oeuvre_ht, 0) AS prix_main_oeuvre_ht, " +
		"COALESCE(tva_pct, 20) AS tva_pct, COALESCE(duree_min, 15) AS duree_min"
	catalogPartColumns = ", COALESCE(piece_libelle, 'Pièce') AS piece_libelle, " +
		"COALESCE(piece_prix_ht, 0) AS piece_prix_ht"
)

type CatalogService struct {
	db      *gorm.DB
	caps    config.Capabilities
	retries int
	backoff time.Duration
	log     *utils.Logger
}

func NewCatalogService(db *gorm.DB, caps config.Capabilities, cfg config.CatalogConfig, baseLog *utils.Logger) *CatalogService {
	retries := cfg.LookupRetries
	if retries < 1 {
		retries = 1
	}
	return &CatalogService{
		db:      db,
		caps:    caps,
		retries: retries,
		backoff: cfg.LookupBackoff,
		log:     baseLog.With("service", "CatalogService"),
	}
}

// FindByID retries transient storage failures; misses are returned immediately.
func (s *CatalogService) FindByID(ctx context.Context, id string) (*models.CatalogEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	b := backoff.NewExponentialBackOff()
	if s.backoff > 0 {
		b.InitialInterval = s.backoff
	}

	entry, err := backoff.Retry(ctx, func() (*models.CatalogEntry, error) {
		e, err := s.find(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return nil, backoff.Permanent(err)
		}
		if err != nil {
			s.log.Debug("catalog lookup failed, retrying", "catalog_id", id, "error", err)
		}
		return e, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(s.retries)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageError("catalog lookup", err)
	}
	return entry, nil
}

func (s *CatalogService) find(ctx context.Context, id string) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	err := s.db.WithContext(ctx).
		Model(&models.CatalogEntry{}).
		Select(s.columns()).
		Where("id = ?", id).
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.fillDefaults(&entry)
	return &entry, nil
}

// Grouped lists live entries by category. Categories are matched case-insensitively
// after trimming and keep the first spelling seen; an empty category becomes "Autre".
func (s *CatalogService) Grouped(ctx context.Context) ([]models.CatalogGroup, error) {
	var entries []models.CatalogEntry
	if err := s.db.WithContext(ctx).
		Model(&models.CatalogEntry{}).
		Select(s.columns()).
		Order("TRIM(categorie), libelle").
		Find(&entries).Error; err != nil {
		return nil, storageError("catalog list", err)
	}

	var groups []models.CatalogGroup
	index := make(map[string]int)
	for _, e := range entries {
		s.fillDefaults(&e)
		display := strings.TrimSpace(e.Category)
		norm := strings.ToLower(display)
		if norm == "" {
			norm = strings.ToLower(models.DefaultCategory)
			display = models.DefaultCategory
		}
		i, ok := index[norm]
		if !ok {
			i = len(groups)
			index[norm] = i
			groups = append(groups, models.CatalogGroup{Category: display})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	return groups, nil
}

func (s *CatalogService) columns() string {
	if s.caps.CatalogPartColumns {
		return catalogColumns + catalogPartColumns
	}
	return catalogColumns
}

func (s *CatalogService) fillDefaults(e *models.CatalogEntry) {
	if !s.caps.CatalogPartColumns || strings.TrimSpace(e.PartLabel) == "" {
		e.PartLabel = models.DefaultPartLabel
	}
	if !s.caps.CatalogPartColumns {
		e.PartPrice = decimal.Zero
	}
	e.LaborPrice = e.LaborPrice.Round(2)
	e.PartPrice = e.PartPrice.Round(2)
	e.TaxRate = e.TaxRate.Round(2)
}
