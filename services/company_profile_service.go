package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"atelier-backend/models"
	"atelier-backend/utils"

	"gorm.io/gorm"
)

// CompanyProfileCache is a read-through cache of the company profile. The caller
// owns it: create one per process (or per request when freshness matters) and call
// Invalidate after changing the row outside Update.
type CompanyProfileCache struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
	log *utils.Logger

	mu       sync.Mutex
	profile  *models.CompanyProfile
	loadedAt time.Time
}

// NewCompanyProfileCache keeps a loaded profile for ttl; ttl <= 0 keeps it until
// Invalidate.
func NewCompanyProfileCache(db *gorm.DB, ttl time.Duration, baseLog *utils.Logger) *CompanyProfileCache {
	return &CompanyProfileCache{
		db:  db,
		ttl: ttl,
		now: time.Now,
		log: baseLog.With("service", "CompanyProfileCache"),
	}
}

// Get returns the stored profile, or the built-in default when none was saved yet.
func (c *CompanyProfileCache) Get(ctx context.Context) (models.CompanyProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile != nil && (c.ttl <= 0 || c.now().Sub(c.loadedAt) < c.ttl) {
		return *c.profile, nil
	}

	var p models.CompanyProfile
	err := c.db.WithContext(ctx).Where("id = ?", models.CompanyProfileID).Take(&p).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = models.DefaultCompanyProfile()
	case err != nil:
		return models.CompanyProfile{}, storageError("load company profile", err)
	}

	c.profile = &p
	c.loadedAt = c.now()
	return p, nil
}

// Update saves the profile (creating the row if needed) and drops the cached copy.
func (c *CompanyProfileCache) Update(ctx context.Context, p models.CompanyProfile) error {
	p.ID = models.CompanyProfileID
	if err := c.db.WithContext(ctx).Save(&p).Error; err != nil {
		return storageError("save company profile", err)
	}
	c.Invalidate()
	c.log.Info("company profile updated")
	return nil
}

func (c *CompanyProfileCache) Invalidate() {
	c.mu.Lock()
	c.profile = nil
	c.mu.Unlock()
}
