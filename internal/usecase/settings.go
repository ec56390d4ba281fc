package usecase

import (
	"context"
	"log"

	"github.com/otakucart/storefront/internal/cache"
	"github.com/otakucart/storefront/internal/domain"
)

// SettingsService serves the single site settings row from a snapshot so the
// storefront can read it on every page without a round trip.
type SettingsService struct {
	store    Store
	feed     ChangeFeed
	snapshot *cache.Snapshot[domain.SiteSettings]
}

func NewSettingsService(store Store, feed ChangeFeed) *SettingsService {
	s := &SettingsService{store: store, feed: feed}
	s.snapshot = cache.NewSnapshot(store.GetSiteSettings)
	return s
}

func (s *SettingsService) Get(ctx context.Context) (domain.SiteSettings, error) {
	return s.snapshot.Get(ctx)
}

func (s *SettingsService) Update(ctx context.Context, settings domain.SiteSettings) (domain.SiteSettings, error) {
	updated, err := s.store.UpdateSiteSettings(ctx, settings)
	if err != nil {
		return domain.SiteSettings{}, err
	}
	s.snapshot.Invalidate()
	if err := s.feed.Publish(ctx, EventUpdate, TableSiteSettings, updated); err != nil {
		log.Printf("Failed to publish %s on %s: %v", EventUpdate, TableSiteSettings, err)
	}
	return updated, nil
}

func (s *SettingsService) Invalidate() {
	s.snapshot.Invalidate()
}
