package memdb

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/model"
)

func (s *Store) GetStoreSettings(ctx context.Context) (*model.StoreSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, db.ErrNotFound
	}
	cp := *s.settings
	return &cp, nil
}

func (s *Store) UpsertStoreSettings(ctx context.Context, settings *model.StoreSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.ID = model.StoreSettingsID
	settings.UpdatedAt = now()
	cp := *settings
	s.settings = &cp
	return nil
}

func (s *Store) ListPaymentGateways(ctx context.Context) ([]model.PaymentGatewayConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.PaymentGatewayConfig, 0, len(s.gateways))
	for _, g := range s.gateways {
		res = append(res, g)
	}
	sortStable(res, func(a, b model.PaymentGatewayConfig) bool {
		if a.SortOrder == b.SortOrder {
			return a.ID < b.ID
		}
		return a.SortOrder < b.SortOrder
	})
	return res, nil
}

func (s *Store) GetPaymentGateway(ctx context.Context, id string) (*model.PaymentGatewayConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.gateways[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &g, nil
}

func (s *Store) UpsertPaymentGateway(ctx context.Context, gateway *model.PaymentGatewayConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gateway.UpdatedAt = now()
	s.gateways[gateway.ID] = *gateway
	return nil
}

func (s *Store) ListSocialLinks(ctx context.Context) ([]model.SocialLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.SocialLink, 0, len(s.socialLinks))
	for _, l := range s.socialLinks {
		res = append(res, l)
	}
	sortStable(res, func(a, b model.SocialLink) bool {
		if a.SortOrder == b.SortOrder {
			return a.ID < b.ID
		}
		return a.SortOrder < b.SortOrder
	})
	return res, nil
}

func (s *Store) GetSocialLink(ctx context.Context, id string) (*model.SocialLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.socialLinks[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &l, nil
}

func (s *Store) CreateSocialLink(ctx context.Context, link *model.SocialLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.socialLinks[link.ID]; ok {
		return db.ErrDuplicateKey
	}
	s.socialLinks[link.ID] = *link
	return nil
}

func (s *Store) UpdateSocialLink(ctx context.Context, link *model.SocialLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.socialLinks[link.ID]; !ok {
		return db.ErrNotFound
	}
	s.socialLinks[link.ID] = *link
	return nil
}

func (s *Store) DeleteSocialLink(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.socialLinks[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.socialLinks, id)
	return nil
}

func (s *Store) ListExternalLinks(ctx context.Context) ([]model.ExternalLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.ExternalLink, 0, len(s.externalLinks))
	for _, l := range s.externalLinks {
		res = append(res, l)
	}
	sortStable(res, func(a, b model.ExternalLink) bool {
		if a.SortOrder == b.SortOrder {
			return a.ID < b.ID
		}
		return a.SortOrder < b.SortOrder
	})
	return res, nil
}

func (s *Store) GetExternalLink(ctx context.Context, id string) (*model.ExternalLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.externalLinks[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &l, nil
}

func (s *Store) CountExternalLinks(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.externalLinks)), nil
}

func (s *Store) CreateExternalLink(ctx context.Context, link *model.ExternalLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.externalLinks[link.ID]; ok {
		return db.ErrDuplicateKey
	}
	s.externalLinks[link.ID] = *link
	return nil
}

func (s *Store) UpdateExternalLink(ctx context.Context, link *model.ExternalLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.externalLinks[link.ID]; !ok {
		return db.ErrNotFound
	}
	s.externalLinks[link.ID] = *link
	return nil
}

func (s *Store) DeleteExternalLink(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.externalLinks[id]; !ok {
		return db.ErrNotFound
	}
	delete(s.externalLinks, id)
	return nil
}

func (s *Store) GetFloatingAnnouncement(ctx context.Context) (*model.FloatingAnnouncement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.announcement == nil {
		return nil, db.ErrNotFound
	}
	cp := *s.announcement
	return &cp, nil
}

func (s *Store) UpsertFloatingAnnouncement(ctx context.Context, a *model.FloatingAnnouncement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = model.FloatingAnnouncementID
	a.UpdatedAt = now()
	cp := *a
	s.announcement = &cp
	return nil
}
