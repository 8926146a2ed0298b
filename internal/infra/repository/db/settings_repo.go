package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) GetStoreSettings(ctx context.Context) (*model.StoreSettings, error) {
	var settings model.StoreSettings
	if err := s.findOne(ctx, SettingsCollection, bson.M{"_id": model.StoreSettingsID}, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *MongoStore) UpsertStoreSettings(ctx context.Context, settings *model.StoreSettings) error {
	settings.ID = model.StoreSettingsID
	settings.UpdatedAt = time.Now().UTC()
	return s.upsertByID(ctx, SettingsCollection, settings.ID, settings)
}

func (s *MongoStore) ListPaymentGateways(ctx context.Context) ([]model.PaymentGatewayConfig, error) {
	opts := options.Find().SetSort(sortBy("sort_order", false))
	return findAll[model.PaymentGatewayConfig](ctx, s.coll(PaymentGatewaysCollection), bson.M{}, opts)
}

func (s *MongoStore) GetPaymentGateway(ctx context.Context, id string) (*model.PaymentGatewayConfig, error) {
	var gateway model.PaymentGatewayConfig
	if err := s.findOne(ctx, PaymentGatewaysCollection, bson.M{"_id": id}, &gateway); err != nil {
		return nil, err
	}
	return &gateway, nil
}

func (s *MongoStore) UpsertPaymentGateway(ctx context.Context, gateway *model.PaymentGatewayConfig) error {
	gateway.UpdatedAt = time.Now().UTC()
	return s.upsertByID(ctx, PaymentGatewaysCollection, gateway.ID, gateway)
}

func (s *MongoStore) ListSocialLinks(ctx context.Context) ([]model.SocialLink, error) {
	opts := options.Find().SetSort(sortBy("sort_order", false))
	return findAll[model.SocialLink](ctx, s.coll(SocialLinksCollection), bson.M{}, opts)
}

func (s *MongoStore) GetSocialLink(ctx context.Context, id string) (*model.SocialLink, error) {
	var link model.SocialLink
	if err := s.findOne(ctx, SocialLinksCollection, bson.M{"_id": id}, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *MongoStore) CreateSocialLink(ctx context.Context, link *model.SocialLink) error {
	return s.insert(ctx, SocialLinksCollection, link)
}

func (s *MongoStore) UpdateSocialLink(ctx context.Context, link *model.SocialLink) error {
	return s.replaceByID(ctx, SocialLinksCollection, link.ID, link)
}

func (s *MongoStore) DeleteSocialLink(ctx context.Context, id string) error {
	return s.deleteByID(ctx, SocialLinksCollection, id)
}

func (s *MongoStore) ListExternalLinks(ctx context.Context) ([]model.ExternalLink, error) {
	opts := options.Find().SetSort(sortBy("sort_order", false))
	return findAll[model.ExternalLink](ctx, s.coll(ExternalLinksCollection), bson.M{}, opts)
}

func (s *MongoStore) GetExternalLink(ctx context.Context, id string) (*model.ExternalLink, error) {
	var link model.ExternalLink
	if err := s.findOne(ctx, ExternalLinksCollection, bson.M{"_id": id}, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *MongoStore) CountExternalLinks(ctx context.Context) (int64, error) {
	return s.coll(ExternalLinksCollection).CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) CreateExternalLink(ctx context.Context, link *model.ExternalLink) error {
	return s.insert(ctx, ExternalLinksCollection, link)
}

func (s *MongoStore) UpdateExternalLink(ctx context.Context, link *model.ExternalLink) error {
	return s.replaceByID(ctx, ExternalLinksCollection, link.ID, link)
}

func (s *MongoStore) DeleteExternalLink(ctx context.Context, id string) error {
	return s.deleteByID(ctx, ExternalLinksCollection, id)
}

func (s *MongoStore) GetFloatingAnnouncement(ctx context.Context) (*model.FloatingAnnouncement, error) {
	var a model.FloatingAnnouncement
	if err := s.findOne(ctx, SettingsCollection, bson.M{"_id": model.FloatingAnnouncementID}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *MongoStore) UpsertFloatingAnnouncement(ctx context.Context, a *model.FloatingAnnouncement) error {
	a.ID = model.FloatingAnnouncementID
	a.UpdatedAt = time.Now().UTC()
	return s.upsertByID(ctx, SettingsCollection, a.ID, a)
}
