// Package mongostore implements store.Store on MongoDB collections.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	collUsers       = "users"
	collShops       = "shops"
	collMenus       = "menus"
	collCategories  = "categories"
	collCompanies   = "delivery_companies"
	collOrders      = "orders"
	collPhoneOrders = "phone_called_orders"
	collHistory     = "order_status_history"
)

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type Storage struct {
	client   *mongo.Client
	database *mongo.Database
	config   Config
}

func New(cfg Config) (*Storage, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(100).
		SetMinPoolSize(5)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Storage{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Database() *mongo.Database {
	return s.database
}

func (s *Storage) CreateIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
			{Keys: bson.D{{Key: "companyId", Value: 1}}},
			{Keys: bson.D{{Key: "resetToken", Value: 1}}},
		},
		collCategories: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collCompanies: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collMenus: {
			{Keys: bson.D{{Key: "shopId", Value: 1}}},
		},
		collOrders: {
			{Keys: bson.D{{Key: "customer", Value: 1}}},
			{Keys: bson.D{{Key: "shop", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "deliveryCompany", Value: 1}}},
			{Keys: bson.D{{Key: "deliveryStaff", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		collPhoneOrders: {
			{Keys: bson.D{{Key: "shop", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "deliveryCompany", Value: 1}}},
			{Keys: bson.D{{Key: "deliveryStaff", Value: 1}}},
		},
		collHistory: {
			{Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := s.database.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

// NewStore builds a store.Store over the storage's collections.
func NewStore(s *Storage) *store.Store {
	db := s.database
	t := s.config.Timeout
	st := &store.Store{
		Users:       &userRepo{newCollection[models.User](db, collUsers, "user", t)},
		Shops:       &shopRepo{newCollection[models.Shop](db, collShops, "shop", t)},
		Menus:       &menuRepo{newCollection[models.Menu](db, collMenus, "menu", t)},
		Categories:  &categoryRepo{newCollection[models.Category](db, collCategories, "category", t)},
		Companies:   &companyRepo{newCollection[models.DeliveryCompany](db, collCompanies, "delivery company", t)},
		Orders:      &orderRepo{newCollection[models.Order](db, collOrders, "order", t)},
		PhoneOrders: &phoneOrderRepo{newCollection[models.PhoneCalledOrder](db, collPhoneOrders, "phone order", t)},
		History:     &historyRepo{newCollection[models.OrderStatusHistory](db, collHistory, "status history", t)},
	}
	return st.WithCloser(s.Close)
}
