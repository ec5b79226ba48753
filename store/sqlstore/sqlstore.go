// Package sqlstore implements store.Store on gorm. SQLite (pure Go) is the default driver;
// Postgres is available for deployments.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Driver string // sqlite or postgres
	DSN    string
	Logger logger.Interface
	// MaxOpenConns caps the pool; in-memory sqlite needs 1 so every query sees the same db.
	MaxOpenConns int
}

// Open connects and migrates every model.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	gormLogger := cfg.Logger
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.Category{},
		&models.Menu{},
		&models.DeliveryCompany{},
		&models.Order{},
		&models.PhoneCalledOrder{},
		&models.OrderStatusHistory{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// New builds a store.Store backed by db.
func New(db *gorm.DB) *store.Store {
	s := &store.Store{
		Users:       &userRepo{table[models.User, *models.User]{db: db, entity: "user"}},
		Shops:       &shopRepo{table[models.Shop, *models.Shop]{db: db, entity: "shop"}},
		Menus:       &menuRepo{table[models.Menu, *models.Menu]{db: db, entity: "menu"}},
		Categories:  &categoryRepo{table[models.Category, *models.Category]{db: db, entity: "category"}},
		Companies:   &companyRepo{table[models.DeliveryCompany, *models.DeliveryCompany]{db: db, entity: "delivery company"}},
		Orders:      &orderRepo{table[models.Order, *models.Order]{db: db, entity: "order"}},
		PhoneOrders: &phoneOrderRepo{table[models.PhoneCalledOrder, *models.PhoneCalledOrder]{db: db, entity: "phone order"}},
		History:     &historyRepo{table[models.OrderStatusHistory, *models.OrderStatusHistory]{db: db, entity: "status history"}},
	}
	return s.WithCloser(func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
}

type record[T any] interface {
	*T
	EnsureID() string
}

// table holds the CRUD every repository shares.
type table[T any, P record[T]] struct {
	db     *gorm.DB
	entity string
}

func (t table[T, P]) create(ctx context.Context, v P) error {
	v.EnsureID()
	if err := t.db.WithContext(ctx).Create(v).Error; err != nil {
		return t.wrap("create", err)
	}
	return nil
}

func (t table[T, P]) get(ctx context.Context, query string, args ...any) (*T, error) {
	var v T
	if err := t.db.WithContext(ctx).Where(query, args...).First(&v).Error; err != nil {
		return nil, t.wrap("get", err)
	}
	return &v, nil
}

func (t table[T, P]) update(ctx context.Context, v P) error {
	res := t.db.WithContext(ctx).Model(v).Select("*").Updates(v)
	if res.Error != nil {
		return t.wrap("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t table[T, P]) delete(ctx context.Context, id string) error {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(P(new(T)))
	if res.Error != nil {
		return t.wrap("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (t table[T, P]) find(ctx context.Context, q *gorm.DB) ([]T, error) {
	out := []T{}
	if err := q.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, t.wrap("list", err)
	}
	return out, nil
}

func (t table[T, P]) wrap(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("failed to %s %s: %w", op, t.entity, store.ErrDuplicate)
	default:
		return fmt.Errorf("failed to %s %s: %w", op, t.entity, err)
	}
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}

// OpenMemory returns a migrated store on a private in-memory sqlite database.
func OpenMemory() (*store.Store, error) {
	db, err := Open(Config{Driver: "sqlite", DSN: ":memory:", Logger: logger.Discard, MaxOpenConns: 1})
	if err != nil {
		return nil, err
	}
	return New(db), nil
}
