// Package store declares the persistence collaborator used by the services. Backends live in
// store/sqlstore (gorm) and store/mongostore (MongoDB).
package store

import (
	"context"
	"errors"
	"time"

	"food-ordering-api/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserFilter struct {
	Role      models.UserRole
	ShopID    string
	CompanyID string
}

type ShopFilter struct {
	ActiveOnly bool
	CategoryID string
	Search     string
}

type MenuFilter struct {
	CategoryID    string
	AvailableOnly bool
}

// OrderFilter applies to both app and phone orders. Empty fields match everything.
type OrderFilter struct {
	CustomerID string
	ShopID     string
	CompanyID  string
	StaffID    string
	Status     models.OrderStatus
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	List(ctx context.Context, f UserFilter) ([]models.User, error)
	Count(ctx context.Context, f UserFilter) (int64, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
	ClearExpiredResetTokens(ctx context.Context, before time.Time) (int64, error)
}

type ShopRepository interface {
	Create(ctx context.Context, s *models.Shop) error
	GetByID(ctx context.Context, id string) (*models.Shop, error)
	List(ctx context.Context, f ShopFilter) ([]models.Shop, error)
	Update(ctx context.Context, s *models.Shop) error
	Delete(ctx context.Context, id string) error
}

type MenuRepository interface {
	Create(ctx context.Context, m *models.Menu) error
	GetByID(ctx context.Context, id string) (*models.Menu, error)
	ListByShop(ctx context.Context, shopID string, f MenuFilter) ([]models.Menu, error)
	Update(ctx context.Context, m *models.Menu) error
	Delete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
}

type CompanyRepository interface {
	Create(ctx context.Context, c *models.DeliveryCompany) error
	GetByID(ctx context.Context, id string) (*models.DeliveryCompany, error)
	List(ctx context.Context, activeOnly bool) ([]models.DeliveryCompany, error)
	Update(ctx context.Context, c *models.DeliveryCompany) error
	Delete(ctx context.Context, id string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, f OrderFilter) ([]models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, id string) error
}

type PhoneOrderRepository interface {
	Create(ctx context.Context, o *models.PhoneCalledOrder) error
	GetByID(ctx context.Context, id string) (*models.PhoneCalledOrder, error)
	List(ctx context.Context, f OrderFilter) ([]models.PhoneCalledOrder, error)
	Update(ctx context.Context, o *models.PhoneCalledOrder) error
}

type HistoryRepository interface {
	Create(ctx context.Context, h *models.OrderStatusHistory) error
	ListByOrder(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error)
}

// Store groups one repository per collection.
type Store struct {
	Users       UserRepository
	Shops       ShopRepository
	Menus       MenuRepository
	Categories  CategoryRepository
	Companies   CompanyRepository
	Orders      OrderRepository
	PhoneOrders PhoneOrderRepository
	History     HistoryRepository

	closer func(ctx context.Context) error
}

// WithCloser sets the function Close releases the backend with.
func (s *Store) WithCloser(fn func(ctx context.Context) error) *Store {
	s.closer = fn
	return s
}

func (s *Store) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	return s.closer(ctx)
}
