package sqlstore

import (
	"context"
	"strings"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"gorm.io/gorm"
)

type userRepo struct {
	table[models.User, *models.User]
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error { return r.create(ctx, u) }
func (r *userRepo) Update(ctx context.Context, u *models.User) error { return r.update(ctx, u) }
func (r *userRepo) Delete(ctx context.Context, id string) error      { return r.delete(ctx, id) }

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, "email = ?", email)
}

func (r *userRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.get(ctx, "reset_token = ?", token)
}

func (r *userRepo) List(ctx context.Context, f store.UserFilter) ([]models.User, error) {
	return r.find(ctx, r.filter(f))
}

func (r *userRepo) Count(ctx context.Context, f store.UserFilter) (int64, error) {
	var n int64
	if err := r.filter(f).WithContext(ctx).Count(&n).Error; err != nil {
		return 0, r.wrap("count", err)
	}
	return n, nil
}

func (r *userRepo) filter(f store.UserFilter) *gorm.DB {
	q := r.db.Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.ShopID != "" {
		q = q.Where("shop_id = ?", f.ShopID)
	}
	if f.CompanyID != "" {
		q = q.Where("company_id = ?", f.CompanyID)
	}
	return q
}

func (r *userRepo) ClearExpiredResetTokens(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("reset_token <> '' AND reset_token_expiry < ?", before).
		Updates(map[string]any{"reset_token": "", "reset_token_expiry": nil})
	if res.Error != nil {
		return 0, r.wrap("clear reset tokens of", res.Error)
	}
	return res.RowsAffected, nil
}

type shopRepo struct {
	table[models.Shop, *models.Shop]
}

func (r *shopRepo) Create(ctx context.Context, s *models.Shop) error { return r.create(ctx, s) }
func (r *shopRepo) Update(ctx context.Context, s *models.Shop) error { return r.update(ctx, s) }
func (r *shopRepo) Delete(ctx context.Context, id string) error      { return r.delete(ctx, id) }

func (r *shopRepo) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *shopRepo) List(ctx context.Context, f store.ShopFilter) ([]models.Shop, error) {
	q := r.db.Model(&models.Shop{})
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.CategoryID != "" {
		// categories is a JSON array column
		q = q.Where("categories LIKE ?", `%"`+f.CategoryID+`"%`)
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	return r.find(ctx, q)
}

type menuRepo struct {
	table[models.Menu, *models.Menu]
}

func (r *menuRepo) Create(ctx context.Context, m *models.Menu) error { return r.create(ctx, m) }
func (r *menuRepo) Update(ctx context.Context, m *models.Menu) error { return r.update(ctx, m) }
func (r *menuRepo) Delete(ctx context.Context, id string) error      { return r.delete(ctx, id) }

func (r *menuRepo) GetByID(ctx context.Context, id string) (*models.Menu, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *menuRepo) ListByShop(ctx context.Context, shopID string, f store.MenuFilter) ([]models.Menu, error) {
	q := r.db.Model(&models.Menu{}).Where("shop_id = ?", shopID)
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	return r.find(ctx, q)
}

type categoryRepo struct {
	table[models.Category, *models.Category]
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error { return r.create(ctx, c) }
func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error { return r.update(ctx, c) }
func (r *categoryRepo) Delete(ctx context.Context, id string) error          { return r.delete(ctx, id) }

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return r.find(ctx, r.db.Model(&models.Category{}))
}

type companyRepo struct {
	table[models.DeliveryCompany, *models.DeliveryCompany]
}

func (r *companyRepo) Create(ctx context.Context, c *models.DeliveryCompany) error {
	return r.create(ctx, c)
}

func (r *companyRepo) Update(ctx context.Context, c *models.DeliveryCompany) error {
	return r.update(ctx, c)
}

func (r *companyRepo) Delete(ctx context.Context, id string) error { return r.delete(ctx, id) }

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.DeliveryCompany, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *companyRepo) List(ctx context.Context, activeOnly bool) ([]models.DeliveryCompany, error) {
	q := r.db.Model(&models.DeliveryCompany{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	return r.find(ctx, q)
}

type orderRepo struct {
	table[models.Order, *models.Order]
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error { return r.create(ctx, o) }
func (r *orderRepo) Update(ctx context.Context, o *models.Order) error { return r.update(ctx, o) }
func (r *orderRepo) Delete(ctx context.Context, id string) error       { return r.delete(ctx, id) }

func (r *orderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *orderRepo) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	q := orderFilter(r.db.Model(&models.Order{}), f)
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	return r.find(ctx, q)
}

type phoneOrderRepo struct {
	table[models.PhoneCalledOrder, *models.PhoneCalledOrder]
}

func (r *phoneOrderRepo) Create(ctx context.Context, o *models.PhoneCalledOrder) error {
	return r.create(ctx, o)
}

func (r *phoneOrderRepo) Update(ctx context.Context, o *models.PhoneCalledOrder) error {
	return r.update(ctx, o)
}

func (r *phoneOrderRepo) GetByID(ctx context.Context, id string) (*models.PhoneCalledOrder, error) {
	return r.get(ctx, "id = ?", id)
}

// CustomerID is ignored: phone orders have no customer account.
func (r *phoneOrderRepo) List(ctx context.Context, f store.OrderFilter) ([]models.PhoneCalledOrder, error) {
	return r.find(ctx, orderFilter(r.db.Model(&models.PhoneCalledOrder{}), f))
}

func orderFilter(q *gorm.DB, f store.OrderFilter) *gorm.DB {
	if f.ShopID != "" {
		q = q.Where("shop_id = ?", f.ShopID)
	}
	if f.CompanyID != "" {
		q = q.Where("delivery_company_id = ?", f.CompanyID)
	}
	if f.StaffID != "" {
		q = q.Where("delivery_staff_id = ?", f.StaffID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

type historyRepo struct {
	table[models.OrderStatusHistory, *models.OrderStatusHistory]
}

func (r *historyRepo) Create(ctx context.Context, h *models.OrderStatusHistory) error {
	return r.create(ctx, h)
}

func (r *historyRepo) ListByOrder(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	out := []models.OrderStatusHistory{}
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at asc").Find(&out).Error
	if err != nil {
		return nil, r.wrap("list", err)
	}
	return out, nil
}
