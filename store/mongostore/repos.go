package mongostore

import (
	"context"
	"regexp"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	newestFirst = -1
	oldestFirst = 1
)

type userRepo struct {
	collection[models.User, *models.User]
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error { return r.create(ctx, u) }
func (r *userRepo) Update(ctx context.Context, u *models.User) error { return r.replace(ctx, u.ID, u) }
func (r *userRepo) Delete(ctx context.Context, id string) error      { return r.delete(ctx, id) }

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, bson.M{"_id": id})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, bson.M{"email": email})
}

func (r *userRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.get(ctx, bson.M{"resetToken": token})
}

func (r *userRepo) List(ctx context.Context, f store.UserFilter) ([]models.User, error) {
	return r.find(ctx, userFilter(f), newestFirst)
}

func (r *userRepo) Count(ctx context.Context, f store.UserFilter) (int64, error) {
	return r.count(ctx, userFilter(f))
}

func userFilter(f store.UserFilter) bson.M {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.ShopID != "" {
		filter["shopId"] = f.ShopID
	}
	if f.CompanyID != "" {
		filter["companyId"] = f.CompanyID
	}
	return filter
}

func (r *userRepo) ClearExpiredResetTokens(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"resetToken": bson.M{"$exists": true, "$ne": ""}, "resetTokenExpiry": bson.M{"$lt": before}},
		bson.M{"$unset": bson.M{"resetToken": "", "resetTokenExpiry": ""}},
	)
	if err != nil {
		return 0, r.wrap("clear reset tokens of", err)
	}
	return res.ModifiedCount, nil
}

type shopRepo struct {
	collection[models.Shop, *models.Shop]
}

func (r *shopRepo) Create(ctx context.Context, s *models.Shop) error { return r.create(ctx, s) }
func (r *shopRepo) Update(ctx context.Context, s *models.Shop) error { return r.replace(ctx, s.ID, s) }
func (r *shopRepo) Delete(ctx context.Context, id string) error      { return r.delete(ctx, id) }

func (r *shopRepo) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	return r.get(ctx, bson.M{"_id": id})
}

func (r *shopRepo) List(ctx context.Context, f store.ShopFilter) ([]models.Shop, error) {
	filter := bson.M{}
	if f.ActiveOnly {
		filter["isActive"] = true
	}
	if f.CategoryID != "" {
		filter["categories"] = f.CategoryID
	}
	if f.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return r.find(ctx, filter, newestFirst)
}

type menuRepo struct {
	collection[models.Menu, *models.Menu]
}

func (r *menuRepo) Create(ctx context.Context, m *models.Menu) error { return r.create(ctx, m) }
func (r *menuRepo) Update(ctx context.Context, m *models.Menu) error { return r.replace(ctx, m.ID, m) }
func (r *menuRepo) Delete(ctx context.Context, id string) error      { return r.delete(ctx, id) }

func (r *menuRepo) GetByID(ctx context.Context, id string) (*models.Menu, error) {
	return r.get(ctx, bson.M{"_id": id})
}

func (r *menuRepo) ListByShop(ctx context.Context, shopID string, f store.MenuFilter) ([]models.Menu, error) {
	filter := bson.M{"shopId": shopID}
	if f.CategoryID != "" {
		filter["category"] = f.CategoryID
	}
	if f.AvailableOnly {
		filter["isAvailable"] = true
	}
	return r.find(ctx, filter, newestFirst)
}

type categoryRepo struct {
	collection[models.Category, *models.Category]
}

func (r *categoryRepo) Create(ctx context.Context, c *models.Category) error {
	return r.create(ctx, c)
}

func (r *categoryRepo) Update(ctx context.Context, c *models.Category) error {
	return r.replace(ctx, c.ID, c)
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error { return r.delete(ctx, id) }

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.get(ctx, bson.M{"_id": id})
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return r.find(ctx, bson.M{}, newestFirst)
}

type companyRepo struct {
	collection[models.DeliveryCompany, *models.DeliveryCompany]
}

func (r *companyRepo) Create(ctx context.Context, c *models.DeliveryCompany) error {
	return r.create(ctx, c)
}

func (r *companyRepo) Update(ctx context.Context, c *models.DeliveryCompany) error {
	return r.replace(ctx, c.ID, c)
}

func (r *companyRepo) Delete(ctx context.Context, id string) error { return r.delete(ctx, id) }

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.DeliveryCompany, error) {
	return r.get(ctx, bson.M{"_id": id})
}

func (r *companyRepo) List(ctx context.Context, activeOnly bool) ([]models.DeliveryCompany, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	return r.find(ctx, filter, newestFirst)
}

type orderRepo struct {
	collection[models.Order, *models.Order]
}

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error { return r.create(ctx, o) }
func (r *orderRepo) Update(ctx context.Context, o *models.Order) error { return r.replace(ctx, o.ID, o) }
func (r *orderRepo) Delete(ctx context.Context, id string) error       { return r.delete(ctx, id) }

func (r *orderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return r.get(ctx, bson.M{"_id": id})
}

func (r *orderRepo) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	filter := orderFilter(f)
	if f.CustomerID != "" {
		filter["customer"] = f.CustomerID
	}
	return r.find(ctx, filter, newestFirst)
}

type phoneOrderRepo struct {
	collection[models.PhoneCalledOrder, *models.PhoneCalledOrder]
}

func (r *phoneOrderRepo) Create(ctx context.Context, o *models.PhoneCalledOrder) error {
	return r.create(ctx, o)
}

func (r *phoneOrderRepo) Update(ctx context.Context, o *models.PhoneCalledOrder) error {
	return r.replace(ctx, o.ID, o)
}

func (r *phoneOrderRepo) GetByID(ctx context.Context, id string) (*models.PhoneCalledOrder, error) {
	return r.get(ctx, bson.M{"_id": id})
}

func (r *phoneOrderRepo) List(ctx context.Context, f store.OrderFilter) ([]models.PhoneCalledOrder, error) {
	return r.find(ctx, orderFilter(f), newestFirst)
}

func orderFilter(f store.OrderFilter) bson.M {
	filter := bson.M{}
	if f.ShopID != "" {
		filter["shop"] = f.ShopID
	}
	if f.CompanyID != "" {
		filter["deliveryCompany"] = f.CompanyID
	}
	if f.StaffID != "" {
		filter["deliveryStaff"] = f.StaffID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	return filter
}

type historyRepo struct {
	collection[models.OrderStatusHistory, *models.OrderStatusHistory]
}

func (r *historyRepo) Create(ctx context.Context, h *models.OrderStatusHistory) error {
	return r.create(ctx, h)
}

func (r *historyRepo) ListByOrder(ctx context.Context, orderID string) ([]models.OrderStatusHistory, error) {
	return r.find(ctx, bson.M{"orderId": orderID}, oldestFirst)
}
