package service

import (
	"context"
	"strings"

	"food-ordering-api/errs"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/store"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// CatalogService manages categories, shops and their menus.
type CatalogService struct {
	categories store.CategoryRepository
	shops      store.ShopRepository
	menus      store.MenuRepository
	users      store.UserRepository
	logger     *zap.SugaredLogger
}

func NewCatalogService(
	categories store.CategoryRepository,
	shops store.ShopRepository,
	menus store.MenuRepository,
	users store.UserRepository,
	logger *zap.SugaredLogger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		shops:      shops,
		menus:      menus,
		users:      users,
		logger:     logger,
	}
}

// ── Categories ──────────────────────────────────────────────────

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Invalid("name is required")
	}
	c := &models.Category{Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, saveErr(err, "Category already exists")
	}
	return c, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	list, err := s.categories.List(ctx)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return list, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return fetch(ctx, s.categories.GetByID, id, "Category")
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*models.Category, error) {
	c, err := fetch(ctx, s.categories.GetByID, id, "Category")
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name == "" {
		return nil, errs.Invalid("name is required")
	}
	c.Name = name
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, saveErr(err, "Category already exists")
	}
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	c, err := fetch(ctx, s.categories.GetByID, id, "Category")
	if err != nil {
		return err
	}
	return saveErr(s.categories.Delete(ctx, c.ID), "")
}

// ── Shops ───────────────────────────────────────────────────────

type ShopInput struct {
	Name       string
	Photo      string
	Address    string
	OpenTime   string
	CloseTime  string
	Categories []string `copier:"-"`
	IsActive   *bool    `copier:"-"`
	// AdminUserID links an existing user to the shop as its shop-admin.
	AdminUserID string `copier:"-"`
}

func (s *CatalogService) CreateShop(ctx context.Context, in ShopInput) (*models.Shop, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errs.Invalid("name is required")
	}
	shop := &models.Shop{IsActive: true, Categories: []string{}}
	if err := s.applyShop(ctx, shop, in); err != nil {
		return nil, err
	}

	var admin *models.User
	if in.AdminUserID != "" {
		var err error
		if admin, err = fetch(ctx, s.users.GetByID, in.AdminUserID, "User"); err != nil {
			return nil, err
		}
	}

	if err := s.shops.Create(ctx, shop); err != nil {
		return nil, saveErr(err, "Shop already exists")
	}
	if admin != nil {
		admin.Role = models.RoleShopAdmin
		admin.ShopID = shop.ID
		if err := s.users.Update(ctx, admin); err != nil {
			return nil, saveErr(err, "")
		}
	}
	s.logger.Infow("shop created", "shop_id", shop.ID, "admin_user_id", in.AdminUserID)
	return shop, nil
}

func (s *CatalogService) ListShops(ctx context.Context, f store.ShopFilter) ([]models.Shop, error) {
	if f.CategoryID != "" && !models.ValidID(f.CategoryID) {
		return nil, errs.Invalid("Invalid category id: %q", f.CategoryID)
	}
	list, err := s.shops.List(ctx, f)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return list, nil
}

func (s *CatalogService) GetShop(ctx context.Context, id string) (*models.Shop, error) {
	return fetch(ctx, s.shops.GetByID, id, "Shop")
}

func (s *CatalogService) UpdateShop(ctx context.Context, actor policy.Actor, id string, in ShopInput) (*models.Shop, error) {
	shop, err := fetch(ctx, s.shops.GetByID, id, "Shop")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ManageShop, policy.Resource{ShopID: shop.ID}); err != nil {
		return nil, err
	}
	if in.AdminUserID != "" {
		return nil, errs.Invalid("adminUserId can only be set when the shop is created")
	}
	if err := s.applyShop(ctx, shop, in); err != nil {
		return nil, err
	}
	if err := s.shops.Update(ctx, shop); err != nil {
		return nil, saveErr(err, "")
	}
	return shop, nil
}

func (s *CatalogService) applyShop(ctx context.Context, shop *models.Shop, in ShopInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := copier.CopyWithOption(shop, &in, copier.Option{IgnoreEmpty: true}); err != nil {
		return errs.Internal(err)
	}
	if in.Categories != nil {
		refs, err := s.categoryRefs(ctx, in.Categories)
		if err != nil {
			return err
		}
		shop.Categories = refs
	}
	if in.IsActive != nil {
		shop.IsActive = *in.IsActive
	}
	return nil
}

// categoryRefs checks that every id names an existing category and drops repeats.
func (s *CatalogService) categoryRefs(ctx context.Context, ids []string) ([]string, error) {
	refs := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if _, err := fetch(ctx, s.categories.GetByID, id, "Category"); err != nil {
			return nil, err
		}
		seen[id] = true
		refs = append(refs, id)
	}
	return refs, nil
}

func (s *CatalogService) DeleteShop(ctx context.Context, id string) error {
	shop, err := fetch(ctx, s.shops.GetByID, id, "Shop")
	if err != nil {
		return err
	}
	if err := s.shops.Delete(ctx, shop.ID); err != nil {
		return saveErr(err, "")
	}
	s.logger.Infow("shop deleted", "shop_id", shop.ID)
	return nil
}

// ── Menus ───────────────────────────────────────────────────────

type MenuInput struct {
	ShopID      string `copier:"-"`
	Name        string
	Price       *float64 `copier:"-"`
	CategoryID  string   `copier:"-"`
	Description string
	Image       string
	IsAvailable *bool          `copier:"-"`
	AddOns      []models.AddOn `copier:"-"`
}

// CreateMenu adds a menu item. Shop-admins may omit the shop; it defaults to their own.
func (s *CatalogService) CreateMenu(ctx context.Context, actor policy.Actor, in MenuInput) (*models.Menu, error) {
	if in.ShopID == "" && actor.Role == models.RoleShopAdmin {
		in.ShopID = actor.ShopID
	}
	shop, err := fetch(ctx, s.shops.GetByID, in.ShopID, "Shop")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ManageMenu, policy.Resource{ShopID: shop.ID}); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || in.Price == nil {
		return nil, errs.Invalid("name and price are required")
	}

	menu := &models.Menu{
		ShopID:      shop.ID,
		CreatedBy:   actor.ID,
		IsAvailable: true,
		AddOns:      []models.AddOn{},
	}
	if err := s.applyMenu(ctx, menu, in); err != nil {
		return nil, err
	}
	if err := s.menus.Create(ctx, menu); err != nil {
		return nil, saveErr(err, "Menu already exists")
	}
	return menu, nil
}

func (s *CatalogService) ListMenus(ctx context.Context, shopID string, f store.MenuFilter) ([]models.Menu, error) {
	if _, err := fetch(ctx, s.shops.GetByID, shopID, "Shop"); err != nil {
		return nil, err
	}
	if f.CategoryID != "" && !models.ValidID(f.CategoryID) {
		return nil, errs.Invalid("Invalid category id: %q", f.CategoryID)
	}
	list, err := s.menus.ListByShop(ctx, shopID, f)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return list, nil
}

func (s *CatalogService) GetMenu(ctx context.Context, id string) (*models.Menu, error) {
	return fetch(ctx, s.menus.GetByID, id, "Menu")
}

func (s *CatalogService) UpdateMenu(ctx context.Context, actor policy.Actor, id string, in MenuInput) (*models.Menu, error) {
	menu, err := fetch(ctx, s.menus.GetByID, id, "Menu")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ManageMenu, policy.Resource{ShopID: menu.ShopID}); err != nil {
		return nil, err
	}
	if in.ShopID != "" && in.ShopID != menu.ShopID {
		return nil, errs.Invalid("A menu cannot be moved to another shop")
	}
	if err := s.applyMenu(ctx, menu, in); err != nil {
		return nil, err
	}
	if err := s.menus.Update(ctx, menu); err != nil {
		return nil, saveErr(err, "")
	}
	return menu, nil
}

func (s *CatalogService) DeleteMenu(ctx context.Context, actor policy.Actor, id string) error {
	menu, err := fetch(ctx, s.menus.GetByID, id, "Menu")
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ManageMenu, policy.Resource{ShopID: menu.ShopID}); err != nil {
		return err
	}
	return saveErr(s.menus.Delete(ctx, menu.ID), "")
}

func (s *CatalogService) applyMenu(ctx context.Context, menu *models.Menu, in MenuInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := copier.CopyWithOption(menu, &in, copier.Option{IgnoreEmpty: true}); err != nil {
		return errs.Internal(err)
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return errs.Invalid("price must not be negative")
		}
		menu.Price = *in.Price
	}
	if in.CategoryID != "" {
		if _, err := fetch(ctx, s.categories.GetByID, in.CategoryID, "Category"); err != nil {
			return err
		}
		menu.CategoryID = in.CategoryID
	}
	if in.IsAvailable != nil {
		menu.IsAvailable = *in.IsAvailable
	}
	if in.AddOns != nil {
		addOns, err := cleanAddOns(in.AddOns)
		if err != nil {
			return err
		}
		menu.AddOns = addOns
	}
	return nil
}

// cleanAddOns trims names and rejects blanks, repeats and negative prices.
func cleanAddOns(in []models.AddOn) ([]models.AddOn, error) {
	out := make([]models.AddOn, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, errs.Invalid("add-on name is required")
		}
		if seen[name] {
			return nil, errs.Invalid("Duplicate add-on: %s", name)
		}
		if a.Price < 0 {
			return nil, errs.Invalid("add-on price must not be negative")
		}
		seen[name] = true
		out = append(out, models.AddOn{Name: name, Price: a.Price})
	}
	return out, nil
}
