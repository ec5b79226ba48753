package service

import (
	"testing"

	"food-ordering-api/errs"
	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	f := newFixture(t, false)

	c, err := f.svc.Catalog.CreateCategory(f.ctx, " Noodles ")
	require.NoError(t, err)
	assert.Equal(t, "Noodles", c.Name)

	_, err = f.svc.Catalog.CreateCategory(f.ctx, "Noodles")
	assert.True(t, errs.Is(err, errs.KindConflict))

	_, err = f.svc.Catalog.UpdateCategory(f.ctx, c.ID, "")
	assert.True(t, errs.Is(err, errs.KindInvalidInput))

	require.NoError(t, f.svc.Catalog.DeleteCategory(f.ctx, c.ID))
	_, err = f.svc.Catalog.GetCategory(f.ctx, c.ID)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestCreateShopLinksAdmin(t *testing.T) {
	f := newFixture(t, false)
	cat, err := f.svc.Catalog.CreateCategory(f.ctx, "Tea")
	require.NoError(t, err)
	owner := f.user(models.RoleCustomer, "", "", 0)

	shop, err := f.svc.Catalog.CreateShop(f.ctx, ShopInput{
		Name:        "Tea House",
		Categories:  []string{cat.ID, cat.ID},
		AdminUserID: owner.ID,
	})
	require.NoError(t, err)
	assert.True(t, shop.IsActive)
	assert.Equal(t, []string{cat.ID}, shop.Categories)

	linked, err := f.st.Users.GetByID(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleShopAdmin, linked.Role)
	assert.Equal(t, shop.ID, linked.ShopID)

	_, err = f.svc.Catalog.CreateShop(f.ctx, ShopInput{Name: "Bad", Categories: []string{models.NewID()}})
	assert.True(t, errs.Is(err, errs.KindNotFound))

	list, err := f.svc.Catalog.ListShops(f.ctx, store.ShopFilter{CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateShopOwnership(t *testing.T) {
	f := newFixture(t, false)
	w := f.world()
	closed := false

	shop, err := f.svc.Catalog.UpdateShop(f.ctx, actorOf(w.shopAdmin), w.shop.ID, ShopInput{OpenTime: "08:00", IsActive: &closed})
	require.NoError(t, err)
	assert.Equal(t, "08:00", shop.OpenTime)
	assert.Equal(t, "Shop", shop.Name)
	assert.False(t, shop.IsActive)

	other := f.shop()
	_, err = f.svc.Catalog.UpdateShop(f.ctx, actorOf(w.shopAdmin), other.ID, ShopInput{Name: "Mine now"})
	assert.True(t, errs.Is(err, errs.KindForbidden))
}

func TestMenuOwnership(t *testing.T) {
	f := newFixture(t, false)
	w := f.world()
	owner := actorOf(w.shopAdmin)
	price := 1500.0

	menu, err := f.svc.Catalog.CreateMenu(f.ctx, owner, MenuInput{
		Name:   "Mohinga",
		Price:  &price,
		AddOns: []models.AddOn{{Name: " Egg ", Price: 200}},
	})
	require.NoError(t, err)
	assert.Equal(t, w.shop.ID, menu.ShopID)
	assert.Equal(t, w.shopAdmin.ID, menu.CreatedBy)
	assert.True(t, menu.IsAvailable)
	assert.Equal(t, []models.AddOn{{Name: "Egg", Price: 200}}, menu.AddOns)

	otherAdmin := actorOf(f.user(models.RoleShopAdmin, f.shop().ID, "", 0))
	_, err = f.svc.Catalog.UpdateMenu(f.ctx, otherAdmin, menu.ID, MenuInput{Name: "Stolen"})
	assert.True(t, errs.Is(err, errs.KindForbidden))
	err = f.svc.Catalog.DeleteMenu(f.ctx, otherAdmin, menu.ID)
	assert.True(t, errs.Is(err, errs.KindForbidden))

	unavailable := false
	zero := 0.0
	menu, err = f.svc.Catalog.UpdateMenu(f.ctx, owner, menu.ID, MenuInput{IsAvailable: &unavailable, Price: &zero})
	require.NoError(t, err)
	assert.False(t, menu.IsAvailable)
	assert.Equal(t, 0.0, menu.Price)
	assert.Equal(t, "Mohinga", menu.Name)

	_, err = f.svc.Catalog.UpdateMenu(f.ctx, owner, menu.ID, MenuInput{AddOns: []models.AddOn{{Name: "Egg"}, {Name: "Egg"}}})
	assert.ErrorContains(t, err, "Duplicate add-on: Egg")

	available, err := f.svc.Catalog.ListMenus(f.ctx, w.shop.ID, store.MenuFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Len(t, available, 1, "only the seeded burger is available")
}
