package sqlstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Name: "Aye", Email: "aye@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	require.NoError(t, s.Users.Create(ctx, u))
	require.True(t, models.ValidID(u.ID))

	got, err := s.Users.GetByEmail(ctx, "aye@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got.WalletBalance = 5000
	require.NoError(t, s.Users.Update(ctx, got))
	again, err := s.Users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, again.WalletBalance)

	dup := &models.User{Name: "Other", Email: "aye@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	err = s.Users.Create(ctx, dup)
	assert.True(t, errors.Is(err, store.ErrDuplicate), "got %v", err)

	require.NoError(t, s.Users.Delete(ctx, u.ID))
	_, err = s.Users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Users.Delete(ctx, u.ID), store.ErrNotFound)
}

func TestUserCountAndResetSweep(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	companyID := models.NewID()
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	for i, expiry := range []*time.Time{&past, &future} {
		u := &models.User{
			Name: "Staff", Email: []string{"a@x.io", "b@x.io"}[i], PasswordHash: "x",
			Role: models.RoleCompanyStaff, CompanyID: companyID,
			ResetToken: models.NewID(), ResetTokenExpiry: expiry,
		}
		require.NoError(t, s.Users.Create(ctx, u))
	}

	n, err := s.Users.Count(ctx, store.UserFilter{Role: models.RoleCompanyStaff, CompanyID: companyID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	cleared, err := s.Users.ClearExpiredResetTokens(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, cleared)
}

func TestOrderRoundTripKeepsLineItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	shopID, companyID := models.NewID(), models.NewID()

	o := &models.Order{
		CustomerID: models.NewID(),
		ShopID:     shopID,
		Status:     models.StatusPending,
		Items: []models.LineItem{{
			MenuID: models.NewID(), Name: "Burger", Price: 1000, Quantity: 2,
			AddOns: []models.LineAddOn{{Name: "Cheese", Price: 300}}, AddOnsTotal: 300, LineTotal: 2600,
		}},
		TotalAmount:   2600,
		PaymentMethod: models.PaymentCash,
	}
	require.NoError(t, s.Orders.Create(ctx, o))

	got, err := s.Orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Cheese", got.Items[0].AddOns[0].Name)

	got.DeliveryCompanyID = companyID
	got.Status = models.StatusReady
	require.NoError(t, s.Orders.Update(ctx, got))

	list, err := s.Orders.List(ctx, store.OrderFilter{CompanyID: companyID})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = s.Orders.List(ctx, store.OrderFilter{ShopID: shopID, Status: models.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, list)

	missing := &models.Order{ID: models.NewID(), ShopID: shopID, CustomerID: models.NewID(), Status: models.StatusPending}
	assert.ErrorIs(t, s.Orders.Update(ctx, missing), store.ErrNotFound)
}

func TestShopFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	catID := models.NewID()

	require.NoError(t, s.Shops.Create(ctx, &models.Shop{Name: "Noodle House", Categories: []string{catID}, IsActive: true}))
	require.NoError(t, s.Shops.Create(ctx, &models.Shop{Name: "Closed Cafe", IsActive: false}))

	all, err := s.Shops.List(ctx, store.ShopFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := s.Shops.List(ctx, store.ShopFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	byCat, err := s.Shops.List(ctx, store.ShopFilter{CategoryID: catID})
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, "Noodle House", byCat[0].Name)

	found, err := s.Shops.List(ctx, store.ShopFilter{Search: "noodle"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestHistoryOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	orderID := models.NewID()

	for _, to := range []models.OrderStatus{models.StatusPending, models.StatusAccepted} {
		require.NoError(t, s.History.Create(ctx, &models.OrderStatusHistory{OrderID: orderID, OrderType: models.OrderTypeApp, ToStatus: to}))
		time.Sleep(2 * time.Millisecond)
	}
	hist, err := s.History.ListByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, models.StatusPending, hist[0].ToStatus)
	assert.Equal(t, models.StatusAccepted, hist[1].ToStatus)
}
