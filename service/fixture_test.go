package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"food-ordering-api/location"
	"food-ordering-api/logger"
	"food-ordering-api/mail"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/store"
	"food-ordering-api/store/sqlstore"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *captureMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	st      *store.Store
	svc     *Services
	tracker *location.MemoryTracker
	mailer  *captureMailer
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	st, err := sqlstore.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	f := &fixture{
		t:       t,
		ctx:     context.Background(),
		st:      st,
		tracker: location.NewMemoryTracker(time.Minute),
		mailer:  &captureMailer{},
	}
	f.svc = New(st, f.tracker, f.mailer, Options{
		StrictTransitions: strict,
		FrontendURL:       "http://localhost:3000",
		BcryptCost:        bcrypt.MinCost,
	}, logger.Nop())
	return f
}

func actorOf(u *models.User) policy.Actor {
	return policy.Actor{ID: u.ID, Role: u.Role, ShopID: u.ShopID, CompanyID: u.CompanyID}
}

var adminActor = policy.Actor{ID: models.NewID(), Role: models.RoleAdmin}

func (f *fixture) user(role models.UserRole, shopID, companyID string, wallet float64) *models.User {
	f.t.Helper()
	u := &models.User{
		Name:          string(role),
		Email:         models.NewID() + "@example.com",
		PasswordHash:  "x",
		Role:          role,
		ShopID:        shopID,
		CompanyID:     companyID,
		WalletBalance: wallet,
		IsActive:      true,
	}
	require.NoError(f.t, f.st.Users.Create(f.ctx, u))
	return u
}

func (f *fixture) shop() *models.Shop {
	f.t.Helper()
	s := &models.Shop{Name: "Shop", IsActive: true, Categories: []string{}}
	require.NoError(f.t, f.st.Shops.Create(f.ctx, s))
	return s
}

func (f *fixture) menu(shopID string, price float64, addOns ...models.AddOn) *models.Menu {
	f.t.Helper()
	m := &models.Menu{Name: "Burger", Price: price, ShopID: shopID, IsAvailable: true, AddOns: addOns}
	require.NoError(f.t, f.st.Menus.Create(f.ctx, m))
	return m
}

func (f *fixture) company() *models.DeliveryCompany {
	f.t.Helper()
	c := &models.DeliveryCompany{Name: "Fast", Email: models.NewID() + "@fast.example", IsActive: true}
	require.NoError(f.t, f.st.Companies.Create(f.ctx, c))
	return c
}

// world is one shop, one company and one user of every role.
type world struct {
	shop         *models.Shop
	menu         *models.Menu
	company      *models.DeliveryCompany
	customer     *models.User
	shopAdmin    *models.User
	companyAdmin *models.User
	staff        *models.User
}

func (f *fixture) world() world {
	f.t.Helper()
	shop := f.shop()
	company := f.company()
	return world{
		shop:         shop,
		menu:         f.menu(shop.ID, 1000, models.AddOn{Name: "Cheese", Price: 300}),
		company:      company,
		customer:     f.user(models.RoleCustomer, "", "", 0),
		shopAdmin:    f.user(models.RoleShopAdmin, shop.ID, "", 0),
		companyAdmin: f.user(models.RoleCompanyAdmin, "", company.ID, 0),
		staff:        f.user(models.RoleCompanyStaff, "", company.ID, 0),
	}
}
