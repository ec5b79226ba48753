package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food-ordering-api/handlers"
	"food-ordering-api/location"
	"food-ordering-api/logger"
	"food-ordering-api/mail"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/service"
	"food-ordering-api/store"
	"food-ordering-api/store/sqlstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type nopMailer struct{}

func (nopMailer) Send(context.Context, mail.Message) error { return nil }

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	st     *store.Store
	auth   *middleware.Auth
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	st, err := sqlstore.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	log := logger.Nop()
	svc := service.New(st, location.NewMemoryTracker(time.Minute), nopMailer{}, service.Options{
		BcryptCost: bcrypt.MinCost,
	}, log)
	auth := middleware.NewAuth("test-secret", time.Hour).WithUsers(st.Users)
	return &testAPI{
		t:      t,
		router: NewRouter(handlers.New(svc, auth, log), auth, log),
		st:     st,
		auth:   auth,
	}
}

// do sends body as JSON and decodes the JSON response into a map.
func (a *testAPI) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

type account struct {
	user  *models.User
	token string
}

func (a *testAPI) account(role models.UserRole, shopID, companyID string) account {
	a.t.Helper()
	u := &models.User{
		Name:         string(role),
		Email:        models.NewID() + "@example.com",
		PasswordHash: "x",
		Role:         role,
		ShopID:       shopID,
		CompanyID:    companyID,
		IsActive:     true,
	}
	require.NoError(a.t, a.st.Users.Create(context.Background(), u))
	token, err := a.auth.GenerateToken(u)
	require.NoError(a.t, err)
	return account{user: u, token: token}
}

func (a *testAPI) shop() *models.Shop {
	a.t.Helper()
	s := &models.Shop{Name: "Shop", IsActive: true, Categories: []string{}}
	require.NoError(a.t, a.st.Shops.Create(context.Background(), s))
	return s
}

func (a *testAPI) menu(shopID string) *models.Menu {
	a.t.Helper()
	m := &models.Menu{
		Name:        "Burger",
		Price:       1000,
		ShopID:      shopID,
		IsAvailable: true,
		AddOns:      []models.AddOn{{Name: "Cheese", Price: 300}},
	}
	require.NoError(a.t, a.st.Menus.Create(context.Background(), m))
	return m
}

func (a *testAPI) company(name string) *models.DeliveryCompany {
	a.t.Helper()
	c := &models.DeliveryCompany{Name: name, Email: models.NewID() + "@delivery.example", IsActive: true}
	require.NoError(a.t, a.st.Companies.Create(context.Background(), c))
	return c
}

func (a *testAPI) placeOrder(customer account, shopID, menuID string) map[string]any {
	a.t.Helper()
	code, body := a.do(http.MethodPost, "/api/order/create", customer.token, gin.H{
		"shopId":          shopID,
		"deliveryAddress": "No. 1, Main Road",
		"items": []gin.H{{
			"menuId":   menuID,
			"quantity": 2,
			"addOns":   []gin.H{{"name": "Cheese"}},
		}},
	})
	require.Equal(a.t, http.StatusCreated, code, body)
	return body["order"].(map[string]any)
}

func TestPublicEndpoints(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])

	code, body = api.do(http.MethodGet, "/api/state-machine", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "state_machine")
}

func TestRegisterLoginAndProfile(t *testing.T) {
	api := newTestAPI(t)

	code, body := api.do(http.MethodPost, "/api/user/register", "", gin.H{
		"name":     "Aung",
		"email":    "Aung@Example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, code, body)
	assert.NotEmpty(t, body["token"])

	code, body = api.do(http.MethodPost, "/api/user/login", "", gin.H{"email": "aung@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid email or password", body["message"])

	code, body = api.do(http.MethodPost, "/api/user/login", "", gin.H{"email": "aung@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, code, body)
	token := body["token"].(string)

	code, body = api.do(http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, code, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "customer", user["role"])
	assert.NotContains(t, user, "password")
}

func TestErrorsUseMessageBody(t *testing.T) {
	api := newTestAPI(t)
	customer := api.account(models.RoleCustomer, "", "")

	code, body := api.do(http.MethodGet, "/api/order/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NotEmpty(t, body["message"])

	code, body = api.do(http.MethodGet, "/api/order", customer.token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Access denied. Required role(s): admin", body["message"])

	code, body = api.do(http.MethodGet, "/api/order/not-an-id", customer.token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["message"])

	code, body = api.do(http.MethodGet, "/api/order/"+models.NewID(), customer.token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Order not found", body["message"])
}

func TestPlaceOrderPricesCart(t *testing.T) {
	api := newTestAPI(t)
	shop := api.shop()
	menu := api.menu(shop.ID)
	customer := api.account(models.RoleCustomer, "", "")

	order := api.placeOrder(customer, shop.ID, menu.ID)
	assert.Equal(t, 2600.0, order["totalAmount"])
	assert.Equal(t, "pending", order["status"])

	code, body := api.do(http.MethodPost, "/api/order/create", customer.token, gin.H{
		"shopId":          shop.ID,
		"deliveryAddress": "No. 1, Main Road",
		"items":           []gin.H{{"menuId": menu.ID, "quantity": 1, "addOns": []string{"Extra Spice"}}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid add-on: Extra Spice", body["message"])
}

func TestShopAdminCannotEditAnotherShopsMenu(t *testing.T) {
	api := newTestAPI(t)
	own := api.shop()
	other := api.shop()
	menu := api.menu(other.ID)
	shopAdmin := api.account(models.RoleShopAdmin, own.ID, "")

	code, body := api.do(http.MethodPut, "/api/menu/"+menu.ID, shopAdmin.token, gin.H{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.NotEmpty(t, body["message"])
}

func TestAssignStaffRequiresOwningCompany(t *testing.T) {
	api := newTestAPI(t)
	shop := api.shop()
	menu := api.menu(shop.ID)
	fast := api.company("Fast")
	slow := api.company("Slow")
	customer := api.account(models.RoleCustomer, "", "")
	shopAdmin := api.account(models.RoleShopAdmin, shop.ID, "")
	fastAdmin := api.account(models.RoleCompanyAdmin, "", fast.ID)
	slowAdmin := api.account(models.RoleCompanyAdmin, "", slow.ID)
	fastStaff := api.account(models.RoleCompanyStaff, "", fast.ID)

	order := api.placeOrder(customer, shop.ID, menu.ID)
	id := order["_id"].(string)

	code, body := api.do(http.MethodPut, "/api/order/"+id+"/assign-company", shopAdmin.token, gin.H{"companyId": fast.ID})
	require.Equal(t, http.StatusOK, code, body)

	code, body = api.do(http.MethodPut, "/api/order/"+id+"/assign-staff", slowAdmin.token, gin.H{"staffId": fastStaff.user.ID})
	assert.Equal(t, http.StatusForbidden, code)
	assert.NotEmpty(t, body["message"])

	code, body = api.do(http.MethodPut, "/api/order/"+id+"/assign-staff", fastAdmin.token, gin.H{"staffId": fastStaff.user.ID})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, fastStaff.user.ID, body["order"].(map[string]any)["deliveryStaff"])
}

func TestPhoneOrderAssignStaffMovesToAssigned(t *testing.T) {
	api := newTestAPI(t)
	shop := api.shop()
	menu := api.menu(shop.ID)
	fast := api.company("Fast")
	shopAdmin := api.account(models.RoleShopAdmin, shop.ID, "")
	fastAdmin := api.account(models.RoleCompanyAdmin, "", fast.ID)
	fastStaff := api.account(models.RoleCompanyStaff, "", fast.ID)

	code, body := api.do(http.MethodPost, "/api/phoneCalledOrder", shopAdmin.token, gin.H{
		"customerName":    "Ko Ko",
		"customerPhone":   "09 123 456",
		"customerAddress": "No. 2, Side Street",
		"deliveryCompany": fast.ID,
		"items":           []gin.H{{"menuId": menu.ID, "quantity": "3"}},
	})
	require.Equal(t, http.StatusCreated, code, body)
	order := body["order"].(map[string]any)
	assert.Equal(t, "confirmed", order["status"])
	assert.Equal(t, 3.0, order["totalItems"])
	id := order["_id"].(string)

	code, body = api.do(http.MethodPut, "/api/phoneCalledOrder/"+id+"/assign-staff", fastAdmin.token, gin.H{"staffId": fastStaff.user.ID})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "assigned", body["order"].(map[string]any)["status"])

	code, body = api.do(http.MethodPut, "/api/phoneCalledOrder/"+id+"/status", fastStaff.token, gin.H{"status": "picked-up"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "picked-up", body["order"].(map[string]any)["status"])

	code, body = api.do(http.MethodPut, "/api/phoneCalledOrder/"+id+"/status", fastStaff.token, gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["message"], "Invalid status: teleported")
}

func TestStaffPublishesLocation(t *testing.T) {
	api := newTestAPI(t)
	fast := api.company("Fast")
	fastAdmin := api.account(models.RoleCompanyAdmin, "", fast.ID)
	staff := api.account(models.RoleCompanyStaff, "", fast.ID)

	code, body := api.do(http.MethodPut, "/api/location", staff.token, gin.H{"lat": 16.8, "lng": 96.15})
	require.Equal(t, http.StatusOK, code, body)

	code, body = api.do(http.MethodGet, "/api/location/staff/"+staff.user.ID, fastAdmin.token, nil)
	require.Equal(t, http.StatusOK, code, body)

	code, _ = api.do(http.MethodPut, "/api/location", fastAdmin.token, gin.H{"lat": 16.8, "lng": 96.15})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAssignStaffRouteNeedsDispatcherRole(t *testing.T) {
	api := newTestAPI(t)
	shop := api.shop()
	menu := api.menu(shop.ID)
	customer := api.account(models.RoleCustomer, "", "")
	shopAdmin := api.account(models.RoleShopAdmin, shop.ID, "")

	id := api.placeOrder(customer, shop.ID, menu.ID)["_id"].(string)
	for _, acc := range []account{customer, shopAdmin} {
		code, body := api.do(http.MethodPut, "/api/order/"+id+"/assign-staff", acc.token, gin.H{"staffId": models.NewID()})
		assert.Equal(t, http.StatusForbidden, code)
		assert.Equal(t, "Access denied. Required role(s): admin, company-admin", body["message"])
	}
}

func TestDeactivatedUserTokenRejected(t *testing.T) {
	api := newTestAPI(t)
	customer := api.account(models.RoleCustomer, "", "")

	code, _ := api.do(http.MethodGet, "/api/user/me", customer.token, nil)
	require.Equal(t, http.StatusOK, code)

	customer.user.IsActive = false
	require.NoError(t, api.st.Users.Update(context.Background(), customer.user))

	code, body := api.do(http.MethodGet, "/api/user/me", customer.token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Account is deactivated", body["message"])
}
