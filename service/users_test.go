package service

import (
	"strings"
	"testing"
	"time"

	"food-ordering-api/errs"
	"food-ordering-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	f := newFixture(t, false)

	user, err := f.svc.Users.Register(f.ctx, RegisterInput{Name: "Mya", Email: " Mya@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Equal(t, "mya@example.com", user.Email)
	assert.True(t, user.IsActive)

	_, err = f.svc.Users.Register(f.ctx, RegisterInput{Name: "Mya", Email: "mya@example.com", Password: "secret1"})
	assert.True(t, errs.Is(err, errs.KindConflict))

	_, err = f.svc.Users.Register(f.ctx, RegisterInput{Name: "X", Email: "x@example.com", Password: "secret1", Role: models.RoleAdmin})
	assert.True(t, errs.Is(err, errs.KindForbidden))

	got, err := f.svc.Users.Authenticate(f.ctx, "MYA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = f.svc.Users.Authenticate(f.ctx, "mya@example.com", "wrong")
	assert.EqualError(t, err, "Invalid email or password")
	_, err = f.svc.Users.Authenticate(f.ctx, "nobody@example.com", "secret1")
	assert.EqualError(t, err, "Invalid email or password")
}

func TestUpdateUserScopes(t *testing.T) {
	f := newFixture(t, false)
	customer := f.user(models.RoleCustomer, "", "", 0)
	self := actorOf(customer)

	updated, err := f.svc.Users.Update(f.ctx, self, customer.ID, UpdateUserInput{Phone: "09 777", Address: "Hlaing"})
	require.NoError(t, err)
	assert.Equal(t, "09 777", updated.Phone)
	assert.Equal(t, "customer", updated.Name, "empty fields are left alone")

	_, err = f.svc.Users.Update(f.ctx, self, customer.ID, UpdateUserInput{Role: models.RoleAdmin})
	assert.True(t, errs.Is(err, errs.KindForbidden))

	other := f.user(models.RoleCustomer, "", "", 0)
	_, err = f.svc.Users.Update(f.ctx, self, other.ID, UpdateUserInput{Name: "hijack"})
	assert.True(t, errs.Is(err, errs.KindForbidden))

	shopID := models.NewID()
	inactive := false
	updated, err = f.svc.Users.Update(f.ctx, adminActor, customer.ID, UpdateUserInput{
		Role:     models.RoleShopAdmin,
		ShopID:   &shopID,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleShopAdmin, updated.Role)
	assert.Equal(t, shopID, updated.ShopID)
	assert.False(t, updated.IsActive)
}

func TestTopUp(t *testing.T) {
	f := newFixture(t, false)
	customer := actorOf(f.user(models.RoleCustomer, "", "", 100))

	balance, err := f.svc.Users.TopUp(f.ctx, customer, 250)
	require.NoError(t, err)
	assert.Equal(t, 350.0, balance)

	for _, amount := range []float64{0, -5, MaxTopUp + 1} {
		_, err := f.svc.Users.TopUp(f.ctx, customer, amount)
		assert.True(t, errs.Is(err, errs.KindInvalidInput), amount)
	}
}

func TestPasswordReset(t *testing.T) {
	f := newFixture(t, false)
	user, err := f.svc.Users.Register(f.ctx, RegisterInput{Name: "Hla", Email: "hla@example.com", Password: "old-pass"})
	require.NoError(t, err)

	err = f.svc.Users.ForgotPassword(f.ctx, "missing@example.com")
	assert.True(t, errs.Is(err, errs.KindNotFound))

	require.NoError(t, f.svc.Users.ForgotPassword(f.ctx, "hla@example.com"))
	msg := f.mailer.last()
	assert.Equal(t, "hla@example.com", msg.To)

	stored, err := f.st.Users.GetByID(f.ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.ResetToken)
	assert.True(t, strings.Contains(msg.HTML, "http://localhost:3000/reset-password/"+stored.ResetToken))

	err = f.svc.Users.ResetPassword(f.ctx, "bogus", "new-pass")
	assert.True(t, errs.Is(err, errs.KindInvalidInput))

	require.NoError(t, f.svc.Users.ResetPassword(f.ctx, stored.ResetToken, "new-pass"))
	_, err = f.svc.Users.Authenticate(f.ctx, "hla@example.com", "new-pass")
	assert.NoError(t, err)

	err = f.svc.Users.ResetPassword(f.ctx, stored.ResetToken, "again")
	assert.True(t, errs.Is(err, errs.KindInvalidInput), "tokens are single use")
}

func TestPasswordResetExpired(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.Users.Register(f.ctx, RegisterInput{Name: "Zaw", Email: "zaw@example.com", Password: "old-pass"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Users.ForgotPassword(f.ctx, "zaw@example.com"))

	user, err := f.st.Users.GetByEmail(f.ctx, "zaw@example.com")
	require.NoError(t, err)

	f.svc.Users.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	err = f.svc.Users.ResetPassword(f.ctx, user.ResetToken, "new-pass")
	assert.ErrorContains(t, err, "expired")
}
