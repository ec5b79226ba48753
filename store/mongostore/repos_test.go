package mongostore

import (
	"testing"

	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestOrderFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, orderFilter(store.OrderFilter{}))

	got := orderFilter(store.OrderFilter{ShopID: "s", CompanyID: "c", StaffID: "d", Status: models.StatusAssigned})
	assert.Equal(t, bson.M{
		"shop":            "s",
		"deliveryCompany": "c",
		"deliveryStaff":   "d",
		"status":          models.StatusAssigned,
	}, got)
}

func TestUserFilter(t *testing.T) {
	got := userFilter(store.UserFilter{Role: models.RoleCompanyStaff, CompanyID: "c"})
	assert.Equal(t, bson.M{"role": models.RoleCompanyStaff, "companyId": "c"}, got)
}
