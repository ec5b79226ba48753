package routes

import (
	"food-ordering-api/handlers"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the engine with the shared middleware and every route registered.
func NewRouter(h *handlers.Handler, auth *middleware.Auth, logger *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.RequestLogger(logger), middleware.CORS())
	SetupRoutes(r, h, auth)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, auth *middleware.Auth) {
	r.GET("/health", handlers.Health)
	r.GET("/", handlers.Welcome)

	api := r.Group("/api")
	api.GET("/state-machine", handlers.GetStateMachineInfo)

	authed := auth.AuthRequired()
	admin := middleware.RoleRequired(models.RoleAdmin)
	customer := middleware.RoleRequired(models.RoleCustomer)
	shopStaff := middleware.RoleRequired(models.RoleAdmin, models.RoleShopAdmin)
	dispatch := middleware.RoleRequired(models.RoleAdmin, models.RoleCompanyAdmin)

	// ── Users ──────────────────────────────────────────────────────
	users := api.Group("/user")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/forgot-password", h.ForgotPassword)
		users.POST("/reset-password", h.ResetPassword)

		users.GET("/me", authed, h.GetProfile)
		users.GET("/wallet", authed, customer, h.GetWallet)
		users.POST("/wallet/topup", authed, customer, h.TopUpWallet)

		users.POST("", authed, admin, h.AdminCreateUser)
		users.GET("", authed, admin, h.AdminGetAllUsers)
		users.GET("/:id", authed, h.GetUser)
		users.PUT("/:id", authed, h.UpdateUser)
		users.DELETE("/:id", authed, admin, h.AdminDeleteUser)
	}

	// ── Catalog ────────────────────────────────────────────────────
	categories := api.Group("/category")
	{
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategory)
		categories.POST("", authed, admin, h.CreateCategory)
		categories.PUT("/:id", authed, admin, h.UpdateCategory)
		categories.DELETE("/:id", authed, admin, h.DeleteCategory)
	}

	shops := api.Group("/shop")
	{
		shops.GET("", h.ListShops)
		shops.GET("/:id", h.GetShop)
		shops.POST("", authed, admin, h.CreateShop)
		shops.PUT("/:id", authed, shopStaff, h.UpdateShop)
		shops.DELETE("/:id", authed, admin, h.DeleteShop)
	}

	menus := api.Group("/menu")
	{
		menus.GET("/shop/:shopId", h.GetShopMenu)
		menus.GET("/:id", h.GetMenu)
		menus.POST("", authed, shopStaff, h.CreateMenu)
		menus.PUT("/:id", authed, shopStaff, h.UpdateMenu)
		menus.DELETE("/:id", authed, shopStaff, h.DeleteMenu)
	}

	// ── Delivery companies ─────────────────────────────────────────
	companies := api.Group("/company", authed)
	{
		companies.POST("/create", admin, h.CreateCompany)
		companies.GET("", h.ListCompanies)
		companies.GET("/:companyId", h.GetCompany)
		companies.PUT("/:companyId", h.UpdateCompany)
		companies.DELETE("/:companyId", admin, h.DeleteCompany)
		companies.GET("/:companyId/staffs", h.GetCompanyStaffs)
		companies.POST("/:companyId/staffs", h.AddCompanyStaff)
	}

	// ── App orders ─────────────────────────────────────────────────
	orders := api.Group("/order", authed)
	{
		orders.POST("/create", customer, h.PlaceOrder)
		orders.GET("", admin, h.AdminGetAllOrders)
		orders.GET("/mine", customer, h.GetMyOrders)
		orders.GET("/shop/:shopId", h.GetShopOrders)
		orders.GET("/company/orders", h.GetCompanyOrders)
		orders.GET("/staff/orders", h.GetMyDeliveries)

		orders.GET("/:id", h.GetOrderDetail)
		orders.GET("/:id/history", h.GetOrderHistory)
		orders.PUT("/:id/status", h.UpdateOrderStatus)
		orders.PUT("/:id/assign-company", h.AssignCompany)
		orders.PUT("/:id/assign-staff", dispatch, h.AssignStaff)
		orders.POST("/:id/pay", h.PayOrder)
		orders.DELETE("/:id", admin, h.AdminDeleteOrder)
		orders.GET("/:id/location", h.GetOrderLocation)
		orders.GET("/:id/location/stream", h.StreamOrderLocation)
	}

	// ── Phone orders ───────────────────────────────────────────────
	phone := api.Group("/phoneCalledOrder", authed)
	{
		phone.POST("", shopStaff, h.CreatePhoneOrder)
		phone.GET("/shop/:shopId", h.GetShopPhoneOrders)
		phone.GET("/company/orders", h.GetCompanyPhoneOrders)
		phone.GET("/staff/orders", h.GetStaffPhoneOrders)
		phone.GET("/:id", h.GetPhoneOrder)
		phone.PUT("/:id/assign-staff", dispatch, h.AssignPhoneOrderStaff)
		phone.PUT("/:id/status", h.UpdatePhoneOrderStatus)
	}

	// ── Staff positions ────────────────────────────────────────────
	loc := api.Group("/location", authed)
	{
		loc.PUT("", middleware.RoleRequired(models.RoleCompanyStaff), h.PublishLocation)
		loc.GET("/staff/:staffId", h.GetStaffLocation)
	}
}
