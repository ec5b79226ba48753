package service

import (
	"context"
	"strings"

	"food-ordering-api/errs"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/pricing"
	"food-ordering-api/statemachine"
	"food-ordering-api/store"

	"go.uber.org/zap"
)

// PhoneOrderService handles orders taken over the phone by shop staff.
type PhoneOrderService struct {
	orders    store.PhoneOrderRepository
	shops     store.ShopRepository
	menus     store.MenuRepository
	companies store.CompanyRepository
	users     store.UserRepository
	history   *history
	seq       sequencer
	logger    *zap.SugaredLogger
}

func NewPhoneOrderService(st *store.Store, hist *history, seq sequencer, logger *zap.SugaredLogger) *PhoneOrderService {
	return &PhoneOrderService{
		orders:    st.PhoneOrders,
		shops:     st.Shops,
		menus:     st.Menus,
		companies: st.Companies,
		users:     st.Users,
		history:   hist,
		seq:       seq,
		logger:    logger,
	}
}

type PhoneItemInput struct {
	MenuID   string
	Quantity any
}

type PhoneOrderInput struct {
	ShopID            string
	CustomerName      string
	CustomerPhone     string
	CustomerAddress   string
	DeliveryCompanyID string
	Items             []PhoneItemInput
}

func (s *PhoneOrderService) Create(ctx context.Context, actor policy.Actor, in PhoneOrderInput) (*models.PhoneCalledOrder, error) {
	if in.ShopID == "" && actor.Role == models.RoleShopAdmin {
		in.ShopID = actor.ShopID
	}
	shop, err := fetch(ctx, s.shops.GetByID, in.ShopID, "Shop")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.CreatePhoneOrder, policy.Resource{ShopID: shop.ID}); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.CustomerName)
	phone := strings.TrimSpace(in.CustomerPhone)
	address := strings.TrimSpace(in.CustomerAddress)
	if name == "" || phone == "" || address == "" {
		return nil, errs.Invalid("customerName, customerPhone and customerAddress are required")
	}
	if in.DeliveryCompanyID == "" {
		return nil, errs.Invalid("deliveryCompany required")
	}
	company, err := fetch(ctx, s.companies.GetByID, in.DeliveryCompanyID, "Delivery company")
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, errs.Invalid("items required")
	}

	items := make([]models.PhoneLineItem, 0, len(in.Items))
	var totalItems int
	var total float64
	for _, it := range in.Items {
		menu, err := pricing.LookupMenu(ctx, s.menus, shop.ID, it.MenuID)
		if err != nil {
			return nil, err
		}
		qty, err := pricing.ParseQuantity(it.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, models.PhoneLineItem{
			MenuID:   menu.ID,
			Name:     menu.Name,
			Quantity: qty,
			Price:    menu.Price,
		})
		totalItems += qty
		total += menu.Price * float64(qty)
	}

	order := &models.PhoneCalledOrder{
		CustomerName:      name,
		CustomerPhone:     phone,
		CustomerAddress:   address,
		DeliveryCompanyID: company.ID,
		Items:             items,
		TotalItems:        totalItems,
		TotalAmount:       total,
		ShopID:            shop.ID,
		CreatedBy:         actor.ID,
		OrderType:         models.OrderTypePhone,
		Status:            statemachine.InitialStatus(models.OrderTypePhone),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errs.Internal(err)
	}
	s.history.record(ctx, order.ID, models.OrderTypePhone, "", order.Status, actor.ID, "Phone order taken")
	s.logger.Infow("phone order created", "order_id", order.ID, "shop_id", shop.ID, "company_id", company.ID, "total", total)
	return order, nil
}

func (s *PhoneOrderService) Get(ctx context.Context, actor policy.Actor, id string) (*models.PhoneCalledOrder, error) {
	order, err := fetch(ctx, s.orders.GetByID, id, "Phone order")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ViewOrder, policy.PhoneOrderResource(order)); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *PhoneOrderService) list(ctx context.Context, f store.OrderFilter) ([]models.PhoneCalledOrder, error) {
	if f.Status != "" && !statemachine.Valid(models.OrderTypePhone, f.Status) {
		return nil, errs.Invalid("Invalid status: %s", f.Status)
	}
	list, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return list, nil
}

func (s *PhoneOrderService) ByShop(ctx context.Context, actor policy.Actor, shopID string, status models.OrderStatus) ([]models.PhoneCalledOrder, error) {
	if !models.ValidID(shopID) {
		return nil, errs.Invalid("Invalid shop id: %q", shopID)
	}
	if err := policy.Authorize(actor, policy.ViewShopOrders, policy.Resource{ShopID: shopID}); err != nil {
		return nil, err
	}
	return s.list(ctx, store.OrderFilter{ShopID: shopID, Status: status})
}

func (s *PhoneOrderService) ByCompany(ctx context.Context, actor policy.Actor, status models.OrderStatus) ([]models.PhoneCalledOrder, error) {
	if err := policy.Authorize(actor, policy.ViewCompanyOrders, policy.Resource{CompanyID: actor.CompanyID}); err != nil {
		return nil, err
	}
	return s.list(ctx, store.OrderFilter{CompanyID: actor.CompanyID, Status: status})
}

func (s *PhoneOrderService) ByStaff(ctx context.Context, actor policy.Actor, status models.OrderStatus) ([]models.PhoneCalledOrder, error) {
	return s.list(ctx, store.OrderFilter{StaffID: actor.ID, Status: status})
}

// AssignStaff sets the delivery staff. A confirmed order moves to assigned in the same write.
func (s *PhoneOrderService) AssignStaff(ctx context.Context, actor policy.Actor, id, staffID string) (*models.PhoneCalledOrder, error) {
	order, err := fetch(ctx, s.orders.GetByID, id, "Phone order")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.AssignStaff, policy.PhoneOrderResource(order)); err != nil {
		return nil, err
	}
	staff, err := companyStaff(ctx, s.users, staffID, order.DeliveryCompanyID)
	if err != nil {
		return nil, err
	}
	outcome, err := statemachine.Fire(statemachine.EventAssignStaff, models.OrderTypePhone, order.Status)
	if err != nil {
		return nil, errs.Internal(err)
	}

	from := order.Status
	if outcome.SetStaff {
		order.DeliveryStaffID = staff.ID
	}
	if outcome.NewStatus != "" {
		order.Status = outcome.NewStatus
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, saveErr(err, "")
	}
	if order.Status != from {
		s.history.record(ctx, order.ID, models.OrderTypePhone, from, order.Status, actor.ID, "Delivery staff assigned")
	}
	s.logger.Infow("phone order staff assigned", "order_id", order.ID, "staff_id", staff.ID, "status", order.Status)
	return order, nil
}

func (s *PhoneOrderService) UpdateStatus(ctx context.Context, actor policy.Actor, id string, status models.OrderStatus, note string) (*models.PhoneCalledOrder, error) {
	order, err := fetch(ctx, s.orders.GetByID, id, "Phone order")
	if err != nil {
		return nil, err
	}
	if !statemachine.Valid(models.OrderTypePhone, status) {
		return nil, errs.Invalid("Invalid status: %s. Allowed: %s", status, joinStatuses(statemachine.PhoneStatuses))
	}
	if err := authorizeStatus(actor, models.OrderTypePhone, policy.PhoneOrderResource(order), order.Status, status); err != nil {
		return nil, err
	}
	if err := s.seq.check(models.OrderTypePhone, order.Status, status); err != nil {
		return nil, err
	}

	from := order.Status
	order.Status = status
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, saveErr(err, "")
	}
	s.history.record(ctx, order.ID, models.OrderTypePhone, from, status, actor.ID, pricing.NormalizeNote(note))
	s.logger.Infow("phone order status updated", "order_id", order.ID, "from", from, "to", status, "by", actor.ID)
	return order, nil
}

func joinStatuses(list []models.OrderStatus) string {
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
