package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"food-ordering-api/errs"
	"food-ordering-api/location"
	"food-ordering-api/models"
	"food-ordering-api/policy"
	"food-ordering-api/pricing"
	"food-ordering-api/statemachine"
	"food-ordering-api/store"

	"go.uber.org/zap"
)

type OrderService struct {
	orders    store.OrderRepository
	shops     store.ShopRepository
	menus     store.MenuRepository
	companies store.CompanyRepository
	users     store.UserRepository
	tracker   location.Tracker
	history   *history
	seq       sequencer
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewOrderService(st *store.Store, tracker location.Tracker, hist *history, seq sequencer, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{
		orders:    st.Orders,
		shops:     st.Shops,
		menus:     st.Menus,
		companies: st.Companies,
		users:     st.Users,
		tracker:   tracker,
		history:   hist,
		seq:       seq,
		logger:    logger,
		now:       time.Now,
	}
}

type CreateOrderInput struct {
	ShopID           string
	Items            []pricing.CartLine
	DeliveryAddress  string
	PaymentMethod    string
	PaymentReference string
}

// Create prices the cart and places the order. Wallet orders are paid on the spot.
func (s *OrderService) Create(ctx context.Context, actor policy.Actor, in CreateOrderInput) (*models.Order, error) {
	shop, err := fetch(ctx, s.shops.GetByID, in.ShopID, "Shop")
	if err != nil {
		return nil, err
	}
	if !shop.IsActive {
		return nil, errs.Invalid("Shop is not accepting orders")
	}
	address := strings.TrimSpace(in.DeliveryAddress)
	if address == "" {
		return nil, errs.Invalid("deliveryAddress required")
	}
	method, err := pricing.NormalizePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	items, total, err := pricing.PriceCart(ctx, s.menus, shop.ID, in.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID:       actor.ID,
		ShopID:           shop.ID,
		Items:            items,
		TotalAmount:      total,
		Status:           statemachine.InitialStatus(models.OrderTypeApp),
		DeliveryAddress:  address,
		PaymentMethod:    method,
		PaymentReference: pricing.NormalizePaymentReference(in.PaymentReference),
	}

	var customer *models.User
	if method == models.PaymentWallet {
		if customer, err = s.debitWallet(ctx, actor.ID, order); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if customer != nil {
			s.adjustBalance(ctx, customer, order.TotalAmount)
		}
		return nil, errs.Internal(err)
	}

	s.history.record(ctx, order.ID, models.OrderTypeApp, "", order.Status, actor.ID, "Order placed by customer")
	s.logger.Infow("order placed", "order_id", order.ID, "shop_id", shop.ID, "total", total, "payment_method", method)
	return order, nil
}

func (s *OrderService) debitWallet(ctx context.Context, customerID string, order *models.Order) (*models.User, error) {
	customer, err := fetch(ctx, s.users.GetByID, customerID, "User")
	if err != nil {
		return nil, err
	}
	if customer.WalletBalance < order.TotalAmount {
		return nil, errs.Invalid("Insufficient wallet balance")
	}
	customer.WalletBalance -= order.TotalAmount
	if err := s.users.Update(ctx, customer); err != nil {
		return nil, saveErr(err, "")
	}
	now := s.now()
	order.Paid = true
	order.PaidAt = &now
	order.WalletDebitedAt = &now
	return customer, nil
}

// adjustBalance undoes a wallet change whose order could not be stored.
func (s *OrderService) adjustBalance(ctx context.Context, customer *models.User, delta float64) {
	customer.WalletBalance += delta
	if err := s.users.Update(ctx, customer); err != nil {
		s.logger.Errorw("failed to restore wallet balance", "user_id", customer.ID, "delta", delta, "error", err)
	}
}

func (s *OrderService) Get(ctx context.Context, actor policy.Actor, id string) (*models.Order, error) {
	order, err := fetch(ctx, s.orders.GetByID, id, "Order")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ViewOrder, policy.OrderResource(order)); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) History(ctx context.Context, actor policy.Actor, id string) ([]models.OrderStatusHistory, error) {
	order, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	list, err := s.history.repo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return list, nil
}

func (s *OrderService) List(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	if f.Status != "" && !statemachine.Valid(models.OrderTypeApp, f.Status) {
		return nil, errs.Invalid("Invalid status: %s", f.Status)
	}
	list, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, errs.Internal(err)
	}
	return list, nil
}

func (s *OrderService) Mine(ctx context.Context, actor policy.Actor, status models.OrderStatus) ([]models.Order, error) {
	return s.List(ctx, store.OrderFilter{CustomerID: actor.ID, Status: status})
}

func (s *OrderService) ByShop(ctx context.Context, actor policy.Actor, shopID string, status models.OrderStatus) ([]models.Order, error) {
	if !models.ValidID(shopID) {
		return nil, errs.Invalid("Invalid shop id: %q", shopID)
	}
	if err := policy.Authorize(actor, policy.ViewShopOrders, policy.Resource{ShopID: shopID}); err != nil {
		return nil, err
	}
	return s.List(ctx, store.OrderFilter{ShopID: shopID, Status: status})
}

func (s *OrderService) ByCompany(ctx context.Context, actor policy.Actor, status models.OrderStatus) ([]models.Order, error) {
	if err := policy.Authorize(actor, policy.ViewCompanyOrders, policy.Resource{CompanyID: actor.CompanyID}); err != nil {
		return nil, err
	}
	return s.List(ctx, store.OrderFilter{CompanyID: actor.CompanyID, Status: status})
}

func (s *OrderService) ByStaff(ctx context.Context, actor policy.Actor, status models.OrderStatus) ([]models.Order, error) {
	return s.List(ctx, store.OrderFilter{StaffID: actor.ID, Status: status})
}

// UpdateStatus sets the order status on behalf of actor. A wallet-paid order that gets
// cancelled is refunded once.
func (s *OrderService) UpdateStatus(ctx context.Context, actor policy.Actor, id string, status models.OrderStatus, note string) (*models.Order, error) {
	order, err := fetch(ctx, s.orders.GetByID, id, "Order")
	if err != nil {
		return nil, err
	}
	if !statemachine.Valid(models.OrderTypeApp, status) {
		return nil, errs.Invalid("Invalid status: %s", status)
	}
	if err := authorizeStatus(actor, models.OrderTypeApp, policy.OrderResource(order), order.Status, status); err != nil {
		return nil, err
	}
	if err := s.seq.check(models.OrderTypeApp, order.Status, status); err != nil {
		return nil, err
	}

	from := order.Status
	order.Status = status
	refund := status == models.StatusCancelled && refundable(order, from)
	var refunded *models.User
	if refund {
		if refunded, err = s.refundWallet(ctx, order); err != nil {
			return nil, err
		}
	}
	if err := s.orders.Update(ctx, order); err != nil {
		if refunded != nil {
			s.adjustBalance(ctx, refunded, -order.TotalAmount)
		}
		return nil, saveErr(err, "")
	}

	s.history.record(ctx, order.ID, models.OrderTypeApp, from, status, actor.ID, pricing.NormalizeNote(note))
	s.logger.Infow("order status updated", "order_id", order.ID, "from", from, "to", status, "by", actor.ID, "refunded", refund)
	return order, nil
}

// refundable reports whether cancelling order, coming from status from, returns the wallet
// debit. Delivered food is not refunded.
func refundable(order *models.Order, from models.OrderStatus) bool {
	if order.WalletDebitedAt == nil || order.WalletRefundedAt != nil {
		return false
	}
	return from != models.StatusDelivered && from != models.StatusComplete
}

// refundWallet credits the customer and stamps WalletRefundedAt on order. The caller saves
// order and takes the credit back if that fails.
func (s *OrderService) refundWallet(ctx context.Context, order *models.Order) (*models.User, error) {
	customer, err := s.users.GetByID(ctx, order.CustomerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFound("Customer not found for refund")
		}
		return nil, errs.Internal(err)
	}
	customer.WalletBalance += order.TotalAmount
	if err := s.users.Update(ctx, customer); err != nil {
		return nil, saveErr(err, "")
	}
	now := s.now()
	order.WalletRefundedAt = &now
	return customer, nil
}

// AssignCompany attaches a delivery company. Changing the company drops the assigned staff,
// who belong to the old one.
func (s *OrderService) AssignCompany(ctx context.Context, actor policy.Actor, id, companyID string) (*models.Order, error) {
	order, err := fetch(ctx, s.orders.GetByID, id, "Order")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.AssignCompany, policy.OrderResource(order)); err != nil {
		return nil, err
	}
	company, err := fetch(ctx, s.companies.GetByID, companyID, "Delivery company")
	if err != nil {
		return nil, err
	}
	if !company.IsActive {
		return nil, errs.Invalid("Delivery company is not active")
	}

	if order.DeliveryCompanyID != company.ID {
		order.DeliveryStaffID = ""
	}
	order.DeliveryCompanyID = company.ID
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, saveErr(err, "")
	}
	s.logger.Infow("delivery company assigned", "order_id", order.ID, "company_id", company.ID, "by", actor.ID)
	return order, nil
}

// AssignStaff attaches a delivery staff member of the order's company.
func (s *OrderService) AssignStaff(ctx context.Context, actor policy.Actor, id, staffID string) (*models.Order, error) {
	order, err := fetch(ctx, s.orders.GetByID, id, "Order")
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeRole(actor, policy.AssignStaff); err != nil {
		return nil, err
	}
	if order.DeliveryCompanyID == "" {
		return nil, errs.Invalid("Assign a delivery company before assigning staff")
	}
	if err := policy.Authorize(actor, policy.AssignStaff, policy.OrderResource(order)); err != nil {
		return nil, err
	}
	staff, err := companyStaff(ctx, s.users, staffID, order.DeliveryCompanyID)
	if err != nil {
		return nil, err
	}
	outcome, err := statemachine.Fire(statemachine.EventAssignStaff, models.OrderTypeApp, order.Status)
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
		s.history.record(ctx, order.ID, models.OrderTypeApp, from, order.Status, actor.ID, "Delivery staff assigned")
	}
	s.logger.Infow("delivery staff assigned", "order_id", order.ID, "staff_id", staff.ID, "by", actor.ID)
	return order, nil
}

type PayInput struct {
	PaymentMethod    string
	PaymentReference string
}

// Pay records a mock card or KPay payment for the caller's own order.
func (s *OrderService) Pay(ctx context.Context, actor policy.Actor, id string, in PayInput) (*models.Order, error) {
	order, err := fetch(ctx, s.orders.GetByID, id, "Order")
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.PayOrder, policy.OrderResource(order)); err != nil {
		return nil, err
	}
	if order.Paid {
		return nil, errs.Invalid("Order is already paid")
	}
	if order.Status == models.StatusCancelled {
		return nil, errs.Invalid("Cancelled orders cannot be paid")
	}

	method := order.PaymentMethod
	if strings.TrimSpace(in.PaymentMethod) != "" {
		if method, err = pricing.NormalizePaymentMethod(in.PaymentMethod); err != nil {
			return nil, err
		}
	}
	if method != models.PaymentCard && method != models.PaymentKPay {
		return nil, errs.Invalid("Mock payment supports card and kpay only")
	}

	now := s.now()
	order.PaymentMethod = method
	if ref := pricing.NormalizePaymentReference(in.PaymentReference); ref != "" {
		order.PaymentReference = ref
	}
	order.Paid = true
	order.PaidAt = &now
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, saveErr(err, "")
	}
	s.logger.Infow("order paid", "order_id", order.ID, "method", method)
	return order, nil
}

// Delete removes an order outright. Only admins reach this.
func (s *OrderService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	order, err := fetch(ctx, s.orders.GetByID, id, "Order")
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.DeleteOrder, policy.OrderResource(order)); err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, order.ID); err != nil {
		return saveErr(err, "")
	}
	s.logger.Infow("order deleted", "order_id", order.ID, "by", actor.ID)
	return nil
}

// Location returns the latest position of the staff delivering the order.
func (s *OrderService) Location(ctx context.Context, actor policy.Actor, id string) (*models.StaffLocation, error) {
	order, err := s.trackable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	loc, err := s.tracker.Latest(ctx, order.DeliveryStaffID)
	if errors.Is(err, location.ErrNoPosition) {
		return nil, errs.NotFound("%s", err.Error())
	}
	if err != nil {
		return nil, errs.Internal(err)
	}
	return loc, nil
}

// StreamLocation subscribes to position updates of the staff delivering the order.
func (s *OrderService) StreamLocation(ctx context.Context, actor policy.Actor, id string) (<-chan models.StaffLocation, func(), error) {
	order, err := s.trackable(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.tracker.Subscribe(ctx, order.DeliveryStaffID)
	return ch, cancel, nil
}

func (s *OrderService) trackable(ctx context.Context, actor policy.Actor, id string) (*models.Order, error) {
	order, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if order.DeliveryStaffID == "" {
		return nil, errs.Invalid("No delivery staff assigned to this order yet")
	}
	return order, nil
}

// authorizeStatus checks both that actor may touch the order and that the role may set target.
func authorizeStatus(actor policy.Actor, t models.OrderType, r policy.Resource, current, target models.OrderStatus) error {
	if err := policy.Authorize(actor, statusAction(actor.Role), r); err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin && statemachine.IsTerminal(current) {
		return errs.Forbidden("Order is already %s and can no longer be changed", current)
	}
	if statemachine.RoleMaySet(t, actor.Role, current, target) {
		return nil
	}
	if actor.Role == models.RoleCompanyAdmin && !statemachine.BeforePickup(t, current) {
		return errs.Forbidden("Only the assigned delivery staff can update this order once it has been picked up")
	}
	return errs.Forbidden("A %s cannot set status %s", actor.Role, target)
}

func statusAction(role models.UserRole) policy.Action {
	switch role {
	case models.RoleShopAdmin:
		return policy.UpdateShopStatus
	case models.RoleCustomer:
		return policy.CancelOwnOrder
	default:
		return policy.UpdateDeliveryStatus
	}
}

// companyStaff loads staffID and checks it is delivery staff of companyID.
func companyStaff(ctx context.Context, users store.UserRepository, staffID, companyID string) (*models.User, error) {
	staff, err := fetch(ctx, users.GetByID, staffID, "Staff")
	if err != nil {
		return nil, err
	}
	if staff.Role != models.RoleCompanyStaff {
		return nil, errs.Invalid("User %s is not delivery staff", staff.ID)
	}
	if staff.CompanyID != companyID {
		return nil, errs.Invalid("Staff does not belong to this delivery company")
	}
	if !staff.IsActive {
		return nil, errs.Invalid("Staff account is deactivated")
	}
	return staff, nil
}
