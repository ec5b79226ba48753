// Package service holds the business operations behind the HTTP handlers. Services load the
// target document, ask the policy package whether the caller may act on it, then persist.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"food-ordering-api/errs"
	"food-ordering-api/location"
	"food-ordering-api/mail"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"
	"food-ordering-api/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	// StrictTransitions rejects status changes that skip a step of the lifecycle.
	StrictTransitions bool
	FrontendURL       string
	ResetTokenTTL     time.Duration
	BcryptCost        int
}

// Services is the set handed to the HTTP layer.
type Services struct {
	Users       *UserService
	Catalog     *CatalogService
	Companies   *CompanyService
	Orders      *OrderService
	PhoneOrders *PhoneOrderService
	Locations   *LocationService
}

func New(st *store.Store, tracker location.Tracker, mailer mail.Mailer, opts Options, logger *zap.SugaredLogger) *Services {
	if opts.ResetTokenTTL == 0 {
		opts.ResetTokenTTL = time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	hist := &history{repo: st.History, logger: logger}
	seq := sequencer{strict: opts.StrictTransitions}

	return &Services{
		Users:       NewUserService(st.Users, mailer, opts, logger),
		Catalog:     NewCatalogService(st.Categories, st.Shops, st.Menus, st.Users, logger),
		Companies:   NewCompanyService(st.Companies, st.Users, opts, logger),
		Orders:      NewOrderService(st, tracker, hist, seq, logger),
		PhoneOrders: NewPhoneOrderService(st, hist, seq, logger),
		Locations:   NewLocationService(st.Users, tracker, logger),
	}
}

// fetch loads one document by id, classifying a malformed id, a missing document and a
// backend failure.
func fetch[T any](ctx context.Context, get func(context.Context, string) (*T, error), id, what string) (*T, error) {
	if !models.ValidID(id) {
		return nil, errs.Invalid("Invalid %s id: %q", strings.ToLower(what), id)
	}
	v, err := get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errs.NotFound("%s not found", what)
	}
	if err != nil {
		return nil, errs.Internal(err)
	}
	return v, nil
}

// saveErr classifies a write failure.
func saveErr(err error, duplicate string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrDuplicate):
		return errs.Conflict("%s", duplicate)
	case errors.Is(err, store.ErrNotFound):
		return errs.NotFound("Record no longer exists")
	default:
		return errs.Internal(err)
	}
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errs.Internal(err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// history writes the audit trail. Failures are logged and never fail the request.
type history struct {
	repo   store.HistoryRepository
	logger *zap.SugaredLogger
}

func (h *history) record(ctx context.Context, orderID string, t models.OrderType, from, to models.OrderStatus, by, note string) {
	entry := &models.OrderStatusHistory{
		OrderID:    orderID,
		OrderType:  t,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  by,
		Note:       note,
	}
	if err := h.repo.Create(ctx, entry); err != nil {
		h.logger.Errorw("failed to record status history", "order_id", orderID, "to", to, "error", err)
	}
}

// sequencer applies the optional sequential transition check.
type sequencer struct {
	strict bool
}

func (s sequencer) check(t models.OrderType, from, to models.OrderStatus) error {
	if !s.strict || from == to {
		return nil
	}
	if err := statemachine.CanTransition(t, from, to); err != nil {
		return errs.Invalid("%s", err.Error())
	}
	return nil
}
