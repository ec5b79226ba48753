package statemachine

import (
	"errors"
	"strings"

	"food-ordering-api/models"
)

var (
	// OrderStatuses is the app order lifecycle in fulfilment order, cancelled last.
	OrderStatuses = []models.OrderStatus{
		models.StatusPending,
		models.StatusAccepted,
		models.StatusPreparing,
		models.StatusReady,
		models.StatusAssigned,
		models.StatusPickedUp,
		models.StatusDelivered,
		models.StatusComplete,
		models.StatusCancelled,
	}

	// PhoneStatuses is the call-center lifecycle.
	PhoneStatuses = []models.OrderStatus{
		models.StatusConfirmed,
		models.StatusAssigned,
		models.StatusPickedUp,
		models.StatusDelivered,
		models.StatusComplete,
		models.StatusCancelled,
	}
)

// Transition is one sequential step. The table is consulted only when strict sequencing is
// switched on; by default any known status may be set by an authorized actor.
type Transition struct {
	Type models.OrderType   `json:"type"`
	From models.OrderStatus `json:"from"`
	To   models.OrderStatus `json:"to"`
}

var validTransitions = []Transition{
	{models.OrderTypeApp, models.StatusPending, models.StatusAccepted},
	{models.OrderTypeApp, models.StatusPending, models.StatusCancelled},
	{models.OrderTypeApp, models.StatusAccepted, models.StatusPreparing},
	{models.OrderTypeApp, models.StatusAccepted, models.StatusCancelled},
	{models.OrderTypeApp, models.StatusPreparing, models.StatusReady},
	{models.OrderTypeApp, models.StatusPreparing, models.StatusCancelled},
	{models.OrderTypeApp, models.StatusReady, models.StatusAssigned},
	{models.OrderTypeApp, models.StatusReady, models.StatusCancelled},
	{models.OrderTypeApp, models.StatusAssigned, models.StatusPickedUp},
	{models.OrderTypeApp, models.StatusAssigned, models.StatusCancelled},
	{models.OrderTypeApp, models.StatusPickedUp, models.StatusDelivered},
	{models.OrderTypeApp, models.StatusDelivered, models.StatusComplete},

	{models.OrderTypePhone, models.StatusConfirmed, models.StatusAssigned},
	{models.OrderTypePhone, models.StatusConfirmed, models.StatusCancelled},
	{models.OrderTypePhone, models.StatusAssigned, models.StatusPickedUp},
	{models.OrderTypePhone, models.StatusAssigned, models.StatusCancelled},
	{models.OrderTypePhone, models.StatusPickedUp, models.StatusDelivered},
	{models.OrderTypePhone, models.StatusDelivered, models.StatusComplete},
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[Transition]bool {
	m := make(map[Transition]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[t] = true
	}
	return m
}()

// Statuses returns the lifecycle of the given order type.
func Statuses(t models.OrderType) []models.OrderStatus {
	if t == models.OrderTypePhone {
		return PhoneStatuses
	}
	return OrderStatuses
}

// InitialStatus is the status an order of type t is created with.
func InitialStatus(t models.OrderType) models.OrderStatus {
	if t == models.OrderTypePhone {
		return models.StatusConfirmed
	}
	return models.StatusPending
}

// Valid reports whether s belongs to the lifecycle of t.
func Valid(t models.OrderType, s models.OrderStatus) bool {
	return contains(Statuses(t), s)
}

func IsTerminal(s models.OrderStatus) bool {
	return s == models.StatusComplete || s == models.StatusCancelled
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(t models.OrderType, status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, tr := range validTransitions {
		if tr.Type == t && tr.From == status {
			nexts = append(nexts, tr.To)
		}
	}
	return nexts
}

// CanTransition checks a change against the sequential table.
func CanTransition(t models.OrderType, from, to models.OrderStatus) error {
	if transitionMap[Transition{Type: t, From: from, To: to}] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " → " + string(to) + ". " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(t, from),
	)
}

func describeValidFrom(t models.OrderType, status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(t, status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// BeforePickup reports whether the order has not left the shop yet. Cancelled counts as
// past pickup: nobody but the assigned staff or an admin may touch it.
func BeforePickup(t models.OrderType, s models.OrderStatus) bool {
	if s == models.StatusCancelled {
		return false
	}
	for _, st := range Statuses(t) {
		if st == models.StatusPickedUp {
			return false
		}
		if st == s {
			return true
		}
	}
	return false
}

var (
	appShopStatuses      = []models.OrderStatus{models.StatusAccepted, models.StatusPreparing, models.StatusReady, models.StatusCancelled}
	appCompanyStatuses   = []models.OrderStatus{models.StatusAssigned, models.StatusPickedUp, models.StatusCancelled}
	staffStatuses        = []models.OrderStatus{models.StatusPickedUp, models.StatusDelivered, models.StatusComplete}
	customerStatuses     = []models.OrderStatus{models.StatusCancelled}
	phoneShopStatuses    = []models.OrderStatus{models.StatusCancelled}
	phoneCompanyStatuses = PhoneStatuses
)

// AllowedStatuses lists the statuses role may set on an order of type t whose current status
// is current. Orders in a terminal status only move for admins. Ownership of the order is
// checked separately by the policy package.
func AllowedStatuses(t models.OrderType, role models.UserRole, current models.OrderStatus) []models.OrderStatus {
	if role != models.RoleAdmin && IsTerminal(current) {
		return nil
	}
	switch role {
	case models.RoleAdmin:
		return Statuses(t)
	case models.RoleCompanyStaff:
		return staffStatuses
	case models.RoleCompanyAdmin:
		if !BeforePickup(t, current) {
			return nil
		}
		if t == models.OrderTypePhone {
			return phoneCompanyStatuses
		}
		return appCompanyStatuses
	case models.RoleShopAdmin:
		if t == models.OrderTypePhone {
			return phoneShopStatuses
		}
		return appShopStatuses
	case models.RoleCustomer:
		if t == models.OrderTypePhone {
			return nil
		}
		return customerStatuses
	}
	return nil
}

// RoleMaySet reports whether role may move an order from current to target.
func RoleMaySet(t models.OrderType, role models.UserRole, current, target models.OrderStatus) bool {
	return contains(AllowedStatuses(t, role, current), target)
}

func contains(list []models.OrderStatus, s models.OrderStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
