// Package pricing turns a requested cart into priced order lines.
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"food-ordering-api/errs"
	"food-ordering-api/models"
	"food-ordering-api/store"

	"github.com/google/uuid"
)

const (
	MaxNoteLength      = 200
	MaxReferenceLength = 100
)

// MenuLookup is the only persistence the calculator needs.
type MenuLookup interface {
	GetByID(ctx context.Context, id string) (*models.Menu, error)
}

// AddOnRequest accepts either "Cheese" or {"name": "Cheese"} on the wire.
type AddOnRequest struct {
	Name string `json:"name"`
}

func (a *AddOnRequest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &a.Name)
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	a.Name = obj.Name
	return nil
}

// CartLine is one requested line. Quantity and Note are left loosely typed because clients
// send numbers, numeric strings or nothing at all.
type CartLine struct {
	MenuID   string         `json:"menuId"`
	Quantity any            `json:"quantity"`
	AddOns   []AddOnRequest `json:"addOns"`
	Note     any            `json:"note"`
}

// PriceCart prices every line against the current menu records and returns the lines and the
// order total. Any invalid line fails the whole cart.
func PriceCart(ctx context.Context, menus MenuLookup, shopID string, lines []CartLine) ([]models.LineItem, float64, error) {
	if len(lines) == 0 {
		return nil, 0, errs.Invalid("items required")
	}

	items := make([]models.LineItem, 0, len(lines))
	var total float64
	for _, line := range lines {
		item, err := PriceLine(ctx, menus, shopID, line)
		if err != nil {
			return nil, 0, err
		}
		total += item.LineTotal
		items = append(items, item)
	}
	return items, total, nil
}

// PriceLine prices a single cart line.
func PriceLine(ctx context.Context, menus MenuLookup, shopID string, line CartLine) (models.LineItem, error) {
	menu, err := LookupMenu(ctx, menus, shopID, line.MenuID)
	if err != nil {
		return models.LineItem{}, err
	}

	qty, err := ParseQuantity(line.Quantity)
	if err != nil {
		return models.LineItem{}, err
	}

	addOns, addOnsTotal, err := ResolveAddOns(menu, line.AddOns)
	if err != nil {
		return models.LineItem{}, err
	}

	return models.LineItem{
		MenuID:      menu.ID,
		Name:        menu.Name,
		Price:       menu.Price,
		Quantity:    qty,
		AddOns:      addOns,
		Note:        NormalizeNote(line.Note),
		AddOnsTotal: addOnsTotal,
		LineTotal:   (menu.Price + addOnsTotal) * float64(qty),
	}, nil
}

// LookupMenu loads a menu and checks it can be ordered from shopID.
func LookupMenu(ctx context.Context, menus MenuLookup, shopID, menuID string) (*models.Menu, error) {
	menuID = strings.TrimSpace(menuID)
	if menuID == "" {
		return nil, errs.Invalid("menuId required")
	}
	if _, err := uuid.Parse(menuID); err != nil {
		return nil, errs.Invalid("Invalid menu id: %s", menuID)
	}
	menu, err := menus.GetByID(ctx, menuID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NotFound("Menu not found: %s", menuID)
		}
		return nil, errs.Internal(err)
	}
	if shopID != "" && menu.ShopID != shopID {
		return nil, errs.Invalid("Menu %s does not belong to this shop", menu.Name)
	}
	if !menu.IsAvailable {
		return nil, errs.Invalid("Menu %s is not available", menu.Name)
	}
	return menu, nil
}

// ParseQuantity accepts JSON numbers and numeric strings holding a whole number > 0.
func ParseQuantity(v any) (int, error) {
	var f float64
	switch q := v.(type) {
	case float64:
		f = q
	case int:
		f = float64(q)
	case json.Number:
		parsed, err := q.Float64()
		if err != nil {
			return 0, errs.Invalid("Invalid quantity: %s", q)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil {
			return 0, errs.Invalid("Invalid quantity: %s", q)
		}
		f = parsed
	default:
		return 0, errs.Invalid("quantity must be a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, errs.Invalid("quantity must be greater than 0")
	}
	if f != math.Trunc(f) {
		return 0, errs.Invalid("quantity must be a whole number")
	}
	if f > math.MaxInt32 {
		return 0, errs.Invalid("quantity is too large")
	}
	return int(f), nil
}

// ResolveAddOns matches requested names against the menu's add-ons. Names are trimmed and
// compared case-sensitively; a repeated name is counted once.
func ResolveAddOns(menu *models.Menu, requested []AddOnRequest) ([]models.LineAddOn, float64, error) {
	byName := make(map[string]models.AddOn, len(menu.AddOns))
	for _, a := range menu.AddOns {
		name := strings.TrimSpace(a.Name)
		if _, dup := byName[name]; !dup {
			byName[name] = a
		}
	}

	resolved := make([]models.LineAddOn, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	var subtotal float64
	for _, r := range requested {
		name := strings.TrimSpace(r.Name)
		if name == "" || seen[name] {
			continue
		}
		addOn, ok := byName[name]
		if !ok {
			return nil, 0, errs.Invalid("Invalid add-on: %s", name)
		}
		seen[name] = true
		subtotal += addOn.Price
		resolved = append(resolved, models.LineAddOn{Name: name, Price: addOn.Price})
	}
	return resolved, subtotal, nil
}

// NormalizeNote trims string notes to MaxNoteLength runes; anything else becomes "".
func NormalizeNote(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return truncate(strings.TrimSpace(s), MaxNoteLength)
}

// NormalizePaymentMethod lowercases and validates the method, defaulting to cash.
func NormalizePaymentMethod(raw string) (models.PaymentMethod, error) {
	m := models.PaymentMethod(strings.ToLower(strings.TrimSpace(raw)))
	if m == "" {
		return models.PaymentCash, nil
	}
	for _, valid := range models.PaymentMethods {
		if m == valid {
			return m, nil
		}
	}
	return "", errs.Invalid("Invalid payment method: %s", raw)
}

func NormalizePaymentReference(raw string) string {
	return truncate(strings.TrimSpace(raw), MaxReferenceLength)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
