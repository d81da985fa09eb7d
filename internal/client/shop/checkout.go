package shop

import (
	"context"
	"errors"

	"github.com/dammytech/dtxstore/internal/client/backend"
	"github.com/dammytech/dtxstore/internal/client/cart"
	"github.com/dammytech/dtxstore/internal/client/notify"
	"github.com/dammytech/dtxstore/internal/models"
)

var (
	// ErrEmptyCart rejects a checkout before any network call is
	// made.
	ErrEmptyCart = errors.New("shop: cart is empty")
	// ErrNotSignedIn rejects a checkout without a provider session.
	ErrNotSignedIn = errors.New("shop: not signed in")
	// ErrMissingFields rejects a submission with required fields
	// left blank.
	ErrMissingFields = errors.New("shop: required fields missing")
)

// SessionSource exposes the currently observed session.
type SessionSource interface {
	Current() *models.Session
}

// Checkout turns the cart into an order row and owns the order-facing
// reads (tracking, per-user history, bank details).
type Checkout struct {
	tables   backend.TableAPI
	cart     *cart.Store
	sessions SessionSource
	notifier notify.Notifier
	whatsapp string
}

// NewCheckout wires the checkout flow. whatsapp is the handoff number
// orders are announced to.
func NewCheckout(tables backend.TableAPI, c *cart.Store, sessions SessionSource, notifier notify.Notifier, whatsapp string) *Checkout {
	return &Checkout{tables: tables, cart: c, sessions: sessions, notifier: notifier, whatsapp: whatsapp}
}

// PlacedOrder is what checkout hands back to the confirmation page.
type PlacedOrder struct {
	OrderID string
	Total   int64
	// WhatsAppLink is set for the messaging-handoff payment method.
	WhatsAppLink string
}

// PlaceOrder validates locally first (session, contact fields,
// non-empty cart), then writes a single order row. On success the cart
// is cleared exactly once; for the WhatsApp method the handoff link is
// returned for the caller to open.
func (c *Checkout) PlaceOrder(ctx context.Context, details models.UserDetails, method models.PaymentMethod) (*PlacedOrder, error) {
	sess := c.sessions.Current()
	if sess == nil {
		c.notifier.Error("Please log in to continue")
		return nil, ErrNotSignedIn
	}
	if details.Name == "" || details.Phone == "" || details.Address == "" {
		c.notifier.Error("Please fill in all required fields")
		return nil, ErrMissingFields
	}
	items := c.cart.Items()
	if len(items) == 0 {
		c.notifier.Error("Your cart is empty")
		return nil, ErrEmptyCart
	}

	orderID := models.NewOrderID()
	total := c.cart.Subtotal()
	order := models.Order{
		OrderID:       orderID,
		UserID:        sess.User.ID,
		Items:         make([]models.OrderItem, 0, len(items)),
		Total:         total,
		Status:        models.OrderPending,
		PaymentMethod: method,
		UserDetails:   details,
	}
	for _, it := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
		})
	}

	if _, err := c.tables.Insert(ctx, "orders", order); err != nil {
		c.notifier.Error("Failed to place order")
		return nil, err
	}

	placed := &PlacedOrder{OrderID: orderID, Total: total}
	if method == models.PayWhatsApp {
		placed.WhatsAppLink = WhatsAppLink(c.whatsapp, orderMessage(orderID, items, total, details))
	}

	if err := c.cart.Clear(); err != nil {
		return placed, err
	}
	return placed, nil
}

// BankDetails fetches the single bank-transfer row shown at checkout.
func (c *Checkout) BankDetails(ctx context.Context) (*models.BankInfo, error) {
	raw, err := c.tables.SelectSingle(ctx, "payment_details")
	if err != nil {
		c.notifier.Error("Failed to load bank details")
		return nil, err
	}
	info, err := models.DecodeRow[models.BankInfo]("bank info", raw)
	if err != nil {
		c.notifier.Error("Failed to load bank details")
		return nil, err
	}
	return &info, nil
}

// Track looks an order up by its public order id. Tracking is open to
// anyone holding the id; no session is required.
func (c *Checkout) Track(ctx context.Context, orderID string) (*models.Order, error) {
	raw, err := c.tables.SelectSingle(ctx, "orders", backend.Eq("order_id", orderID))
	if err != nil {
		if errors.Is(err, backend.ErrNoRows) {
			return nil, ErrNotFound
		}
		c.notifier.Error("Failed to look up order")
		return nil, err
	}
	order, err := models.DecodeRow[models.Order]("order", raw)
	if err != nil {
		c.notifier.Error("Failed to look up order")
		return nil, err
	}
	return &order, nil
}

// OrdersForUser returns the signed-in user's orders, newest first.
func (c *Checkout) OrdersForUser(ctx context.Context) ([]models.Order, error) {
	sess := c.sessions.Current()
	if sess == nil {
		return nil, ErrNotSignedIn
	}
	raws, err := c.tables.Select(ctx, "orders",
		backend.Eq("user_id", sess.User.ID), backend.OrderBy("created_at", false))
	if err != nil {
		c.notifier.Error("Failed to load orders")
		return nil, err
	}
	orders, err := models.DecodeRows[models.Order]("order", raws)
	if err != nil {
		c.notifier.Error("Failed to load orders")
		return nil, err
	}
	return orders, nil
}
