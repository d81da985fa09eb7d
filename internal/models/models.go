// Package models defines the core data structures of the storefront:
// catalog products, cart line items, orders, repair bookings, contact
// messages and bank details, plus the session shape observed from the
// identity provider.
package models

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"
)

// ProductCategory defines the set of valid catalog categories.
type ProductCategory string

const (
	// CategoryPhones is the phones catalog section.
	CategoryPhones ProductCategory = "Phones"
	// CategoryLaptops is the laptops catalog section.
	CategoryLaptops ProductCategory = "Laptops"
	// CategoryAccessories is the accessories catalog section.
	CategoryAccessories ProductCategory = "Accessories"
)

// Product is a catalog item as stored in the remote products table.
type Product struct {
	// ID is the unique identifier of the product row.
	ID string `json:"id"`
	// Name is the display name of the product.
	Name string `json:"name"`
	// Description is the long-form product description.
	Description string `json:"description"`
	// Price is the product price in whole naira.
	Price int64 `json:"price"`
	// Category is one of CategoryPhones, CategoryLaptops, CategoryAccessories.
	Category ProductCategory `json:"category"`
	// Images holds image URLs, first one is the cover image.
	Images []string `json:"images"`
	// CreatedAt is the row creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// LineItem is one row of the cart: a product snapshot plus a quantity.
// The product data is captured at add-time and not re-fetched afterwards.
type LineItem struct {
	// ID is generated when the item is inserted and stable afterwards.
	ID string `json:"id"`
	// ProductID identifies the catalog item; unique within a cart.
	ProductID string `json:"product_id"`
	// Product is the denormalized catalog snapshot.
	Product Product `json:"product"`
	// Quantity is bounded to [MinQuantity, MaxQuantity].
	Quantity int `json:"quantity"`
}

const (
	// MinQuantity is the smallest quantity a line item may hold.
	MinQuantity = 1
	// MaxQuantity is the largest quantity a line item may hold.
	MaxQuantity = 10
)

// OrderStatus tracks an order through fulfilment.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentMethod is how the customer settles an order. There is no in-app
// payment: either the order is handed off to a chat conversation or the
// customer transfers to the displayed bank account.
type PaymentMethod string

const (
	PayWhatsApp     PaymentMethod = "whatsapp"
	PayBankTransfer PaymentMethod = "bank_transfer"
)

// OrderItem is the per-product snapshot embedded in an order row.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// UserDetails is the contact/address snapshot captured at checkout.
type UserDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order is a server-owned order row. Created once at checkout, mutated
// only by admin status updates, never deleted by this client.
type Order struct {
	ID            string        `json:"id,omitempty"`
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	Items         []OrderItem   `json:"items"`
	Total         int64         `json:"total"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	UserDetails   UserDetails   `json:"user_details"`
	CreatedAt     time.Time     `json:"created_at,omitempty"`
}

// DeviceType identifies what kind of device a repair booking is for.
type DeviceType string

const (
	DevicePhone  DeviceType = "Phone"
	DeviceLaptop DeviceType = "Laptop"
)

// Booking is a repair booking row.
type Booking struct {
	ID                 string     `json:"id,omitempty"`
	UserID             string     `json:"user_id"`
	Name               string     `json:"name"`
	Phone              string     `json:"phone"`
	DeviceType         DeviceType `json:"device_type"`
	ProblemDescription string     `json:"problem_description"`
	AdminResponse      string     `json:"admin_response,omitempty"`
	CreatedAt          time.Time  `json:"created_at,omitempty"`
}

// ContactMessage is a row in the contact_messages table.
type ContactMessage struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// BankInfo holds the bank-transfer details shown at checkout.
// Stored in the payment_details table, a single row.
type BankInfo struct {
	ID                string    `json:"id,omitempty"`
	BankName          string    `json:"bank_name"`
	AccountNumber     string    `json:"account_number"`
	AccountHolderName string    `json:"account_holder_name"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// SessionUser is the identity carried inside a provider session.
type SessionUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// Session is the identity provider's proof of authentication. Its
// lifetime is controlled entirely by the provider; this client only
// observes presence/absence and the expiry instant.
type Session struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        SessionUser `json:"user"`
}

// Expired reports whether the session's token lifetime has elapsed.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

const orderIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderID generates a public order identifier of the form
// ORD-DTX followed by six alphanumeric characters.
func NewOrderID() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = orderIDAlphabet[rand.IntN(len(orderIDAlphabet))]
	}
	return "ORD-DTX" + string(b)
}

// FormatPrice renders a naira amount with thousands separators,
// e.g. FormatPrice(1250000) == "₦1,250,000".
func FormatPrice(price int64) string {
	neg := price < 0
	if neg {
		price = -price
	}
	s := strconv.FormatInt(price, 10)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return fmt.Sprintf("-₦%s", out)
	}
	return fmt.Sprintf("₦%s", out)
}
