// Package admin implements the back-office operations: the dashboard
// feed, order status updates, product management, booking responses
// and bank-detail edits. Access control happens at the route layer via
// the admin guard; this package assumes the caller is allowed in.
package admin

import (
	"context"
	"errors"

	"github.com/dammytech/dtxstore/internal/client/backend"
	"github.com/dammytech/dtxstore/internal/client/notify"
	"github.com/dammytech/dtxstore/internal/models"
)

// ErrInvalidStatus is returned when an order status update names a
// status outside the known lifecycle.
var ErrInvalidStatus = errors.New("admin: invalid order status")

// ErrMissingFields is returned when a product or bank-info write is
// missing required fields.
var ErrMissingFields = errors.New("admin: missing required fields")

// recentLimit caps the dashboard feeds.
const recentLimit = 5

// Service bundles the back-office operations over the table client.
type Service struct {
	tables   backend.TableAPI
	notifier notify.Notifier
}

// New wires the admin service.
func New(tables backend.TableAPI, notifier notify.Notifier) *Service {
	return &Service{tables: tables, notifier: notifier}
}

// Dashboard is the landing-page summary: the newest activity in each
// table plus the count of orders still waiting on fulfilment.
type Dashboard struct {
	RecentOrders   []models.Order
	RecentBookings []models.Booking
	RecentMessages []models.ContactMessage
	PendingOrders  int
}

// LoadDashboard assembles the dashboard. Each feed is newest-first and
// capped; a failure in any of them fails the whole load.
func (s *Service) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard

	rows, err := s.tables.Select(ctx, "orders",
		backend.OrderBy("created_at", false), backend.Limit(recentLimit))
	if err != nil {
		return nil, s.fail("Failed to load dashboard", err)
	}
	if d.RecentOrders, err = models.DecodeRows[models.Order]("order", rows); err != nil {
		return nil, s.fail("Failed to load dashboard", err)
	}

	rows, err = s.tables.Select(ctx, "bookings",
		backend.OrderBy("created_at", false), backend.Limit(recentLimit))
	if err != nil {
		return nil, s.fail("Failed to load dashboard", err)
	}
	if d.RecentBookings, err = models.DecodeRows[models.Booking]("booking", rows); err != nil {
		return nil, s.fail("Failed to load dashboard", err)
	}

	rows, err = s.tables.Select(ctx, "contact_messages",
		backend.OrderBy("created_at", false), backend.Limit(recentLimit))
	if err != nil {
		return nil, s.fail("Failed to load dashboard", err)
	}
	if d.RecentMessages, err = models.DecodeRows[models.ContactMessage]("contact message", rows); err != nil {
		return nil, s.fail("Failed to load dashboard", err)
	}

	if d.PendingOrders, err = s.tables.Count(ctx, "orders",
		backend.Eq("status", string(models.OrderPending))); err != nil {
		return nil, s.fail("Failed to load dashboard", err)
	}
	return &d, nil
}

// Orders returns every order, newest first.
func (s *Service) Orders(ctx context.Context) ([]models.Order, error) {
	rows, err := s.tables.Select(ctx, "orders", backend.OrderBy("created_at", false))
	if err != nil {
		return nil, s.fail("Failed to load orders", err)
	}
	orders, err := models.DecodeRows[models.Order]("order", rows)
	if err != nil {
		return nil, s.fail("Failed to load orders", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order along its lifecycle.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if !models.ValidOrderStatus(status) {
		return ErrInvalidStatus
	}
	patch := map[string]any{"status": status}
	if err := s.tables.Update(ctx, "orders", patch, backend.Eq("id", id)); err != nil {
		return s.fail("Failed to update order status", err)
	}
	s.notifier.Success("Order status updated")
	return nil
}

// Products returns the full catalog, newest first.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	rows, err := s.tables.Select(ctx, "products", backend.OrderBy("created_at", false))
	if err != nil {
		return nil, s.fail("Failed to load products", err)
	}
	products, err := models.DecodeRows[models.Product]("product", rows)
	if err != nil {
		return nil, s.fail("Failed to load products", err)
	}
	return products, nil
}

// CreateProduct inserts a catalog item and returns the stored row.
func (s *Service) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	if p.Name == "" || p.Price <= 0 || p.Category == "" {
		s.notifier.Error("Please fill in all required fields")
		return nil, ErrMissingFields
	}
	p.ID = ""
	raw, err := s.tables.Insert(ctx, "products", p)
	if err != nil {
		return nil, s.fail("Failed to add product", err)
	}
	stored, err := models.DecodeRow[models.Product]("product", raw)
	if err != nil {
		return nil, s.fail("Failed to add product", err)
	}
	s.notifier.Success("Product added successfully!")
	return &stored, nil
}

// UpdateProduct patches an existing catalog item.
func (s *Service) UpdateProduct(ctx context.Context, p models.Product) error {
	if p.ID == "" || p.Name == "" || p.Price <= 0 || p.Category == "" {
		s.notifier.Error("Please fill in all required fields")
		return ErrMissingFields
	}
	patch := map[string]any{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"images":      p.Images,
	}
	if err := s.tables.Update(ctx, "products", patch, backend.Eq("id", p.ID)); err != nil {
		return s.fail("Failed to update product", err)
	}
	s.notifier.Success("Product updated successfully!")
	return nil
}

// DeleteProduct removes a catalog item.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.tables.Delete(ctx, "products", backend.Eq("id", id)); err != nil {
		return s.fail("Failed to delete product", err)
	}
	s.notifier.Success("Product deleted")
	return nil
}

// Bookings returns every repair booking, newest first.
func (s *Service) Bookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := s.tables.Select(ctx, "bookings", backend.OrderBy("created_at", false))
	if err != nil {
		return nil, s.fail("Failed to load bookings", err)
	}
	bookings, err := models.DecodeRows[models.Booking]("booking", rows)
	if err != nil {
		return nil, s.fail("Failed to load bookings", err)
	}
	return bookings, nil
}

// RespondToBooking records the shop's reply on a booking row.
func (s *Service) RespondToBooking(ctx context.Context, id, response string) error {
	patch := map[string]any{"admin_response": response}
	if err := s.tables.Update(ctx, "bookings", patch, backend.Eq("id", id)); err != nil {
		return s.fail("Failed to send response", err)
	}
	s.notifier.Success("Response sent")
	return nil
}

// Messages returns every contact message, newest first.
func (s *Service) Messages(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := s.tables.Select(ctx, "contact_messages", backend.OrderBy("created_at", false))
	if err != nil {
		return nil, s.fail("Failed to load messages", err)
	}
	msgs, err := models.DecodeRows[models.ContactMessage]("contact message", rows)
	if err != nil {
		return nil, s.fail("Failed to load messages", err)
	}
	return msgs, nil
}

// UpdateBankInfo replaces the bank-transfer details shown at checkout.
// The table holds a single row: patch it when present, insert the
// first one otherwise.
func (s *Service) UpdateBankInfo(ctx context.Context, info models.BankInfo) error {
	if info.BankName == "" || info.AccountNumber == "" || info.AccountHolderName == "" {
		s.notifier.Error("Please fill in all required fields")
		return ErrMissingFields
	}

	existing, err := s.tables.SelectSingle(ctx, "payment_details")
	switch {
	case errors.Is(err, backend.ErrNoRows):
		info.ID = ""
		if _, err := s.tables.Insert(ctx, "payment_details", info); err != nil {
			return s.fail("Failed to save bank details", err)
		}
	case err != nil:
		return s.fail("Failed to save bank details", err)
	default:
		current, err := models.DecodeRow[models.BankInfo]("bank info", existing)
		if err != nil {
			return s.fail("Failed to save bank details", err)
		}
		patch := map[string]any{
			"bank_name":           info.BankName,
			"account_number":      info.AccountNumber,
			"account_holder_name": info.AccountHolderName,
		}
		if err := s.tables.Update(ctx, "payment_details", patch, backend.Eq("id", current.ID)); err != nil {
			return s.fail("Failed to save bank details", err)
		}
	}
	s.notifier.Success("Bank details updated successfully!")
	return nil
}

func (s *Service) fail(msg string, err error) error {
	s.notifier.Error(msg)
	return err
}
