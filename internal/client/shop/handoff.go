package shop

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dammytech/dtxstore/internal/models"
)

// WhatsAppLink builds the chat deep link carrying a pre-filled text
// payload. Fire-and-forget: nothing comes back from the chat app.
func WhatsAppLink(number, text string) string {
	return "https://wa.me/" + number + "?text=" + url.QueryEscape(text)
}

// orderMessage renders the order summary handed off at checkout.
func orderMessage(orderID string, items []models.LineItem, total int64, d models.UserDetails) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%dx %s @ %s", it.Quantity, it.Product.Name, models.FormatPrice(it.Product.Price)))
	}
	return fmt.Sprintf("New Order #%s:\n\n%s\n\nTotal: %s\n\nCustomer Details:\nName: %s\nPhone: %s\nAddress: %s",
		orderID, strings.Join(lines, "\n"), models.FormatPrice(total), d.Name, d.Phone, d.Address)
}

// bookingMessage renders the repair-booking summary.
func bookingMessage(b models.Booking) string {
	return fmt.Sprintf("New Repair Booking:\n\nName: %s\nPhone: %s\nDevice Type: %s\n\nProblem Description:\n%s",
		b.Name, b.Phone, b.DeviceType, b.ProblemDescription)
}
