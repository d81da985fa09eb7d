package shop

import (
	"context"

	"github.com/dammytech/dtxstore/internal/client/backend"
	"github.com/dammytech/dtxstore/internal/client/notify"
	"github.com/dammytech/dtxstore/internal/models"
)

// Contact submits contact-form messages. The form is public; no
// session is involved.
type Contact struct {
	tables   backend.TableAPI
	notifier notify.Notifier
}

// NewContact wires the contact form service.
func NewContact(tables backend.TableAPI, notifier notify.Notifier) *Contact {
	return &Contact{tables: tables, notifier: notifier}
}

// Send validates and stores one contact message.
func (c *Contact) Send(ctx context.Context, msg models.ContactMessage) error {
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		c.notifier.Error("Please fill in all required fields")
		return ErrMissingFields
	}
	if _, err := c.tables.Insert(ctx, "contact_messages", msg); err != nil {
		c.notifier.Error("Failed to send message")
		return err
	}
	c.notifier.Success("Message sent successfully!")
	return nil
}
