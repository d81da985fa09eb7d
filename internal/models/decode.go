package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeError reports that a remote row did not match the expected
// shape. It is the single failure type of the parse/validate boundary
// between untyped remote payloads and the typed entities above.
type DecodeError struct {
	// Entity names the target type, e.g. "product".
	Entity string
	// Reason describes what was wrong with the payload.
	Reason string
	// Err is the underlying unmarshalling error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %s: %v", e.Entity, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode %s: %s", e.Entity, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// validatable is implemented by entities that check their own required
// fields after unmarshalling.
type validatable interface {
	validate() error
}

func (p *Product) validate() error {
	var missing []string
	if p.ID == "" {
		missing = append(missing, "id")
	}
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Price < 0 {
		return fmt.Errorf("negative price %d", p.Price)
	}
	switch p.Category {
	case CategoryPhones, CategoryLaptops, CategoryAccessories:
	default:
		return fmt.Errorf("unknown category %q", p.Category)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (o *Order) validate() error {
	if o.OrderID == "" {
		return fmt.Errorf("missing fields: order_id")
	}
	if !ValidOrderStatus(o.Status) {
		return fmt.Errorf("unknown status %q", o.Status)
	}
	return nil
}

func (b *Booking) validate() error {
	if b.Name == "" {
		return fmt.Errorf("missing fields: name")
	}
	switch b.DeviceType {
	case DevicePhone, DeviceLaptop:
		return nil
	}
	return fmt.Errorf("unknown device_type %q", b.DeviceType)
}

func (m *ContactMessage) validate() error {
	if m.Name == "" || m.Message == "" {
		return fmt.Errorf("missing fields: name, message")
	}
	return nil
}

func (b *BankInfo) validate() error {
	if b.BankName == "" || b.AccountNumber == "" {
		return fmt.Errorf("missing fields: bank_name, account_number")
	}
	return nil
}

// DecodeRow converts one untyped remote row into a typed entity,
// failing with *DecodeError on shape mismatch instead of trusting
// the payload.
func DecodeRow[T any](entity string, raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &DecodeError{Entity: entity, Reason: "malformed row", Err: err}
	}
	if val, ok := any(&v).(validatable); ok {
		if err := val.validate(); err != nil {
			return v, &DecodeError{Entity: entity, Reason: err.Error()}
		}
	}
	return v, nil
}

// DecodeRows converts a slice of untyped rows, failing on the first
// row that does not decode.
func DecodeRows[T any](entity string, raws []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := DecodeRow[T](entity, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
