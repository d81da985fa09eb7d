package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNewOrderID_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := NewOrderID()
		if !strings.HasPrefix(id, "ORD-DTX") {
			t.Fatalf("order id %q missing ORD-DTX prefix", id)
		}
		if len(id) != len("ORD-DTX")+6 {
			t.Fatalf("order id %q has wrong length", id)
		}
		for _, c := range id[len("ORD-DTX"):] {
			if !strings.ContainsRune(orderIDAlphabet, c) {
				t.Fatalf("order id %q contains invalid char %q", id, c)
			}
		}
		seen[id] = true
	}
	if len(seen) < 2 {
		t.Error("expected order ids to vary across calls")
	}
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "₦0"},
		{999, "₦999"},
		{1000, "₦1,000"},
		{1250000, "₦1,250,000"},
		{-5000, "-₦5,000"},
	}
	for _, c := range cases {
		if got := FormatPrice(c.in); got != c.want {
			t.Errorf("FormatPrice(%d) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestDecodeRow_Product(t *testing.T) {
	raw := json.RawMessage(`{"id":"p1","name":"Pixel 8","price":950000,"category":"Phones","images":["a.jpg"],"created_at":"2025-01-02T03:04:05Z"}`)
	p, err := DecodeRow[Product]("product", raw)
	if err != nil {
		t.Fatalf("DecodeRow returned error: %v", err)
	}
	if p.ID != "p1" || p.Name != "Pixel 8" || p.Price != 950000 {
		t.Errorf("unexpected product: %+v", p)
	}
	if p.Category != CategoryPhones {
		t.Errorf("category = %q; want Phones", p.Category)
	}
}

func TestDecodeRow_ShapeMismatch(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"id":`},
		{"string price", `{"id":"p1","name":"x","price":"lots","category":"Phones"}`},
		{"missing id", `{"name":"x","price":1,"category":"Phones"}`},
		{"bad category", `{"id":"p1","name":"x","price":1,"category":"Fridges"}`},
		{"negative price", `{"id":"p1","name":"x","price":-3,"category":"Phones"}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := DecodeRow[Product]("product", json.RawMessage(c.raw))
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %v", err)
			}
			if de.Entity != "product" {
				t.Errorf("entity = %q; want product", de.Entity)
			}
		})
	}
}

func TestDecodeRows_StopsOnFirstBadRow(t *testing.T) {
	raws := []json.RawMessage{
		json.RawMessage(`{"id":"p1","name":"a","price":1,"category":"Phones"}`),
		json.RawMessage(`{"id":"p2","name":"b","price":1,"category":"Nope"}`),
	}
	_, err := DecodeRows[Product]("product", raws)
	if err == nil {
		t.Fatal("expected error for bad second row")
	}
}

func TestDecodeRow_Order(t *testing.T) {
	raw := json.RawMessage(`{"order_id":"ORD-DTXAB12CD","user_id":"u1","items":[{"product_id":"p1","name":"x","price":1000,"quantity":2}],"total":2000,"status":"pending","payment_method":"whatsapp","user_details":{"name":"Ada","phone":"080","address":"Lagos"}}`)
	o, err := DecodeRow[Order]("order", raw)
	if err != nil {
		t.Fatalf("DecodeRow returned error: %v", err)
	}
	if o.Status != OrderPending || len(o.Items) != 1 || o.Items[0].Quantity != 2 {
		t.Errorf("unexpected order: %+v", o)
	}

	if _, err := DecodeRow[Order]("order", json.RawMessage(`{"order_id":"x","status":"lost"}`)); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestSessionExpired(t *testing.T) {
	s := &Session{ExpiresAt: time.Now().Add(-time.Minute)}
	if !s.Expired() {
		t.Error("session past its expiry should report expired")
	}
	s = &Session{ExpiresAt: time.Now().Add(time.Hour)}
	if s.Expired() {
		t.Error("session before expiry should not report expired")
	}
	s = &Session{}
	if s.Expired() {
		t.Error("session without expiry should not report expired")
	}
}
