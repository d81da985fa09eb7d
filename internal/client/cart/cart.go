// Package cart holds the authoritative client-side shopping cart and
// makes it durable across reloads. The store is an explicit,
// dependency-injected container: tests and callers create their own
// instances instead of sharing a package-level singleton.
package cart

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/dammytech/dtxstore/internal/models"
)

// storageKey is the local-storage key the serialized item list lives
// under. Only the items are persisted; visibility is transient.
const storageKey = "cart-storage"

// Persister is the slice of local storage the cart needs.
type Persister interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Store is the cart state container. All mutations are synchronous,
// persist the full item list before returning, and then notify
// subscribers.
type Store struct {
	state Persister

	mu      sync.Mutex
	items   []models.LineItem
	open    bool
	subs    map[int]func()
	nextSub int
}

// NewStore creates a Store backed by the given persister, restoring
// any previously persisted items. The open flag always starts false,
// matching a page reload. A corrupt persisted payload is discarded
// rather than propagated: the cart starts empty.
func NewStore(state Persister) *Store {
	s := &Store{state: state, subs: make(map[int]func())}
	if raw, ok := state.Get(storageKey); ok {
		var items []models.LineItem
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			s.items = items
		}
	}
	return s
}

// Subscribe registers fn to run after every mutation and returns an
// unsubscribe func.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// persistAndNotify writes the item list through to local storage and
// fires subscribers. Callers must hold s.mu; subscribers run after it
// is released.
func (s *Store) persistAndNotify() error {
	raw, err := json.Marshal(s.items)
	if err != nil {
		return err
	}
	if err := s.state.Set(storageKey, string(raw)); err != nil {
		return err
	}
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	s.mu.Lock()
	return nil
}

// clampQuantity forces q into [MinQuantity, MaxQuantity]. The bound is
// enforced here for both cumulative adds and explicit updates, so no
// caller can push a line item outside the range.
func clampQuantity(q int) int {
	if q < models.MinQuantity {
		return models.MinQuantity
	}
	if q > models.MaxQuantity {
		return models.MaxQuantity
	}
	return q
}

// Add puts quantity units of product into the cart. If a line item for
// the product already exists its quantity is incremented, so a product
// never appears twice; otherwise a new line item with a fresh id is
// appended. The resulting quantity is clamped to the allowed range.
func (s *Store) Add(product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity = clampQuantity(s.items[i].Quantity + quantity)
			return s.persistAndNotify()
		}
	}
	s.items = append(s.items, models.LineItem{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Product:   product,
		Quantity:  clampQuantity(quantity),
	})
	return s.persistAndNotify()
}

// Remove deletes the line item for productID. Removing a product that
// is not in the cart is a no-op, not an error.
func (s *Store) Remove(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persistAndNotify()
		}
	}
	return nil
}

// UpdateQuantity replaces the quantity of the line item for productID,
// clamped to the allowed range. Unknown products are a no-op; removal
// is a distinct operation, so quantity never drops to zero here.
func (s *Store) UpdateQuantity(productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = clampQuantity(quantity)
			return s.persistAndNotify()
		}
	}
	return nil
}

// Clear empties the cart. Called once after an order is recorded.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.persistAndNotify()
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of line items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subtotal returns the price sum over all line items.
func (s *Store) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, it := range s.items {
		total += it.Product.Price * int64(it.Quantity)
	}
	return total
}

// Toggle flips cart visibility. Visibility is UI-only state and never
// persisted.
func (s *Store) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
}

// Open marks the cart visible.
func (s *Store) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = true
}

// Close marks the cart hidden.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
}

// IsOpen reports current cart visibility.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}
