package cart

import (
	"sync"

	"shopfront/pkg/domain"
)

// LineInput describes an add-to-cart request, usually built from a Product
// plus the shopper's variant choices.
type LineInput struct {
	ProductID      string
	Variant        domain.VariantKey
	DisplayName    string
	UnitPriceMinor int64
	Thumbnail      string
	Quantity       int
}

// Store holds the working set of cart lines. At most one line exists per
// (productID, variant); adds merge into the existing line. Quantities never
// drop below 1 except through explicit removal. Cart operations never fail:
// inputs are normalized, not rejected. State is volatile by design.
type Store struct {
	mu    sync.RWMutex
	lines []domain.CartLine
	open  bool

	listenerMu sync.Mutex
	listeners  []func()
}

// NewStore initializes an empty cart.
func NewStore() *Store {
	return &Store{}
}

// Subscribe registers a listener invoked synchronously after every cart
// mutation, outside the store's lock.
func (s *Store) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.listenerMu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.listenerMu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func (s *Store) indexOf(productID string, variant domain.VariantKey) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID && s.lines[i].Variant == variant {
			return i
		}
	}
	return -1
}

// Add merges the input into an existing line for the same product and
// variant, or appends a new line selected for checkout. Quantities below 1
// are clamped to 1. Adding also flags the cart view open.
func (s *Store) Add(input LineInput) {
	qty := input.Quantity
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	if i := s.indexOf(input.ProductID, input.Variant); i >= 0 {
		s.lines[i].Quantity += qty
	} else {
		s.lines = append(s.lines, domain.CartLine{
			ProductID:      input.ProductID,
			Variant:        input.Variant,
			DisplayName:    input.DisplayName,
			UnitPriceMinor: input.UnitPriceMinor,
			Thumbnail:      input.Thumbnail,
			Quantity:       qty,
			Selected:       true,
		})
	}
	s.open = true
	s.mu.Unlock()
	s.notify()
}

// Remove deletes the matching line; no-op if absent.
func (s *Store) Remove(productID string, variant domain.VariantKey) {
	s.mu.Lock()
	i := s.indexOf(productID, variant)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.mu.Unlock()
	s.notify()
}

// IncreaseQuantity bumps the line's quantity by one. The cart enforces no
// upper bound; stock limits are the view layer's concern.
func (s *Store) IncreaseQuantity(productID string, variant domain.VariantKey) {
	s.mu.Lock()
	i := s.indexOf(productID, variant)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity++
	s.mu.Unlock()
	s.notify()
}

// DecreaseQuantity lowers the line's quantity by one, flooring at 1. Lines
// are never auto-removed; removal is an explicit separate action.
func (s *Store) DecreaseQuantity(productID string, variant domain.VariantKey) {
	s.mu.Lock()
	i := s.indexOf(productID, variant)
	if i < 0 || s.lines[i].Quantity <= 1 {
		s.mu.Unlock()
		return
	}
	s.lines[i].Quantity--
	s.mu.Unlock()
	s.notify()
}

// ToggleSelect flips the selection flag for exactly that line.
func (s *Store) ToggleSelect(productID string, variant domain.VariantKey) {
	s.mu.Lock()
	i := s.indexOf(productID, variant)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines[i].Selected = !s.lines[i].Selected
	s.mu.Unlock()
	s.notify()
}

// SelectAll sets the selection flag uniformly across all lines.
func (s *Store) SelectAll(selected bool) {
	s.mu.Lock()
	for i := range s.lines {
		s.lines[i].Selected = selected
	}
	s.mu.Unlock()
	s.notify()
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Count is the cart badge value: the sum of quantities over all lines.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for i := range s.lines {
		total += s.lines[i].Quantity
	}
	return total
}

// SelectedTotal sums unit price times quantity over the selected lines.
func (s *Store) SelectedTotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for i := range s.lines {
		if s.lines[i].Selected {
			total += s.lines[i].UnitPriceMinor * int64(s.lines[i].Quantity)
		}
	}
	return total
}

// Open reports whether the cart view should be showing.
func (s *Store) Open() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// ToggleOpen flips the cart view flag.
func (s *Store) ToggleOpen() {
	s.mu.Lock()
	s.open = !s.open
	s.mu.Unlock()
	s.notify()
}

// Close hides the cart view.
func (s *Store) Close() {
	s.mu.Lock()
	s.open = false
	s.mu.Unlock()
	s.notify()
}
