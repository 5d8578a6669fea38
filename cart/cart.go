// Package cart maintains the working set of to-be-purchased items for the
// current run. The cart is deliberately not persisted: it is a session
// concept and an application restart starts from an empty cart.
package cart

import "sync"

// Line is one cart entry, unique per product id. Prices are carried in
// cents to keep totals exact.
type Line struct {
	ID         int64
	Name       string
	PriceCents int64
	Image      string
	Quantity   int
}

// Store is the in-memory cart shared by all views. Add merges by product
// id; Total is derived on every read and can never go stale.
type Store struct {
	mu    sync.RWMutex
	lines []Line

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// NewStore creates an empty cart.
func NewStore() *Store {
	return &Store{subs: make(map[int]func())}
}

// Add appends a line, or when a line with the same id already exists,
// adds the new quantity to the existing one. The caller is trusted on
// price and id; quantities below 1 are coerced to 1.
func (s *Store) Add(line Line) {
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.lines {
		if s.lines[i].ID == line.ID {
			s.lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, line)
	}
	s.mu.Unlock()

	s.notify()
}

// Remove deletes the line with the given product id. Removing an absent
// id is a no-op, not an error.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == id {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify()
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	s.notify()
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// ProductIDs returns the product ids in insertion order, the shape the
// order-creation payload wants.
func (s *Store) ProductIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.lines))
	for _, l := range s.lines {
		ids = append(ids, l.ID)
	}
	return ids
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// TotalCents recomputes the cart total on every call.
func (s *Store) TotalCents() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, l := range s.lines {
		total += l.PriceCents * int64(l.Quantity)
	}
	return total
}

// Subscribe registers fn to run synchronously after every mutation, the
// way a badge counter and the cart view both re-render from one store.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
