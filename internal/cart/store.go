package cart

import "sync"

// Item is one selectable product in the cart. ID is the uniqueness key; the
// same product added twice merges into one line with a higher quantity.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Type     string  `json:"type"` // ticket | combo | menu
	ImageURL string  `json:"image_url"`
}

// Store holds the line items of one client session. It is never persisted;
// checkout drains it. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	items   []Item
	nextSub int
	subs    map[int]func([]Item)
}

func NewStore() *Store {
	return &Store{subs: map[int]func([]Item){}}
}

// Add merges by id: an existing line gains quantity 1, a new line starts at 1.
func (s *Store) Add(it Item) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == it.ID {
			s.items[i].Quantity++
			s.notifyLocked()
			return
		}
	}
	it.Quantity = 1
	s.items = append(s.items, it)
	s.notifyLocked()
}

// UpdateQuantity sets the line's quantity; zero or less removes the line.
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		s.Remove(id)
		return
	}
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			s.notifyLocked()
			return
		}
	}
	s.mu.Unlock()
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.notifyLocked()
			return
		}
	}
	s.mu.Unlock()
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.notifyLocked()
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total is Σ price×quantity, unrounded; display rounding happens at the edge.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// ItemCount is Σ quantity over all lines (badge count).
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// Subscribe registers fn to run after every mutation with a snapshot of the
// lines. The returned func cancels the subscription.
func (s *Store) Subscribe(fn func(items []Item)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notifyLocked releases the lock and invokes observers with a fresh snapshot.
// Callers must hold s.mu and must not touch state afterwards.
func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	fns := make([]func([]Item), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}
