package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venuegate/storefront/internal/cart"
	"github.com/venuegate/storefront/internal/orders"
)

type fakeOrderStore struct {
	mu         sync.Mutex
	created    []orders.Order
	items      map[string][]orders.OrderItem
	createErr  error
	itemsErr   error
	createdSeq int
	block      chan struct{} // when set, CreateOrder waits until closed
	entered    chan struct{} // closed when CreateOrder is first reached
	enterOnce  sync.Once
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{items: map[string][]orders.OrderItem{}}
}

func (f *fakeOrderStore) CreateOrder(ctx context.Context, o orders.Order) (orders.Order, error) {
	if f.block != nil {
		f.enterOnce.Do(func() { close(f.entered) })
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return orders.Order{}, f.createErr
	}
	f.createdSeq++
	o.ID = "order-" + string(rune('0'+f.createdSeq))
	f.created = append(f.created, o)
	return o, nil
}

func (f *fakeOrderStore) InsertItems(ctx context.Context, orderID string, items []orders.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.itemsErr != nil {
		return f.itemsErr
	}
	f.items[orderID] = items
	return nil
}

func fullCart() *cart.Store {
	s := cart.NewStore()
	s.Add(cart.Item{ID: "t1", Name: "Day Pass", Price: 50, Type: "ticket"})
	s.Add(cart.Item{ID: "t1", Name: "Day Pass", Price: 50, Type: "ticket"})
	s.Add(cart.Item{ID: "c1", Name: "Family Combo", Price: 80, Type: "combo"})
	return s
}

func TestCheckoutEmptyCart(t *testing.T) {
	store := newFakeOrderStore()
	p := &Pipeline{Cart: cart.NewStore(), Orders: store}

	_, err := p.Checkout(context.Background(), Contact{Name: "Ana", Phone: "11999990000"})
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, store.created, "no remote call for an empty cart")
}

func TestCheckoutMissingContact(t *testing.T) {
	store := newFakeOrderStore()
	p := &Pipeline{Cart: fullCart(), Orders: store}

	_, err := p.Checkout(context.Background(), Contact{Name: "  ", Phone: "11999990000"})
	require.ErrorIs(t, err, ErrMissingContact)
	_, err = p.Checkout(context.Background(), Contact{Name: "Ana", Phone: ""})
	require.ErrorIs(t, err, ErrMissingContact)
	assert.Empty(t, store.created)
}

func TestCheckoutSuccess(t *testing.T) {
	store := newFakeOrderStore()
	c := fullCart()
	p := &Pipeline{Cart: c, Orders: store}

	rcpt, err := p.Checkout(context.Background(), Contact{Name: "Ana", Phone: "11999990000"})
	require.NoError(t, err)
	assert.InDelta(t, 180.0, rcpt.Total, 1e-9)
	assert.Equal(t, 3, rcpt.ItemCount)

	require.Len(t, store.created, 1)
	o := store.created[0]
	assert.Equal(t, "mixed", o.OrderType)
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.InDelta(t, 180.0, o.TotalAmount, 1e-9)

	lines := store.items[o.ID]
	require.Len(t, lines, 2)
	assert.Equal(t, "t1", lines[0].ItemID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.InDelta(t, 100.0, lines[0].Subtotal, 1e-9)
	assert.Equal(t, "c1", lines[1].ItemID)
	assert.InDelta(t, 80.0, lines[1].Subtotal, 1e-9)

	assert.Equal(t, 0, c.Len(), "cart cleared on success")
}

func TestCheckoutSingleTypeOrder(t *testing.T) {
	store := newFakeOrderStore()
	c := cart.NewStore()
	c.Add(cart.Item{ID: "t1", Price: 50, Type: "ticket"})
	p := &Pipeline{Cart: c, Orders: store}

	_, err := p.Checkout(context.Background(), Contact{Name: "Ana", Phone: "11999990000"})
	require.NoError(t, err)
	assert.Equal(t, "ticket", store.created[0].OrderType)
}

func TestCheckoutOrderCreateFailure(t *testing.T) {
	store := newFakeOrderStore()
	store.createErr = errors.New("connection refused")
	c := fullCart()
	p := &Pipeline{Cart: c, Orders: store}

	_, err := p.Checkout(context.Background(), Contact{Name: "Ana", Phone: "11999990000"})
	var ce *OrderCreateError
	require.ErrorAs(t, err, &ce)
	assert.Empty(t, store.items, "no items submitted after a failed create")
	assert.Equal(t, 2, c.Len(), "cart kept on failure")
}

func TestCheckoutItemsFailureKeepsPendingOrder(t *testing.T) {
	store := newFakeOrderStore()
	store.itemsErr = errors.New("batch rejected")
	c := fullCart()
	p := &Pipeline{Cart: c, Orders: store}

	_, err := p.Checkout(context.Background(), Contact{Name: "Ana", Phone: "11999990000"})
	var ie *OrderItemsError
	require.ErrorAs(t, err, &ie)
	require.Len(t, store.created, 1)
	assert.Equal(t, store.created[0].ID, ie.OrderID)
	assert.Equal(t, 2, c.Len(), "cart kept on failure")
}

func TestCheckoutReentrancy(t *testing.T) {
	store := newFakeOrderStore()
	store.block = make(chan struct{})
	store.entered = make(chan struct{})
	p := &Pipeline{Cart: fullCart(), Orders: store}

	done := make(chan error, 1)
	go func() {
		_, err := p.Checkout(context.Background(), Contact{Name: "Ana", Phone: "11999990000"})
		done <- err
	}()

	// second call while the first is blocked inside the store
	<-store.entered
	_, err := p.Checkout(context.Background(), Contact{Name: "Ana", Phone: "11999990000"})
	assert.ErrorIs(t, err, ErrInFlight)

	close(store.block)
	require.NoError(t, <-done)
}

func TestDeriveOrderType(t *testing.T) {
	assert.Equal(t, "ticket", DeriveOrderType(nil))
	assert.Equal(t, "menu", DeriveOrderType([]cart.Item{{ID: "m1", Type: "menu"}}))
	assert.Equal(t, "mixed", DeriveOrderType([]cart.Item{
		{ID: "t1", Type: "ticket"}, {ID: "c1", Type: "combo"},
	}))
	// untyped lines are ignored for derivation
	assert.Equal(t, "ticket", DeriveOrderType([]cart.Item{{ID: "x"}}))
}
