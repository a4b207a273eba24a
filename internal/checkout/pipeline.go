package checkout

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/venuegate/storefront/internal/cart"
	kafkax "github.com/venuegate/storefront/internal/kafka"
	"github.com/venuegate/storefront/internal/orders"
)

// OrderStore is the remote order surface. The two writes are deliberately
// separate calls: a failed items insert leaves a pending order with no items.
type OrderStore interface {
	CreateOrder(ctx context.Context, o orders.Order) (orders.Order, error)
	InsertItems(ctx context.Context, orderID string, items []orders.OrderItem) error
}

type Contact struct {
	Name  string
	Phone string
}

type Receipt struct {
	OrderID   string
	Total     float64
	ItemCount int
}

// Pipeline submits the cart as an order. One submission at a time; a second
// call while one is outstanding returns ErrInFlight.
type Pipeline struct {
	Cart    *cart.Store
	Orders  OrderStore
	Events  *kafkax.Producer // optional
	Service string

	inFlight atomic.Bool
}

func (p *Pipeline) Checkout(ctx context.Context, contact Contact) (Receipt, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return Receipt{}, ErrInFlight
	}
	defer p.inFlight.Store(false)

	items := p.Cart.Items()
	if len(items) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	name := strings.TrimSpace(contact.Name)
	phone := strings.TrimSpace(contact.Phone)
	if name == "" || phone == "" {
		return Receipt{}, ErrMissingContact
	}

	total := p.Cart.Total()
	order := orders.Order{
		UserName:    name,
		UserPhone:   phone,
		TotalAmount: total,
		OrderType:   DeriveOrderType(items),
		Status:      orders.StatusPending,
	}

	created, err := p.Orders.CreateOrder(ctx, order)
	if err != nil {
		return Receipt{}, &OrderCreateError{Err: err}
	}

	lines := make([]orders.OrderItem, 0, len(items))
	for _, it := range items {
		lines = append(lines, orders.OrderItem{
			OrderID:   created.ID,
			ItemType:  it.Type,
			ItemID:    it.ID,
			ItemName:  it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			Subtotal:  it.Price * float64(it.Quantity),
		})
	}
	if err := p.Orders.InsertItems(ctx, created.ID, lines); err != nil {
		return Receipt{}, &OrderItemsError{OrderID: created.ID, Err: err}
	}

	p.publishPlaced(created, lines)
	p.Cart.Clear()

	return Receipt{OrderID: created.ID, Total: total, ItemCount: countItems(items)}, nil
}

// DeriveOrderType collapses the distinct line types: one type keeps its name,
// several become "mixed", none (defensive) defaults to ticket.
func DeriveOrderType(items []cart.Item) string {
	seen := map[string]bool{}
	var distinct []string
	for _, it := range items {
		if it.Type != "" && !seen[it.Type] {
			seen[it.Type] = true
			distinct = append(distinct, it.Type)
		}
	}
	switch len(distinct) {
	case 0:
		return orders.TypeTicket
	case 1:
		return distinct[0]
	default:
		return orders.TypeMixed
	}
}

func (p *Pipeline) publishPlaced(o orders.Order, lines []orders.OrderItem) {
	if p.Events == nil {
		return
	}
	placed := make([]orders.PlacedItem, 0, len(lines))
	for _, l := range lines {
		placed = append(placed, orders.PlacedItem{
			ItemID:    l.ItemID,
			ItemType:  l.ItemType,
			ItemName:  l.ItemName,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.Service,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderPlacedPayload{
			OrderID:     o.ID,
			UserName:    o.UserName,
			UserPhone:   o.UserPhone,
			OrderType:   o.OrderType,
			Items:       placed,
			TotalAmount: o.TotalAmount,
		}),
	}
	p.Events.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func countItems(items []cart.Item) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
