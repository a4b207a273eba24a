package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticket(id string, price float64) Item {
	return Item{ID: id, Name: "Ticket " + id, Price: price, Type: "ticket"}
}

func TestAddDistinctIDs(t *testing.T) {
	s := NewStore()
	s.Add(ticket("t1", 50))
	s.Add(ticket("t2", 30))
	s.Add(ticket("t3", 20))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, s.ItemCount())
	assert.InDelta(t, 100.0, s.Total(), 1e-9)
}

func TestAddSameIDMerges(t *testing.T) {
	s := NewStore()
	s.Add(ticket("t1", 50))
	s.Add(ticket("t1", 50))

	require.Equal(t, 1, s.Len())
	assert.Equal(t, 2, s.Items()[0].Quantity)
	assert.Equal(t, 2, s.ItemCount())
}

func TestUpdateQuantity(t *testing.T) {
	s := NewStore()
	s.Add(ticket("t1", 50))

	s.UpdateQuantity("t1", 5)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 5, s.Items()[0].Quantity)

	// zero removes the line
	s.UpdateQuantity("t1", 0)
	assert.Equal(t, 0, s.Len())

	// unknown id is a no-op
	s.UpdateQuantity("missing", 3)
	assert.Equal(t, 0, s.Len())
}

func TestRemoveAndClear(t *testing.T) {
	s := NewStore()
	s.Add(ticket("t1", 50))
	s.Add(ticket("t2", 30))

	s.Remove("t1")
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "t2", s.Items()[0].ID)

	s.Remove("missing")
	assert.Equal(t, 1, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.ItemCount())
	assert.Zero(t, s.Total())
}

func TestTotalOrderIndependent(t *testing.T) {
	a := NewStore()
	a.Add(ticket("t1", 50))
	a.Add(ticket("t1", 50))
	a.Add(Item{ID: "c1", Price: 80, Type: "combo"})

	b := NewStore()
	b.Add(Item{ID: "c1", Price: 80, Type: "combo"})
	b.Add(ticket("t1", 50))
	b.Add(ticket("t1", 50))

	assert.InDelta(t, a.Total(), b.Total(), 1e-9)
	assert.InDelta(t, 180.0, a.Total(), 1e-9)
	assert.Equal(t, 3, a.ItemCount())
}

func TestSubscribe(t *testing.T) {
	s := NewStore()
	var got [][]Item
	cancel := s.Subscribe(func(items []Item) {
		got = append(got, items)
	})

	s.Add(ticket("t1", 50))
	s.UpdateQuantity("t1", 2)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[1][0].Quantity)

	cancel()
	s.Clear()
	assert.Len(t, got, 2, "no notifications after cancel")
}
