package cart_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/virtualpet/storefront/cart"
)

func TestStore_AddMergesByID(t *testing.T) {
	s := cart.NewStore()

	s.Add(cart.Line{ID: 1, Name: "Dog Food - 5kg", PriceCents: 2999, Quantity: 1})
	s.Add(cart.Line{ID: 2, Name: "Cat Toy", PriceCents: 999, Quantity: 2})
	s.Add(cart.Line{ID: 1, Name: "Dog Food - 5kg", PriceCents: 2999, Quantity: 3})

	lines := s.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, int64(1), lines[0].ID)
	require.Equal(t, 4, lines[0].Quantity)
	require.Equal(t, int64(2), lines[1].ID)
	require.Equal(t, 2, lines[1].Quantity)
}

func TestStore_QuantityAccumulatesAcrossSequences(t *testing.T) {
	s := cart.NewStore()

	// Arbitrary interleaving over a finite id set: one line per distinct
	// id, quantity equal to the sum passed for that id.
	adds := []struct {
		id  int64
		qty int
	}{
		{1, 1}, {2, 2}, {3, 1}, {1, 2}, {3, 3}, {2, 1}, {1, 1},
	}
	want := map[int64]int{}
	for _, a := range adds {
		s.Add(cart.Line{ID: a.id, PriceCents: 100, Quantity: a.qty})
		want[a.id] += a.qty
	}

	lines := s.Lines()
	require.Len(t, lines, len(want))
	for _, l := range lines {
		require.Equal(t, want[l.ID], l.Quantity, "id %d", l.ID)
	}
}

func TestStore_RemoveThenAddLeavesNoResidual(t *testing.T) {
	s := cart.NewStore()

	s.Add(cart.Line{ID: 5, PriceCents: 500, Quantity: 4})
	s.Remove(5)
	s.Add(cart.Line{ID: 5, PriceCents: 500, Quantity: 2})

	lines := s.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)
}

func TestStore_RemoveAbsentIsNoOp(t *testing.T) {
	s := cart.NewStore()
	s.Add(cart.Line{ID: 1, PriceCents: 100, Quantity: 1})

	s.Remove(99)

	require.Equal(t, 1, s.Len())
}

func TestStore_Total(t *testing.T) {
	s := cart.NewStore()
	require.Zero(t, s.TotalCents())

	// cart = [{id:1, price:10, qty:2}, {id:2, price:5, qty:1}] -> 25.00
	s.Add(cart.Line{ID: 1, PriceCents: 1000, Quantity: 2})
	s.Add(cart.Line{ID: 2, PriceCents: 500, Quantity: 1})
	require.Equal(t, int64(2500), s.TotalCents())

	// add {id:1, qty:1} -> quantity 3, total 35.00
	s.Add(cart.Line{ID: 1, PriceCents: 1000, Quantity: 1})
	require.Equal(t, int64(3500), s.TotalCents())

	s.Remove(2)
	require.Equal(t, int64(3000), s.TotalCents())

	s.Clear()
	require.Zero(t, s.TotalCents())
	require.Empty(t, s.Lines())
}

func TestStore_QuantityBelowOneCoerced(t *testing.T) {
	s := cart.NewStore()
	s.Add(cart.Line{ID: 1, PriceCents: 100, Quantity: 0})

	require.Equal(t, 1, s.Lines()[0].Quantity)
}

func TestStore_ProductIDsInInsertionOrder(t *testing.T) {
	s := cart.NewStore()
	s.Add(cart.Line{ID: 3, PriceCents: 1, Quantity: 1})
	s.Add(cart.Line{ID: 1, PriceCents: 1, Quantity: 1})
	s.Add(cart.Line{ID: 2, PriceCents: 1, Quantity: 1})
	s.Add(cart.Line{ID: 1, PriceCents: 1, Quantity: 1}) // merge, order unchanged

	require.Equal(t, []int64{3, 1, 2}, s.ProductIDs())
}

func TestStore_SubscribersObserveEveryMutation(t *testing.T) {
	s := cart.NewStore()

	badge, view := 0, 0
	s.Subscribe(func() { badge++ })
	unsubscribe := s.Subscribe(func() { view++ })

	s.Add(cart.Line{ID: 1, PriceCents: 100, Quantity: 1})
	s.Remove(1)
	require.Equal(t, 2, badge)
	require.Equal(t, 2, view)

	unsubscribe()
	s.Clear()
	require.Equal(t, 3, badge)
	require.Equal(t, 2, view)
}
