package checkout_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/virtualpet/storefront/api"
	"github.com/virtualpet/storefront/cart"
	"github.com/virtualpet/storefront/checkout"
	"github.com/virtualpet/storefront/internal/utils"
	"github.com/virtualpet/storefront/session"
	"github.com/virtualpet/storefront/storage/memorykv"
)

type fakeNavigator struct {
	mu    sync.Mutex
	views []checkout.View
}

func (n *fakeNavigator) Navigate(view checkout.View) {
	n.mu.Lock()
	n.views = append(n.views, view)
	n.mu.Unlock()
}

func (n *fakeNavigator) last() checkout.View {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.views) == 0 {
		return ""
	}
	return n.views[len(n.views)-1]
}

type fakeOrders struct {
	mu       sync.Mutex
	requests []api.CreateOrderRequest
	err      error
}

func (f *fakeOrders) CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*api.Order, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &api.Order{ID: 42, Client: req.Client, Products: req.Products, Status: req.Status}, nil
}

func (f *fakeOrders) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fixture struct {
	cart    *cart.Store
	session *session.Store
	orders  *fakeOrders
	nav     *fakeNavigator
	flags   *memorykv.Store
	coord   *checkout.Coordinator
}

func setup(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		cart:    cart.NewStore(),
		session: session.NewStore(memorykv.New(), memorykv.New(), zerolog.Nop()),
		orders:  &fakeOrders{},
		nav:     &fakeNavigator{},
		flags:   memorykv.New(),
	}
	f.coord = checkout.NewCoordinator(f.cart, f.session, f.orders, f.flags, f.nav, zerolog.Nop())
	t.Cleanup(f.coord.Close)
	return f
}

func (f *fixture) fillCart() {
	f.cart.Add(cart.Line{ID: 1, Name: "Dog Food - 5kg", PriceCents: 2999, Quantity: 1})
	f.cart.Add(cart.Line{ID: 2, Name: "Cat Toy", PriceCents: 999, Quantity: 2})
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	err := f.session.Login(session.User{
		ID:       utils.Ptr(int64(7)),
		Username: "john.doe",
		Role:     session.RoleCustomer,
	}, oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1"})
	require.NoError(t, err)
}

func TestCheckout_AuthenticatedSubmitsImmediately(t *testing.T) {
	f := setup(t)
	f.login(t)
	f.fillCart()

	require.NoError(t, f.coord.Checkout(context.Background()))

	require.Equal(t, 1, f.orders.calls())
	req := f.orders.requests[0]
	require.Equal(t, int64(7), req.Client)
	require.Nil(t, req.Employee)
	require.Equal(t, []int64{1, 2}, req.Products)
	require.Equal(t, "pending", req.Status)

	require.Zero(t, f.cart.Len())
	require.Equal(t, checkout.ViewOrders, f.nav.last())
	require.Equal(t, checkout.StateDone, f.coord.State())
}

func TestCheckout_UnauthenticatedParksBehindLogin(t *testing.T) {
	f := setup(t)
	f.fillCart()

	err := f.coord.Checkout(context.Background())
	require.ErrorIs(t, err, checkout.ErrAuthRequired)

	// No order call, flag set, cart untouched, login view shown.
	require.Zero(t, f.orders.calls())
	require.True(t, f.coord.Pending())
	require.Equal(t, 2, f.cart.Len())
	require.Equal(t, checkout.ViewLogin, f.nav.last())
	require.Equal(t, checkout.StateAwaitingAuth, f.coord.State())
}

func TestCheckout_ResumesExactlyOnceAfterLogin(t *testing.T) {
	f := setup(t)
	f.fillCart()

	require.ErrorIs(t, f.coord.Checkout(context.Background()), checkout.ErrAuthRequired)

	// Login applies the full tuple and triggers the resume effect.
	f.login(t)

	require.Equal(t, 1, f.orders.calls())
	require.False(t, f.coord.Pending())
	require.Zero(t, f.cart.Len())
	require.Equal(t, checkout.ViewOrders, f.nav.last())

	// Further session mutations must not re-fire the resume.
	require.NoError(t, f.session.SetRole(session.RoleCustomer))
	u := session.User{ID: utils.Ptr(int64(7)), Username: "john.doe", Role: session.RoleCustomer}
	f.session.SetUser(&u)
	require.Equal(t, 1, f.orders.calls())
}

func TestCheckout_NoResumeWithoutPendingFlag(t *testing.T) {
	f := setup(t)
	f.fillCart()

	f.login(t)

	require.Zero(t, f.orders.calls())
	require.Equal(t, checkout.StateIdle, f.coord.State())
}

func TestCheckout_PartialSessionUpdateDoesNotResume(t *testing.T) {
	f := setup(t)
	f.fillCart()
	require.ErrorIs(t, f.coord.Checkout(context.Background()), checkout.ErrAuthRequired)

	// Token alone is a partial update; the resume waits for the full
	// tuple with the user (and client id) present.
	f.session.SetAccessToken("access-1")
	require.Zero(t, f.orders.calls())
	require.True(t, f.coord.Pending())

	f.login(t)
	require.Equal(t, 1, f.orders.calls())
}

func TestCheckout_FailureKeepsCartForRetry(t *testing.T) {
	f := setup(t)
	f.login(t)
	f.fillCart()
	f.orders.err = &api.RequestError{StatusCode: 500, Detail: "boom"}

	err := f.coord.Checkout(context.Background())
	require.Error(t, err)

	require.Equal(t, checkout.StateFailed, f.coord.State())
	require.Error(t, f.coord.Err())
	require.Equal(t, 2, f.cart.Len())

	// Retry after the backend recovers.
	f.orders.err = nil
	require.NoError(t, f.coord.Checkout(context.Background()))
	require.Equal(t, checkout.StateDone, f.coord.State())
	require.NoError(t, f.coord.Err())
	require.Zero(t, f.cart.Len())
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	f := setup(t)
	f.login(t)

	require.ErrorIs(t, f.coord.Checkout(context.Background()), checkout.ErrEmptyCart)
	require.Zero(t, f.orders.calls())
}

func TestCheckout_EmptiedCartDoesNotResume(t *testing.T) {
	f := setup(t)
	f.fillCart()

	require.ErrorIs(t, f.coord.Checkout(context.Background()), checkout.ErrAuthRequired)
	require.True(t, f.coord.Pending())

	// The user abandons the purchase while parked on the login view.
	f.cart.Clear()
	f.login(t)

	require.Zero(t, f.orders.calls())
	require.False(t, f.coord.Pending())
	require.Equal(t, checkout.StateIdle, f.coord.State())
}

func TestCheckout_MissingClientIDParks(t *testing.T) {
	f := setup(t)
	f.fillCart()

	// Token present but no client id: cannot build the order payload,
	// so the checkout is parked the same as unauthenticated.
	f.session.SetAccessToken("access-1")

	require.ErrorIs(t, f.coord.Checkout(context.Background()), checkout.ErrAuthRequired)
	require.True(t, f.coord.Pending())
}

func TestCheckout_FullRoundTripScenario(t *testing.T) {
	f := setup(t)

	// Unauthenticated user fills the cart and clicks checkout.
	f.fillCart()
	require.ErrorIs(t, f.coord.Checkout(context.Background()), checkout.ErrAuthRequired)
	require.Equal(t, checkout.ViewLogin, f.nav.last())

	// Valid login: the order is placed automatically, the cart empties
	// and the orders view is shown without a second checkout click.
	f.login(t)

	require.Equal(t, 1, f.orders.calls())
	require.Equal(t, []int64{1, 2}, f.orders.requests[0].Products)
	require.Zero(t, f.cart.Len())
	require.Equal(t, checkout.ViewOrders, f.nav.last())
	require.False(t, f.coord.Pending())
}
