// Package checkout reconciles "buy now" with "maybe not logged in yet":
// an authenticated checkout submits the order immediately, an
// unauthenticated one parks the intent behind a login redirect and is
// resumed exactly once after the session becomes authenticated.
package checkout

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/virtualpet/storefront/api"
	"github.com/virtualpet/storefront/cart"
	"github.com/virtualpet/storefront/orders"
	"github.com/virtualpet/storefront/session"
	"github.com/virtualpet/storefront/storage"
)

// State is the coordinator's position in the checkout machine.
type State int

const (
	StateIdle State = iota
	StateAwaitingAuth
	StateSubmitting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingAuth:
		return "awaiting-auth"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// View identifies the navigation targets the coordinator drives.
type View string

const (
	ViewLogin  View = "login"
	ViewOrders View = "orders"
)

// Navigator performs view navigation on behalf of the coordinator.
type Navigator interface {
	Navigate(view View)
}

// OrderCreator is the slice of the REST client the coordinator needs.
// *api.Client satisfies it.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*api.Order, error)
}

const pendingCheckoutKey = "pending_checkout"

var (
	// ErrEmptyCart rejects a checkout with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInFlight rejects a checkout while one is already submitting.
	ErrInFlight = errors.New("checkout already in progress")
	// ErrAuthRequired reports that the checkout was parked behind the
	// login view. It is a deferral, not a failure.
	ErrAuthRequired = errors.New("authentication required")
)

// Coordinator owns the checkout state machine. The pending-checkout flag
// lives in session-scoped storage so it survives the in-app redirect to
// the login view but never a restart; the cart itself is left untouched
// across that round trip.
type Coordinator struct {
	mu      sync.Mutex
	state   State
	lastErr error

	cart     *cart.Store
	session  *session.Store
	orders   OrderCreator
	flags    storage.KV
	nav      Navigator
	inFlight atomic.Bool

	unsubscribe func()
	log         zerolog.Logger
}

// NewCoordinator wires the coordinator and subscribes it to session
// changes so a parked checkout resumes after login. Call Close to drop
// the subscription.
func NewCoordinator(cartStore *cart.Store, sessionStore *session.Store, orderAPI OrderCreator, flags storage.KV, nav Navigator, log zerolog.Logger) *Coordinator {
	c := &Coordinator{
		cart:    cartStore,
		session: sessionStore,
		orders:  orderAPI,
		flags:   flags,
		nav:     nav,
		log:     log.With().Str("component", "checkout").Logger(),
	}
	c.unsubscribe = sessionStore.Subscribe(c.onSessionChange)
	return c
}

// Close removes the session subscription.
func (c *Coordinator) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// State returns the coordinator's current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the failure behind StateFailed, nil otherwise.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFailed {
		return nil
	}
	return c.lastErr
}

// Pending reports whether a parked checkout is outstanding.
func (c *Coordinator) Pending() bool {
	_, ok, err := c.flags.Get(pendingCheckoutKey)
	if err != nil {
		c.log.Warn().Err(err).Msg("reading pending-checkout flag")
		return false
	}
	return ok
}

// Checkout attempts to place an order for the current cart.
//
// Authenticated with a client id: submits immediately. Unauthenticated:
// sets the pending-checkout flag, navigates to the login view and
// returns ErrAuthRequired, leaving the cart untouched. On success the
// cart is cleared and the orders view is shown; on failure the cart is
// kept so the user may retry.
func (c *Coordinator) Checkout(ctx context.Context) error {
	if !c.inFlight.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer c.inFlight.Store(false)

	if c.cart.Len() == 0 {
		return ErrEmptyCart
	}

	clientID, haveClient := c.session.ClientID()
	if !c.session.Authenticated() || !haveClient {
		if err := c.flags.Set(pendingCheckoutKey, "1"); err != nil {
			return errors.Wrap(err, "[Checkout] set pending-checkout flag")
		}
		c.setState(StateAwaitingAuth)
		c.log.Info().Msg("checkout parked behind login")
		c.nav.Navigate(ViewLogin)
		return ErrAuthRequired
	}

	return c.submit(ctx, clientID)
}

// onSessionChange resumes a parked checkout once the session transitions
// to authenticated with the full login tuple applied. The flag is
// consumed before the network call so a re-trigger can never submit the
// order twice.
func (c *Coordinator) onSessionChange(snap session.Snapshot) {
	if !snap.Authenticated() || snap.User == nil || snap.User.ID == nil {
		return
	}
	if !c.Pending() {
		return
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer c.inFlight.Store(false)

	// Consume the flag first: at most one resume per flag-set.
	if err := c.flags.Delete(pendingCheckoutKey); err != nil {
		c.log.Error().Err(err).Msg("clearing pending-checkout flag")
		return
	}

	// The cart may have been emptied while the checkout was parked.
	if c.cart.Len() == 0 {
		c.log.Info().Msg("discarding parked checkout for an emptied cart")
		c.setState(StateIdle)
		return
	}

	c.log.Info().Msg("resuming parked checkout")
	if err := c.submit(context.Background(), *snap.User.ID); err != nil {
		c.log.Warn().Err(err).Msg("resumed checkout failed")
	}
}

func (c *Coordinator) submit(ctx context.Context, clientID int64) error {
	c.setState(StateSubmitting)

	req := api.CreateOrderRequest{
		Client:   clientID,
		Employee: nil,
		Products: c.cart.ProductIDs(),
		Status:   string(orders.StatusPending),
	}

	order, err := c.orders.CreateOrder(ctx, req)
	if err != nil {
		c.mu.Lock()
		c.state = StateFailed
		c.lastErr = err
		c.mu.Unlock()
		return errors.Wrap(err, "[Checkout] create order")
	}

	c.cart.Clear()
	c.setState(StateDone)
	c.log.Info().Int64("order_id", order.ID).Int("products", len(req.Products)).Msg("order placed")
	c.nav.Navigate(ViewOrders)
	return nil
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	if s != StateFailed {
		c.lastErr = nil
	}
	c.mu.Unlock()
}
