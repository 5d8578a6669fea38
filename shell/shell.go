// Package shell is the storefront's interactive front end: a command
// loop over the same stores and coordinator the views share, with
// guard-gated navigation standing in for routing.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/virtualpet/storefront/api"
	"github.com/virtualpet/storefront/auth"
	"github.com/virtualpet/storefront/cart"
	"github.com/virtualpet/storefront/checkout"
	"github.com/virtualpet/storefront/guard"
	"github.com/virtualpet/storefront/orders"
	"github.com/virtualpet/storefront/products"
	"github.com/virtualpet/storefront/session"
)

// Shell wires the stores, the coordinator and the services behind a
// prompt. It implements checkout.Navigator so the coordinator can drive
// navigation the same way the views do.
type Shell struct {
	session     *session.Store
	cart        *cart.Store
	coordinator *checkout.Coordinator
	auth        *auth.Service
	catalog     *products.Catalog
	orders      *orders.Service

	in      *bufio.Scanner
	out     io.Writer
	current Route
	log     zerolog.Logger
}

// Deps collects the components the shell runs on. The checkout
// coordinator is attached afterwards via SetCoordinator since it needs
// the shell as its Navigator.
type Deps struct {
	Session *session.Store
	Cart    *cart.Store
	Auth    *auth.Service
	Catalog *products.Catalog
	Orders  *orders.Service
}

// New creates the shell reading commands from in and rendering to out.
func New(deps Deps, in io.Reader, out io.Writer, log zerolog.Logger) *Shell {
	return &Shell{
		session: deps.Session,
		cart:    deps.Cart,
		auth:    deps.Auth,
		catalog: deps.Catalog,
		orders:  deps.Orders,
		in:      bufio.NewScanner(in),
		out:     out,
		current: RouteHome,
		log:     log.With().Str("component", "shell").Logger(),
	}
}

// SetCoordinator wires the checkout coordinator in after construction.
// The coordinator needs the shell as its Navigator, so the two are
// built in sequence and joined here.
func (s *Shell) SetCoordinator(c *checkout.Coordinator) {
	s.coordinator = c
}

// Navigate implements checkout.Navigator.
func (s *Shell) Navigate(view checkout.View) {
	switch view {
	case checkout.ViewLogin:
		s.NavigateTo(RouteLogin)
	case checkout.ViewOrders:
		s.NavigateTo(RouteOrders)
	}
}

// NavigateTo applies the route guard and switches the current view.
func (s *Shell) NavigateTo(route Route) {
	if required, guarded := guardedRoutes[route]; guarded {
		switch guard.Decide(required, s.session.Snapshot()) {
		case guard.RedirectToLogin:
			s.printf("Please log in first.\n")
			route = RouteLogin
		case guard.RedirectToHome:
			s.printf("You do not have access to that view.\n")
			route = RouteHome
		}
	}
	s.current = route
	s.log.Debug().Str("route", string(route)).Msg("navigated")
}

// Current returns the active route.
func (s *Shell) Current() Route {
	return s.current
}

// Run renders the current view and processes commands until the input
// ends, "quit" is entered, or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	s.render(ctx)
	for {
		s.printf("\nvpet [cart:%d] %s> ", s.cart.Len(), s.current)
		if !s.in.Scan() {
			return s.in.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		s.dispatch(ctx, line)
	}
}

func (s *Shell) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		s.printHelp()
	case "home":
		s.NavigateTo(RouteHome)
		s.render(ctx)
	case "catalog":
		category := ""
		if len(args) > 0 {
			category = args[0]
		}
		s.NavigateTo(RouteCatalog)
		s.renderCatalog(ctx, category)
	case "cart":
		s.NavigateTo(RouteCart)
		s.render(ctx)
	case "add":
		s.cmdAdd(ctx, args)
	case "remove":
		s.cmdRemove(args)
	case "clear":
		s.cart.Clear()
		s.printf("Cart cleared.\n")
	case "checkout":
		s.cmdCheckout(ctx)
	case "login":
		s.cmdLogin(ctx, args)
	case "register":
		s.cmdRegister(ctx)
	case "logout":
		s.cmdLogout()
	case "orders":
		s.NavigateTo(RouteOrders)
		s.render(ctx)
	case "backoffice":
		s.NavigateTo(RouteBackOffice)
		s.render(ctx)
	case "status":
		s.cmdSetStatus(ctx, args)
	default:
		s.printf("Unknown command %q. Try \"help\".\n", cmd)
	}
}

func (s *Shell) cmdAdd(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.printf("Usage: add <product-id> [quantity]\n")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		s.printf("Invalid product id %q.\n", args[0])
		return
	}
	quantity := 1
	if len(args) > 1 {
		if quantity, err = strconv.Atoi(args[1]); err != nil {
			s.printf("Invalid quantity %q.\n", args[1])
			return
		}
	}

	list, err := s.catalog.List(ctx, "")
	if err != nil {
		s.showError(err)
		return
	}
	for _, p := range list {
		if p.ID == id {
			s.cart.Add(cart.Line{ID: p.ID, Name: p.Title, PriceCents: p.PriceCents, Image: p.Image, Quantity: quantity})
			s.printf("Added %q x%d. Cart total: $%s\n", p.Title, quantity, products.FormatCents(s.cart.TotalCents()))
			return
		}
	}
	s.printf("No product with id %d.\n", id)
}

func (s *Shell) cmdRemove(args []string) {
	if len(args) == 0 {
		s.printf("Usage: remove <product-id>\n")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		s.printf("Invalid product id %q.\n", args[0])
		return
	}
	s.cart.Remove(id)
	s.printf("Removed. Cart total: $%s\n", products.FormatCents(s.cart.TotalCents()))
}

func (s *Shell) cmdCheckout(ctx context.Context) {
	err := s.coordinator.Checkout(ctx)
	switch {
	case err == nil:
		s.printf("Order placed.\n")
		s.render(ctx)
	case errors.Is(err, checkout.ErrAuthRequired):
		s.printf("Log in to finish your purchase; your cart is saved.\n")
		s.render(ctx)
	case errors.Is(err, checkout.ErrEmptyCart):
		s.printf("Your cart is empty.\n")
	case errors.Is(err, checkout.ErrInFlight):
		s.printf("A checkout is already in progress.\n")
	default:
		s.showError(err)
	}
}

func (s *Shell) cmdLogin(ctx context.Context, args []string) {
	if len(args) < 2 {
		s.printf("Usage: login <username> <password>\n")
		return
	}
	err := s.auth.Login(ctx, auth.Credentials{Username: args[0], Password: args[1]})
	if err != nil {
		s.showError(err)
		return
	}
	s.printf("Welcome back, %s!\n", args[0])
	s.reportResumedCheckout()
	// The coordinator may already have navigated to orders for a
	// resumed checkout; otherwise go home.
	if s.current == RouteLogin {
		s.NavigateTo(RouteHome)
	}
	s.render(ctx)
}

func (s *Shell) cmdRegister(ctx context.Context) {
	reg := auth.Registration{
		Name:            s.prompt("Name"),
		Surname:         s.prompt("Surname"),
		Email:           s.prompt("Email"),
		Address:         s.prompt("Address"),
		Phone:           s.prompt("Phone"),
		Username:        s.prompt("Username"),
		Password:        s.prompt("Password"),
		ConfirmPassword: s.prompt("Confirm password"),
	}
	if err := s.auth.Register(ctx, reg); err != nil {
		s.showError(err)
		return
	}
	s.printf("Account created. Welcome, %s!\n", reg.Username)
	s.reportResumedCheckout()
	if s.current == RouteLogin || s.current == RouteRegister {
		s.NavigateTo(RouteHome)
	}
	s.render(ctx)
}

// reportResumedCheckout surfaces a checkout that was parked behind the
// login view and failed when the coordinator resumed it. The success
// path already navigates to orders; only the failure is silent.
func (s *Shell) reportResumedCheckout() {
	if s.coordinator.State() != checkout.StateFailed {
		return
	}
	s.printf("Your saved checkout could not be completed; your cart is kept.\n")
	s.showError(s.coordinator.Err())
}

func (s *Shell) cmdLogout() {
	if err := s.session.Logout(); err != nil {
		s.showError(err)
		return
	}
	s.printf("Logged out.\n")
	s.NavigateTo(RouteHome)
}

func (s *Shell) cmdSetStatus(ctx context.Context, args []string) {
	if len(args) < 2 {
		s.printf("Usage: status <order-id> <new-status>\n")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		s.printf("Invalid order id %q.\n", args[0])
		return
	}
	status := strings.Join(args[1:], " ")
	if err := s.orders.SetStatus(ctx, id, status); err != nil {
		s.showError(err)
		return
	}
	s.printf("Order %d is now %q.\n", id, orders.DisplayLabel(status))
}

func (s *Shell) prompt(label string) string {
	s.printf("%s: ", label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

// showError maps an error onto the display taxonomy: field errors under
// their inputs, a general message as a banner line, and authorization
// failures as a forced re-login.
func (s *Shell) showError(err error) {
	if errors.Is(err, api.ErrUnauthorized) {
		s.printf("Your session has expired. Please log in again.\n")
		if logoutErr := s.session.Logout(); logoutErr != nil {
			s.log.Warn().Err(logoutErr).Msg("logout after authorization failure")
		}
		s.NavigateTo(RouteLogin)
		return
	}

	var flowErr *auth.FlowError
	if errors.As(err, &flowErr) {
		s.printf("! %s\n", flowErr.Message)
		fields := make([]string, 0, len(flowErr.Fields))
		for field := range flowErr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			s.printf("  %s: %s\n", field, flowErr.Fields[field])
		}
		return
	}

	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		s.printf("! %s\n", reqErr.Error())
		return
	}

	if errors.Is(err, api.ErrUnreachable) {
		s.printf("! Network error: unable to reach the server\n")
		return
	}

	s.printf("! %s\n", err.Error())
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
