package shell

import (
	"context"

	"github.com/virtualpet/storefront/orders"
	"github.com/virtualpet/storefront/products"
)

// render draws the current view.
func (s *Shell) render(ctx context.Context) {
	switch s.current {
	case RouteHome:
		s.renderHome()
	case RouteCatalog:
		s.renderCatalog(ctx, "")
	case RouteCart:
		s.renderCart()
	case RouteLogin:
		s.printf("-- Login --\nUse: login <username> <password>, or \"register\".\n")
	case RouteRegister:
		s.printf("-- Register --\nUse: register\n")
	case RouteOrders:
		s.renderOrders(ctx)
	case RouteBackOffice:
		s.renderBackOffice(ctx)
	}
}

func (s *Shell) renderHome() {
	s.printf("-- Virtual Pet --\nCategories:\n")
	for _, c := range products.Categories {
		s.printf("  %-24s (catalog %s)\n", c.Name, c.Slug)
	}
	s.printf("Commands: catalog [slug], add <id> [qty], cart, checkout, orders, help\n")
}

func (s *Shell) renderCatalog(ctx context.Context, category string) {
	list, err := s.catalog.List(ctx, category)
	if err != nil {
		s.showError(err)
		return
	}
	if len(list) == 0 {
		s.printf("No products found.\n")
		return
	}
	s.printf("-- Catalog --\n")
	for _, p := range list {
		s.printf("  #%-4d %-30s $%8s  [%s]\n", p.ID, p.Title, products.FormatCents(p.PriceCents), p.Category)
	}
}

func (s *Shell) renderCart() {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		s.printf("No items in cart.\n")
		return
	}
	s.printf("-- Cart --\n")
	for _, l := range lines {
		s.printf("  #%-4d %-30s x%-3d $%8s\n", l.ID, l.Name, l.Quantity, products.FormatCents(l.PriceCents*int64(l.Quantity)))
	}
	s.printf("Total: $%s\n", products.FormatCents(s.cart.TotalCents()))
}

func (s *Shell) renderOrders(ctx context.Context) {
	list, err := s.orders.Mine(ctx)
	if err != nil {
		s.showError(err)
		return
	}
	if len(list) == 0 {
		s.printf("No orders yet.\n")
		return
	}
	s.printf("-- My Orders --\n")
	for _, o := range list {
		s.printf("  #%-4d %d product(s)  %s\n", o.ID, len(o.Products), orders.DisplayLabel(o.Status))
	}
}

func (s *Shell) renderBackOffice(ctx context.Context) {
	list, err := s.orders.All(ctx)
	if err != nil {
		s.showError(err)
		return
	}
	s.printf("-- Back Office --\n")
	if len(list) == 0 {
		s.printf("No orders.\n")
	}
	for _, o := range list {
		s.printf("  #%-4d client %-5d %d product(s)  %s\n", o.ID, o.Client, len(o.Products), orders.DisplayLabel(o.Status))
	}
	s.printf("Use: status <order-id> <pending|processing|ready to ship|shipped|delivered>\n")
}

func (s *Shell) printHelp() {
	s.printf(`Commands:
  home                     show the home view
  catalog [slug]           browse products, optionally by category
  add <id> [qty]           add a product to the cart
  remove <id>              remove a product from the cart
  cart                     show the cart
  clear                    empty the cart
  checkout                 place an order for the cart
  login <user> <pass>      log in
  register                 create an account
  logout                   log out
  orders                   show your orders
  backoffice               staff: all orders
  status <id> <status>     staff: change an order's status
  quit                     leave
`)
}
