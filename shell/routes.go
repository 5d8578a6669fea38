package shell

import "github.com/virtualpet/storefront/session"

// Route identifies one view of the storefront.
type Route string

const (
	RouteHome       Route = "home"
	RouteCatalog    Route = "catalog"
	RouteCart       Route = "cart"
	RouteLogin      Route = "login"
	RouteRegister   Route = "register"
	RouteOrders     Route = "orders"
	RouteBackOffice Route = "backoffice"
)

// guardedRoutes lists the views that require authentication, with the
// roles allowed to see them. A nil role list admits any authenticated
// session. Everything else renders for everyone.
var guardedRoutes = map[Route][]session.Role{
	RouteOrders:     nil,
	RouteBackOffice: {session.RoleStaff},
}
