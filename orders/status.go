// Package orders holds the order model shared by the storefront views
// and the back-office panel: status vocabulary, display labels, and the
// listing/status-change operations.
package orders

import "strings"

// Status is an order's fulfilment stage. Comparisons are done on the
// normalized (lowercase, trimmed) form; the backend is case-insensitive.
type Status string

const (
	StatusPending     Status = "pending"
	StatusProcessing  Status = "processing"
	StatusReadyToShip Status = "ready to ship"
	StatusShipped     Status = "shipped"
	StatusDelivered   Status = "delivered"
)

// NormalizeStatus lowercases and trims a raw status value.
func NormalizeStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// Valid reports whether s is one of the known statuses. s must already
// be normalized.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusReadyToShip, StatusShipped, StatusDelivered:
		return true
	}
	return false
}

// DisplayLabel returns the fixed label shown for a raw status value.
// Unknown statuses fall back to their normalized form.
func DisplayLabel(raw string) string {
	s := NormalizeStatus(raw)
	switch s {
	case "":
		return ""
	case StatusPending, StatusProcessing:
		return "en proceso"
	case StatusReadyToShip:
		return "listo para enviar"
	case StatusShipped:
		return "enviado"
	case StatusDelivered:
		return "entregado"
	default:
		return string(s)
	}
}
