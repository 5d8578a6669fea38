// Package session is the single source of truth for "who is logged in and
// with what credential" for the lifetime of one application run.
package session

import "golang.org/x/oauth2"

// Role is a coarse authorization category controlling which views are
// reachable. Values are the API's wire values.
type Role string

const (
	RoleCustomer Role = "cliente"
	RoleStaff    Role = "admin"
)

// User is the minimal identity returned by the auth endpoints.
type User struct {
	ID       *int64 `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Snapshot is an immutable view of the session state, handed to
// subscribers and to the route guard.
type Snapshot struct {
	User  *User
	Token oauth2.Token // access + refresh pair; zero value when logged out
	Role  Role         // may be set before User during rehydration
}

// Authenticated reports whether a credential is present. Absence of a
// token is simply "not authenticated", never an error.
func (s Snapshot) Authenticated() bool {
	return s.Token.AccessToken != ""
}

// record is the durable auth record, written atomically on login and
// registration and cleared on logout. Field names match what the API
// frontend historically stored.
type record struct {
	ClientID     *int64 `json:"client_id"`
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
