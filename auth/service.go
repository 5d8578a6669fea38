// Package auth drives the login and registration flows: local field
// validation, the API exchange, and the atomic session update on success.
package auth

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/virtualpet/storefront/api"
	"github.com/virtualpet/storefront/session"
)

// API is the slice of the REST client the auth flows need.
type API interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
}

// Service orchestrates login and registration. Each operation carries
// its own in-flight guard; a second trigger while one is pending returns
// ErrInFlight instead of issuing a duplicate request.
type Service struct {
	api       API
	session   *session.Store
	validator *Validator

	loginInFlight    atomic.Bool
	registerInFlight atomic.Bool

	log zerolog.Logger
}

// NewService creates the auth service around the API client and the
// session store.
func NewService(apiClient API, sessionStore *session.Store, log zerolog.Logger) *Service {
	return &Service{
		api:       apiClient,
		session:   sessionStore,
		validator: NewValidator(),
		log:       log.With().Str("component", "auth").Logger(),
	}
}

// Login validates the credentials, exchanges them for a token pair and
// applies the user/token/role tuple to the session as one group.
func (s *Service) Login(ctx context.Context, creds Credentials) error {
	if !s.loginInFlight.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer s.loginInFlight.Store(false)

	if errs := s.validator.ValidateCredentials(creds); len(errs) > 0 {
		return &FlowError{Message: "Please fix the highlighted fields", Fields: errs}
	}

	resp, err := s.api.Login(ctx, api.LoginRequest{Username: creds.Username, Password: creds.Password})
	if err != nil {
		return flowError(err, "Login failed. Please try again.")
	}

	return s.applySession(resp)
}

// Register validates the whole registration form, creates the account
// and logs the new user in with the returned token pair. The role is
// always the customer role; staff accounts are provisioned elsewhere.
func (s *Service) Register(ctx context.Context, reg Registration) error {
	if !s.registerInFlight.CompareAndSwap(false, true) {
		return ErrInFlight
	}
	defer s.registerInFlight.Store(false)

	if errs := s.validator.ValidateRegistration(reg); len(errs) > 0 {
		return &FlowError{Message: "Please fix the highlighted fields", Fields: errs}
	}

	resp, err := s.api.Register(ctx, api.RegisterRequest{
		Username:  reg.Username,
		Email:     reg.Email,
		Password:  reg.Password,
		Role:      string(session.RoleCustomer),
		Address:   reg.Address,
		Phone:     reg.Phone,
		FirstName: reg.Name,
		LastName:  reg.Surname,
	})
	if err != nil {
		return flowError(err, "Registration failed. Please try again.")
	}

	return s.applySession(resp)
}

func (s *Service) applySession(resp *api.AuthResponse) error {
	token := oauth2.Token{AccessToken: resp.Access, RefreshToken: resp.Refresh}
	if err := s.session.Login(resp.User, token); err != nil {
		return &FlowError{Message: "Could not save the session", cause: err}
	}
	return nil
}

// flowError maps API failures into the taxonomy the forms display:
// backend field errors merge into the per-field display, the detail
// message (or the fallback) becomes the dismissible banner, transport
// failures get the generic unreachable message.
func flowError(err error, fallback string) error {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		message := reqErr.Detail
		if message == "" {
			message = fallback
		}
		return &FlowError{Message: message, Fields: reqErr.FieldMessages(), cause: err}
	}
	if errors.Is(err, api.ErrUnreachable) {
		return &FlowError{Message: "Network error: unable to reach the server", cause: err}
	}
	return &FlowError{Message: fallback, cause: err}
}
