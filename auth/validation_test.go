package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/virtualpet/storefront/auth"
)

func validRegistration() auth.Registration {
	return auth.Registration{
		Name:            "John",
		Surname:         "Doe",
		Email:           "john.doe@example.com",
		Address:         "123 Pet Street",
		Phone:           "(011) 4567-8901",
		Username:        "john.doe",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func TestValidator_ValidateCredentials(t *testing.T) {
	v := auth.NewValidator()

	t.Run("valid", func(t *testing.T) {
		errs := v.ValidateCredentials(auth.Credentials{Username: "john.doe", Password: "secret123"})
		require.Empty(t, errs)
	})

	t.Run("missing username", func(t *testing.T) {
		errs := v.ValidateCredentials(auth.Credentials{Password: "secret123"})
		require.Contains(t, errs, "username")
	})

	t.Run("short password", func(t *testing.T) {
		errs := v.ValidateCredentials(auth.Credentials{Username: "john.doe", Password: "12345"})
		require.Contains(t, errs, "password")
	})
}

func TestValidator_ValidatePersonal(t *testing.T) {
	v := auth.NewValidator()

	t.Run("valid", func(t *testing.T) {
		require.Empty(t, v.ValidatePersonal(validRegistration()))
	})

	t.Run("bad email", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", "a@b", "a b@c.com"} {
			r := validRegistration()
			r.Email = email
			require.Contains(t, v.ValidatePersonal(r), "email", "email %q", email)
		}
	})

	t.Run("missing names", func(t *testing.T) {
		r := validRegistration()
		r.Name, r.Surname = "", ""
		errs := v.ValidatePersonal(r)
		require.Contains(t, errs, "name")
		require.Contains(t, errs, "surname")
	})
}

func TestValidator_ValidateContact(t *testing.T) {
	v := auth.NewValidator()

	t.Run("separators are ignored in the digit count", func(t *testing.T) {
		r := validRegistration()
		r.Phone = "(011) 4567-8901"
		require.Empty(t, v.ValidateContact(r))
	})

	t.Run("too few digits", func(t *testing.T) {
		r := validRegistration()
		r.Phone = "123-456"
		require.Contains(t, v.ValidateContact(r), "phone")
	})

	t.Run("missing address", func(t *testing.T) {
		r := validRegistration()
		r.Address = ""
		require.Contains(t, v.ValidateContact(r), "address")
	})
}

func TestValidator_ValidateAccount(t *testing.T) {
	v := auth.NewValidator()

	t.Run("password mismatch", func(t *testing.T) {
		r := validRegistration()
		r.ConfirmPassword = "different1"
		require.Contains(t, v.ValidateAccount(r), "confirmPassword")
	})

	t.Run("short password", func(t *testing.T) {
		r := validRegistration()
		r.Password, r.ConfirmPassword = "12345", "12345"
		require.Contains(t, v.ValidateAccount(r), "password")
	})
}

func TestValidator_ValidateRegistrationMergesAllSteps(t *testing.T) {
	v := auth.NewValidator()

	errs := v.ValidateRegistration(auth.Registration{})
	for _, field := range []string{"name", "surname", "email", "address", "phone", "username", "password"} {
		require.Contains(t, errs, field)
	}
}
