package auth

import "regexp"

// FieldErrors maps a form field to the message rendered under its input.
// Local validation failures never reach the network.
type FieldErrors map[string]string

var (
	emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigits   = regexp.MustCompile(`\D`)
)

// Credentials is the login form.
type Credentials struct {
	Username string
	Password string
}

// Registration is the three-step registration form.
type Registration struct {
	Name            string
	Surname         string
	Email           string
	Address         string
	Phone           string
	Username        string
	Password        string
	ConfirmPassword string
}

// Validator holds the field validation rules for the auth forms.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCredentials checks the login form.
func (v *Validator) ValidateCredentials(c Credentials) FieldErrors {
	errs := FieldErrors{}
	if c.Username == "" {
		errs["username"] = "Username is required"
	}
	if len(c.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	return errs
}

// ValidatePersonal checks step one of registration: name, surname, email.
func (v *Validator) ValidatePersonal(r Registration) FieldErrors {
	errs := FieldErrors{}
	if r.Name == "" {
		errs["name"] = "Name is required"
	}
	if r.Surname == "" {
		errs["surname"] = "Surname is required"
	}
	if !emailRegexp.MatchString(r.Email) {
		errs["email"] = "Please enter a valid email"
	}
	return errs
}

// ValidateContact checks step two: address and phone. The phone must
// contain at least ten digits once separators are stripped.
func (v *Validator) ValidateContact(r Registration) FieldErrors {
	errs := FieldErrors{}
	if r.Address == "" {
		errs["address"] = "Address is required"
	}
	if r.Phone == "" {
		errs["phone"] = "Phone number is required"
	} else if len(nonDigits.ReplaceAllString(r.Phone, "")) < 10 {
		errs["phone"] = "Phone number must have at least 10 digits"
	}
	return errs
}

// ValidateAccount checks step three: username, password, confirmation.
func (v *Validator) ValidateAccount(r Registration) FieldErrors {
	errs := FieldErrors{}
	if r.Username == "" {
		errs["username"] = "Username is required"
	}
	if len(r.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	if r.Password != r.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs
}

// ValidateRegistration runs all three steps and merges the results.
func (v *Validator) ValidateRegistration(r Registration) FieldErrors {
	errs := FieldErrors{}
	for _, step := range []FieldErrors{v.ValidatePersonal(r), v.ValidateContact(r), v.ValidateAccount(r)} {
		for field, message := range step {
			errs[field] = message
		}
	}
	return errs
}
