package dto

import (
	"regexp"
	"strings"

	"github.com/anupgautam23/oms-frontend/internal/domain"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// MinPasswordLength applies to registration only.
const MinPasswordLength = 6

// LoginRequest payload for sign in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate returns per-field messages.
func (r LoginRequest) Validate() map[string]string {
	errs := map[string]string{}
	validateEmail(errs, r.Email)
	if r.Password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate returns per-field messages.
func (r RegisterRequest) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "Full name is required"
	}
	validateEmail(errs, r.Email)
	switch {
	case r.Password == "":
		errs["password"] = "Password is required"
	case len(r.Password) < MinPasswordLength:
		errs["password"] = "Password must be at least 6 characters"
	}
	switch {
	case r.ConfirmPassword == "":
		errs["confirmPassword"] = "Please confirm your password"
	case r.ConfirmPassword != r.Password:
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs
}

func validateEmail(errs map[string]string, email string) {
	switch {
	case strings.TrimSpace(email) == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(email):
		errs["email"] = "Please enter a valid email"
	}
}

// SessionResponse describes the workspace session.
type SessionResponse struct {
	User            *domain.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsLoading       bool         `json:"isLoading"`
}

// RegisterResponse tells the client to continue at the login page.
type RegisterResponse struct {
	Message  string `json:"message"`
	Email    string `json:"email"`
	Redirect string `json:"redirect"`
}
