package domain

import "strings"

// Role is the portal-side authorization level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultAdminEmail is the built-in administrative account.
const DefaultAdminEmail = "admin@oms.com"

// User is the identity held by a session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Profile is the identity payload returned by the identity service before a
// role has been assigned.
type Profile struct {
	ID         string
	Name       string
	Email      string
	ServerRole string
}

// RolePolicy decides the role of a freshly fetched profile.
type RolePolicy interface {
	RoleFor(profile Profile) Role
}

// EmailRolePolicy grants admin to a fixed set of email addresses.
type EmailRolePolicy struct {
	admins map[string]struct{}
}

// NewEmailRolePolicy builds the policy; emails are compared case-insensitively.
func NewEmailRolePolicy(adminEmails ...string) *EmailRolePolicy {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			admins[email] = struct{}{}
		}
	}
	return &EmailRolePolicy{admins: admins}
}

// RoleFor implements RolePolicy.
func (p *EmailRolePolicy) RoleFor(profile Profile) Role {
	if _, ok := p.admins[strings.ToLower(strings.TrimSpace(profile.Email))]; ok {
		return RoleAdmin
	}
	return RoleUser
}

// ServerRolePolicy trusts a role sent by the identity service and defers to
// Fallback when the payload carries none.
type ServerRolePolicy struct {
	Fallback RolePolicy
}

// RoleFor implements RolePolicy.
func (p ServerRolePolicy) RoleFor(profile Profile) Role {
	switch strings.ToLower(strings.TrimPrefix(strings.ToUpper(profile.ServerRole), "ROLE_")) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleUser):
		return RoleUser
	}
	if p.Fallback != nil {
		return p.Fallback.RoleFor(profile)
	}
	return RoleUser
}

// NewUser applies the policy to a profile.
func NewUser(profile Profile, policy RolePolicy) *User {
	role := RoleUser
	if policy != nil {
		role = policy.RoleFor(profile)
	}
	return &User{
		ID:    profile.ID,
		Name:  profile.Name,
		Email: profile.Email,
		Role:  role,
	}
}
