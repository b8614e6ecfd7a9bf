// Package identity resolves the signed-in user from the headers the auth
// proxy sets, and makes sure that user exists in the marketplace backend.
package identity

import (
	"net/http"
	"strings"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/config"
)

// User is the caller of one request. The zero value is anonymous.
type User struct {
	ID          string
	Email       string
	FullName    string
	AvatarURL   string
	Role        api.Role
	CompanyName string
	BackendID   string
}

// Anonymous is the signed-out user.
var Anonymous = User{}

func (u User) SignedIn() bool { return u.ID != "" }

func (u User) IsAdmin() bool { return u.Role == api.RoleAdmin }

// DisplayName prefers the full name, then the email's local part.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if name, _, ok := strings.Cut(u.Email, "@"); ok {
		return name
	}
	return u.ID
}

// Client returns c bound to this user's identity, or c itself when
// anonymous.
func (u User) Client(c *api.Client) *api.Client {
	if !u.SignedIn() {
		return c
	}
	return c.As(u.ID)
}

// Resolver reads identity assertions from trusted request headers.
type Resolver struct {
	UserHeader  string
	EmailHeader string
	NameHeader  string
}

func NewResolver(cfg config.Identity) Resolver {
	return Resolver{
		UserHeader:  cfg.UserHeader,
		EmailHeader: cfg.EmailHeader,
		NameHeader:  cfg.NameHeader,
	}
}

// Resolve returns the user asserted on r, or Anonymous.
func (r Resolver) Resolve(req *http.Request) User {
	id := strings.TrimSpace(req.Header.Get(r.UserHeader))
	if id == "" {
		return Anonymous
	}
	u := User{ID: id}
	if r.EmailHeader != "" {
		u.Email = strings.TrimSpace(req.Header.Get(r.EmailHeader))
	}
	if r.NameHeader != "" {
		u.FullName = strings.TrimSpace(req.Header.Get(r.NameHeader))
	}
	return u
}
