package pages

import (
	"context"
	"strings"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type ProfileForm struct {
	FullName    string
	CompanyName string
}

type Profile struct {
	Status
	User    identity.User
	Account api.User
	Form    ProfileForm
	// Updated is set when the backend accepted a profile change; the caller
	// feeds it back into the identity ledger.
	Updated *api.User
}

// LoadProfile shows the caller's backend account. The account fetch is
// required; without it the page reports the backend's reason.
func LoadProfile(ctx context.Context, d Deps, u identity.User) (*Profile, error) {
	m := &Profile{User: u}
	if !u.SignedIn() {
		m.Status = signInRequired("Please sign in to view your profile.")
		return m, nil
	}

	c := d.controller("profile")
	_ = c.Load(ctx, view.Must("me", &m.Account, d.client(u).Me))

	var err error
	m.Status, err = settle(c, "Could not load your profile")
	m.Form = ProfileForm{FullName: m.Account.FullName, CompanyName: m.Account.CompanyName}
	return m, err
}

// UpdateProfile saves the editable profile fields.
func UpdateProfile(ctx context.Context, d Deps, u identity.User, f ProfileForm) (*Profile, error) {
	if !u.SignedIn() {
		return &Profile{User: u, Status: signInRequired("Please sign in to view your profile.")}, nil
	}
	name := strings.TrimSpace(f.FullName)
	company := strings.TrimSpace(f.CompanyName)

	updated, err := d.client(u).UpdateMe(ctx, api.UserUpdate{FullName: &name, CompanyName: &company})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m := &Profile{User: u, Form: ProfileForm{FullName: name, CompanyName: company}}
		m.Status = Status{State: view.Errored, Message: view.Message(err, "Failed to update profile")}
		return m, nil
	}

	m := &Profile{
		User:    u,
		Account: updated,
		Form:    ProfileForm{FullName: updated.FullName, CompanyName: updated.CompanyName},
		Updated: &updated,
	}
	m.Status = Status{State: view.Loaded, Notice: "Profile updated"}
	return m, nil
}
