package pages

import (
	"context"
	"net/mail"
	"strings"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type PilotForm struct {
	DealID       int
	CompanyName  string
	ContactEmail string
}

type Deals struct {
	Status
	User      identity.User
	Deals     []api.Deal
	Form      PilotForm
	FormError string
}

// LoadDeals lists pilot deals. Failure shows an empty list.
func LoadDeals(ctx context.Context, d Deps, u identity.User) (*Deals, error) {
	m := &Deals{User: u}
	if u.SignedIn() {
		m.Form.CompanyName = u.CompanyName
		m.Form.ContactEmail = u.Email
	}

	c := d.controller("deals")
	c.IsEmpty = func() bool { return len(m.Deals) == 0 }
	_ = c.Load(ctx, view.Into("deals", &m.Deals, nil, d.client(u).Deals))

	var err error
	m.Status, err = settle(c, "")
	return m, err
}

// Validate checks a pilot request form; it returns "" when the form is
// complete.
func (f PilotForm) Validate() string {
	switch {
	case f.DealID <= 0:
		return "Choose a deal"
	case f.CompanyName == "":
		return "Company name is required"
	case f.ContactEmail == "":
		return "Contact email is required"
	}
	if _, err := mail.ParseAddress(f.ContactEmail); err != nil {
		return "Enter a valid contact email"
	}
	return ""
}

// RequestPilot submits a pilot request and reloads the deals with a
// confirmation, or returns the form with the problem.
func RequestPilot(ctx context.Context, d Deps, u identity.User, f PilotForm) (*Deals, error) {
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	f.ContactEmail = strings.TrimSpace(f.ContactEmail)

	problem := f.Validate()
	var notice string
	if problem == "" {
		res, err := d.client(u).RequestPilot(ctx, api.PilotRequest{
			DealID:       f.DealID,
			CompanyName:  f.CompanyName,
			ContactEmail: f.ContactEmail,
		})
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			problem = view.Message(err, "Failed to send pilot request")
		case res.Message != "":
			notice = res.Message
		default:
			notice = "Pilot request sent! The startup will contact you within 48 hours."
		}
	}

	m, err := LoadDeals(ctx, d, u)
	if err != nil {
		return nil, err
	}
	if problem != "" {
		m.Form = f
		m.FormError = problem
		return m, nil
	}
	m.Notice = notice
	return m, nil
}
