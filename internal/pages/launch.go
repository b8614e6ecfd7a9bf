package pages

import (
	"context"
	"strings"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type LaunchForm struct {
	ProductID   int
	Tagline     string
	Description string
}

type Launch struct {
	Status
	User      identity.User
	Products  []api.Product
	Form      LaunchForm
	FormError string
	Launched  *api.Launch
}

// LoadLaunch shows the launch form over the caller's own products.
func LoadLaunch(ctx context.Context, d Deps, u identity.User) (*Launch, error) {
	return loadLaunch(ctx, d, u, &Launch{User: u})
}

func loadLaunch(ctx context.Context, d Deps, u identity.User, m *Launch) (*Launch, error) {
	if !u.SignedIn() {
		m.Status = signInRequired("Please sign in to launch a product.")
		return m, nil
	}

	c := d.controller("launch")
	_ = c.Load(ctx, view.Into("products", &m.Products, nil, d.client(u).MyProducts))

	notice := m.Notice
	var err error
	m.Status, err = settle(c, "")
	m.Notice = notice
	return m, err
}

// CreateLaunch puts a product on the leaderboard. A backend failure is
// shown on the form; nothing is reported as launched unless the backend
// confirmed it.
func CreateLaunch(ctx context.Context, d Deps, u identity.User, f LaunchForm) (*Launch, error) {
	f.Tagline = strings.TrimSpace(f.Tagline)
	f.Description = strings.TrimSpace(f.Description)
	m := &Launch{User: u, Form: f}
	if !u.SignedIn() {
		return loadLaunch(ctx, d, u, m)
	}

	switch {
	case f.ProductID <= 0:
		m.FormError = "Choose a product to launch"
	case f.Tagline == "":
		m.FormError = "Tagline is required"
	default:
		l, err := d.client(u).CreateLaunch(ctx, api.NewLaunch{
			ProductID:   f.ProductID,
			Tagline:     f.Tagline,
			Description: f.Description,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			m.FormError = view.Message(err, "Failed to create launch")
			break
		}
		m.Launched = &l
		m.Form = LaunchForm{}
		m.Notice = "Your product is live on the leaderboard!"
	}
	return loadLaunch(ctx, d, u, m)
}
