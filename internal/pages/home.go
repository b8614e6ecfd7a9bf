package pages

import (
	"context"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

const homeTrendingLimit = 6

type Home struct {
	Status
	User      identity.User
	Trending  []api.TrendingProduct
	Algorithm string
}

// LoadHome loads the landing page. Trending failures leave the list empty.
func LoadHome(ctx context.Context, d Deps, u identity.User) (*Home, error) {
	m := &Home{User: u}
	var trending api.Trending

	c := d.controller("home")
	_ = c.Load(ctx, view.Into("trending", &trending, api.Trending{}, func(ctx context.Context) (api.Trending, error) {
		return d.client(u).Trending(ctx, homeTrendingLimit)
	}))

	m.Trending = trending.Products
	m.Algorithm = trending.Algorithm
	var err error
	m.Status, err = settle(c, "")
	return m, err
}
