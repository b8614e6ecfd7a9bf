package pages

import (
	"context"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type Matches struct {
	Status
	ProductID int
	Result    *api.Matchmaking
}

// LoadMatches loads the recommended enterprise buyers for a product. An
// unknown product is reported as such; any other failure shows no matches.
func LoadMatches(ctx context.Context, d Deps, u identity.User, productID int) (*Matches, error) {
	m := &Matches{ProductID: productID}

	c := d.controller("matches")
	c.IsEmpty = func() bool { return m.Result == nil || len(m.Result.RecommendedBuyers) == 0 }
	_ = c.Load(ctx, view.Into("matches", &m.Result, nil, func(ctx context.Context) (*api.Matchmaking, error) {
		r, err := d.client(u).Matches(ctx, productID)
		if err != nil {
			return nil, err
		}
		return &r, nil
	}))

	var err error
	m.Status, err = settle(c, "")
	if err == nil && api.IsNotFound(c.FetchErr("matches")) {
		m.State = view.Errored
		m.Message = "Product not found"
	}
	return m, err
}
