package pages

import (
	"context"
	"strings"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

// MarketQuery narrows the marketplace listing.
type MarketQuery struct {
	Search   string
	Category string
}

// MarketItem is a product card with its launch upvotes, if launched.
type MarketItem struct {
	api.Product
	Upvotes   int
	HasLaunch bool
}

type Marketplace struct {
	Status
	Query      MarketQuery
	Items      []MarketItem
	Total      int
	Fallback   bool
	Categories []string
}

// LoadMarketplace loads the catalog and leaderboard together. A catalog
// failure falls back to the demo catalog; a leaderboard failure only hides
// upvote counts.
func LoadMarketplace(ctx context.Context, d Deps, u identity.User, q MarketQuery) (*Marketplace, error) {
	m := &Marketplace{Query: q, Categories: Categories}
	var (
		products []api.Product
		board    []api.LeaderboardEntry
	)
	client := d.client(u)

	c := d.controller("marketplace")
	c.IsEmpty = func() bool { return len(filterProducts(products, board, q)) == 0 }
	_ = c.Load(ctx,
		view.Into("products", &products, FallbackProducts(), client.ListProducts),
		view.Into("leaderboard", &board, nil, client.Leaderboard),
	)

	m.Fallback = c.FetchErr("products") != nil
	m.Total = len(products)
	m.Items = filterProducts(products, board, q)

	var err error
	m.Status, err = settle(c, "")
	return m, err
}

// filterProducts keeps products whose name contains the search text
// (case-insensitive) and, if set, match the category. Upvotes come from the
// first leaderboard entry for the product.
func filterProducts(products []api.Product, board []api.LeaderboardEntry, q MarketQuery) []MarketItem {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]MarketItem, 0, len(products))
	for _, p := range products {
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		item := MarketItem{Product: p}
		for _, e := range board {
			if e.ProductID == p.ID {
				item.Upvotes = e.Upvotes
				item.HasLaunch = true
				break
			}
		}
		out = append(out, item)
	}
	return out
}
