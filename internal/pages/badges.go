package pages

import (
	"context"
	"fmt"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type Badges struct {
	Status
	Products []api.Product
	Selected int
	Badge    *api.BadgeData
	// EmbedIframe embeds this front-end's badge preview, for sites that
	// cannot reach the backend directly.
	EmbedIframe string
}

// LoadBadges lists products and the badge of the selected one, defaulting
// to the first product. Failures degrade to empty.
func LoadBadges(ctx context.Context, d Deps, u identity.User, selected int) (*Badges, error) {
	m := &Badges{Selected: selected}
	client := d.client(u)
	listed := make(chan struct{})

	c := d.controller("badges")
	c.IsEmpty = func() bool { return len(m.Products) == 0 && m.Badge == nil }
	_ = c.Load(ctx,
		view.Fetch{Name: "products", Run: func(ctx context.Context) error {
			defer close(listed)
			p, err := client.ListProducts(ctx)
			m.Products = p
			return err
		}},
		view.Fetch{Name: "badge", Run: func(ctx context.Context) error {
			id := selected
			if id <= 0 {
				select {
				case <-listed:
				case <-ctx.Done():
					return ctx.Err()
				}
				if len(m.Products) == 0 {
					return nil
				}
				id = m.Products[0].ID
				m.Selected = id
			}
			b, err := client.Badge(ctx, id)
			if err != nil {
				return err
			}
			m.Badge = &b
			return nil
		}},
	)
	if m.Selected > 0 && d.PublicURL != "" {
		m.EmbedIframe = fmt.Sprintf(
			`<iframe src="%s/embed/badge/%d" width="320" height="120" frameborder="0" title="EthAum trust badge"></iframe>`,
			d.PublicURL, m.Selected)
	}

	var err error
	m.Status, err = settle(c, "")
	return m, err
}
