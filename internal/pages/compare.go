package pages

import (
	"context"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type Compare struct {
	Status
	Startups    []api.ComparisonStartup
	Left, Right int
	Result      *api.Comparison
	Same        bool
}

// LoadCompare loads the comparable startups and the comparison of left and
// right. Missing ids default to the first two startups; comparing a startup
// with itself shows no comparison. Failures degrade to empty.
func LoadCompare(ctx context.Context, d Deps, u identity.User, left, right int) (*Compare, error) {
	m := &Compare{Left: left, Right: right}
	client := d.client(u)
	listed := make(chan struct{})

	c := d.controller("compare")
	c.IsEmpty = func() bool { return len(m.Startups) == 0 && m.Result == nil }
	_ = c.Load(ctx,
		view.Fetch{Name: "startups", Run: func(ctx context.Context) error {
			defer close(listed)
			s, err := client.ComparisonStartups(ctx)
			m.Startups = s
			return err
		}},
		view.Fetch{Name: "comparison", Run: func(ctx context.Context) error {
			l, r := left, right
			if l <= 0 || r <= 0 {
				select {
				case <-listed:
				case <-ctx.Done():
					return ctx.Err()
				}
				l, r = defaultPair(m.Startups, l, r)
				m.Left, m.Right = l, r
			}
			if l <= 0 || r <= 0 {
				return nil
			}
			if l == r {
				m.Same = true
				return nil
			}
			res, err := client.Compare(ctx, l, r)
			if err != nil {
				return err
			}
			m.Result = &res
			return nil
		}},
	)

	var err error
	m.Status, err = settle(c, "")
	return m, err
}

// defaultPair fills unset ids from the first two startups, never picking
// the id already chosen for the other side.
func defaultPair(startups []api.ComparisonStartup, left, right int) (int, int) {
	for _, s := range startups {
		if left <= 0 && s.ID != right {
			left = s.ID
			continue
		}
		if right <= 0 && s.ID != left {
			right = s.ID
		}
		if left > 0 && right > 0 {
			break
		}
	}
	return left, right
}
