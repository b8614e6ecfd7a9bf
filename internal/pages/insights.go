package pages

import (
	"context"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type Insights struct {
	Status
	Quadrant api.Quadrant
	Mock     bool
}

// LoadInsights loads the emerging-leaders quadrant, falling back to the
// sample quadrant when the backend is unreachable.
func LoadInsights(ctx context.Context, d Deps, u identity.User) (*Insights, error) {
	m := &Insights{}

	c := d.controller("insights")
	_ = c.Load(ctx, view.Into("quadrant", &m.Quadrant, MockQuadrant(), d.client(u).Quadrant))
	m.Mock = c.FetchErr("quadrant") != nil

	var err error
	m.Status, err = settle(c, "")
	return m, err
}

type Analytics struct {
	Status
	Dashboard *api.AnalyticsDashboard
	Trends    *api.Trends
}

// LoadAnalytics loads the dashboard and trends together; either section is
// simply left out when its fetch fails.
func LoadAnalytics(ctx context.Context, d Deps, u identity.User) (*Analytics, error) {
	m := &Analytics{}
	client := d.client(u)

	c := d.controller("analytics")
	c.IsEmpty = func() bool { return m.Dashboard == nil && m.Trends == nil }
	_ = c.Load(ctx,
		view.Into("dashboard", &m.Dashboard, nil, func(ctx context.Context) (*api.AnalyticsDashboard, error) {
			v, err := client.AnalyticsDashboard(ctx)
			if err != nil {
				return nil, err
			}
			return &v, nil
		}),
		view.Into("trends", &m.Trends, nil, func(ctx context.Context) (*api.Trends, error) {
			v, err := client.Trends(ctx)
			if err != nil {
				return nil, err
			}
			return &v, nil
		}),
	)

	var err error
	m.Status, err = settle(c, "")
	return m, err
}
