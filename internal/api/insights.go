package api

import (
	"context"
	"fmt"
)

// Quadrant returns the emerging-leaders quadrant with product positions
// flattened out of the backend's nested envelope.
func (c *Client) Quadrant(ctx context.Context) (Quadrant, error) {
	var env quadrantEnvelope
	if err := c.get(ctx, "/insights/quadrant", &env); err != nil {
		return Quadrant{}, err
	}
	return env.flatten(), nil
}

func (c *Client) Credibility(ctx context.Context, productID int) (Credibility, error) {
	var out Credibility
	err := c.get(ctx, fmt.Sprintf("/insights/%d/credibility", productID), &out)
	return out, err
}

func (c *Client) AnalyticsDashboard(ctx context.Context) (AnalyticsDashboard, error) {
	var out AnalyticsDashboard
	err := c.get(ctx, "/analytics/dashboard", &out)
	return out, err
}

func (c *Client) Trends(ctx context.Context) (Trends, error) {
	var out Trends
	err := c.get(ctx, "/analytics/trends", &out)
	return out, err
}

func (c *Client) ProductMetrics(ctx context.Context, productID int) (ProductMetrics, error) {
	var out ProductMetrics
	err := c.get(ctx, fmt.Sprintf("/analytics/metrics/%d", productID), &out)
	return out, err
}

// Trending returns the products the backend currently ranks as trending.
// limit <= 0 uses the backend default.
func (c *Client) Trending(ctx context.Context, limit int) (Trending, error) {
	path := "/recommendations/trending"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out Trending
	err := c.get(ctx, path, &out)
	return out, err
}
