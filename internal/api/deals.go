package api

import (
	"context"
	"fmt"
)

func (c *Client) Deals(ctx context.Context) ([]Deal, error) {
	var out []Deal
	if err := c.get(ctx, "/deals/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RequestPilot(ctx context.Context, r PilotRequest) (PilotRequestResult, error) {
	var out PilotRequestResult
	err := c.post(ctx, "/deals/request", r, &out)
	return out, err
}

// Matches returns the recommended enterprise buyers for a product.
func (c *Client) Matches(ctx context.Context, productID int) (Matchmaking, error) {
	var out Matchmaking
	err := c.get(ctx, fmt.Sprintf("/matchmaking/%d", productID), &out)
	return out, err
}

// ComparisonStartups lists the startups that have comparison metrics.
func (c *Client) ComparisonStartups(ctx context.Context) ([]ComparisonStartup, error) {
	var out struct {
		Startups []ComparisonStartup `json:"startups"`
	}
	if err := c.get(ctx, "/comparisons/", &out); err != nil {
		return nil, err
	}
	return out.Startups, nil
}

func (c *Client) Compare(ctx context.Context, id1, id2 int) (Comparison, error) {
	var out Comparison
	err := c.get(ctx, fmt.Sprintf("/comparisons/%d/vs/%d", id1, id2), &out)
	return out, err
}

func (c *Client) Badge(ctx context.Context, productID int) (BadgeData, error) {
	var out BadgeData
	err := c.get(ctx, fmt.Sprintf("/badges/%d", productID), &out)
	return out, err
}

// BadgePreview returns the backend-rendered badge HTML.
func (c *Client) BadgePreview(ctx context.Context, productID int) ([]byte, error) {
	return c.send(ctx, "GET", fmt.Sprintf("/badges/%d/preview", productID), nil)
}

func (c *Client) GenerateLaunchTemplate(ctx context.Context, in LaunchTemplateInput) (LaunchTemplate, error) {
	var out LaunchTemplate
	err := c.post(ctx, "/templates/generate", in, &out)
	return out, err
}

func (c *Client) Scheduling(ctx context.Context) (Scheduling, error) {
	var out Scheduling
	err := c.get(ctx, "/templates/scheduling", &out)
	return out, err
}
