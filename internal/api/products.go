package api

import (
	"context"
	"fmt"
)

// ListProducts returns every listed startup.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.get(ctx, "/products/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct returns one startup with its score breakdown, launch summary
// and owner.
func (c *Client) GetProduct(ctx context.Context, id int) (Product, error) {
	var out Product
	err := c.get(ctx, fmt.Sprintf("/products/%d", id), &out)
	return out, err
}

// MyProducts lists the startups owned by the bound identity.
func (c *Client) MyProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.get(ctx, "/products/my-products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitProduct(ctx context.Context, p NewProduct) (Product, error) {
	var out Product
	err := c.post(ctx, "/products/", p, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id int, u ProductUpdate) (Product, error) {
	var out Product
	err := c.put(ctx, fmt.Sprintf("/products/%d", id), u, &out)
	return out, err
}

// Leaderboard returns launches ordered by upvotes. When the client is bound
// to an identity each entry carries that user's upvote flag.
func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var out []LeaderboardEntry
	if err := c.get(ctx, "/launches/leaderboard", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upvote toggles the bound user's upvote on a launch and returns the
// server-confirmed count. The backend may omit the id from the body; the
// result always carries launchID.
func (c *Client) Upvote(ctx context.Context, launchID int) (UpvoteResult, error) {
	var out UpvoteResult
	if err := c.post(ctx, fmt.Sprintf("/launches/%d/upvote", launchID), nil, &out); err != nil {
		return UpvoteResult{}, err
	}
	out.ID = launchID
	return out, nil
}

func (c *Client) UpvoteStatus(ctx context.Context, launchID int) (bool, error) {
	var out struct {
		UserUpvoted bool `json:"user_upvoted"`
	}
	err := c.get(ctx, fmt.Sprintf("/launches/%d/upvote-status", launchID), &out)
	return out.UserUpvoted, err
}

func (c *Client) CreateLaunch(ctx context.Context, l NewLaunch) (Launch, error) {
	var out Launch
	err := c.post(ctx, "/launches/", l, &out)
	return out, err
}

func (c *Client) Reviews(ctx context.Context, productID int) ([]Review, error) {
	var out []Review
	if err := c.get(ctx, fmt.Sprintf("/reviews/%d", productID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitReview(ctx context.Context, r NewReview) (Review, error) {
	var out Review
	err := c.post(ctx, "/reviews/", r, &out)
	return out, err
}

func (c *Client) SentimentSummary(ctx context.Context, productID int) (SentimentSummary, error) {
	var out SentimentSummary
	err := c.get(ctx, fmt.Sprintf("/reviews/%d/sentiment-summary", productID), &out)
	return out, err
}
