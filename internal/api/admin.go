package api

import (
	"context"
	"fmt"
	"net/url"
)

// Every admin call requires a client bound to an identity whose backend
// role is admin; otherwise the backend answers 401 or 403 with a detail.

func (c *Client) AdminStats(ctx context.Context) (AdminStats, error) {
	var out AdminStats
	err := c.get(ctx, "/admin/stats", &out)
	return out, err
}

// AdminProducts lists all products, optionally filtered by status
// (pending, approved, rejected).
func (c *Client) AdminProducts(ctx context.Context, status string) ([]AdminProduct, error) {
	path := "/admin/products"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var out []AdminProduct
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminUsers(ctx context.Context) ([]AdminUser, error) {
	var out []AdminUser
	if err := c.get(ctx, "/admin/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminReviews(ctx context.Context) ([]AdminReview, error) {
	var out []AdminReview
	if err := c.get(ctx, "/admin/reviews", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApproveProduct(ctx context.Context, id int) (ActionResult, error) {
	var out ActionResult
	err := c.post(ctx, fmt.Sprintf("/admin/products/%d/approve", id), nil, &out)
	return out, err
}

func (c *Client) RejectProduct(ctx context.Context, id int) (ActionResult, error) {
	var out ActionResult
	err := c.post(ctx, fmt.Sprintf("/admin/products/%d/reject", id), nil, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id int) (ActionResult, error) {
	var out ActionResult
	err := c.delete(ctx, fmt.Sprintf("/admin/products/%d", id), &out)
	return out, err
}

// SetUserRole changes a user's role. userID is the backend user id, not the
// identity-provider id.
func (c *Client) SetUserRole(ctx context.Context, userID string, role Role) (ActionResult, error) {
	if !ValidRole(role) {
		return ActionResult{}, fmt.Errorf("invalid role %q", role)
	}
	var out ActionResult
	path := fmt.Sprintf("/admin/users/%s/role?role=%s", url.PathEscape(userID), url.QueryEscape(string(role)))
	err := c.post(ctx, path, nil, &out)
	return out, err
}

func (c *Client) DeleteReview(ctx context.Context, id int) (ActionResult, error) {
	var out ActionResult
	err := c.delete(ctx, fmt.Sprintf("/admin/reviews/%d", id), &out)
	return out, err
}

func (c *Client) VerifyReview(ctx context.Context, id int) (ActionResult, error) {
	var out ActionResult
	err := c.post(ctx, fmt.Sprintf("/admin/reviews/%d/verify", id), nil, &out)
	return out, err
}
