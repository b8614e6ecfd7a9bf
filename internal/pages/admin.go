package pages

import (
	"context"
	"fmt"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

// Admin tabs.
const (
	TabProducts = "products"
	TabUsers    = "users"
	TabReviews  = "reviews"
)

type Admin struct {
	Status
	User     identity.User
	Tab      string
	Filter   string
	Stats    api.AdminStats
	Products []api.AdminProduct
	Users    []api.AdminUser
	Reviews  []api.AdminReview
	Roles    []api.Role
}

// LoadAdmin loads the moderation dashboard. Stats gate the page: if they
// fail for any reason the page shows Access Denied with the backend's
// detail. The lists degrade to empty on their own.
func LoadAdmin(ctx context.Context, d Deps, u identity.User, tab, filter string) (*Admin, error) {
	switch tab {
	case TabProducts, TabUsers, TabReviews:
	default:
		tab = TabProducts
	}
	m := &Admin{
		User:   u,
		Tab:    tab,
		Filter: filter,
		Roles:  []api.Role{api.RoleFounder, api.RoleBuyer, api.RoleAdmin},
	}
	if !u.SignedIn() {
		m.Status = signInRequired("Please sign in to access the admin dashboard.")
		return m, nil
	}
	client := d.client(u)

	c := d.controller("admin")
	_ = c.Load(ctx,
		view.Must("stats", &m.Stats, client.AdminStats),
		view.Into("products", &m.Products, nil, func(ctx context.Context) ([]api.AdminProduct, error) {
			return client.AdminProducts(ctx, filter)
		}),
		view.Into("users", &m.Users, nil, client.AdminUsers),
		view.Into("reviews", &m.Reviews, nil, client.AdminReviews),
	)

	var err error
	m.Status, err = settle(c, "Access denied")
	return m, err
}

// AdminProductAction applies approve, reject or delete to a product and
// returns the backend's confirmation.
func AdminProductAction(ctx context.Context, d Deps, u identity.User, id int, action string) (string, error) {
	if !u.SignedIn() {
		return "", ErrSignInRequired
	}
	client := d.client(u)

	var (
		res api.ActionResult
		err error
	)
	switch action {
	case "approve":
		res, err = client.ApproveProduct(ctx, id)
	case "reject":
		res, err = client.RejectProduct(ctx, id)
	case "delete":
		res, err = client.DeleteProduct(ctx, id)
	default:
		return "", fmt.Errorf("unknown product action %q", action)
	}
	return actionMessage(res, err)
}

// AdminReviewAction verifies or deletes a review.
func AdminReviewAction(ctx context.Context, d Deps, u identity.User, id int, action string) (string, error) {
	if !u.SignedIn() {
		return "", ErrSignInRequired
	}
	client := d.client(u)

	var (
		res api.ActionResult
		err error
	)
	switch action {
	case "verify":
		res, err = client.VerifyReview(ctx, id)
	case "delete":
		res, err = client.DeleteReview(ctx, id)
	default:
		return "", fmt.Errorf("unknown review action %q", action)
	}
	return actionMessage(res, err)
}

// AdminSetRole changes another user's role.
func AdminSetRole(ctx context.Context, d Deps, u identity.User, userID string, role api.Role) (string, error) {
	if !u.SignedIn() {
		return "", ErrSignInRequired
	}
	return actionMessage(d.client(u).SetUserRole(ctx, userID, role))
}

func actionMessage(res api.ActionResult, err error) (string, error) {
	if err != nil {
		return "", &UserError{Message: view.Message(err, "Action failed"), Err: err}
	}
	if res.Message == "" {
		return "Done", nil
	}
	return res.Message, nil
}
