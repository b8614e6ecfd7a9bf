package pages

import (
	"context"
	"strings"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/enrich"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type ReviewForm struct {
	Rating  int
	Comment string
}

type ProductDetail struct {
	Status
	User      identity.User
	Product   api.Product
	Demo      bool
	Reviews   []api.Review
	Sentiment *api.SentimentSummary
	Updates   []enrich.Update

	Form        ReviewForm
	ReviewError string
}

// LoadProduct loads a product page. If the product itself cannot be loaded
// the demo product is shown; reviews, sentiment and founder updates degrade
// to empty.
func LoadProduct(ctx context.Context, d Deps, u identity.User, id int) (*ProductDetail, error) {
	m := &ProductDetail{User: u}
	client := d.client(u)

	// Founder updates need the product's website, so that fetch waits for
	// the product fetch while reviews and sentiment run alongside.
	productReady := make(chan struct{})

	c := d.controller("product")
	_ = c.Load(ctx,
		view.Fetch{Name: "product", Run: func(ctx context.Context) error {
			defer close(productReady)
			p, err := client.GetProduct(ctx, id)
			if err != nil {
				m.Product = DemoProduct(id)
				m.Demo = true
				return err
			}
			m.Product = p
			return nil
		}},
		view.Into("reviews", &m.Reviews, nil, func(ctx context.Context) ([]api.Review, error) {
			return client.Reviews(ctx, id)
		}),
		view.Into("sentiment", &m.Sentiment, nil, func(ctx context.Context) (*api.SentimentSummary, error) {
			s, err := client.SentimentSummary(ctx, id)
			if err != nil {
				return nil, err
			}
			return &s, nil
		}),
		view.Into("updates", &m.Updates, nil, func(ctx context.Context) ([]enrich.Update, error) {
			select {
			case <-productReady:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if m.Demo || !d.Enrich.Enabled() || m.Product.Website == "" {
				return nil, nil
			}
			return d.Enrich.Updates(ctx, m.Product.Website)
		}),
	)

	var err error
	m.Status, err = settle(c, "")
	return m, err
}

// SubmitReview posts a review for the signed-in user. Validation and
// backend errors come back on the model with the form intact; on success
// the page is reloaded so the new review and sentiment show.
func SubmitReview(ctx context.Context, d Deps, u identity.User, productID int, f ReviewForm) (*ProductDetail, error) {
	f.Comment = strings.TrimSpace(f.Comment)

	var problem string
	switch {
	case !u.SignedIn():
		problem = "Sign in to write a review"
	case f.Rating < 1 || f.Rating > 5:
		problem = "Please select a rating from 1 to 5"
	case f.Comment == "":
		problem = "Please write a comment"
	}
	if problem == "" {
		_, err := d.client(u).SubmitReview(ctx, api.NewReview{
			ProductID: productID,
			Rating:    f.Rating,
			Comment:   f.Comment,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			problem = view.Message(err, "Failed to submit review")
		}
	}

	m, err := LoadProduct(ctx, d, u, productID)
	if err != nil {
		return nil, err
	}
	if problem != "" {
		m.Form = f
		m.ReviewError = problem
		return m, nil
	}
	m.Notice = "Thanks! Your review has been submitted."
	return m, nil
}
