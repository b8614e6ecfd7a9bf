package pages

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type SubmitForm struct {
	Name         string
	Website      string
	Category     string
	FundingStage string
	Description  string
	Tagline      string
}

type Submit struct {
	Status
	User          identity.User
	Form          SubmitForm
	Errors        map[string]string
	Error         string
	Categories    []string
	FundingStages []string
	Submitted     *api.Product
	CanPrefill    bool
}

// NewSubmit is the empty submission form.
func NewSubmit(d Deps, u identity.User) *Submit {
	m := &Submit{
		User:          u,
		Categories:    Categories,
		FundingStages: FundingStages,
		Errors:        map[string]string{},
		CanPrefill:    d.Enrich.Enabled(),
		Status:        Status{State: view.Loaded},
	}
	if !u.SignedIn() {
		m.Status = signInRequired("Please sign in to submit your startup.")
	}
	return m
}

// Validate checks the form and returns field errors keyed by field name.
func (f SubmitForm) Validate() map[string]string {
	errs := map[string]string{}
	if f.Name == "" {
		errs["name"] = "Startup name is required"
	}
	if f.Website == "" {
		errs["website"] = "Website is required"
	} else if u, err := url.Parse(f.Website); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs["website"] = "Enter a full URL, e.g. https://example.com"
	}
	if !slices.Contains(Categories, f.Category) {
		errs["category"] = "Choose a category"
	}
	if !slices.Contains(FundingStages, f.FundingStage) {
		errs["funding_stage"] = "Choose a funding stage"
	}
	return errs
}

func (f SubmitForm) trimmed() SubmitForm {
	return SubmitForm{
		Name:         strings.TrimSpace(f.Name),
		Website:      strings.TrimSpace(f.Website),
		Category:     strings.TrimSpace(f.Category),
		FundingStage: strings.TrimSpace(f.FundingStage),
		Description:  strings.TrimSpace(f.Description),
		Tagline:      strings.TrimSpace(f.Tagline),
	}
}

// SubmitProduct validates and submits a startup. On success Submitted is
// set and the caller redirects to My Products; otherwise the form comes
// back with field errors or the backend's detail.
func SubmitProduct(ctx context.Context, d Deps, u identity.User, f SubmitForm) (*Submit, error) {
	m := NewSubmit(d, u)
	m.Form = f.trimmed()
	if !u.SignedIn() {
		return m, nil
	}

	if m.Errors = m.Form.Validate(); len(m.Errors) > 0 {
		return m, nil
	}

	p, err := d.client(u).SubmitProduct(ctx, api.NewProduct{
		Name:         m.Form.Name,
		Website:      m.Form.Website,
		Category:     m.Form.Category,
		FundingStage: m.Form.FundingStage,
		Description:  m.Form.Description,
		Tagline:      m.Form.Tagline,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m.Error = view.Message(err, "Failed to submit product")
		return m, nil
	}
	m.Submitted = &p
	m.Notice = "Startup Submitted Successfully!"
	return m, nil
}

// PrefillSubmit fills empty form fields from the startup's homepage.
func PrefillSubmit(ctx context.Context, d Deps, u identity.User, f SubmitForm) (*Submit, error) {
	m := NewSubmit(d, u)
	m.Form = f.trimmed()
	if !u.SignedIn() {
		return m, nil
	}
	if m.Form.Website == "" {
		m.Errors["website"] = "Enter a website to prefill from"
		return m, nil
	}

	p, err := d.Enrich.Preview(ctx, m.Form.Website)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		d.logger().Info("prefill failed", zap.String("website", m.Form.Website), zap.Error(err))
		m.Error = "Could not read that website; please fill the form in manually."
		return m, nil
	}
	if m.Form.Name == "" {
		m.Form.Name = p.Name
	}
	if m.Form.Description == "" {
		m.Form.Description = p.Description
	}
	if m.Form.Tagline == "" && p.Title != p.Name {
		m.Form.Tagline = p.Title
	}
	if !strings.Contains(m.Form.Website, "://") {
		m.Form.Website = p.URL
	}
	m.Notice = "Prefilled from " + p.URL
	return m, nil
}

type MyProducts struct {
	Status
	User     identity.User
	Products []api.Product
}

// LoadMyProducts lists the caller's submissions. Failure shows an empty
// list.
func LoadMyProducts(ctx context.Context, d Deps, u identity.User) (*MyProducts, error) {
	m := &MyProducts{User: u}
	if !u.SignedIn() {
		m.Status = signInRequired("Please sign in to view your products.")
		return m, nil
	}

	c := d.controller("my-products")
	c.IsEmpty = func() bool { return len(m.Products) == 0 }
	_ = c.Load(ctx, view.Into("products", &m.Products, nil, d.client(u).MyProducts))

	var err error
	m.Status, err = settle(c, "")
	return m, err
}
