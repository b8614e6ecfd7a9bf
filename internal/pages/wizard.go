package pages

import (
	"context"
	"strings"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type Wizard struct {
	Status
	Form       api.LaunchTemplateInput
	Result     *api.LaunchTemplate
	Scheduling *api.Scheduling
	FormError  string
	Categories []string
}

// LoadWizard shows the launch wizard form with scheduling advice.
func LoadWizard(ctx context.Context, d Deps, u identity.User) (*Wizard, error) {
	m := &Wizard{Categories: WizardCategories, Form: api.LaunchTemplateInput{Category: WizardCategories[0]}}

	c := d.controller("wizard")
	_ = c.Load(ctx, schedulingFetch(d, u, m))

	var err error
	m.Status, err = settle(c, "")
	return m, err
}

// GenerateLaunch asks the backend for launch copy. A generation failure is
// shown on the page; scheduling advice degrades to empty.
func GenerateLaunch(ctx context.Context, d Deps, u identity.User, in api.LaunchTemplateInput) (*Wizard, error) {
	in.StartupName = strings.TrimSpace(in.StartupName)
	in.OneLiner = strings.TrimSpace(in.OneLiner)
	in.TargetAudience = strings.TrimSpace(in.TargetAudience)
	m := &Wizard{Categories: WizardCategories, Form: in}

	if in.StartupName == "" || in.OneLiner == "" || in.Category == "" {
		m.FormError = "Startup name, category and one-liner are required"
		return LoadWizardWith(ctx, d, u, m)
	}

	c := d.controller("wizard")
	_ = c.Load(ctx,
		view.Must("generate", &m.Result, func(ctx context.Context) (*api.LaunchTemplate, error) {
			t, err := d.client(u).GenerateLaunchTemplate(ctx, in)
			if err != nil {
				return nil, err
			}
			return &t, nil
		}),
		schedulingFetch(d, u, m),
	)

	var err error
	m.Status, err = settle(c, "Could not generate launch copy")
	return m, err
}

// LoadWizardWith reloads scheduling advice for an already-populated model.
func LoadWizardWith(ctx context.Context, d Deps, u identity.User, m *Wizard) (*Wizard, error) {
	c := d.controller("wizard")
	_ = c.Load(ctx, schedulingFetch(d, u, m))

	var err error
	m.Status, err = settle(c, "")
	return m, err
}

func schedulingFetch(d Deps, u identity.User, m *Wizard) view.Fetch {
	return view.Into("scheduling", &m.Scheduling, nil, func(ctx context.Context) (*api.Scheduling, error) {
		s, err := d.client(u).Scheduling(ctx)
		if err != nil {
			return nil, err
		}
		return &s, nil
	})
}
