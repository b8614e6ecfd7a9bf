// Package pages holds one controller per page. Each Load function fans out
// the page's reads, settles them under the page's own degradation policy
// and returns a model ready for rendering. The caller's identity is always
// passed in explicitly.
package pages

import (
	"errors"

	"go.uber.org/zap"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/enrich"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/view"
)

// ErrSignInRequired is returned by actions that need a signed-in user.
var ErrSignInRequired = errors.New("sign in required")

// UserError carries a message fit for display next to its cause.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// Deps are the collaborators every page controller may use.
type Deps struct {
	API    *api.Client
	Enrich *enrich.Enricher
	Log    *zap.Logger
	// PublicURL is this front-end's external address, used in embed codes.
	PublicURL string
}

func (d Deps) client(u identity.User) *api.Client {
	return u.Client(d.API)
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

func (d Deps) controller(page string) *view.Controller {
	return view.New(page, d.logger())
}

// Status is the view state shared by every page model.
type Status struct {
	State view.State
	// Message is the user-visible reason for an Errored page.
	Message string
	// Notice is a one-shot success message.
	Notice string
	// NeedsAuth marks a page that was not loaded because nobody is signed in.
	NeedsAuth bool
}

func (s Status) Loaded() bool  { return s.State == view.Loaded }
func (s Status) Empty() bool   { return s.State == view.Empty }
func (s Status) Errored() bool { return s.State == view.Errored }

// settle turns a finished controller into a Status. A load that ended
// because the request went away is reported as an error so the caller
// skips rendering.
func settle(c *view.Controller, fallback string) (Status, error) {
	if c.Canceled() {
		return Status{State: view.Errored}, c.Err()
	}
	s := Status{State: c.State()}
	if s.State == view.Errored {
		s.Message = view.Message(c.Err(), fallback)
	}
	return s, nil
}

// signInRequired is the status of an identity-gated page viewed anonymously.
func signInRequired(message string) Status {
	return Status{State: view.Errored, NeedsAuth: true, Message: message}
}
