// Package view drives a page through its load lifecycle: every independent
// read is fanned out concurrently, all of them settle, and only then does the
// page leave Loading.
package view

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/metrics"
)

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Empty
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Empty:
		return "empty"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// Settled reports whether s is a terminal state of a load.
func (s State) Settled() bool {
	return s == Loaded || s == Empty || s == Errored
}

// Fetch is one independent read. A failed Required fetch errors the page;
// any other failure is logged and left to the fetch's own fallback.
type Fetch struct {
	Name     string
	Run      func(ctx context.Context) error
	Required bool
}

// Controller holds the view state of one page instance. It is not shared
// across requests.
type Controller struct {
	// OnChange, if set, is called after every transition.
	OnChange func(State)
	// IsEmpty, if set, is consulted after a successful load; true settles
	// the page as Empty instead of Loaded.
	IsEmpty func() bool

	page string
	log  *zap.Logger

	mu          sync.Mutex
	state       State
	err         error
	errs        map[string]error
	transitions []State
}

func New(page string, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{page: page, log: log, state: Idle}
}

// Load runs every fetch concurrently and waits for all of them before
// settling. The first Required failure in declaration order becomes the
// page error. Calling Load again restarts from Loading.
func (c *Controller) Load(ctx context.Context, fetches ...Fetch) error {
	c.mu.Lock()
	c.err = nil
	c.errs = make(map[string]error, len(fetches))
	c.mu.Unlock()
	c.transition(Loading)

	errs := make([]error, len(fetches))
	var g errgroup.Group
	for i, f := range fetches {
		g.Go(func() error {
			errs[i] = f.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var pageErr error
	c.mu.Lock()
	for i, f := range fetches {
		if errs[i] == nil {
			continue
		}
		c.errs[f.Name] = errs[i]
		if f.Required {
			if pageErr == nil {
				pageErr = errs[i]
			}
			continue
		}
		c.log.Warn("fetch degraded",
			zap.String("page", c.page),
			zap.String("fetch", f.Name),
			zap.Error(errs[i]))
	}
	if pageErr == nil && ctx.Err() != nil {
		pageErr = ctx.Err()
	}
	c.err = pageErr
	c.mu.Unlock()

	switch {
	case pageErr != nil:
		c.transition(Errored)
	case c.IsEmpty != nil && c.IsEmpty():
		c.transition(Empty)
	default:
		c.transition(Loaded)
	}
	return pageErr
}

// Fail settles the page as Errored without running any fetch, for pages
// whose preconditions (such as a signed-in user) are not met.
func (c *Controller) Fail(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	c.transition(Errored)
}

func (c *Controller) transition(s State) {
	c.mu.Lock()
	c.state = s
	c.transitions = append(c.transitions, s)
	hook := c.OnChange
	c.mu.Unlock()

	if s.Settled() {
		metrics.PageLoads.WithLabelValues(c.page, s.String()).Inc()
	}
	if hook != nil {
		hook(s)
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err is the error the page settled with, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// FetchErr returns the error of the named fetch in the last load.
func (c *Controller) FetchErr(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs[name]
}

// Canceled reports whether the last load ended because its context did.
func (c *Controller) Canceled() bool {
	err := c.Err()
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Transitions returns every state the controller has entered, in order.
func (c *Controller) Transitions() []State {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]State, len(c.transitions))
	copy(out, c.transitions)
	return out
}

// Message returns the user-visible text for err: the backend's detail when
// there is one, otherwise fallback.
func Message(err error, fallback string) string {
	if d := api.Detail(err); d != "" {
		return d
	}
	return fallback
}
