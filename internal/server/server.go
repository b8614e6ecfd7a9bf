package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/config"
	"github.com/TobiSchelling/ethaum/internal/enrich"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/metrics"
	"github.com/TobiSchelling/ethaum/internal/pages"
	"github.com/TobiSchelling/ethaum/internal/ui"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// pageNames are the templates rendered inside base.html.
var pageNames = []string{
	"home.html", "marketplace.html", "product.html", "matches.html",
	"leaderboard.html", "admin.html", "submit.html", "my_products.html",
	"deals.html", "compare.html", "insights.html", "analytics.html",
	"badges.html", "wizard.html", "launch.html", "profile.html",
	"not_found.html",
}

// Options are the collaborators of a Server.
type Options struct {
	Config *config.Config
	API    *api.Client
	Enrich *enrich.Enricher
	// Syncer may be nil, in which case identities are used as asserted.
	Syncer *identity.Syncer
	Log    *zap.Logger
}

// Server is the HTTP front-end of the marketplace.
type Server struct {
	cfg      *config.Config
	deps     pages.Deps
	resolver identity.Resolver
	syncer   *identity.Syncer
	log      *zap.Logger
	pages    map[string]*template.Template
	router   chi.Router
}

// New parses the templates and builds the router.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(ui.FuncMap()).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	tmpls := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		tmpls[name] = clone
	}

	s := &Server{
		cfg: cfg,
		deps: pages.Deps{
			API:       opts.API,
			Enrich:    opts.Enrich,
			Log:       log,
			PublicURL: cfg.PublicURL(),
		},
		resolver: identity.NewResolver(cfg.Identity),
		syncer:   opts.Syncer,
		log:      log,
		pages:    tmpls,
	}
	s.router = s.buildRouter()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Get("/", s.handleHome)
	r.Get("/marketplace", s.handleMarketplace)

	r.Route("/product/{id}", func(r chi.Router) {
		r.Get("/", s.handleProduct)
		r.Post("/reviews", s.handleReview)
		r.Get("/matches", s.handleMatches)
	})

	r.Get("/leaderboard", s.handleLeaderboard)
	r.Post("/leaderboard/{id}/upvote", s.handleUpvote)
	r.Get("/ws/leaderboard", s.handleLive)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/", s.handleAdmin)
		r.Post("/products/{id}/{action}", s.handleAdminProduct)
		r.Post("/reviews/{id}/{action}", s.handleAdminReview)
		r.Post("/users/{id}/role", s.handleAdminRole)
	})

	r.Get("/submit", s.handleSubmitForm)
	r.Post("/submit", s.handleSubmit)
	r.Get("/my-products", s.handleMyProducts)

	r.Get("/deals", s.handleDeals)
	r.Post("/deals/request", s.handlePilotRequest)
	r.Get("/compare", s.handleCompare)
	r.Get("/insights", s.handleInsights)
	r.Get("/analytics", s.handleAnalytics)
	r.Get("/badges", s.handleBadges)

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Server.EmbedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			MaxAge:         300,
		}))
		r.Get("/embed/badge/{id}", s.handleEmbedBadge)
	})

	r.Get("/wizard", s.handleWizard)
	r.Post("/wizard", s.handleGenerate)
	r.Get("/launch", s.handleLaunchForm)
	r.Post("/launch", s.handleLaunch)
	r.Get("/profile", s.handleProfile)
	r.Post("/profile", s.handleProfileUpdate)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		s.render(w, r, "not_found.html", "", identity.Anonymous, nil)
	})

	return r
}

// user resolves the caller of r and makes sure the backend knows them.
func (s *Server) user(r *http.Request) identity.User {
	u := s.resolver.Resolve(r)
	if s.syncer != nil {
		u = s.syncer.Ensure(r.Context(), u)
	}
	return u
}

// render executes a page inside base.html. nav marks the active menu entry.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name, nav string, u identity.User, page any) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.log.Error("template not found", zap.String("template", name))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := tmpl.ExecuteTemplate(w, "base.html", map[string]any{
		"User":   u,
		"Nav":    nav,
		"Page":   page,
		"Notice": r.URL.Query().Get("notice"),
		"Alert":  r.URL.Query().Get("error"),
	})
	if err != nil {
		s.log.Error("rendering template",
			zap.String("template", name),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
}

// Serve runs the server on addr until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", "http://"+addr))
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
