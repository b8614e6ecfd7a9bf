package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/pages"
	"github.com/TobiSchelling/ethaum/internal/view"
)

// show renders a loaded page. A load that failed only because the request
// went away renders nothing.
func (s *Server) show(w http.ResponseWriter, r *http.Request, name, nav string, u identity.User, page any, err error) {
	if err != nil {
		s.log.Debug("page load abandoned", zap.String("path", r.URL.Path), zap.Error(err))
		return
	}
	s.render(w, r, name, nav, u, page)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, u identity.User) {
	w.WriteHeader(http.StatusNotFound)
	s.render(w, r, "not_found.html", "", u, nil)
}

// redirect sends a POST back to a page with an optional one-shot message.
func redirect(w http.ResponseWriter, r *http.Request, path string, q url.Values) {
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func formInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	return n
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.LoadHome(r.Context(), s.deps, u)
	s.show(w, r, "home.html", "home", u, m, err)
}

func (s *Server) handleMarketplace(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	q := pages.MarketQuery{
		Search:   r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}
	m, err := pages.LoadMarketplace(r.Context(), s.deps, u, q)
	s.show(w, r, "marketplace.html", "marketplace", u, m, err)
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	id, ok := idParam(r)
	if !ok {
		s.notFound(w, r, u)
		return
	}
	m, err := pages.LoadProduct(r.Context(), s.deps, u, id)
	s.show(w, r, "product.html", "marketplace", u, m, err)
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	id, ok := idParam(r)
	if !ok {
		s.notFound(w, r, u)
		return
	}
	m, err := pages.SubmitReview(r.Context(), s.deps, u, id, pages.ReviewForm{
		Rating:  formInt(r, "rating"),
		Comment: r.FormValue("comment"),
	})
	s.show(w, r, "product.html", "marketplace", u, m, err)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	id, ok := idParam(r)
	if !ok {
		s.notFound(w, r, u)
		return
	}
	m, err := pages.LoadMatches(r.Context(), s.deps, u, id)
	s.show(w, r, "matches.html", "marketplace", u, m, err)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.LoadLeaderboard(r.Context(), s.deps, u)
	s.show(w, r, "leaderboard.html", "leaderboard", u, m, err)
}

// handleUpvote is the form fallback for browsers without the live board.
// The page is re-fetched afterwards, so no local board is patched.
func (s *Server) handleUpvote(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	id, ok := idParam(r)
	if !ok {
		s.notFound(w, r, u)
		return
	}
	q := url.Values{}
	if _, err := pages.Upvote(r.Context(), s.deps, u, nil, id); err != nil {
		if errors.Is(err, pages.ErrSignInRequired) {
			q.Set("error", "Sign in to upvote")
		} else {
			q.Set("error", view.Message(err, "Upvote failed"))
		}
	}
	redirect(w, r, "/leaderboard", q)
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.LoadAdmin(r.Context(), s.deps, u, r.URL.Query().Get("tab"), r.URL.Query().Get("status"))
	s.show(w, r, "admin.html", "admin", u, m, err)
}

func (s *Server) handleAdminProduct(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	id, ok := idParam(r)
	if !ok {
		s.notFound(w, r, u)
		return
	}
	msg, err := pages.AdminProductAction(r.Context(), s.deps, u, id, chi.URLParam(r, "action"))
	redirect(w, r, "/admin", actionResult(pages.TabProducts, msg, err))
}

func (s *Server) handleAdminReview(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	id, ok := idParam(r)
	if !ok {
		s.notFound(w, r, u)
		return
	}
	msg, err := pages.AdminReviewAction(r.Context(), s.deps, u, id, chi.URLParam(r, "action"))
	redirect(w, r, "/admin", actionResult(pages.TabReviews, msg, err))
}

func (s *Server) handleAdminRole(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	role := api.Role(r.FormValue("role"))
	id := chi.URLParam(r, "id")
	msg, err := pages.AdminSetRole(r.Context(), s.deps, u, id, role)
	if err == nil && s.syncer != nil {
		s.syncer.Expire(id)
	}
	redirect(w, r, "/admin", actionResult(pages.TabUsers, msg, err))
}

func actionResult(tab, msg string, err error) url.Values {
	q := url.Values{"tab": {tab}}
	if err != nil {
		q.Set("error", err.Error())
	} else {
		q.Set("notice", msg)
	}
	return q
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	s.render(w, r, "submit.html", "submit", u, pages.NewSubmit(s.deps, u))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	form := pages.SubmitForm{
		Name:         r.FormValue("name"),
		Website:      r.FormValue("website"),
		Category:     r.FormValue("category"),
		FundingStage: r.FormValue("funding_stage"),
		Description:  r.FormValue("description"),
		Tagline:      r.FormValue("tagline"),
	}

	var (
		m   *pages.Submit
		err error
	)
	if r.FormValue("action") == "prefill" {
		m, err = pages.PrefillSubmit(r.Context(), s.deps, u, form)
	} else {
		m, err = pages.SubmitProduct(r.Context(), s.deps, u, form)
	}
	if err == nil && m.Submitted != nil {
		redirect(w, r, "/my-products", url.Values{"notice": {m.Notice}})
		return
	}
	s.show(w, r, "submit.html", "submit", u, m, err)
}

func (s *Server) handleMyProducts(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.LoadMyProducts(r.Context(), s.deps, u)
	s.show(w, r, "my_products.html", "my-products", u, m, err)
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.LoadDeals(r.Context(), s.deps, u)
	s.show(w, r, "deals.html", "deals", u, m, err)
}

func (s *Server) handlePilotRequest(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.RequestPilot(r.Context(), s.deps, u, pages.PilotForm{
		DealID:       formInt(r, "deal_id"),
		CompanyName:  r.FormValue("company_name"),
		ContactEmail: r.FormValue("contact_email"),
	})
	s.show(w, r, "deals.html", "deals", u, m, err)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	left, _ := strconv.Atoi(r.URL.Query().Get("left"))
	right, _ := strconv.Atoi(r.URL.Query().Get("right"))
	m, err := pages.LoadCompare(r.Context(), s.deps, u, left, right)
	s.show(w, r, "compare.html", "compare", u, m, err)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.LoadInsights(r.Context(), s.deps, u)
	s.show(w, r, "insights.html", "insights", u, m, err)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.LoadAnalytics(r.Context(), s.deps, u)
	s.show(w, r, "analytics.html", "analytics", u, m, err)
}

func (s *Server) handleBadges(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	selected, _ := strconv.Atoi(r.URL.Query().Get("product"))
	m, err := pages.LoadBadges(r.Context(), s.deps, u, selected)
	s.show(w, r, "badges.html", "badges", u, m, err)
}

// handleEmbedBadge proxies the backend's badge preview so third-party sites
// can frame it from this origin.
func (s *Server) handleEmbedBadge(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, err := s.deps.API.BadgePreview(r.Context(), id)
	if err != nil {
		status := http.StatusBadGateway
		if api.IsNotFound(err) {
			status = http.StatusNotFound
		}
		s.log.Info("badge preview unavailable", zap.Int("product", id), zap.Error(err))
		http.Error(w, "Badge unavailable", status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(body)
}

func (s *Server) handleWizard(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.LoadWizard(r.Context(), s.deps, u)
	s.show(w, r, "wizard.html", "wizard", u, m, err)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.GenerateLaunch(r.Context(), s.deps, u, api.LaunchTemplateInput{
		StartupName:    r.FormValue("startup_name"),
		Category:       r.FormValue("category"),
		OneLiner:       r.FormValue("one_liner"),
		TargetAudience: r.FormValue("target_audience"),
	})
	s.show(w, r, "wizard.html", "wizard", u, m, err)
}

func (s *Server) handleLaunchForm(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.LoadLaunch(r.Context(), s.deps, u)
	if err == nil {
		m.Form.ProductID, _ = strconv.Atoi(r.URL.Query().Get("product"))
	}
	s.show(w, r, "launch.html", "launch", u, m, err)
}

func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.CreateLaunch(r.Context(), s.deps, u, pages.LaunchForm{
		ProductID:   formInt(r, "product_id"),
		Tagline:     r.FormValue("tagline"),
		Description: r.FormValue("description"),
	})
	s.show(w, r, "launch.html", "launch", u, m, err)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.LoadProfile(r.Context(), s.deps, u)
	s.show(w, r, "profile.html", "profile", u, m, err)
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	u := s.user(r)
	m, err := pages.UpdateProfile(r.Context(), s.deps, u, pages.ProfileForm{
		FullName:    r.FormValue("full_name"),
		CompanyName: r.FormValue("company_name"),
	})
	if err == nil && m.Updated != nil && s.syncer != nil {
		u = s.syncer.Refresh(u, *m.Updated)
		m.User = u
	}
	s.show(w, r, "profile.html", "profile", u, m, err)
}
