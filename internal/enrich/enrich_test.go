package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"syscall"
	"testing"
	"time"
)

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>NeuraTech blog</title>
%s
</channel></rss>`

func rssItems(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<item><title>Post %d</title><link>https://neuratech.ai/p/%d</link>
<pubDate>Mon, 0%d Sep 2026 10:00:00 GMT</pubDate>
<description>&lt;p&gt;Shipped &amp;amp; measured %d&lt;/p&gt;</description></item>`, i, i, i, i)
	}
	return b.String()
}

const homepage = `<!doctype html><html><head>
<title>NeuraTech | Credible AI for enterprise</title>
<meta property="og:site_name" content="NeuraTech">
<meta name="description" content="NeuraTech builds credibility scoring models for enterprise buyers.">
</head><body><article>
<h1>NeuraTech</h1>
<p>NeuraTech builds credibility scoring models for enterprise buyers evaluating early stage startups.
Our platform combines traction data, verified reviews and market signals into one trust score.</p>
<p>Teams use NeuraTech to shortlist vendors, run pilots and track outcomes across their portfolio.</p>
</article></body></html>`

// newLocal returns an enabled Enricher that may reach httptest servers on
// loopback.
func newLocal() *Enricher {
	e := New(true, time.Second, nil)
	e.allowPrivate = true
	return e
}

func TestUpdatesFallsBackToRSSXML(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path != "/rss.xml" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "EthAum") {
			t.Errorf("unexpected user agent %q", ua)
		}
		fmt.Fprintf(w, rss, rssItems(7))
	}))
	defer srv.Close()

	e := newLocal()
	updates, err := e.Updates(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != maxUpdates {
		t.Fatalf("expected %d updates, got %d", maxUpdates, len(updates))
	}
	if updates[0].Title != "Post 1" || updates[0].URL != "https://neuratech.ai/p/1" {
		t.Errorf("unexpected first update %+v", updates[0])
	}
	if updates[0].Published != "2026-09-01" {
		t.Errorf("unexpected published date %q", updates[0].Published)
	}
	if updates[0].Summary != "Shipped & measured 1" {
		t.Errorf("unexpected summary %q", updates[0].Summary)
	}
	if len(paths) != 2 || paths[0] != "/feed" {
		t.Errorf("expected /feed then /rss.xml, got %v", paths)
	}
}

func TestUpdatesNoFeed(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newLocal().Updates(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error when no feed exists")
	}
}

func TestDisabled(t *testing.T) {
	e := New(false, 0, nil)
	if _, err := e.Updates(context.Background(), "https://neuratech.ai"); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
	if _, err := e.Preview(context.Background(), "https://neuratech.ai"); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
	var nilEnricher *Enricher
	if nilEnricher.Enabled() {
		t.Error("nil enricher must report disabled")
	}
}

func TestPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, homepage)
	}))
	defer srv.Close()

	p, err := newLocal().Preview(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "NeuraTech" {
		t.Errorf("expected name NeuraTech, got %q", p.Name)
	}
	if !strings.Contains(p.Title, "NeuraTech") {
		t.Errorf("unexpected title %q", p.Title)
	}
	if !strings.Contains(p.Description, "credibility scoring") {
		t.Errorf("unexpected description %q", p.Description)
	}
}

func TestPreviewHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := newLocal().Preview(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 403 homepage")
	}
}

func TestRefusesInternalAddresses(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		fmt.Fprintf(w, rss, rssItems(1))
	}))
	defer srv.Close()

	e := New(true, time.Second, nil)
	if _, err := e.Updates(context.Background(), srv.URL); !errors.Is(err, ErrBlockedAddress) {
		t.Errorf("Updates: expected ErrBlockedAddress, got %v", err)
	}
	if _, err := e.Preview(context.Background(), srv.URL); !errors.Is(err, ErrBlockedAddress) {
		t.Errorf("Preview: expected ErrBlockedAddress, got %v", err)
	}
	if hits != 0 {
		t.Errorf("expected no request to reach the server, got %d", hits)
	}
}

func TestRefusesRedirectToInternalAddress(t *testing.T) {
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("redirect target must not be reached")
	}))
	defer internal.Close()

	e := New(true, time.Second, nil)
	// Let the first hop through, then check the redirect target.
	first := true
	allowFirst := e.checkAddress
	e.client.Transport.(*http.Transport).DialContext = (&net.Dialer{
		Control: func(network, address string, c syscall.RawConn) error {
			if first {
				first = false
				return nil
			}
			return allowFirst(network, address, c)
		},
	}).DialContext
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, internal.URL+"/latest", http.StatusFound)
	}))
	defer origin.Close()

	if _, err := e.get(context.Background(), origin.URL); !errors.Is(err, ErrBlockedAddress) {
		t.Errorf("expected ErrBlockedAddress, got %v", err)
	}
}

func TestPublicAddr(t *testing.T) {
	cases := map[string]bool{
		"93.184.216.34":    true,
		"2606:4700::1111":  true,
		"127.0.0.1":        false,
		"::1":              false,
		"10.1.2.3":         false,
		"172.16.0.9":       false,
		"192.168.1.1":      false,
		"169.254.169.254":  false,
		"0.0.0.0":          false,
		"100.64.0.1":       false,
		"fe80::1":          false,
		"fd00::1":          false,
		"::ffff:127.0.0.1": false,
	}
	for in, want := range cases {
		if got := publicAddr(netip.MustParseAddr(in)); got != want {
			t.Errorf("publicAddr(%s) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizeSite(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"neuratech.ai", "https://neuratech.ai", false},
		{"https://neuratech.ai/", "https://neuratech.ai", false},
		{"http://neuratech.ai/blog/?x=1#top", "http://neuratech.ai/blog", false},
		{"ftp://neuratech.ai", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		u, err := normalizeSite(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("normalizeSite(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("normalizeSite(%q): %v", tt.in, err)
			continue
		}
		if u.String() != tt.want {
			t.Errorf("normalizeSite(%q) = %q, want %q", tt.in, u.String(), tt.want)
		}
	}
}

func TestNameFromTitle(t *testing.T) {
	if got := nameFromTitle("CloudSync - DevOps pipelines", "cloudsync.io"); got != "CloudSync" {
		t.Errorf("got %q", got)
	}
	if got := nameFromTitle("", "www.finledger.com"); got != "Finledger" {
		t.Errorf("got %q", got)
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML("<p>Hello&nbsp;<b>world</b></p>\n\n")
	if got != "Hello world" {
		t.Errorf("got %q", got)
	}
}
