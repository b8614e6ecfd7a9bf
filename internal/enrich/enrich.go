// Package enrich pulls public context about a startup straight from its own
// website: recent posts from its feed, and a title and summary from its
// homepage. Everything here is best effort.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	userAgent    = "EthAum/1.0 (+startup enrichment)"
	maxBodyBytes = 4 << 20
)

// ErrDisabled is returned by every call when enrichment is turned off.
var ErrDisabled = errors.New("enrichment disabled")

// ErrBlockedAddress is returned when a website resolves to an address that
// is not on the public internet.
var ErrBlockedAddress = errors.New("address not allowed")

// sharedAddressSpace is carrier-grade NAT space, not covered by IsPrivate.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// Enricher fetches and parses startup websites. Websites are user supplied,
// so every connection, including redirects, must reach a public address.
type Enricher struct {
	client  *http.Client
	log     *zap.Logger
	enabled bool
	// allowPrivate lifts the public-address check; tests serve from loopback.
	allowPrivate bool
}

// New creates an Enricher. A zero timeout defaults to 5s.
func New(enabled bool, timeout time.Duration, log *zap.Logger) *Enricher {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	e := &Enricher{
		enabled: enabled,
		log:     log,
	}

	dialer := &net.Dialer{Timeout: timeout, Control: e.checkAddress}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	// A proxy would be dialed instead of the site and bypass the check.
	transport.Proxy = nil

	e.client = &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
	return e
}

// checkAddress runs after DNS resolution, right before each connect.
func (e *Enricher) checkAddress(network, address string, _ syscall.RawConn) error {
	if e.allowPrivate {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	if !publicAddr(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ip)
	}
	return nil
}

func publicAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	switch {
	case ip.IsLoopback(), ip.IsPrivate(), ip.IsUnspecified(),
		ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(), ip.IsMulticast():
		return false
	case sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

func (e *Enricher) Enabled() bool { return e != nil && e.enabled }

func (e *Enricher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &httpError{code: resp.StatusCode, url: rawURL}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// normalizeSite turns "neuratech.ai" or "https://neuratech.ai/" into an
// absolute origin-rooted URL without a trailing slash.
func normalizeSite(website string) (*url.URL, error) {
	website = strings.TrimSpace(website)
	if website == "" {
		return nil, errors.New("empty website")
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil {
		return nil, fmt.Errorf("parsing website %q: %w", website, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("website %q has no host", website)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

type httpError struct {
	code int
	url  string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("%s: %s", e.url, http.StatusText(e.code))
}
