package enrich

import (
	"bytes"
	"context"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// SitePreview is what a startup's homepage says about itself.
type SitePreview struct {
	URL         string
	Name        string
	Title       string
	Description string
}

// Preview fetches a startup homepage and extracts its title and a short
// description, used to prefill the submission form.
func (e *Enricher) Preview(ctx context.Context, website string) (SitePreview, error) {
	if !e.Enabled() {
		return SitePreview{}, ErrDisabled
	}
	site, err := normalizeSite(website)
	if err != nil {
		return SitePreview{}, err
	}

	body, err := e.get(ctx, site.String())
	if err != nil {
		return SitePreview{}, err
	}

	article, err := readability.FromReader(bytes.NewReader(body), site)
	if err != nil {
		return SitePreview{}, err
	}

	p := SitePreview{
		URL:   site.String(),
		Name:  strings.TrimSpace(article.SiteName),
		Title: strings.TrimSpace(article.Title),
	}
	p.Description = strings.TrimSpace(article.Excerpt)
	if p.Description == "" {
		p.Description = truncate(strings.Join(strings.Fields(article.TextContent), " "), 280)
	}
	if p.Name == "" {
		p.Name = nameFromTitle(p.Title, site.Hostname())
	}
	return p, nil
}

// nameFromTitle guesses a product name from "NeuraTech | AI for X" style
// titles, falling back to the host's first label.
func nameFromTitle(title, host string) string {
	for _, sep := range []string{" | ", " - ", " – ", ": "} {
		if name, _, ok := strings.Cut(title, sep); ok && name != "" {
			return strings.TrimSpace(name)
		}
	}
	if title != "" && len(strings.Fields(title)) <= 3 {
		return title
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
