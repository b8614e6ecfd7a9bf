package enrich

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
)

const maxUpdates = 5

// feedPaths are tried in order under the startup's website.
var feedPaths = []string{"/feed", "/rss.xml", "/atom.xml"}

// Update is one recent post from a startup's own feed.
type Update struct {
	Title     string
	URL       string
	Published string // YYYY-MM-DD or empty
	Summary   string
}

// Updates returns up to five recent posts from the startup's feed.
func (e *Enricher) Updates(ctx context.Context, website string) ([]Update, error) {
	if !e.Enabled() {
		return nil, ErrDisabled
	}
	site, err := normalizeSite(website)
	if err != nil {
		return nil, err
	}

	parser := gofeed.NewParser()
	var lastErr error
	for _, p := range feedPaths {
		feedURL := site.String() + p
		body, err := e.get(ctx, feedURL)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil || errors.Is(err, ErrBlockedAddress) {
				break
			}
			continue
		}
		feed, err := parser.Parse(bytes.NewReader(body))
		if err != nil {
			lastErr = err
			continue
		}
		updates := parseItems(feed.Items)
		e.log.Debug("feed parsed",
			zap.String("url", feedURL),
			zap.Int("updates", len(updates)))
		return updates, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no feed found")
	}
	return nil, lastErr
}

func parseItems(items []*gofeed.Item) []Update {
	var out []Update
	for _, item := range items {
		if len(out) >= maxUpdates {
			break
		}
		link := item.Link
		if link == "" {
			link = item.GUID
		}
		title := strings.TrimSpace(item.Title)
		if title == "" || link == "" {
			continue
		}

		var published string
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.Format("2006-01-02")
		} else if item.UpdatedParsed != nil {
			published = item.UpdatedParsed.Format("2006-01-02")
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		out = append(out, Update{
			Title:     title,
			URL:       link,
			Published: published,
			Summary:   truncate(stripHTML(summary), 240),
		})
	}
	return out
}

func stripHTML(text string) string {
	var b strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	s := htmlEntities.Replace(b.String())
	return strings.Join(strings.Fields(s), " ")
}

var htmlEntities = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
