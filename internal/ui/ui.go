// Package ui holds the pure presentation helpers shared by page templates.
// Nothing here fetches data.
package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// TrustTier buckets a 0-100 trust score.
func TrustTier(score int) Tier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 60:
		return TierMedium
	default:
		return TierLow
	}
}

// TrustClass is the CSS class for a score's tier.
func TrustClass(score int) string {
	return "trust-" + string(TrustTier(score))
}

const maxStars = 5

// Stars returns five slots, the first rating of them filled.
func Stars(rating int) []bool {
	rating = max(0, min(rating, maxStars))
	out := make([]bool, maxStars)
	for i := range rating {
		out[i] = true
	}
	return out
}

// Podium reports whether a zero-based leaderboard position gets podium
// styling.
func Podium(index int) bool {
	return index >= 0 && index < 3
}

// Medal names the podium class for a position, or "" off the podium.
func Medal(index int) string {
	switch index {
	case 0:
		return "gold"
	case 1:
		return "silver"
	case 2:
		return "bronze"
	}
	return ""
}

// SentimentTier labels a 0-100 sentiment score the way the backend does.
func SentimentTier(score int) string {
	switch {
	case score > 60:
		return "positive"
	case score < 40:
		return "negative"
	default:
		return "neutral"
	}
}

var quadrantColors = map[string]string{
	"Leaders":       "#10b981",
	"Challengers":   "#f59e0b",
	"Visionaries":   "#8b5cf6",
	"Niche Players": "#6b7280",
}

// QuadrantColor is the plot color for a quadrant name.
func QuadrantColor(name string) string {
	if c, ok := quadrantColors[name]; ok {
		return c
	}
	return "#6b7280"
}

var md = goldmark.New(goldmark.WithExtensions(extension.Linkify))

// Markdown renders text to HTML; on failure the text is escaped instead.
func Markdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Initial is the avatar letter for a name.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// Percent formats a fraction in 0..1 as a whole percentage: 0.73 is "73%".
func Percent(frac float64) string {
	return fmt.Sprintf("%.0f%%", frac*100)
}
