package ui

import (
	"html/template"
	"math"
)

type intLike interface{ Int() int }

// toInt lets templates pass any numeric field (int, float, api.Score) to the
// helpers above.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(math.Round(n))
	case intLike:
		return n.Int()
	}
	return 0
}

// FuncMap registers the presentation helpers for html/template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"trustTier":     func(v any) string { return string(TrustTier(toInt(v))) },
		"trustClass":    func(v any) string { return TrustClass(toInt(v)) },
		"stars":         func(v any) []bool { return Stars(toInt(v)) },
		"podium":        Podium,
		"medal":         Medal,
		"sentimentTier": func(v any) string { return SentimentTier(toInt(v)) },
		"quadrantColor": QuadrantColor,
		"markdown":      Markdown,
		"initial":       Initial,
		"percent":       Percent,
		"inc":           func(i int) int { return i + 1 },
		"invertY":       func(y float64) float64 { return 100 - y },
	}
}
