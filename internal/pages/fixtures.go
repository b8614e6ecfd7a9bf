package pages

import "github.com/TobiSchelling/ethaum/internal/api"

// Categories offered on the submission form.
var Categories = []string{
	"AI/ML", "DevOps", "FinTech", "HealthTech", "EdTech",
	"MarTech", "HRTech", "E-commerce", "SaaS", "Other",
}

var FundingStages = []string{
	"Pre-Seed", "Seed", "Series A", "Series B", "Series C", "Series D+",
}

// WizardCategories are the categories the launch copy generator knows.
var WizardCategories = []string{"AI/ML", "DevOps", "FinTech", "Security", "HealthTech"}

// DemoProduct is shown when a product cannot be loaded.
func DemoProduct(id int) api.Product {
	return api.Product{
		ID:           id,
		Name:         "NeuraTech",
		Website:      "https://neuratech.ai",
		Category:     "AI/ML",
		FundingStage: "Series A",
		TrustScore:   82,
		ScoreBreakdown: &api.ScoreBreakdown{
			DataIntegrity:  100,
			MarketTraction: 60,
			UserSentiment:  80,
		},
		Launch: &api.LaunchSummary{IsLaunched: true, Upvotes: 23, Rank: 4},
	}
}

// FallbackProducts is the marketplace shown when the catalog is unreachable.
func FallbackProducts() []api.Product {
	return []api.Product{
		{ID: 1, Name: "NeuraTech", Website: "https://neuratech.ai", Category: "AI/ML", FundingStage: "Series A", TrustScore: 92},
		{ID: 2, Name: "CloudSync", Website: "https://cloudsync.io", Category: "DevOps", FundingStage: "Series B", TrustScore: 87},
		{ID: 3, Name: "FinLedger", Website: "https://finledger.com", Category: "FinTech", FundingStage: "Series A", TrustScore: 78},
	}
}

// MockQuadrant is the insights quadrant shown when the backend is
// unreachable.
func MockQuadrant() api.Quadrant {
	return api.Quadrant{
		Title:       "Emerging Leaders Quadrant",
		Description: "Sample positions shown while live insights are unavailable.",
		Points: []api.QuadrantPoint{
			{ID: 1, Name: "NeuraTech", X: 85, Y: 90, Quadrant: "Leaders"},
			{ID: 2, Name: "CloudSync", X: 75, Y: 60, Quadrant: "Challengers"},
			{ID: 3, Name: "FinLedger", X: 40, Y: 80, Quadrant: "Visionaries"},
			{ID: 4, Name: "DataPipe", X: 30, Y: 35, Quadrant: "Niche Players"},
		},
		Legend: map[string]string{
			"Leaders":       "High credibility, high market traction",
			"Challengers":   "Strong traction, building credibility",
			"Visionaries":   "High credibility, early traction",
			"Niche Players": "Focused offerings, growing presence",
		},
	}
}
