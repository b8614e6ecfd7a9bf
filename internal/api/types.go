package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Score is a backend-computed number shown as an integer (trust score,
// sentiment, match score, rating). The backend emits it as either an int or
// a float depending on the endpoint; both decode, floats are rounded.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	data = bytes.Trim(data, `"`)
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*s = Score(math.Round(f))
	return nil
}

// Int returns the score as a plain int.
func (s Score) Int() int { return int(s) }

// --- products ---

type ScoreBreakdown struct {
	DataIntegrity  Score `json:"data_integrity"`
	MarketTraction Score `json:"market_traction"`
	UserSentiment  Score `json:"user_sentiment"`
}

type LaunchSummary struct {
	IsLaunched bool `json:"is_launched"`
	Upvotes    int  `json:"upvotes"`
	Rank       int  `json:"rank"`
}

type Owner struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Product is a startup listing as returned by the products endpoints.
// Breakdown, launch and owner are only present on the detail endpoint.
type Product struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Website        string          `json:"website"`
	Category       string          `json:"category"`
	FundingStage   string          `json:"funding_stage"`
	TrustScore     Score           `json:"trust_score"`
	Description    string          `json:"description,omitempty"`
	Tagline        string          `json:"tagline,omitempty"`
	UserID         string          `json:"user_id,omitempty"`
	Status         string          `json:"status,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
	ScoreBreakdown *ScoreBreakdown `json:"score_breakdown,omitempty"`
	Launch         *LaunchSummary  `json:"launch,omitempty"`
	ReviewsCount   int             `json:"reviews_count,omitempty"`
	Owner          *Owner          `json:"owner,omitempty"`
}

type NewProduct struct {
	Name         string `json:"name"`
	Website      string `json:"website"`
	Category     string `json:"category"`
	FundingStage string `json:"funding_stage"`
	Description  string `json:"description,omitempty"`
	Tagline      string `json:"tagline,omitempty"`
}

type ProductUpdate struct {
	Name        *string `json:"name,omitempty"`
	Website     *string `json:"website,omitempty"`
	Description *string `json:"description,omitempty"`
	Tagline     *string `json:"tagline,omitempty"`
}

// --- launches ---

type Launch struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	Tagline   string `json:"tagline,omitempty"`
	Upvotes   int    `json:"upvotes"`
}

type NewLaunch struct {
	ProductID   int    `json:"product_id"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
}

// LeaderboardEntry is one launch on the leaderboard, joined with its product.
type LeaderboardEntry struct {
	ID          int    `json:"id"`
	ProductID   int    `json:"product_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Upvotes     int    `json:"upvotes"`
	Rank        int    `json:"rank"`
	IsFeatured  bool   `json:"is_featured"`
	UserUpvoted bool   `json:"user_upvoted"`
}

// UpvoteResult is the server-confirmed state of a launch after an upvote
// toggle.
type UpvoteResult struct {
	ID          int  `json:"id"`
	Upvotes     int  `json:"upvotes"`
	UserUpvoted bool `json:"user_upvoted"`
}

// --- reviews ---

type Review struct {
	ID             int    `json:"id"`
	ProductID      int    `json:"product_id"`
	Rating         Score  `json:"rating"`
	Comment        string `json:"comment"`
	SentimentScore Score  `json:"sentiment_score"`
	SentimentLabel string `json:"sentiment_label,omitempty"`
	ReviewerName   string `json:"reviewer_name,omitempty"`
	Verified       bool   `json:"verified"`
}

type NewReview struct {
	ProductID int    `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type SentimentSummary struct {
	TotalReviews     int     `json:"total_reviews"`
	AverageRating    float64 `json:"average_rating"`
	AverageSentiment Score   `json:"average_sentiment"`
	SentimentLabel   string  `json:"sentiment_label"`
	PositiveCount    int     `json:"positive_count"`
	NegativeCount    int     `json:"negative_count"`
	NeutralCount     int     `json:"neutral_count"`
}

// --- users ---

type Role string

const (
	RoleFounder Role = "founder"
	RoleBuyer   Role = "buyer"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether r is one of the backend's roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleFounder, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          string `json:"id"`
	ClerkID     string `json:"clerk_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Role        Role   `json:"role"`
	CompanyName string `json:"company_name,omitempty"`
}

type UserSync struct {
	ClerkID     string `json:"clerk_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Role        Role   `json:"role,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

type UserUpdate struct {
	FullName    *string `json:"full_name,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
}

// --- admin ---

type AdminStats struct {
	TotalProducts   int `json:"total_products"`
	TotalUsers      int `json:"total_users"`
	TotalReviews    int `json:"total_reviews"`
	TotalUpvotes    int `json:"total_upvotes"`
	PendingProducts int `json:"pending_products"`
}

type AdminProduct struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	TrustScore Score  `json:"trust_score"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UserID     string `json:"user_id,omitempty"`
}

type AdminUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at"`
}

type AdminReview struct {
	ID             int     `json:"id"`
	ProductID      int     `json:"product_id"`
	Rating         Score   `json:"rating"`
	Comment        string  `json:"comment"`
	ReviewerName   string  `json:"reviewer_name"`
	// SentimentScore is the raw 0..1 model output, not a display score.
	SentimentScore float64 `json:"sentiment_score"`
	Verified       bool    `json:"verified"`
}

// ActionResult acknowledges a moderation or profile write.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Admin   string `json:"admin,omitempty"`
}

// --- insights & analytics ---

// QuadrantPoint is a product's position on the emerging-leaders quadrant.
type QuadrantPoint struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Quadrant string  `json:"quadrant"`
	Score    Score   `json:"score,omitempty"`
	Badge    string  `json:"badge,omitempty"`
}

type Quadrant struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Points      []QuadrantPoint   `json:"points"`
	Legend      map[string]string `json:"quadrants"`
}

// quadrantEnvelope is the backend's nested wire shape for /insights/quadrant.
type quadrantEnvelope struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Products    []struct {
		Product struct {
			ID       int    `json:"id"`
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"product"`
		OverallCredibilityScore Score  `json:"overall_credibility_score"`
		Badge                   string `json:"badge"`
		Quadrant                string `json:"quadrant"`
		Coordinates             struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"coordinates"`
	} `json:"products"`
	Quadrants map[string]string `json:"quadrants"`
}

func (e quadrantEnvelope) flatten() Quadrant {
	q := Quadrant{
		Title:       e.Title,
		Description: e.Description,
		Legend:      e.Quadrants,
		Points:      make([]QuadrantPoint, 0, len(e.Products)),
	}
	for _, p := range e.Products {
		q.Points = append(q.Points, QuadrantPoint{
			ID:       p.Product.ID,
			Name:     p.Product.Name,
			Category: p.Product.Category,
			X:        p.Coordinates.X,
			Y:        p.Coordinates.Y,
			Quadrant: p.Quadrant,
			Score:    p.OverallCredibilityScore,
			Badge:    p.Badge,
		})
	}
	return q
}

// Credibility is the per-product credibility breakdown from insights.
type Credibility struct {
	ID                      int            `json:"id"`
	Name                    string         `json:"name"`
	Category                string         `json:"category"`
	FundingStage            string         `json:"funding_stage"`
	TotalUpvotes            int            `json:"total_upvotes"`
	ReviewCount             int            `json:"review_count"`
	AverageRating           float64        `json:"average_rating"`
	OverallCredibilityScore Score          `json:"overall_credibility_score"`
	Badge                   string         `json:"badge"`
	Breakdown               map[string]any `json:"breakdown,omitempty"`
}

type Overview struct {
	TotalStartups         int     `json:"total_startups"`
	TotalLaunchesThisWeek int     `json:"total_launches_this_week"`
	TotalUpvotesThisWeek  int     `json:"total_upvotes_this_week"`
	TotalEnterprisePilots int     `json:"total_enterprise_pilots"`
	AverageTrustScore     float64 `json:"average_trust_score"`
}

type CategoryGrowth struct {
	Name     string `json:"name"`
	Growth   int    `json:"growth"`
	Startups int    `json:"startups"`
}

type TopPerformer struct {
	Name            string `json:"name"`
	TrustScore      Score  `json:"trust_score"`
	Upvotes         int    `json:"upvotes"`
	PilotsRequested int    `json:"pilots_requested"`
}

type FundingShare struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

type AnalyticsDashboard struct {
	Overview            Overview                `json:"overview"`
	TrendingCategories  []CategoryGrowth        `json:"trending_categories"`
	TopPerformers       []TopPerformer          `json:"top_performers"`
	FundingDistribution map[string]FundingShare `json:"funding_distribution"`
}

type RisingStar struct {
	Name       string `json:"name"`
	Change     string `json:"change"`
	Reason     string `json:"reason"`
	TrustScore Score  `json:"trust_score"`
}

type CategoryMomentum struct {
	Category string `json:"category"`
	Trend    string `json:"trend"`
	Score    int    `json:"score"`
}

type Trends struct {
	WeeklyTrends struct {
		RisingStars      []RisingStar       `json:"rising_stars"`
		CategoryMomentum []CategoryMomentum `json:"category_momentum"`
	} `json:"weekly_trends"`
	EnterpriseInterest struct {
		MostRequestedCategories []string `json:"most_requested_categories"`
		PilotConversionRate     string   `json:"pilot_conversion_rate"`
		AverageDealSize         string   `json:"average_deal_size"`
	} `json:"enterprise_interest"`
	AIPredictions struct {
		NextHotCategory string  `json:"next_hot_category"`
		Confidence      float64 `json:"confidence"`
		Reasoning       string  `json:"reasoning"`
	} `json:"ai_predictions"`
}

// ProductMetrics is kept loosely typed; the backend's funnel sections change
// often and are only echoed to the page.
type ProductMetrics struct {
	ProductID       int               `json:"product_id"`
	Engagement      map[string]any    `json:"engagement"`
	Conversion      map[string]string `json:"conversion"`
	Comparison      map[string]any    `json:"comparison"`
	Growth          map[string]any    `json:"growth"`
	Recommendations []string          `json:"recommendations"`
}

// --- deals ---

type Deal struct {
	ID               int    `json:"id"`
	ProductID        int    `json:"product_id"`
	StartupName      string `json:"startup_name"`
	PilotTitle       string `json:"pilot_title"`
	Description      string `json:"description"`
	IdealBuyer       string `json:"ideal_buyer"`
	CredibilityScore Score  `json:"credibility_score"`
	PilotDuration    string `json:"pilot_duration"`
	Status           string `json:"status"`
}

type PilotRequest struct {
	DealID       int    `json:"deal_id"`
	CompanyName  string `json:"company_name"`
	ContactEmail string `json:"contact_email"`
}

type PilotRequestResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	DealID      int    `json:"deal_id"`
	CompanyName string `json:"company_name"`
}

// --- matchmaking ---

type BuyerMatch struct {
	BuyerType        string   `json:"buyer_type"`
	BuyerDescription string   `json:"buyer_description"`
	MatchScore       Score    `json:"match_score"`
	Reasons          []string `json:"reasons"`
	Recommendation   string   `json:"recommendation"`
}

type Matchmaking struct {
	Startup struct {
		ID         int    `json:"id"`
		Name       string `json:"name"`
		Category   string `json:"category"`
		TrustScore Score  `json:"trust_score"`
	} `json:"startup"`
	Algorithm struct {
		Name    string   `json:"algorithm"`
		Factors []string `json:"factors"`
	} `json:"ai_matchmaking"`
	RecommendedBuyers []BuyerMatch `json:"recommended_buyers"`
	TotalMatches      int          `json:"total_matches"`
}

// --- comparisons ---

type ComparisonStartup struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	TrustScore Score  `json:"trust_score"`
}

type ComparedStartup struct {
	ID                     int      `json:"id"`
	Name                   string   `json:"name"`
	Category               string   `json:"category"`
	TrustScore             Score    `json:"trust_score"`
	PricingTier            string   `json:"pricing_tier"`
	AvgImplementationDays  int      `json:"avg_implementation_days"`
	ROIPercentage          int      `json:"roi_percentage"`
	IntegrationCount       int      `json:"integration_count"`
	SupportSLA             string   `json:"support_sla"`
	SecurityCertifications []string `json:"security_certifications"`
	KeyFeatures            []string `json:"key_features"`
	IdealFor               string   `json:"ideal_for"`
}

type MetricComparison struct {
	Winner string             `json:"winner"`
	Values map[string]float64 `json:"values"`
	Unit   string             `json:"unit,omitempty"`
}

type Comparison struct {
	Pair struct {
		Startup1 ComparedStartup `json:"startup_1"`
		Startup2 ComparedStartup `json:"startup_2"`
	} `json:"comparison"`
	Metrics        map[string]MetricComparison `json:"metrics_comparison"`
	Recommendation string                      `json:"recommendation"`
}

// --- badges ---

type BadgeData struct {
	Product struct {
		ID         int    `json:"id"`
		Name       string `json:"name"`
		TrustScore Score  `json:"trust_score"`
	} `json:"product"`
	Badge struct {
		Level      string `json:"level"`
		Verified   bool   `json:"verified"`
		IssuedDate string `json:"issued_date"`
		ValidUntil string `json:"valid_until"`
	} `json:"badge"`
	EmbedCodes struct {
		HTML     string `json:"html"`
		Markdown string `json:"markdown"`
		React    string `json:"react"`
	} `json:"embed_codes"`
	PreviewURL string `json:"preview_url"`
}

// --- launch templates ---

type LaunchTemplateInput struct {
	StartupName    string `json:"startup_name"`
	Category       string `json:"category"`
	OneLiner       string `json:"one_liner"`
	TargetAudience string `json:"target_audience,omitempty"`
}

type LaunchTiming struct {
	Day    string `json:"day"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

type LaunchTemplate struct {
	Input struct {
		StartupName string `json:"startup_name"`
		Category    string `json:"category"`
	} `json:"input"`
	Generated struct {
		Taglines          []string     `json:"taglines"`
		Descriptions      []string     `json:"descriptions"`
		Timing            LaunchTiming `json:"timing"`
		RecommendedAssets []string     `json:"recommended_assets"`
		LaunchTips        []string     `json:"launch_tips"`
	} `json:"ai_generated"`
	Confidence float64 `json:"ai_confidence"`
	Note       string  `json:"note"`
}

type ScoredSlot struct {
	Day    string `json:"day,omitempty"`
	Time   string `json:"time,omitempty"`
	Score  int    `json:"score,omitempty"`
	Reason string `json:"reason"`
}

type Scheduling struct {
	BestDays  []ScoredSlot `json:"best_days"`
	BestTimes []ScoredSlot `json:"best_times"`
	Avoid     []ScoredSlot `json:"avoid"`
	Tip       string       `json:"tip"`
}

// --- recommendations ---

type TrendingProduct struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	TrustScore    Score  `json:"trust_score"`
	Upvotes       int    `json:"upvotes"`
	TrendingScore int    `json:"trending_score"`
}

type Trending struct {
	Products   []TrendingProduct `json:"products"`
	Algorithm  string            `json:"algorithm"`
	TimePeriod string            `json:"time_period"`
}

// errorBody is the backend's error envelope. FastAPI emits detail as a
// string for HTTPException and as a list of {msg} objects for validation
// failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}
