package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithHTTPClient(srv.Client()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetProduct_DecodesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/7", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, `{
			"id": 7, "name": "NeuraTech", "website": "https://neuratech.ai",
			"category": "AI/ML", "funding_stage": "Series A", "trust_score": 82.0,
			"description": null,
			"score_breakdown": {"data_integrity": 100, "market_traction": 60, "user_sentiment": 80},
			"launch": {"is_launched": true, "upvotes": 23, "rank": 4},
			"reviews_count": 3, "owner": null
		}`)
	})

	p, err := c.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "NeuraTech", p.Name)
	assert.Equal(t, Score(82), p.TrustScore)
	require.NotNil(t, p.ScoreBreakdown)
	assert.Equal(t, Score(60), p.ScoreBreakdown.MarketTraction)
	require.NotNil(t, p.Launch)
	assert.Equal(t, 23, p.Launch.Upvotes)
	assert.Nil(t, p.Owner)
}

func TestIdentityHeader(t *testing.T) {
	var got []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get(DefaultUserHeader))
		writeJSON(w, http.StatusOK, []LeaderboardEntry{})
	})

	_, err := c.Leaderboard(context.Background())
	require.NoError(t, err)
	_, err = c.As("user_123").Leaderboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"", "user_123"}, got)
	assert.Empty(t, c.UserID(), "As must not mutate the receiver")
}

func TestCustomUserHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u1", r.Header.Get("X-User"))
		writeJSON(w, http.StatusOK, map[string]bool{"user_upvoted": true})
	})
	c = New(c.BaseURL(), WithHTTPClient(c.http), WithUserHeader("X-User"))

	upvoted, err := c.As("u1").UpvoteStatus(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, upvoted)
}

func TestAdminForbiddenDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Not an admin"})
	})

	_, err := c.As("user_1").AdminStats(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Not an admin", apiErr.Detail)
	assert.True(t, IsForbidden(err))
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, "Not an admin", Detail(err))
}

func TestErrorWithoutDetailUsesStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadGateway))
	assert.Equal(t, "Bad Gateway", Detail(err))
}

func TestValidationDetailList(t *testing.T) {
	body := []byte(`{"detail":[{"loc":["body","rating"],"msg":"ensure this value is less than or equal to 5"},{"msg":"field required"}]}`)
	e := newError("POST", "/reviews/", http.StatusUnprocessableEntity, body)
	assert.Equal(t, "ensure this value is less than or equal to 5; field required", e.Detail)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).GetProduct(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.False(t, IsNotFound(err))
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"id": "not-a-number"}`)
	})

	_, err := c.GetProduct(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Deals(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestUpvoteAndSubmit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/launches/5/upvote":
			assert.Equal(t, http.MethodPost, r.Method)
			writeJSON(w, http.StatusOK, UpvoteResult{ID: 5, Upvotes: 24, UserUpvoted: true})
		case "/api/v1/reviews/":
			var in NewReview
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			writeJSON(w, http.StatusOK, Review{ID: 1, ProductID: in.ProductID, Rating: Score(in.Rating), Comment: in.Comment})
		default:
			http.NotFound(w, r)
		}
	})
	c = c.As("user_9")

	res, err := c.Upvote(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, UpvoteResult{ID: 5, Upvotes: 24, UserUpvoted: true}, res)

	rev, err := c.SubmitReview(context.Background(), NewReview{ProductID: 2, Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	assert.Equal(t, Score(4), rev.Rating)

	_, err = c.GetProduct(context.Background(), 99)
	assert.True(t, IsNotFound(err))
}

func TestUpvoteWithoutIDInBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"upvotes": 24, "user_upvoted": true}`)
	})

	res, err := c.As("user_9").Upvote(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, UpvoteResult{ID: 3, Upvotes: 24, UserUpvoted: true}, res)
}

func TestTimeoutDoesNotMutateSharedClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	before := New("http://backend", WithHTTPClient(shared), WithTimeout(2*time.Second))
	after := New("http://backend", WithTimeout(3*time.Second), WithHTTPClient(shared))

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.Equal(t, 2*time.Second, before.http.Timeout)
	assert.Equal(t, 3*time.Second, after.http.Timeout)
	assert.Equal(t, DefaultTimeout, New("http://backend").http.Timeout)
	assert.NotSame(t, http.DefaultClient, New("http://backend").http)
}

func TestAdminReviewsKeepRawSentiment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/reviews", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"product_id":2,"rating":4,"comment":"ok","sentiment_score":0.73,"verified":false}]`)
	})

	reviews, err := c.As("admin_1").AdminReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.InDelta(t, 0.73, reviews[0].SentimentScore, 1e-9)
	assert.Equal(t, Score(4), reviews[0].Rating)
}

func TestQuadrantFlatten(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{
			"title": "Emerging Leaders",
			"description": "x",
			"products": [
				{"product": {"id": 1, "name": "NeuraTech", "category": "AI/ML"},
				 "overall_credibility_score": 88.6, "badge": "gold",
				 "quadrant": "Leaders", "coordinates": {"x": 85, "y": 90}}
			],
			"quadrants": {"Leaders": "High market presence"}
		}`)
	})

	q, err := c.Quadrant(context.Background())
	require.NoError(t, err)
	require.Len(t, q.Points, 1)
	assert.Equal(t, QuadrantPoint{
		ID: 1, Name: "NeuraTech", Category: "AI/ML", X: 85, Y: 90,
		Quadrant: "Leaders", Score: 89, Badge: "gold",
	}, q.Points[0])
	assert.Equal(t, "High market presence", q.Legend["Leaders"])
}

func TestSetUserRole(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/users/abc/role", r.URL.Path)
		assert.Equal(t, "buyer", r.URL.Query().Get("role"))
		writeJSON(w, http.StatusOK, ActionResult{Success: true, Message: "User role updated to buyer"})
	})

	res, err := c.As("admin").SetUserRole(context.Background(), "abc", RoleBuyer)
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = c.SetUserRole(context.Background(), "abc", Role("owner"))
	assert.Error(t, err)
}

func TestComparisonStartupsUnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"startups":[{"id":1,"name":"A","category":"AI/ML","trust_score":80},{"id":2,"name":"B","category":"SaaS","trust_score":70}]}`)
	})

	list, err := c.ComparisonStartups(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[1].Name)
}

func TestBadgePreviewRaw(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<div>badge</div>")
	})

	body, err := c.BadgePreview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "<div>badge</div>", string(body))
}

func TestEndpointLabel(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/products/12", "/products/:id"},
		{"/products/", "/products/"},
		{"/comparisons/1/vs/2", "/comparisons/:id/vs/:id"},
		{"/admin/products?status=pending", "/admin/products"},
		{"/users/user_2abc", "/users/:id"},
		{"/admin/users/3fa85f64-5717-4562-b3fc-2c963f66afa6/role?role=buyer", "/admin/users/:id/role"},
		{"/launches/leaderboard", "/launches/leaderboard"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, endpointLabel(tc.in), tc.in)
	}
}

func TestScoreUnmarshal(t *testing.T) {
	var v struct {
		A Score `json:"a"`
		B Score `json:"b"`
		C Score `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 79.5, "b": 60, "c": null}`), &v))
	assert.Equal(t, Score(80), v.A)
	assert.Equal(t, Score(60), v.B)
	assert.Equal(t, Score(0), v.C)
}
