package pages

import (
	"context"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/identity"
	"github.com/TobiSchelling/ethaum/internal/leaderboard"
	"github.com/TobiSchelling/ethaum/internal/metrics"
	"github.com/TobiSchelling/ethaum/internal/view"
)

type Leaderboard struct {
	Status
	User    identity.User
	Entries []api.LeaderboardEntry
}

// LoadLeaderboard loads launches in the backend's order, with the caller's
// upvote flags when signed in. Failure shows an empty board.
func LoadLeaderboard(ctx context.Context, d Deps, u identity.User) (*Leaderboard, error) {
	m := &Leaderboard{User: u}

	c := d.controller("leaderboard")
	c.IsEmpty = func() bool { return len(m.Entries) == 0 }
	_ = c.Load(ctx, view.Into("leaderboard", &m.Entries, nil, d.client(u).Leaderboard))

	var err error
	m.Status, err = settle(c, "")
	return m, err
}

// Upvote toggles the caller's upvote on a launch and, when board is given,
// applies the server-confirmed result to it. Nothing is applied
// optimistically; on failure the board is untouched.
func Upvote(ctx context.Context, d Deps, u identity.User, board *leaderboard.Board, launchID int) (api.UpvoteResult, error) {
	if !u.SignedIn() {
		return api.UpvoteResult{}, ErrSignInRequired
	}
	res, err := d.client(u).Upvote(ctx, launchID)
	if err != nil {
		return api.UpvoteResult{}, err
	}
	if board != nil && board.Apply(launchID, res) {
		metrics.UpvotesApplied.Inc()
	}
	return res, nil
}
