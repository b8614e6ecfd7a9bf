// Package leaderboard keeps a page-scoped copy of the launch leaderboard and
// applies server-confirmed upvote results to it.
package leaderboard

import (
	"slices"
	"sync"

	"github.com/TobiSchelling/ethaum/internal/api"
)

// Board is one viewer's leaderboard. It never reorders what the backend
// returned on load; only Apply resorts.
type Board struct {
	mu      sync.Mutex
	entries []api.LeaderboardEntry
}

func New(entries []api.LeaderboardEntry) *Board {
	b := &Board{}
	b.Reset(entries)
	return b
}

// Reset replaces the board's contents with a fresh load.
func (b *Board) Reset(entries []api.LeaderboardEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = slices.Clone(entries)
}

// Entries returns a copy of the current ordering.
func (b *Board) Entries() []api.LeaderboardEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.entries)
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Get returns the entry for a launch id.
func (b *Board) Get(id int) (api.LeaderboardEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.index(id)
	if i < 0 {
		return api.LeaderboardEntry{}, false
	}
	return b.entries[i], true
}

// Apply patches launchID with the confirmed count and flag from res,
// stable-sorts by upvotes descending and renumbers ranks from 1. The id in
// res is ignored. It reports false, leaving the board untouched, when the
// launch is not on the board.
func (b *Board) Apply(launchID int, res api.UpvoteResult) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.index(launchID)
	if i < 0 {
		return false
	}
	b.entries[i].Upvotes = res.Upvotes
	b.entries[i].UserUpvoted = res.UserUpvoted

	Resort(b.entries)
	return true
}

func (b *Board) index(id int) int {
	return slices.IndexFunc(b.entries, func(e api.LeaderboardEntry) bool { return e.ID == id })
}

// Resort orders entries by upvotes descending, keeping the prior relative
// order of ties, and renumbers ranks 1..n.
func Resort(entries []api.LeaderboardEntry) {
	slices.SortStableFunc(entries, func(a, b api.LeaderboardEntry) int {
		return b.Upvotes - a.Upvotes
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
