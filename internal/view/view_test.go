package view

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiSchelling/ethaum/internal/api"
)

func TestLoadWaitsForAllFetches(t *testing.T) {
	c := New("test", nil)

	var sawLoading atomic.Bool
	release := make(chan struct{})
	var slowDone atomic.Bool

	c.OnChange = func(s State) {
		if s == Loaded {
			assert.True(t, slowDone.Load(), "Loaded before every fetch settled")
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- c.Load(context.Background(),
			Fetch{Name: "fast", Run: func(context.Context) error {
				sawLoading.Store(c.State() == Loading)
				return nil
			}},
			Fetch{Name: "slow", Run: func(context.Context) error {
				<-release
				slowDone.Store(true)
				return nil
			}},
		)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, Loading, c.State())
	close(release)

	require.NoError(t, <-done)
	assert.True(t, sawLoading.Load())
	assert.Equal(t, Loaded, c.State())
	assert.Equal(t, []State{Loading, Loaded}, c.Transitions())
}

func TestOptionalFailureStillLoads(t *testing.T) {
	c := New("test", nil)
	boom := errors.New("boom")

	var products []string
	err := c.Load(context.Background(),
		Into("products", &products, []string{"fallback"}, func(context.Context) ([]string, error) {
			return nil, boom
		}),
		Fetch{Name: "other", Run: func(context.Context) error { return nil }},
	)

	require.NoError(t, err)
	assert.Equal(t, Loaded, c.State())
	assert.Equal(t, []string{"fallback"}, products)
	assert.ErrorIs(t, c.FetchErr("products"), boom)
	assert.NoError(t, c.FetchErr("other"))
}

func TestRequiredFailureErrors(t *testing.T) {
	c := New("admin", nil)
	first := errors.New("first")
	second := errors.New("second")

	var stats int
	err := c.Load(context.Background(),
		Fetch{Name: "a", Required: true, Run: func(context.Context) error {
			time.Sleep(10 * time.Millisecond)
			return first
		}},
		Fetch{Name: "b", Required: true, Run: func(context.Context) error { return second }},
		Must("stats", &stats, func(context.Context) (int, error) { return 3, nil }),
	)

	assert.ErrorIs(t, err, first, "declaration order decides which failure wins")
	assert.Equal(t, Errored, c.State())
	assert.Equal(t, 3, stats)
}

func TestEmptyState(t *testing.T) {
	c := New("deals", nil)
	var deals []int
	c.IsEmpty = func() bool { return NoItems(deals) }

	require.NoError(t, c.Load(context.Background(),
		Into("deals", &deals, nil, func(context.Context) ([]int, error) { return []int{}, nil }),
	))
	assert.Equal(t, Empty, c.State())
}

func TestReloadRestartsFromLoading(t *testing.T) {
	c := New("leaderboard", nil)
	ok := Fetch{Name: "x", Run: func(context.Context) error { return nil }}

	require.NoError(t, c.Load(context.Background(), ok))
	require.NoError(t, c.Load(context.Background(), ok))
	assert.Equal(t, []State{Loading, Loaded, Loading, Loaded}, c.Transitions())
}

func TestCanceledLoad(t *testing.T) {
	c := New("product", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Load(ctx, Fetch{Name: "x", Run: func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Errored, c.State())
	assert.True(t, c.Canceled())
}

func TestFail(t *testing.T) {
	c := New("admin", nil)
	c.Fail(errors.New("sign in"))
	assert.Equal(t, Errored, c.State())
	assert.EqualError(t, c.Err(), "sign in")
}

func TestSettle(t *testing.T) {
	o := Settle([]int{}, nil, NoItems[int])
	assert.Equal(t, Empty, o.State)

	o = Settle([]int{1}, nil, NoItems[int])
	assert.Equal(t, Loaded, o.State)

	o = Settle[[]int](nil, errors.New("x"), NoItems[int])
	assert.Equal(t, Errored, o.State)
	assert.Error(t, o.Err)
}

func TestMessage(t *testing.T) {
	err := &api.Error{Status: http.StatusForbidden, Detail: "Not an admin"}
	assert.Equal(t, "Not an admin", Message(err, "Access denied"))
	assert.Equal(t, "Access denied", Message(errors.New("dial tcp"), "Access denied"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loaded", Loaded.String())
	assert.True(t, Empty.Settled())
	assert.False(t, Loading.Settled())
}
