package identity

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/TobiSchelling/ethaum/internal/api"
	"github.com/TobiSchelling/ethaum/internal/database"
)

// DefaultSyncTTL is how long a ledger entry is trusted before the identity
// is synced again.
const DefaultSyncTTL = 10 * time.Minute

// Ledger remembers which identities have been synced.
type Ledger interface {
	GetSyncedUser(clerkID string) (*database.SyncedUser, error)
	RecordSync(u database.SyncedUser) error
	ForgetBackendUser(backendID string) (bool, error)
}

// Syncer upserts each identity into the backend and serves the backend
// profile from the ledger until the entry is older than TTL.
type Syncer struct {
	// TTL bounds how stale a role or company may get. Zero trusts the ledger
	// forever.
	TTL time.Duration

	client *api.Client
	ledger Ledger
	log    *zap.Logger
	group  singleflight.Group
}

// NewSyncer creates a Syncer. A nil ledger keeps sync state in memory for
// the life of the process.
func NewSyncer(client *api.Client, ledger Ledger, log *zap.Logger) *Syncer {
	if ledger == nil {
		ledger = NewMemoryLedger()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{TTL: DefaultSyncTTL, client: client, ledger: ledger, log: log}
}

// Ensure returns u enriched with its backend profile, syncing it first if
// this identity has never been synced or its entry has expired. Failures
// are logged; u is returned with the last known profile, or as asserted.
func (s *Syncer) Ensure(ctx context.Context, u User) User {
	if !u.SignedIn() {
		return u
	}

	rec, err := s.ledger.GetSyncedUser(u.ID)
	if err != nil {
		s.log.Warn("identity ledger read failed", zap.String("user", u.ID), zap.Error(err))
	}
	if rec != nil && s.fresh(rec) {
		return merge(u, rec)
	}
	email := u.Email
	if email == "" && rec != nil {
		email = rec.Email
	}
	if email == "" {
		s.log.Debug("identity has no email, skipping sync", zap.String("user", u.ID))
		return u
	}

	v, err, _ := s.group.Do(u.ID, func() (any, error) {
		profile, err := s.client.As(u.ID).SyncUser(ctx, api.UserSync{
			ClerkID:   u.ID,
			Email:     email,
			FullName:  u.FullName,
			AvatarURL: u.AvatarURL,
		})
		if err != nil {
			return nil, err
		}
		rec := database.SyncedUser{
			ClerkID:     u.ID,
			Email:       profile.Email,
			FullName:    profile.FullName,
			AvatarURL:   profile.AvatarURL,
			Role:        string(profile.Role),
			CompanyName: profile.CompanyName,
			BackendID:   profile.ID,
		}
		if err := s.ledger.RecordSync(rec); err != nil {
			s.log.Warn("identity ledger write failed", zap.String("user", u.ID), zap.Error(err))
		}
		return &rec, nil
	})
	if err != nil {
		s.log.Warn("user sync failed", zap.String("user", u.ID), zap.Error(err))
		if rec != nil {
			return merge(u, rec)
		}
		return u
	}
	s.log.Info("user synced", zap.String("user", u.ID))
	return merge(u, v.(*database.SyncedUser))
}

func (s *Syncer) fresh(rec *database.SyncedUser) bool {
	return s.TTL <= 0 || time.Since(rec.SyncedAt) < s.TTL
}

// Expire drops the ledger entry of the user with the given backend id, so
// their next request picks up a changed role.
func (s *Syncer) Expire(backendID string) {
	if backendID == "" {
		return
	}
	if _, err := s.ledger.ForgetBackendUser(backendID); err != nil {
		s.log.Warn("identity ledger expire failed", zap.String("backend_id", backendID), zap.Error(err))
	}
}

// Refresh records a profile the backend returned outside of sync (for
// example after a profile update) so later requests see it.
func (s *Syncer) Refresh(u User, profile api.User) User {
	rec := database.SyncedUser{
		ClerkID:     u.ID,
		Email:       profile.Email,
		FullName:    profile.FullName,
		AvatarURL:   profile.AvatarURL,
		Role:        string(profile.Role),
		CompanyName: profile.CompanyName,
		BackendID:   profile.ID,
	}
	if err := s.ledger.RecordSync(rec); err != nil {
		s.log.Warn("identity ledger write failed", zap.String("user", u.ID), zap.Error(err))
	}
	return merge(u, &rec)
}

func merge(u User, rec *database.SyncedUser) User {
	if u.Email == "" {
		u.Email = rec.Email
	}
	if u.FullName == "" {
		u.FullName = rec.FullName
	}
	if u.AvatarURL == "" {
		u.AvatarURL = rec.AvatarURL
	}
	u.Role = api.Role(rec.Role)
	u.CompanyName = rec.CompanyName
	u.BackendID = rec.BackendID
	return u
}

// MemoryLedger is a process-local Ledger.
type MemoryLedger struct {
	mu    sync.Mutex
	users map[string]database.SyncedUser
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{users: make(map[string]database.SyncedUser)}
}

func (m *MemoryLedger) GetSyncedUser(clerkID string) (*database.SyncedUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[clerkID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MemoryLedger) RecordSync(u database.SyncedUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.SyncedAt = time.Now()
	m.users[u.ClerkID] = u
	return nil
}

func (m *MemoryLedger) ForgetBackendUser(backendID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.users {
		if u.BackendID == backendID {
			delete(m.users, id)
			return true, nil
		}
	}
	return false, nil
}
