package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SyncedUser is the backend profile last returned for an identity.
type SyncedUser struct {
	ClerkID     string
	Email       string
	FullName    string
	AvatarURL   string
	Role        string
	CompanyName string
	BackendID   string
	SyncedAt    time.Time
}

// Stats summarizes the ledger.
type Stats struct {
	SyncedUsers int
	Founders    int
	Buyers      int
	Admins      int
	LastSync    string
}

const syncedAtLayout = "2006-01-02 15:04:05"

// RecordSync upserts the profile for an identity and stamps the sync time.
func (db *DB) RecordSync(u SyncedUser) error {
	if u.ClerkID == "" {
		return errors.New("recording sync: empty clerk id")
	}
	role := u.Role
	if role == "" {
		role = "founder"
	}
	_, err := db.conn.Exec(`
INSERT INTO synced_users (clerk_id, email, full_name, avatar_url, role, company_name, backend_id, synced_at)
VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
ON CONFLICT(clerk_id) DO UPDATE SET
    email = excluded.email,
    full_name = excluded.full_name,
    avatar_url = excluded.avatar_url,
    role = excluded.role,
    company_name = excluded.company_name,
    backend_id = excluded.backend_id,
    synced_at = excluded.synced_at`,
		u.ClerkID, u.Email, nullString(u.FullName), nullString(u.AvatarURL), role,
		nullString(u.CompanyName), nullString(u.BackendID))
	if err != nil {
		return fmt.Errorf("recording sync for %s: %w", u.ClerkID, err)
	}
	return nil
}

// GetSyncedUser returns the ledger row for an identity, or nil if it has
// never been synced.
func (db *DB) GetSyncedUser(clerkID string) (*SyncedUser, error) {
	var (
		u                                          SyncedUser
		fullName, avatar, company, backend, synced sql.NullString
	)
	err := db.conn.QueryRow(`
SELECT clerk_id, email, full_name, avatar_url, role, company_name, backend_id, synced_at
FROM synced_users WHERE clerk_id = ?`, clerkID).Scan(
		&u.ClerkID, &u.Email, &fullName, &avatar, &u.Role, &company, &backend, &synced)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading synced user %s: %w", clerkID, err)
	}

	u.FullName = fullName.String
	u.AvatarURL = avatar.String
	u.CompanyName = company.String
	u.BackendID = backend.String
	if synced.Valid {
		u.SyncedAt, _ = time.Parse(syncedAtLayout, synced.String)
	}
	return &u, nil
}

// ForgetUser drops an identity so the next request syncs it again.
func (db *DB) ForgetUser(clerkID string) (bool, error) {
	res, err := db.conn.Exec("DELETE FROM synced_users WHERE clerk_id = ?", clerkID)
	if err != nil {
		return false, fmt.Errorf("forgetting %s: %w", clerkID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ForgetBackendUser drops the identity recorded with a backend user id.
func (db *DB) ForgetBackendUser(backendID string) (bool, error) {
	res, err := db.conn.Exec("DELETE FROM synced_users WHERE backend_id = ?", backendID)
	if err != nil {
		return false, fmt.Errorf("forgetting backend user %s: %w", backendID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// GetStats returns counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM synced_users", &s.SyncedUsers},
		{"SELECT COUNT(*) FROM synced_users WHERE role = 'founder'", &s.Founders},
		{"SELECT COUNT(*) FROM synced_users WHERE role = 'buyer'", &s.Buyers},
		{"SELECT COUNT(*) FROM synced_users WHERE role = 'admin'", &s.Admins},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	var last sql.NullString
	if err := db.conn.QueryRow("SELECT MAX(synced_at) FROM synced_users").Scan(&last); err != nil {
		return nil, err
	}
	s.LastSync = last.String

	return s, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
