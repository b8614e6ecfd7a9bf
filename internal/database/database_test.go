package database

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndGetSyncedUser(t *testing.T) {
	db := openTestDB(t)
	err := db.RecordSync(SyncedUser{
		ClerkID:     "user_1",
		Email:       "ada@example.com",
		FullName:    "Ada",
		Role:        "buyer",
		CompanyName: "Acme",
		BackendID:   "b-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := db.GetSyncedUser("user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil {
		t.Fatal("expected synced user")
	}
	if u.Role != "buyer" || u.CompanyName != "Acme" || u.BackendID != "b-1" {
		t.Errorf("unexpected row %+v", u)
	}
	if u.AvatarURL != "" {
		t.Errorf("expected empty avatar, got %q", u.AvatarURL)
	}
	if u.SyncedAt.IsZero() {
		t.Error("expected synced_at to be set")
	}
}

func TestRecordSyncUpserts(t *testing.T) {
	db := openTestDB(t)
	db.RecordSync(SyncedUser{ClerkID: "user_1", Email: "a@example.com"})
	db.RecordSync(SyncedUser{ClerkID: "user_1", Email: "a@example.com", Role: "admin"})

	u, _ := db.GetSyncedUser("user_1")
	if u == nil || u.Role != "admin" {
		t.Errorf("expected role admin after upsert, got %+v", u)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.SyncedUsers != 1 || stats.Admins != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestRecordSyncDefaultsRole(t *testing.T) {
	db := openTestDB(t)
	db.RecordSync(SyncedUser{ClerkID: "user_2", Email: "b@example.com"})

	u, _ := db.GetSyncedUser("user_2")
	if u == nil || u.Role != "founder" {
		t.Errorf("expected default role founder, got %+v", u)
	}
}

func TestRecordSyncRejectsEmptyID(t *testing.T) {
	db := openTestDB(t)
	if err := db.RecordSync(SyncedUser{Email: "x@example.com"}); err == nil {
		t.Error("expected error for empty clerk id")
	}
}

func TestRecordSyncRejectsUnknownRole(t *testing.T) {
	db := openTestDB(t)
	if err := db.RecordSync(SyncedUser{ClerkID: "user_3", Email: "c@example.com", Role: "owner"}); err == nil {
		t.Error("expected check constraint failure for unknown role")
	}
}

func TestGetSyncedUserMissing(t *testing.T) {
	db := openTestDB(t)
	u, err := db.GetSyncedUser("nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u != nil {
		t.Error("expected nil for unknown user")
	}
}

func TestForgetUser(t *testing.T) {
	db := openTestDB(t)
	db.RecordSync(SyncedUser{ClerkID: "user_1", Email: "a@example.com"})

	removed, err := db.ForgetUser("user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Error("expected user to be removed")
	}
	removed, _ = db.ForgetUser("user_1")
	if removed {
		t.Error("expected second forget to be a no-op")
	}
	if u, _ := db.GetSyncedUser("user_1"); u != nil {
		t.Error("expected user gone")
	}
}

func TestForgetBackendUser(t *testing.T) {
	db := openTestDB(t)
	db.RecordSync(SyncedUser{ClerkID: "user_1", Email: "a@example.com", BackendID: "b-1"})
	db.RecordSync(SyncedUser{ClerkID: "user_2", Email: "b@example.com", BackendID: "b-2"})

	removed, err := db.ForgetBackendUser("b-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Error("expected user to be removed")
	}
	if u, _ := db.GetSyncedUser("user_1"); u != nil {
		t.Error("expected user_1 gone")
	}
	if u, _ := db.GetSyncedUser("user_2"); u == nil {
		t.Error("expected user_2 kept")
	}
}

func TestGetStatsEmpty(t *testing.T) {
	db := openTestDB(t)
	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.SyncedUsers != 0 || stats.LastSync != "" {
		t.Errorf("unexpected stats %+v", stats)
	}
}
