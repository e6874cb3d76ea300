package session

import (
	"context"
	"testing"
	"time"

	"tidewatch/internal/domain"
	"tidewatch/internal/logger"
)

func newTestManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	mgr, err := NewManager("test-secret-key-0123456789", store, 24*time.Hour, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return mgr, store
}

func sampleState() domain.CredentialState {
	return domain.CredentialState{
		Cookies: []domain.Cookie{
			{Name: "auth", Value: "tok-abc", Domain: ".example.com", Path: "/"},
			{Name: "pref", Value: "dark"},
		},
		Extra: map[string]string{"origin": "login-flow"},
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, "alice@example.com", sampleState())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(token) < 43 { // 32 bytes base64url, unpadded
		t.Errorf("token %q too short for 256 bits of entropy", token)
	}

	sess, ok := mgr.Get(ctx, token)
	if !ok {
		t.Fatal("Get right after Create should succeed")
	}
	if sess.UserID != "alice@example.com" {
		t.Errorf("UserID = %q", sess.UserID)
	}
	if len(sess.State.Cookies) != 2 || sess.State.Cookies[0].Value != "tok-abc" {
		t.Errorf("credential state did not round-trip: %+v", sess.State)
	}
	if sess.State.Extra["origin"] != "login-flow" {
		t.Errorf("Extra did not round-trip: %+v", sess.State.Extra)
	}
	if sess.CreatedAt == 0 {
		t.Error("CreatedAt not set")
	}
}

func TestTokensAreUnique(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := mgr.Create(ctx, "u", domain.CredentialState{})
		if err != nil {
			t.Fatal(err)
		}
		if seen[token] {
			t.Fatal("duplicate session token generated")
		}
		seen[token] = true
	}
}

func TestGetUnknownToken(t *testing.T) {
	mgr, _ := newTestManager(t)
	if _, ok := mgr.Get(context.Background(), "does-not-exist"); ok {
		t.Error("Get of unknown token must report absent")
	}
}

func TestCiphertextStoredNotPlaintext(t *testing.T) {
	mgr, store := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, "bob", sampleState())
	if err != nil {
		t.Fatal(err)
	}

	rec, ok, _ := store.Get(ctx, token)
	if !ok {
		t.Fatal("record missing from backend")
	}
	if string(rec.Blob) == "" {
		t.Fatal("empty blob")
	}
	// The cookie value must not appear in what the backend holds.
	if contains(rec.Blob, []byte("tok-abc")) {
		t.Error("plaintext credential material reached the backend")
	}
}

func TestCorruptBlobDeletedOnGet(t *testing.T) {
	mgr, store := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, "carol", sampleState())
	if err != nil {
		t.Fatal(err)
	}

	rec, _, _ := store.Get(ctx, token)
	rec.Blob[len(rec.Blob)-1] ^= 0xFF
	if err := store.Set(ctx, token, rec, time.Hour); err != nil {
		t.Fatal(err)
	}

	if _, ok := mgr.Get(ctx, token); ok {
		t.Fatal("corrupt record must read as absent")
	}
	// The corrupt record is proactively deleted.
	if ok, _ := store.Exists(ctx, token); ok {
		t.Error("corrupt record should have been deleted")
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	token, err := mgr.Create(ctx, "dave", sampleState())
	if err != nil {
		t.Fatal(err)
	}
	if err := mgr.Delete(ctx, token); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Delete(ctx, token); err != nil {
		t.Errorf("second Delete errored: %v", err)
	}
	if mgr.Validate(ctx, token) {
		t.Error("deleted session must not validate")
	}
}

func contains(haystack, needle []byte) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
