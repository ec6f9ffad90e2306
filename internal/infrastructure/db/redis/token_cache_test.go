package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Ghosted34/natours-nest/internal/core/domain"
)

func newTestCache(t *testing.T) (*TokenCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenCache(client), mr
}

func TestTokenCache_BlacklistToken(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	revoked, err := cache.IsTokenBlacklisted(ctx, "tok-1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if revoked {
		t.Fatalf("fresh token must not be blacklisted")
	}

	if err := cache.BlacklistToken(ctx, "tok-1", time.Hour); err != nil {
		t.Fatalf("blacklist failed: %v", err)
	}
	revoked, err = cache.IsTokenBlacklisted(ctx, "tok-1")
	if err != nil || !revoked {
		t.Fatalf("expected blacklisted (revoked=%v err=%v)", revoked, err)
	}

	// Entry dies with its TTL.
	mr.FastForward(time.Hour + time.Second)
	revoked, err = cache.IsTokenBlacklisted(ctx, "tok-1")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if revoked {
		t.Fatalf("entry must expire with its ttl")
	}
}

func TestTokenCache_UserRevocationMarker(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok, err := cache.UserTokensRevokedAt(ctx, "user_1"); err != nil || ok {
		t.Fatalf("expected no marker (ok=%v err=%v)", ok, err)
	}

	before := time.Now().UTC()
	if err := cache.BlacklistAllUserTokens(ctx, "user_1", 24*time.Hour); err != nil {
		t.Fatalf("marker write failed: %v", err)
	}
	after := time.Now().UTC()

	revokedAt, ok, err := cache.UserTokensRevokedAt(ctx, "user_1")
	if err != nil || !ok {
		t.Fatalf("expected marker (ok=%v err=%v)", ok, err)
	}
	if revokedAt.Before(before.Add(-time.Second)) || revokedAt.After(after.Add(time.Second)) {
		t.Fatalf("marker instant %v outside write window [%v, %v]", revokedAt, before, after)
	}
}

func TestTokenCache_OTPLifecycle(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	entry := domain.OTPEntry{
		Code:      "12345",
		Email:     "boss@example.com",
		ExpiresAt: time.Now().UTC().Add(10 * time.Minute),
	}
	if err := cache.StoreOTP(ctx, "boss@example.com", entry, 10*time.Minute); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	got, err := cache.GetOTP(ctx, "boss@example.com")
	if err != nil || got == nil {
		t.Fatalf("get failed (entry=%v err=%v)", got, err)
	}
	if got.Code != "12345" || got.Used {
		t.Fatalf("unexpected entry: %+v", got)
	}

	if err := cache.MarkOTPUsed(ctx, "boss@example.com"); err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	got, err = cache.GetOTP(ctx, "boss@example.com")
	if err != nil || got == nil || !got.Used {
		t.Fatalf("expected used entry, got %+v (err=%v)", got, err)
	}

	// Marking used must not extend the original TTL.
	mr.FastForward(11 * time.Minute)
	got, err = cache.GetOTP(ctx, "boss@example.com")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Fatalf("entry must expire on schedule, got %+v", got)
	}
}

func TestTokenCache_MarkOTPUsed_Missing(t *testing.T) {
	cache, _ := newTestCache(t)
	if err := cache.MarkOTPUsed(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("marking a missing otp must be a no-op, got %v", err)
	}
}

func TestTokenCache_Sessions(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	id, err := cache.CreateSession(ctx, "user_1", map[string]any{"device": "phone"}, time.Hour)
	if err != nil || id == "" {
		t.Fatalf("create failed (id=%q err=%v)", id, err)
	}

	session, err := cache.GetSession(ctx, id)
	if err != nil || session == nil {
		t.Fatalf("get failed (session=%v err=%v)", session, err)
	}
	if session["user_id"] != "user_1" || session["device"] != "phone" {
		t.Fatalf("unexpected session: %+v", session)
	}

	if err := cache.DestroySession(ctx, id); err != nil {
		t.Fatalf("destroy failed: %v", err)
	}
	session, err = cache.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("get after destroy failed: %v", err)
	}
	if session != nil {
		t.Fatalf("session must be gone, got %+v", session)
	}
}
