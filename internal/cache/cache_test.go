package cache

import (
	"context"
	"testing"

	"github.com/undangan-next/internal/config"
	"github.com/undangan-next/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	slug := "budi-ani"
	inv := &models.Invitation{ID: 1, Slug: &slug}
	if err := SetPublicInvitation(context.Background(), inv, 0); err != nil {
		t.Fatalf("set should be no-op: %v", err)
	}
	got, hit, err := GetPublicInvitation(context.Background(), slug)
	if err != nil || hit || got != nil {
		t.Fatalf("expected miss, got hit=%v err=%v", hit, err)
	}
	if err := InvalidatePublicInvitation(context.Background(), slug, ""); err != nil {
		t.Fatalf("invalidate should be no-op: %v", err)
	}
}

func TestPublicInvitationKeyNormalizes(t *testing.T) {
	if got := PublicInvitationKey("  Budi-Ani "); got != "invitation:public:budi-ani" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestBuildKeyUsesPrefix(t *testing.T) {
	redisPrefix = "undangan"
	if got := buildKey("invitation:public:x"); got != "undangan:invitation:public:x" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := buildKey(" "); got != "undangan" {
		t.Fatalf("unexpected empty key: %s", got)
	}
}
