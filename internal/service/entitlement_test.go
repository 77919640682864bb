package service

import (
	"testing"
	"time"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/models"
)

func TestResolveEntitlements(t *testing.T) {
	cases := []struct {
		tier       string
		images     int
		videos     int
		unlimited  bool
		backsound  bool
		activeDays int
	}{
		{tier: constants.PackageTierEconomy, images: 4, videos: 0, backsound: false, activeDays: 30},
		{tier: constants.PackageTierPremium, images: 10, videos: 1, backsound: true, activeDays: 90},
		{tier: constants.PackageTierBusiness, images: 50, videos: 10, backsound: true, activeDays: 180},
		{tier: " Exclusive ", unlimited: true, backsound: true, activeDays: 360},
	}
	for _, tc := range cases {
		ent, err := ResolveEntitlements(tc.tier)
		if err != nil {
			t.Fatalf("resolve %q failed: %v", tc.tier, err)
		}
		if ent.MaxGalleryImages.Unlimited != tc.unlimited || ent.MaxVideos.Unlimited != tc.unlimited {
			t.Fatalf("tier %q unlimited mismatch: %+v", tc.tier, ent)
		}
		if !tc.unlimited && (ent.MaxGalleryImages.Max != tc.images || ent.MaxVideos.Max != tc.videos) {
			t.Fatalf("tier %q limits mismatch: %+v", tc.tier, ent)
		}
		if ent.AllowCustomBacksound != tc.backsound || ent.ActiveDays != tc.activeDays {
			t.Fatalf("tier %q flags mismatch: %+v", tc.tier, ent)
		}
	}

	if _, err := ResolveEntitlements("platinum"); err != ErrInvalidPackage {
		t.Fatalf("expected ErrInvalidPackage, got %v", err)
	}
	if _, err := ResolvePackageEntitlements(nil); err != ErrInvalidPackage {
		t.Fatalf("expected ErrInvalidPackage for nil package, got %v", err)
	}
}

func TestCheckQuota(t *testing.T) {
	err := CheckQuota("gallery", Limit{Max: 4}, 3, 2)
	quota, ok := err.(*QuotaExceededError)
	if !ok {
		t.Fatalf("expected quota error, got %v", err)
	}
	if quota.RemainingSlots != 1 || quota.RequestedCount != 2 || quota.CurrentCount != 3 || quota.MaxAllowed != 4 {
		t.Fatalf("unexpected quota payload: %+v", quota)
	}
	if err := CheckQuota("gallery", Limit{Max: 4}, 3, 1); err != nil {
		t.Fatalf("expected exact fill to pass, got %v", err)
	}
	if err := CheckQuota("video", Limit{Unlimited: true}, 1000, 1000); err != nil {
		t.Fatalf("unlimited should always pass, got %v", err)
	}
	over := CheckQuota("gallery", Limit{Max: 4}, 6, 1).(*QuotaExceededError)
	if over.RemainingSlots != 0 {
		t.Fatalf("remaining slots must not be negative, got %d", over.RemainingSlots)
	}
}

func TestPackageFinalPrice(t *testing.T) {
	discount := 15
	pkg := &models.Package{Price: models.MustMoney("200000"), Discount: &discount}
	if got := pkg.ComputeFinalPrice(); !got.Equal(models.MustMoney("170000").Decimal) {
		t.Fatalf("final price = %s", got.String())
	}
	pkg.Discount = nil
	if got := pkg.ComputeFinalPrice(); !got.Equal(models.MustMoney("200000").Decimal) {
		t.Fatalf("final price without discount = %s", got.String())
	}
}

func TestNormalizeSlug(t *testing.T) {
	cases := map[string]string{
		"  Budi & Sari  ":     "budi-sari",
		"Ánh  Ngọc":           "nh-ngc",
		"---Hello---World---": "hello-world",
		"!!!":                 "",
		"Keluarga Bpk. Andi":  "keluarga-bpk-andi",
	}
	for in, want := range cases {
		if got := NormalizeSlug(in); got != want {
			t.Fatalf("NormalizeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueSlugSkipsTakenAndExcludesSelf(t *testing.T) {
	taken := map[string]uint{"budi-sari": 1, "budi-sari-1": 2}
	exists := func(slug string, excludeID uint) (bool, error) {
		owner, ok := taken[slug]
		return ok && owner != excludeID, nil
	}
	got, err := UniqueSlug("budi-sari", 0, exists)
	if err != nil || got != "budi-sari-2" {
		t.Fatalf("got %q, %v", got, err)
	}
	got, err = UniqueSlug("budi-sari", 1, exists)
	if err != nil || got != "budi-sari" {
		t.Fatalf("own slug should be kept, got %q, %v", got, err)
	}
}

func TestSlugBases(t *testing.T) {
	now := time.Unix(1700000000, 0)
	if got := InvitationSlugBase("Budi", "", now); got != "budi" {
		t.Fatalf("groom only: %q", got)
	}
	if got := InvitationSlugBase("", "Sari", now); got != "sari" {
		t.Fatalf("bride only: %q", got)
	}
	if got := InvitationSlugBase("!!", "??", now); got != "invitation-1700000000" {
		t.Fatalf("fallback: %q", got)
	}
	if got := GuestSlugBase("***", now); got != "guest-1700000000" {
		t.Fatalf("guest fallback: %q", got)
	}
}
