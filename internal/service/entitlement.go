package service

import (
	"strings"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/models"
)

// Limit 数量上限，Unlimited 为 true 时 Max 无意义
type Limit struct {
	Max       int
	Unlimited bool
}

// Allows 判断在当前数量基础上再增加 requested 个是否允许
func (l Limit) Allows(current, requested int) bool {
	if l.Unlimited {
		return true
	}
	return current+requested <= l.Max
}

// Remaining 剩余可用数量，不会小于 0
func (l Limit) Remaining(current int) int {
	if l.Unlimited {
		return -1
	}
	if rest := l.Max - current; rest > 0 {
		return rest
	}
	return 0
}

// Entitlements 套餐权益
type Entitlements struct {
	Tier                 string
	MaxGalleryImages     Limit
	MaxVideos            Limit
	AllowCustomBacksound bool
	ActiveDays           int
}

var tierEntitlements = map[string]Entitlements{
	constants.PackageTierEconomy: {
		Tier:             constants.PackageTierEconomy,
		MaxGalleryImages: Limit{Max: 4},
		MaxVideos:        Limit{Max: 0},
		ActiveDays:       30,
	},
	constants.PackageTierPremium: {
		Tier:                 constants.PackageTierPremium,
		MaxGalleryImages:     Limit{Max: 10},
		MaxVideos:            Limit{Max: 1},
		AllowCustomBacksound: true,
		ActiveDays:           90,
	},
	constants.PackageTierBusiness: {
		Tier:                 constants.PackageTierBusiness,
		MaxGalleryImages:     Limit{Max: 50},
		MaxVideos:            Limit{Max: 10},
		AllowCustomBacksound: true,
		ActiveDays:           180,
	},
	constants.PackageTierExclusive: {
		Tier:                 constants.PackageTierExclusive,
		MaxGalleryImages:     Limit{Unlimited: true},
		MaxVideos:            Limit{Unlimited: true},
		AllowCustomBacksound: true,
		ActiveDays:           360,
	},
}

// IsKnownTier 判断等级标识是否有效
func IsKnownTier(tier string) bool {
	_, ok := tierEntitlements[normalizeTier(tier)]
	return ok
}

// ResolveEntitlements 按套餐等级解析权益，未知等级返回 ErrInvalidPackage
func ResolveEntitlements(tier string) (Entitlements, error) {
	ent, ok := tierEntitlements[normalizeTier(tier)]
	if !ok {
		return Entitlements{}, ErrInvalidPackage
	}
	return ent, nil
}

// ResolvePackageEntitlements 按套餐解析权益，套餐为空返回 ErrInvalidPackage
func ResolvePackageEntitlements(pkg *models.Package) (Entitlements, error) {
	if pkg == nil {
		return Entitlements{}, ErrInvalidPackage
	}
	return ResolveEntitlements(pkg.Tier)
}

// CheckQuota 校验上传数量，超限时返回 *QuotaExceededError
func CheckQuota(resource string, limit Limit, current, requested int) error {
	if limit.Allows(current, requested) {
		return nil
	}
	return &QuotaExceededError{
		Resource:       resource,
		CurrentCount:   current,
		MaxAllowed:     limit.Max,
		RemainingSlots: limit.Remaining(current),
		RequestedCount: requested,
	}
}

func normalizeTier(tier string) string {
	return strings.ToLower(strings.TrimSpace(tier))
}
