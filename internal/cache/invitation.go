package cache

import (
	"context"
	"strings"
	"time"

	"github.com/undangan-next/internal/models"
)

const defaultPublicInvitationTTL = 5 * time.Minute

// PublicInvitationKey 公开请柬详情缓存键
func PublicInvitationKey(slug string) string {
	return "invitation:public:" + strings.ToLower(strings.TrimSpace(slug))
}

// GetPublicInvitation 读取公开请柬缓存
func GetPublicInvitation(ctx context.Context, slug string) (*models.Invitation, bool, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, false, nil
	}
	var invitation models.Invitation
	hit, err := GetJSON(ctx, PublicInvitationKey(slug), &invitation)
	if err != nil || !hit {
		return nil, false, err
	}
	return &invitation, true, nil
}

// SetPublicInvitation 写入公开请柬缓存，ttl<=0 使用默认值
func SetPublicInvitation(ctx context.Context, invitation *models.Invitation, ttl time.Duration) error {
	slug := invitation.SlugValue()
	if slug == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultPublicInvitationTTL
	}
	return SetJSON(ctx, PublicInvitationKey(slug), invitation, ttl)
}

// InvalidatePublicInvitation 删除一个或多个 slug 的公开缓存
func InvalidatePublicInvitation(ctx context.Context, slugs ...string) error {
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if strings.TrimSpace(slug) == "" {
			continue
		}
		keys = append(keys, PublicInvitationKey(slug))
	}
	return Del(ctx, keys...)
}
