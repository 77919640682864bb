package service

import (
	"context"
	"strings"
	"time"

	"github.com/undangan-next/internal/cache"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"
)

// invitationGuard 请柬归属、到期与权益校验，各内容模块服务共用
type invitationGuard struct {
	invitations repository.InvitationRepository
	orders      repository.OrderRepository
	now         func() time.Time
}

func newInvitationGuard(invitations repository.InvitationRepository, orders repository.OrderRepository) *invitationGuard {
	return &invitationGuard{invitations: invitations, orders: orders, now: time.Now}
}

// owned 加载请柬并校验归属
func (g *invitationGuard) owned(userID, invitationID uint) (*models.Invitation, error) {
	if invitationID == 0 {
		return nil, ErrInvitationNotFound
	}
	invitation, err := g.invitations.GetByID(invitationID)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrInvitationNotFound
	}
	if invitation.UserID != userID {
		return nil, ErrForbidden
	}
	return invitation, nil
}

// editable 在归属校验之外按到期时间实时判断，与 status 字段无关
func (g *invitationGuard) editable(userID, invitationID uint) (*models.Invitation, error) {
	invitation, err := g.owned(userID, invitationID)
	if err != nil {
		return nil, err
	}
	if invitation.IsExpiredAt(g.now()) {
		return nil, ErrInvitationExpired
	}
	return invitation, nil
}

// entitlements 按请柬所属订单的套餐解析权益
func (g *invitationGuard) entitlements(invitation *models.Invitation) (Entitlements, error) {
	order, err := g.orders.GetByID(invitation.OrderID)
	if err != nil {
		return Entitlements{}, err
	}
	if order == nil {
		return Entitlements{}, ErrInvalidPackage
	}
	return ResolvePackageEntitlements(order.Package)
}

// published 公开接口按 slug 查找已发布请柬
func (g *invitationGuard) published(slug string) (*models.Invitation, error) {
	invitation, err := g.invitations.GetPublishedBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrInvitationNotFound
	}
	return invitation, nil
}

// touch 内容变更后失效公开缓存
func (g *invitationGuard) touch(ctx context.Context, invitation *models.Invitation) {
	if invitation == nil {
		return
	}
	if err := cache.InvalidatePublicInvitation(ctx, invitation.SlugValue()); err != nil {
		logger.Warnw("invitation_cache_invalidate_failed", "invitation_id", invitation.ID, "error", err)
	}
}
