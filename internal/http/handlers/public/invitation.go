package public

import (
	"errors"

	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateInvitationRequest 创建请柬请求
type CreateInvitationRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	ThemeID   uint   `json:"theme_id" binding:"required"`
	GroomName string `json:"groom_name" binding:"required"`
	BrideName string `json:"bride_name" binding:"required"`
}

// UpdateInvitationRequest 更新请柬请求，未传字段保持不变
type UpdateInvitationRequest struct {
	ThemeID   *uint   `json:"theme_id"`
	GroomName *string `json:"groom_name"`
	BrideName *string `json:"bride_name"`
}

// CreateInvitation 基于订单创建请柬
func (h *Handler) CreateInvitation(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}

	invitation, err := h.InvitationService.Create(c.Request.Context(), userID, service.CreateInvitationInput{
		OrderCode: req.OrderID,
		ThemeID:   req.ThemeID,
		GroomName: req.GroomName,
		BrideName: req.BrideName,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}
	response.Created(c, "Invitation created successfully.", invitation)
}

// ListInvitations 当前用户请柬列表
func (h *Handler) ListInvitations(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	invitations, err := h.InvitationService.ListByUser(userID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}
	response.Success(c, "Invitations retrieved successfully.", invitations)
}

// GetInvitation 请柬详情
func (h *Handler) GetInvitation(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	invitation, err := h.InvitationService.Get(userID, invitationID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}
	response.Success(c, "Invitation retrieved successfully.", invitation)
}

// UpdateInvitation 更新主题或新人称呼
func (h *Handler) UpdateInvitation(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	var req UpdateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}

	invitation, err := h.InvitationService.Update(c.Request.Context(), userID, invitationID, service.UpdateInvitationInput{
		ThemeID:   req.ThemeID,
		GroomName: req.GroomName,
		BrideName: req.BrideName,
	})
	if err != nil {
		respondInvitationError(c, err)
		return
	}
	response.Success(c, "Invitation updated successfully.", invitation)
}

// PublishInvitation 发布请柬
func (h *Handler) PublishInvitation(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	invitation, err := h.InvitationService.Publish(c.Request.Context(), userID, invitationID)
	if err != nil {
		respondInvitationError(c, err)
		return
	}
	response.Success(c, "Invitation published successfully.", invitation)
}

// DeleteInvitation 删除请柬及全部内容
func (h *Handler) DeleteInvitation(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	if err := h.InvitationService.Delete(c.Request.Context(), userID, invitationID); err != nil {
		respondInvitationError(c, err)
		return
	}
	response.Success(c, "Invitation deleted successfully.", nil)
}

// CheckInvitationByOrder 查询订单是否已创建请柬
func (h *Handler) CheckInvitationByOrder(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	invitation, err := h.InvitationService.CheckByOrder(userID, c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrInvitationNotFound) {
			response.Success(c, "No invitation for this order yet.", gin.H{"exists": false, "invitation": nil})
			return
		}
		respondInvitationError(c, err)
		return
	}
	response.Success(c, "Invitation found.", gin.H{"exists": true, "invitation": invitation})
}

// GetPublicInvitation 按 slug 公开访问请柬
func (h *Handler) GetPublicInvitation(c *gin.Context) {
	invitation, err := h.InvitationService.GetPublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondInvitationError(c, err)
		return
	}
	response.Success(c, "Invitation retrieved successfully.", invitation)
}
