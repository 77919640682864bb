package public

import (
	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GiftRequest 礼金账户请求
type GiftRequest struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
}

func (r GiftRequest) toInput() service.GiftInput {
	return service.GiftInput{
		BankName:      r.BankName,
		AccountNumber: r.AccountNumber,
		AccountHolder: r.AccountHolder,
	}
}

// ListGifts 礼金账户列表
func (h *Handler) ListGifts(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	gifts, err := h.GiftService.List(userID, invitationID)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Gifts retrieved successfully.", gifts)
}

// CreateGift 新增礼金账户
func (h *Handler) CreateGift(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	var req GiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	gift, err := h.GiftService.Create(c.Request.Context(), userID, invitationID, req.toInput())
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Created(c, "Gift created successfully.", gift)
}

// UpdateGift 更新礼金账户
func (h *Handler) UpdateGift(c *gin.Context) {
	userID, invitationID, giftID, ok := ownedItemPath(c, "gift_id")
	if !ok {
		return
	}
	var req GiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	gift, err := h.GiftService.Update(c.Request.Context(), userID, invitationID, giftID, req.toInput())
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Gift updated successfully.", gift)
}

// DeleteGift 删除礼金账户
func (h *Handler) DeleteGift(c *gin.Context) {
	userID, invitationID, giftID, ok := ownedItemPath(c, "gift_id")
	if !ok {
		return
	}
	if err := h.GiftService.Delete(c.Request.Context(), userID, invitationID, giftID); err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Gift deleted successfully.", nil)
}
