package public

import (
	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MainInfoForm 婚礼主信息表单（multipart）
type MainInfoForm struct {
	WeddingDate string `form:"wedding_date"`
	WeddingTime string `form:"wedding_time"`
	TimeZone    string `form:"time_zone"`
}

func bindMainInfoInput(c *gin.Context) (service.MainInfoInput, bool) {
	var form MainInfoForm
	if err := c.ShouldBind(&form); err != nil {
		handlershared.RespondBindError(c, err)
		return service.MainInfoInput{}, false
	}
	return service.MainInfoInput{
		MusicID:         handlershared.OptionalFormUint(c, "music_id"),
		MainPhoto:       handlershared.FormFile(c, "main_photo"),
		WeddingDate:     form.WeddingDate,
		WeddingTime:     form.WeddingTime,
		TimeZone:        form.TimeZone,
		CustomBacksound: handlershared.FormFile(c, "custom_backsound"),
	}, true
}

// GetMainInfo 婚礼主信息
func (h *Handler) GetMainInfo(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	info, err := h.MainInfoService.Get(userID, invitationID)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Main info retrieved successfully.", info)
}

// CreateMainInfo 创建婚礼主信息
func (h *Handler) CreateMainInfo(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	input, ok := bindMainInfoInput(c)
	if !ok {
		return
	}
	info, err := h.MainInfoService.Create(c.Request.Context(), userID, invitationID, input)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Created(c, "Main info created successfully.", info)
}

// UpdateMainInfo 更新婚礼主信息
func (h *Handler) UpdateMainInfo(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	input, ok := bindMainInfoInput(c)
	if !ok {
		return
	}
	info, err := h.MainInfoService.Update(c.Request.Context(), userID, invitationID, input)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Main info updated successfully.", info)
}

// DeleteMainInfo 删除婚礼主信息
func (h *Handler) DeleteMainInfo(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	if err := h.MainInfoService.Delete(c.Request.Context(), userID, invitationID); err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Main info deleted successfully.", nil)
}
