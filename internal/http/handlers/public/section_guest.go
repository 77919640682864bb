package public

import (
	"encoding/base64"
	"net/http"

	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateGuestRequest 新增宾客请求
type CreateGuestRequest struct {
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	IsGroup bool    `json:"is_group"`
}

// UpdateGuestRequest 更新宾客请求，未传字段保持不变
type UpdateGuestRequest struct {
	Name             *string `json:"name"`
	Phone            *string `json:"phone"`
	IsGroup          *bool   `json:"is_group"`
	AttendanceStatus *string `json:"attendance_status"`
}

// RSVPRequest 宾客回复请求
type RSVPRequest struct {
	AttendanceStatus string `json:"attendance_status" binding:"required"`
}

// ListGuests 宾客列表
func (h *Handler) ListGuests(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	guests, err := h.GuestService.List(userID, invitationID)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Guests retrieved successfully.", guests)
}

// CreateGuest 新增宾客
func (h *Handler) CreateGuest(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	var req CreateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	guest, err := h.GuestService.Create(c.Request.Context(), userID, invitationID, service.GuestInput{
		Name:    req.Name,
		Phone:   req.Phone,
		IsGroup: req.IsGroup,
	})
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Created(c, "Guest created successfully.", guest)
}

// UpdateGuest 更新宾客
func (h *Handler) UpdateGuest(c *gin.Context) {
	userID, invitationID, guestID, ok := ownedItemPath(c, "guest_id")
	if !ok {
		return
	}
	var req UpdateGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	guest, err := h.GuestService.Update(c.Request.Context(), userID, invitationID, guestID, service.UpdateGuestInput{
		Name:             req.Name,
		Phone:            req.Phone,
		IsGroup:          req.IsGroup,
		AttendanceStatus: req.AttendanceStatus,
	})
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Guest updated successfully.", guest)
}

// DeleteGuest 删除宾客
func (h *Handler) DeleteGuest(c *gin.Context) {
	userID, invitationID, guestID, ok := ownedItemPath(c, "guest_id")
	if !ok {
		return
	}
	if err := h.GuestService.Delete(c.Request.Context(), userID, invitationID, guestID); err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Guest deleted successfully.", nil)
}

// GuestQRCode 宾客专属链接二维码，format=json 时返回 base64
func (h *Handler) GuestQRCode(c *gin.Context) {
	userID, invitationID, guestID, ok := ownedItemPath(c, "guest_id")
	if !ok {
		return
	}
	qr, err := h.GuestService.QRCode(userID, invitationID, guestID)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	if c.Query("format") == "json" {
		response.Success(c, "QR code generated.", gin.H{
			"link":       qr.Link,
			"png_base64": base64.StdEncoding.EncodeToString(qr.PNG),
		})
		return
	}
	c.Header("X-Guest-Link", qr.Link)
	c.Data(http.StatusOK, "image/png", qr.PNG)
}

// UpdateGuestRSVP 宾客公开回复出席
func (h *Handler) UpdateGuestRSVP(c *gin.Context) {
	guestID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	guest, err := h.GuestService.UpdateAttendance(c.Request.Context(), guestID, req.AttendanceStatus)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Attendance updated successfully.", guest)
}

// GetPublicGuest 公开页按宾客 slug 获取称呼
func (h *Handler) GetPublicGuest(c *gin.Context) {
	result, err := h.GuestService.GetPublic(c.Param("slug"), c.Param("guest_slug"))
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Guest retrieved successfully.", result)
}
