package public

import (
	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// EventRequest 婚礼活动请求
type EventRequest struct {
	Name         string  `json:"name"`
	Venue        string  `json:"venue"`
	Date         string  `json:"date"`
	TimeStart    string  `json:"time_start"`
	TimeEnd      *string `json:"time_end"`
	Address      string  `json:"address"`
	MapsURL      *string `json:"maps_url"`
	MapsEmbedURL *string `json:"maps_embed_url"`
}

func (r EventRequest) toInput() service.EventInput {
	return service.EventInput{
		Name:         r.Name,
		Venue:        r.Venue,
		Date:         r.Date,
		TimeStart:    r.TimeStart,
		TimeEnd:      r.TimeEnd,
		Address:      r.Address,
		MapsURL:      r.MapsURL,
		MapsEmbedURL: r.MapsEmbedURL,
	}
}

// ListEvents 活动列表
func (h *Handler) ListEvents(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	events, err := h.EventService.List(userID, invitationID)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Events retrieved successfully.", events)
}

// CreateEvent 新增活动
func (h *Handler) CreateEvent(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	event, err := h.EventService.Create(c.Request.Context(), userID, invitationID, req.toInput())
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Created(c, "Event created successfully.", event)
}

// UpdateEvent 更新活动
func (h *Handler) UpdateEvent(c *gin.Context) {
	userID, invitationID, eventID, ok := ownedItemPath(c, "event_id")
	if !ok {
		return
	}
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	event, err := h.EventService.Update(c.Request.Context(), userID, invitationID, eventID, req.toInput())
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Event updated successfully.", event)
}

// DeleteEvent 删除活动
func (h *Handler) DeleteEvent(c *gin.Context) {
	userID, invitationID, eventID, ok := ownedItemPath(c, "event_id")
	if !ok {
		return
	}
	if err := h.EventService.Delete(c.Request.Context(), userID, invitationID, eventID); err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Event deleted successfully.", nil)
}
