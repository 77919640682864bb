package public

import (
	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateCommentRequest 公开留言请求
type CreateCommentRequest struct {
	Name           string                              `json:"name"`
	Message        string                              `json:"message"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// CreatePublicComment 访客留言
func (h *Handler) CreatePublicComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	comment, err := h.CommentService.CreatePublic(c.Request.Context(), c.Param("slug"), service.CommentInput{
		Name:    req.Name,
		Message: req.Message,
		Captcha: req.CaptchaPayload.ToServicePayload(),
	})
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Created(c, "Comment posted successfully.", comment)
}

// ListPublicComments 公开留言列表
func (h *Handler) ListPublicComments(c *gin.Context) {
	comments, err := h.CommentService.ListPublic(c.Param("slug"))
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Comments retrieved successfully.", comments)
}

// ListComments 请柬主人查看留言
func (h *Handler) ListComments(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	comments, err := h.CommentService.List(userID, invitationID)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Comments retrieved successfully.", comments)
}

// DeleteComment 请柬主人删除留言
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, invitationID, commentID, ok := ownedItemPath(c, "comment_id")
	if !ok {
		return
	}
	if err := h.CommentService.Delete(c.Request.Context(), userID, invitationID, commentID); err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Comment deleted successfully.", nil)
}
