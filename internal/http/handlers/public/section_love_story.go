package public

import (
	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// LoveStoryForm 爱情故事表单（multipart）
type LoveStoryForm struct {
	Title       string `form:"title"`
	Date        string `form:"date"`
	Description string `form:"description"`
}

func bindLoveStoryInput(c *gin.Context) (service.LoveStoryInput, bool) {
	var form LoveStoryForm
	if err := c.ShouldBind(&form); err != nil {
		handlershared.RespondBindError(c, err)
		return service.LoveStoryInput{}, false
	}
	return service.LoveStoryInput{
		Title:       form.Title,
		Date:        form.Date,
		Description: form.Description,
		Thumbnail:   handlershared.FormFile(c, "thumbnail"),
	}, true
}

// ListLoveStories 爱情故事列表
func (h *Handler) ListLoveStories(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	stories, err := h.LoveStoryService.List(userID, invitationID)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Love stories retrieved successfully.", stories)
}

// CreateLoveStory 新增爱情故事
func (h *Handler) CreateLoveStory(c *gin.Context) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	input, ok := bindLoveStoryInput(c)
	if !ok {
		return
	}
	story, err := h.LoveStoryService.Create(c.Request.Context(), userID, invitationID, input)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Created(c, "Love story created successfully.", story)
}

// UpdateLoveStory 更新爱情故事
func (h *Handler) UpdateLoveStory(c *gin.Context) {
	userID, invitationID, storyID, ok := ownedItemPath(c, "story_id")
	if !ok {
		return
	}
	input, ok := bindLoveStoryInput(c)
	if !ok {
		return
	}
	story, err := h.LoveStoryService.Update(c.Request.Context(), userID, invitationID, storyID, input)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Love story updated successfully.", story)
}

// DeleteLoveStory 删除爱情故事
func (h *Handler) DeleteLoveStory(c *gin.Context) {
	userID, invitationID, storyID, ok := ownedItemPath(c, "story_id")
	if !ok {
		return
	}
	if err := h.LoveStoryService.Delete(c.Request.Context(), userID, invitationID, storyID); err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, "Love story deleted successfully.", nil)
}
