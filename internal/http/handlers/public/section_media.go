package public

import (
	"context"
	"fmt"

	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mediaEditor 相册/视频服务的公共行为
type mediaEditor[T any] interface {
	List(userID, invitationID uint) ([]T, service.QuotaInfo, error)
	Upload(ctx context.Context, userID, invitationID uint, files []*service.FileInput) (*service.MediaUploadResult[T], error)
	Delete(ctx context.Context, userID, invitationID, itemID uint) error
	BulkDelete(ctx context.Context, userID, invitationID uint, ids []uint) (int, error)
}

// BulkDeleteRequest 批量删除请求
type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}

func listMedia[T any](c *gin.Context, svc mediaEditor[T], label string) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	items, quota, err := svc.List(userID, invitationID)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, fmt.Sprintf("%s retrieved successfully.", label), gin.H{
		"items": items,
		"quota": quota,
	})
}

func uploadMedia[T any](c *gin.Context, svc mediaEditor[T], field, label string) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	files := handlershared.FormFiles(c, field)
	result, err := svc.Upload(c.Request.Context(), userID, invitationID, files)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Created(c, fmt.Sprintf("%s uploaded successfully.", label), result)
}

func deleteMedia[T any](c *gin.Context, svc mediaEditor[T], label string) {
	userID, invitationID, itemID, ok := ownedItemPath(c, "item_id")
	if !ok {
		return
	}
	if err := svc.Delete(c.Request.Context(), userID, invitationID, itemID); err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, fmt.Sprintf("%s item deleted successfully.", label), nil)
}

func bulkDeleteMedia[T any](c *gin.Context, svc mediaEditor[T], label string) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	deleted, err := svc.BulkDelete(c.Request.Context(), userID, invitationID, req.IDs)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, fmt.Sprintf("%d %s items deleted successfully.", deleted, label), gin.H{"deleted_count": deleted})
}

// ListGalleries 相册列表及配额
func (h *Handler) ListGalleries(c *gin.Context) {
	listMedia[models.Gallery](c, h.GalleryService, "Gallery")
}

// UploadGalleries 批量上传相册图片
func (h *Handler) UploadGalleries(c *gin.Context) {
	uploadMedia[models.Gallery](c, h.GalleryService, "images", "Gallery")
}

// DeleteGallery 删除单张图片
func (h *Handler) DeleteGallery(c *gin.Context) {
	deleteMedia[models.Gallery](c, h.GalleryService, "Gallery")
}

// BulkDeleteGalleries 批量删除图片
func (h *Handler) BulkDeleteGalleries(c *gin.Context) {
	bulkDeleteMedia[models.Gallery](c, h.GalleryService, "gallery")
}

// ListVideos 视频列表及配额
func (h *Handler) ListVideos(c *gin.Context) {
	listMedia[models.Video](c, h.VideoService, "Videos")
}

// UploadVideos 批量上传视频
func (h *Handler) UploadVideos(c *gin.Context) {
	uploadMedia[models.Video](c, h.VideoService, "videos", "Video")
}

// DeleteVideo 删除单个视频
func (h *Handler) DeleteVideo(c *gin.Context) {
	deleteMedia[models.Video](c, h.VideoService, "Video")
}

// BulkDeleteVideos 批量删除视频
func (h *Handler) BulkDeleteVideos(c *gin.Context) {
	bulkDeleteMedia[models.Video](c, h.VideoService, "video")
}
