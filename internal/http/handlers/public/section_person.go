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

// personEditor 新郎/新娘资料服务的公共行为
type personEditor[T any] interface {
	Get(userID, invitationID uint) (*T, error)
	Create(ctx context.Context, userID, invitationID uint, input service.PersonInput) (*T, error)
	Update(ctx context.Context, userID, invitationID uint, input service.PersonInput) (*T, error)
	Delete(ctx context.Context, userID, invitationID uint) error
}

// PersonForm 新郎/新娘资料表单（multipart）
type PersonForm struct {
	FullName   string  `form:"full_name"`
	FatherName string  `form:"father_name"`
	MotherName string  `form:"mother_name"`
	Instagram  *string `form:"instagram"`
}

func bindPersonInput(c *gin.Context) (service.PersonInput, bool) {
	var form PersonForm
	if err := c.ShouldBind(&form); err != nil {
		handlershared.RespondBindError(c, err)
		return service.PersonInput{}, false
	}
	return service.PersonInput{
		FullName:   form.FullName,
		FatherName: form.FatherName,
		MotherName: form.MotherName,
		Instagram:  form.Instagram,
		Photo:      handlershared.FormFile(c, "photo"),
	}, true
}

func getPerson[T any](c *gin.Context, svc personEditor[T], label string) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	item, err := svc.Get(userID, invitationID)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, fmt.Sprintf("%s retrieved successfully.", label), item)
}

func createPerson[T any](c *gin.Context, svc personEditor[T], label string) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	input, ok := bindPersonInput(c)
	if !ok {
		return
	}
	item, err := svc.Create(c.Request.Context(), userID, invitationID, input)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Created(c, fmt.Sprintf("%s created successfully.", label), item)
}

func updatePerson[T any](c *gin.Context, svc personEditor[T], label string) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	input, ok := bindPersonInput(c)
	if !ok {
		return
	}
	item, err := svc.Update(c.Request.Context(), userID, invitationID, input)
	if err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, fmt.Sprintf("%s updated successfully.", label), item)
}

func deletePerson[T any](c *gin.Context, svc personEditor[T], label string) {
	userID, invitationID, ok := ownedPath(c)
	if !ok {
		return
	}
	if err := svc.Delete(c.Request.Context(), userID, invitationID); err != nil {
		respondSectionError(c, err)
		return
	}
	response.Success(c, fmt.Sprintf("%s deleted successfully.", label), nil)
}

// GetGroom 新郎资料
func (h *Handler) GetGroom(c *gin.Context) { getPerson[models.Groom](c, h.GroomService, "Groom") }

// CreateGroom 创建新郎资料
func (h *Handler) CreateGroom(c *gin.Context) { createPerson[models.Groom](c, h.GroomService, "Groom") }

// UpdateGroom 更新新郎资料
func (h *Handler) UpdateGroom(c *gin.Context) { updatePerson[models.Groom](c, h.GroomService, "Groom") }

// DeleteGroom 删除新郎资料
func (h *Handler) DeleteGroom(c *gin.Context) { deletePerson[models.Groom](c, h.GroomService, "Groom") }

// GetBride 新娘资料
func (h *Handler) GetBride(c *gin.Context) { getPerson[models.Bride](c, h.BrideService, "Bride") }

// CreateBride 创建新娘资料
func (h *Handler) CreateBride(c *gin.Context) { createPerson[models.Bride](c, h.BrideService, "Bride") }

// UpdateBride 更新新娘资料
func (h *Handler) UpdateBride(c *gin.Context) { updatePerson[models.Bride](c, h.BrideService, "Bride") }

// DeleteBride 删除新娘资料
func (h *Handler) DeleteBride(c *gin.Context) { deletePerson[models.Bride](c, h.BrideService, "Bride") }
