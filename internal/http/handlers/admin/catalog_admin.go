package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PackageRequest 套餐创建/更新请求
type PackageRequest struct {
	Name      string       `json:"name"`
	Tier      string       `json:"tier"`
	Price     models.Money `json:"price"`
	Discount  *int         `json:"discount"`
	Features  []string     `json:"features"`
	SortOrder int          `json:"sort_order"`
}

func (r PackageRequest) toInput() service.PackageInput {
	return service.PackageInput{
		Name:      r.Name,
		Tier:      r.Tier,
		Price:     r.Price,
		Discount:  r.Discount,
		Features:  r.Features,
		SortOrder: r.SortOrder,
	}
}

// ThemeCategoryRequest 主题分类请求
type ThemeCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ThemeForm 主题表单（multipart）
type ThemeForm struct {
	ThemeCategoryID uint   `form:"theme_category_id"`
	Name            string `form:"name"`
	Link            string `form:"link"`
}

// MusicForm 背景音乐表单（multipart）
type MusicForm struct {
	Name   string `form:"name"`
	Artist string `form:"artist"`
}

// ListPackages 套餐列表
func (h *Handler) ListPackages(c *gin.Context) {
	packages, err := h.CatalogService.ListPackages()
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Packages retrieved successfully.", packages)
}

// GetPackage 套餐详情
func (h *Handler) GetPackage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pkg, err := h.CatalogService.GetPackage(id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Package retrieved successfully.", pkg)
}

// CreatePackage 创建套餐
func (h *Handler) CreatePackage(c *gin.Context) {
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	pkg, err := h.CatalogService.CreatePackage(req.toInput())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	requestLog(c).Infow("admin_package_created", "package_id", pkg.ID, "tier", pkg.Tier)
	response.Created(c, "Package created successfully.", pkg)
}

// UpdatePackage 更新套餐
func (h *Handler) UpdatePackage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req PackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	pkg, err := h.CatalogService.UpdatePackage(id, req.toInput())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Package updated successfully.", pkg)
}

// DeletePackage 删除套餐
func (h *Handler) DeletePackage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.CatalogService.DeletePackage(id); err != nil {
		respondCatalogError(c, err)
		return
	}
	requestLog(c).Infow("admin_package_deleted", "package_id", id)
	response.Success(c, "Package deleted successfully.", nil)
}

// ListThemeCategories 主题分类列表
func (h *Handler) ListThemeCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories()
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Theme categories retrieved successfully.", categories)
}

// GetThemeCategory 主题分类详情
func (h *Handler) GetThemeCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	category, err := h.CatalogService.GetCategory(id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Theme category retrieved successfully.", category)
}

// CreateThemeCategory 创建主题分类
func (h *Handler) CreateThemeCategory(c *gin.Context) {
	var req ThemeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	category, err := h.CatalogService.CreateCategory(service.ThemeCategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Created(c, "Theme category created successfully.", category)
}

// UpdateThemeCategory 更新主题分类
func (h *Handler) UpdateThemeCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ThemeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	category, err := h.CatalogService.UpdateCategory(id, service.ThemeCategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Theme category updated successfully.", category)
}

// DeleteThemeCategory 删除主题分类
func (h *Handler) DeleteThemeCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteCategory(id); err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Theme category deleted successfully.", nil)
}

// ListThemes 主题列表
func (h *Handler) ListThemes(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	filter := repository.ThemeListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if parsed, err := strconv.ParseUint(strings.TrimSpace(c.Query("category_id")), 10, 64); err == nil {
		filter.CategoryID = uint(parsed)
	}
	themes, total, err := h.CatalogService.ListThemes(filter)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.SuccessWithPage(c, "Themes retrieved successfully.", themes, response.NewPagination(page, pageSize, total))
}

// GetTheme 主题详情
func (h *Handler) GetTheme(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	theme, err := h.CatalogService.GetTheme(id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Theme retrieved successfully.", theme)
}

func bindThemeInput(c *gin.Context) (service.ThemeInput, bool) {
	var form ThemeForm
	if err := c.ShouldBind(&form); err != nil {
		handlershared.RespondBindError(c, err)
		return service.ThemeInput{}, false
	}
	return service.ThemeInput{
		ThemeCategoryID: form.ThemeCategoryID,
		Name:            form.Name,
		Link:            form.Link,
		IsPremium:       handlershared.FormBool(c, "is_premium"),
		Thumbnail:       handlershared.FormFile(c, "thumbnail"),
	}, true
}

// CreateTheme 创建主题
func (h *Handler) CreateTheme(c *gin.Context) {
	input, ok := bindThemeInput(c)
	if !ok {
		return
	}
	theme, err := h.CatalogService.CreateTheme(c.Request.Context(), input)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Created(c, "Theme created successfully.", theme)
}

// UpdateTheme 更新主题
func (h *Handler) UpdateTheme(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	input, ok := bindThemeInput(c)
	if !ok {
		return
	}
	theme, err := h.CatalogService.UpdateTheme(c.Request.Context(), id, input)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Theme updated successfully.", theme)
}

// DeleteTheme 删除主题
func (h *Handler) DeleteTheme(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteTheme(id); err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Theme deleted successfully.", nil)
}

// ListMusics 背景音乐列表
func (h *Handler) ListMusics(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	musics, total, err := h.CatalogService.ListMusics(repository.CatalogListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.SuccessWithPage(c, "Musics retrieved successfully.", musics, response.NewPagination(page, pageSize, total))
}

// GetMusic 背景音乐详情
func (h *Handler) GetMusic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	music, err := h.CatalogService.GetMusic(id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Music retrieved successfully.", music)
}

func bindMusicInput(c *gin.Context) (service.MusicInput, bool) {
	var form MusicForm
	if err := c.ShouldBind(&form); err != nil {
		handlershared.RespondBindError(c, err)
		return service.MusicInput{}, false
	}
	return service.MusicInput{
		Name:      form.Name,
		Artist:    form.Artist,
		Audio:     handlershared.FormFile(c, "audio"),
		Thumbnail: handlershared.FormFile(c, "thumbnail"),
	}, true
}

// CreateMusic 上传背景音乐
func (h *Handler) CreateMusic(c *gin.Context) {
	input, ok := bindMusicInput(c)
	if !ok {
		return
	}
	music, err := h.CatalogService.CreateMusic(c.Request.Context(), input)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Created(c, "Music created successfully.", music)
}

// UpdateMusic 更新背景音乐
func (h *Handler) UpdateMusic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	input, ok := bindMusicInput(c)
	if !ok {
		return
	}
	music, err := h.CatalogService.UpdateMusic(c.Request.Context(), id, input)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Music updated successfully.", music)
}

// DeleteMusic 删除背景音乐
func (h *Handler) DeleteMusic(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.CatalogService.DeleteMusic(id); err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, "Music deleted successfully.", nil)
}
