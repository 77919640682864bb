package public

import (
	"strconv"
	"strings"

	handlershared "github.com/undangan-next/internal/http/handlers/shared"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, "OK", gin.H{"status": "ok"})
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
	id, ok := parseID(c, "id")
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
	id, ok := parseID(c, "id")
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

// ListThemes 主题列表，支持 category_id / search / free 过滤
func (h *Handler) ListThemes(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	filter := repository.ThemeListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("search")),
		OnlyFree: c.Query("free") == "1" || c.Query("free") == "true",
	}
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.CategoryID = uint(parsed)
		}
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
	id, ok := parseID(c, "id")
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
	id, ok := parseID(c, "id")
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
