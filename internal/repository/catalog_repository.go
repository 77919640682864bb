package repository

import (
	"github.com/undangan-next/internal/models"

	"gorm.io/gorm"
)

// PackageRepository 套餐数据访问接口
type PackageRepository interface {
	Create(pkg *models.Package) error
	Update(pkg *models.Package) error
	Delete(id uint) error
	GetByID(id uint) (*models.Package, error)
	GetByIDWithDeleted(id uint) (*models.Package, error)
	List() ([]models.Package, error)
	CountOrders(id uint) (int64, error)
}

// GormPackageRepository GORM 实现
type GormPackageRepository struct {
	baseRepository[models.Package]
}

// NewPackageRepository 创建套餐仓库
func NewPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{baseRepository[models.Package]{db: db}}
}

// List 按排序值与价格列出套餐
func (r *GormPackageRepository) List() ([]models.Package, error) {
	var pkgs []models.Package
	if err := r.db.Order("sort_order asc").Order("price asc").Order("id asc").Find(&pkgs).Error; err != nil {
		return nil, err
	}
	return pkgs, nil
}

// CountOrders 统计引用该套餐的订单数量
func (r *GormPackageRepository) CountOrders(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Order{}).Where("package_id = ?", id).Count(&count).Error
	return count, err
}

// ThemeCategoryRepository 主题分类数据访问接口
type ThemeCategoryRepository interface {
	Create(category *models.ThemeCategory) error
	Update(category *models.ThemeCategory) error
	Delete(id uint) error
	GetByID(id uint) (*models.ThemeCategory, error)
	List() ([]models.ThemeCategory, error)
	CountThemes(id uint) (int64, error)
}

// GormThemeCategoryRepository GORM 实现
type GormThemeCategoryRepository struct {
	baseRepository[models.ThemeCategory]
}

// NewThemeCategoryRepository 创建主题分类仓库
func NewThemeCategoryRepository(db *gorm.DB) *GormThemeCategoryRepository {
	return &GormThemeCategoryRepository{baseRepository[models.ThemeCategory]{db: db}}
}

// List 列出全部分类
func (r *GormThemeCategoryRepository) List() ([]models.ThemeCategory, error) {
	var categories []models.ThemeCategory
	if err := r.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CountThemes 统计分类下主题数量
func (r *GormThemeCategoryRepository) CountThemes(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Theme{}).Where("theme_category_id = ?", id).Count(&count).Error
	return count, err
}

// ThemeRepository 主题数据访问接口
type ThemeRepository interface {
	Create(theme *models.Theme) error
	Update(theme *models.Theme) error
	Delete(id uint) error
	GetByID(id uint) (*models.Theme, error)
	List(filter ThemeListFilter) ([]models.Theme, int64, error)
}

// GormThemeRepository GORM 实现
type GormThemeRepository struct {
	baseRepository[models.Theme]
}

// NewThemeRepository 创建主题仓库
func NewThemeRepository(db *gorm.DB) *GormThemeRepository {
	return &GormThemeRepository{baseRepository[models.Theme]{db: db}}
}

// GetByID 获取主题（含分类）
func (r *GormThemeRepository) GetByID(id uint) (*models.Theme, error) {
	return firstOrNil[models.Theme](r.db.Preload("Category").Where("id = ?", id))
}

// List 主题列表
func (r *GormThemeRepository) List(filter ThemeListFilter) ([]models.Theme, int64, error) {
	query := r.db.Model(&models.Theme{})
	if filter.CategoryID > 0 {
		query = query.Where("theme_category_id = ?", filter.CategoryID)
	}
	if filter.OnlyFree {
		query = query.Where("is_premium = ?", false)
	}
	query = applyKeywordSearch(query, filter.Search, "name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var themes []models.Theme
	query = applyPagination(query.Preload("Category").Order("id desc"), filter.Page, filter.PageSize)
	if err := query.Find(&themes).Error; err != nil {
		return nil, 0, err
	}
	return themes, total, nil
}

// MusicRepository 背景音乐数据访问接口
type MusicRepository interface {
	Create(music *models.Music) error
	Update(music *models.Music) error
	Delete(id uint) error
	GetByID(id uint) (*models.Music, error)
	List(filter CatalogListFilter) ([]models.Music, int64, error)
}

// GormMusicRepository GORM 实现
type GormMusicRepository struct {
	baseRepository[models.Music]
}

// NewMusicRepository 创建音乐仓库
func NewMusicRepository(db *gorm.DB) *GormMusicRepository {
	return &GormMusicRepository{baseRepository[models.Music]{db: db}}
}

// List 音乐列表
func (r *GormMusicRepository) List(filter CatalogListFilter) ([]models.Music, int64, error) {
	query := r.db.Model(&models.Music{})
	query = applyKeywordSearch(query, filter.Search, "name", "artist")
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var musics []models.Music
	if err := applyPagination(query.Order("name asc"), filter.Page, filter.PageSize).Find(&musics).Error; err != nil {
		return nil, 0, err
	}
	return musics, total, nil
}

// GetByIDWithDeleted 获取套餐（包含已软删除，用于历史订单的权益解析）
func (r *GormPackageRepository) GetByIDWithDeleted(id uint) (*models.Package, error) {
	return firstOrNil[models.Package](r.db.Unscoped().Where("id = ?", id))
}
