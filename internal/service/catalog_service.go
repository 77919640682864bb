package service

import (
	"context"
	"strings"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"
)

// PackageInput 套餐创建/更新参数
type PackageInput struct {
	Name      string
	Tier      string
	Price     models.Money
	Discount  *int
	Features  []string
	SortOrder int
}

// ThemeCategoryInput 主题分类参数
type ThemeCategoryInput struct {
	Name        string
	Description string
}

// ThemeInput 主题参数，更新时 Thumbnail 可为空
type ThemeInput struct {
	ThemeCategoryID uint
	Name            string
	Link            string
	IsPremium       bool
	Thumbnail       *FileInput
}

// MusicInput 背景音乐参数，更新时文件可为空
type MusicInput struct {
	Name      string
	Artist    string
	Audio     *FileInput
	Thumbnail *FileInput
}

// CatalogService 套餐、主题与音乐目录服务
type CatalogService struct {
	packageRepo  repository.PackageRepository
	categoryRepo repository.ThemeCategoryRepository
	themeRepo    repository.ThemeRepository
	musicRepo    repository.MusicRepository
	uploads      *UploadService
}

// NewCatalogService 创建目录服务
func NewCatalogService(
	packageRepo repository.PackageRepository,
	categoryRepo repository.ThemeCategoryRepository,
	themeRepo repository.ThemeRepository,
	musicRepo repository.MusicRepository,
	uploads *UploadService,
) *CatalogService {
	return &CatalogService{
		packageRepo:  packageRepo,
		categoryRepo: categoryRepo,
		themeRepo:    themeRepo,
		musicRepo:    musicRepo,
		uploads:      uploads,
	}
}

// ListPackages 套餐列表（含折后价）
func (s *CatalogService) ListPackages() ([]models.Package, error) {
	return s.packageRepo.List()
}

// GetPackage 套餐详情
func (s *CatalogService) GetPackage(id uint) (*models.Package, error) {
	pkg, err := s.packageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

// CreatePackage 创建套餐
func (s *CatalogService) CreatePackage(input PackageInput) (*models.Package, error) {
	pkg := &models.Package{}
	if err := applyPackageInput(pkg, input); err != nil {
		return nil, err
	}
	if err := s.packageRepo.Create(pkg); err != nil {
		return nil, err
	}
	pkg.FinalPrice = pkg.ComputeFinalPrice()
	return pkg, nil
}

// UpdatePackage 更新套餐，已下单的订单金额不受影响
func (s *CatalogService) UpdatePackage(id uint, input PackageInput) (*models.Package, error) {
	pkg, err := s.GetPackage(id)
	if err != nil {
		return nil, err
	}
	if err := applyPackageInput(pkg, input); err != nil {
		return nil, err
	}
	if err := s.packageRepo.Update(pkg); err != nil {
		return nil, err
	}
	pkg.FinalPrice = pkg.ComputeFinalPrice()
	return pkg, nil
}

// DeletePackage 删除套餐，存在订单引用时拒绝
func (s *CatalogService) DeletePackage(id uint) error {
	if _, err := s.GetPackage(id); err != nil {
		return err
	}
	count, err := s.packageRepo.CountOrders(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPackageInUse
	}
	return s.packageRepo.Delete(id)
}

// ListCategories 主题分类列表
func (s *CatalogService) ListCategories() ([]models.ThemeCategory, error) {
	return s.categoryRepo.List()
}

// GetCategory 主题分类详情
func (s *CatalogService) GetCategory(id uint) (*models.ThemeCategory, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// CreateCategory 创建主题分类
func (s *CatalogService) CreateCategory(input ThemeCategoryInput) (*models.ThemeCategory, error) {
	verr := &ValidationError{}
	name := requireText(verr, "name", input.Name, 100)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	category := &models.ThemeCategory{Name: name, Description: strings.TrimSpace(input.Description)}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory 更新主题分类
func (s *CatalogService) UpdateCategory(id uint, input ThemeCategoryInput) (*models.ThemeCategory, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	name := requireText(verr, "name", input.Name, 100)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	category.Name = name
	category.Description = strings.TrimSpace(input.Description)
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory 删除主题分类，仍有主题时拒绝
func (s *CatalogService) DeleteCategory(id uint) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}
	count, err := s.categoryRepo.CountThemes(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.categoryRepo.Delete(id)
}

// ListThemes 主题列表
func (s *CatalogService) ListThemes(filter repository.ThemeListFilter) ([]models.Theme, int64, error) {
	return s.themeRepo.List(filter)
}

// GetTheme 主题详情
func (s *CatalogService) GetTheme(id uint) (*models.Theme, error) {
	theme, err := s.themeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if theme == nil {
		return nil, ErrThemeNotFound
	}
	return theme, nil
}

// CreateTheme 创建主题，缩略图必填
func (s *CatalogService) CreateTheme(ctx context.Context, input ThemeInput) (*models.Theme, error) {
	theme := &models.Theme{}
	if input.Thumbnail == nil {
		return nil, NewValidationError("thumbnail", ErrFileRequired.Error())
	}
	if err := s.applyThemeInput(theme, input); err != nil {
		return nil, err
	}
	tracker := s.uploads.track()
	defer tracker.release(ctx)
	path, err := tracker.save(ctx, "thumbnail", UploadKindImage, input.Thumbnail, constants.UploadDirThemeThumbs)
	if err != nil {
		return nil, err
	}
	theme.Thumbnail = path
	if err := s.themeRepo.Create(theme); err != nil {
		return nil, err
	}
	tracker.commit()
	return theme, nil
}

// UpdateTheme 更新主题，替换缩略图时删除旧文件
func (s *CatalogService) UpdateTheme(ctx context.Context, id uint, input ThemeInput) (*models.Theme, error) {
	theme, err := s.GetTheme(id)
	if err != nil {
		return nil, err
	}
	if err := s.applyThemeInput(theme, input); err != nil {
		return nil, err
	}
	tracker := s.uploads.track()
	defer tracker.release(ctx)
	oldThumb := ""
	if input.Thumbnail != nil {
		path, err := tracker.save(ctx, "thumbnail", UploadKindImage, input.Thumbnail, constants.UploadDirThemeThumbs)
		if err != nil {
			return nil, err
		}
		oldThumb, theme.Thumbnail = theme.Thumbnail, path
	}
	theme.Category = nil
	if err := s.themeRepo.Update(theme); err != nil {
		return nil, err
	}
	tracker.commit()
	s.uploads.Delete(ctx, oldThumb)
	return theme, nil
}

// DeleteTheme 软删除主题，已有请柬继续引用
func (s *CatalogService) DeleteTheme(id uint) error {
	if _, err := s.GetTheme(id); err != nil {
		return err
	}
	return s.themeRepo.Delete(id)
}

// ListMusics 音乐列表
func (s *CatalogService) ListMusics(filter repository.CatalogListFilter) ([]models.Music, int64, error) {
	return s.musicRepo.List(filter)
}

// GetMusic 音乐详情
func (s *CatalogService) GetMusic(id uint) (*models.Music, error) {
	music, err := s.musicRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if music == nil {
		return nil, ErrMusicNotFound
	}
	return music, nil
}

// CreateMusic 创建背景音乐，音频必填
func (s *CatalogService) CreateMusic(ctx context.Context, input MusicInput) (*models.Music, error) {
	verr := &ValidationError{}
	name := requireText(verr, "name", input.Name, 150)
	if input.Audio == nil {
		verr.Add("audio", ErrFileRequired.Error())
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	music := &models.Music{Name: name, Artist: strings.TrimSpace(input.Artist)}

	tracker := s.uploads.track()
	defer tracker.release(ctx)
	audio, err := tracker.save(ctx, "audio", UploadKindAudio, input.Audio, constants.UploadDirMusicAudio)
	if err != nil {
		return nil, err
	}
	music.Audio = audio
	if input.Thumbnail != nil {
		thumb, err := tracker.save(ctx, "thumbnail", UploadKindImage, input.Thumbnail, constants.UploadDirMusicThumbs)
		if err != nil {
			return nil, err
		}
		music.Thumbnail = thumb
	}
	if err := s.musicRepo.Create(music); err != nil {
		return nil, err
	}
	tracker.commit()
	return music, nil
}

// UpdateMusic 更新背景音乐
func (s *CatalogService) UpdateMusic(ctx context.Context, id uint, input MusicInput) (*models.Music, error) {
	music, err := s.GetMusic(id)
	if err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	name := requireText(verr, "name", input.Name, 150)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	music.Name = name
	music.Artist = strings.TrimSpace(input.Artist)

	tracker := s.uploads.track()
	defer tracker.release(ctx)
	var stale []string
	if input.Audio != nil {
		audio, err := tracker.save(ctx, "audio", UploadKindAudio, input.Audio, constants.UploadDirMusicAudio)
		if err != nil {
			return nil, err
		}
		stale = append(stale, music.Audio)
		music.Audio = audio
	}
	if input.Thumbnail != nil {
		thumb, err := tracker.save(ctx, "thumbnail", UploadKindImage, input.Thumbnail, constants.UploadDirMusicThumbs)
		if err != nil {
			return nil, err
		}
		stale = append(stale, music.Thumbnail)
		music.Thumbnail = thumb
	}
	if err := s.musicRepo.Update(music); err != nil {
		return nil, err
	}
	tracker.commit()
	s.uploads.Delete(ctx, stale...)
	return music, nil
}

// DeleteMusic 软删除背景音乐
func (s *CatalogService) DeleteMusic(id uint) error {
	if _, err := s.GetMusic(id); err != nil {
		return err
	}
	if err := s.musicRepo.Delete(id); err != nil {
		return err
	}
	logger.Infow("music_deleted", "music_id", id)
	return nil
}

func (s *CatalogService) applyThemeInput(theme *models.Theme, input ThemeInput) error {
	verr := &ValidationError{}
	name := requireText(verr, "name", input.Name, 100)
	link := strings.TrimSpace(input.Link)
	if link != "" {
		optionalURL(verr, "link", &link, 500)
	}
	if input.ThemeCategoryID == 0 {
		verr.Add("theme_category_id", "is required")
	} else {
		category, err := s.categoryRepo.GetByID(input.ThemeCategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			verr.Add("theme_category_id", "is invalid")
		}
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	theme.ThemeCategoryID = input.ThemeCategoryID
	theme.Name = name
	theme.Link = link
	theme.IsPremium = input.IsPremium
	return nil
}

func applyPackageInput(pkg *models.Package, input PackageInput) error {
	verr := &ValidationError{}
	name := requireText(verr, "name", input.Name, 100)
	tier := normalizeTier(input.Tier)
	if tier == "" {
		verr.Add("tier", "is required")
	} else if !IsKnownTier(tier) {
		verr.Add("tier", "is invalid")
	}
	if input.Price.IsNegative() {
		verr.Add("price", "must be at least 0")
	}
	if input.Discount != nil && (*input.Discount < 0 || *input.Discount > 100) {
		verr.Add("discount", "must be between 0 and 100")
	}
	features := make([]string, 0, len(input.Features))
	for _, f := range input.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	pkg.Name = name
	pkg.Tier = tier
	pkg.Price = models.NewMoney(input.Price.Decimal)
	pkg.Discount = input.Discount
	pkg.Features = features
	pkg.SortOrder = input.SortOrder
	return nil
}
