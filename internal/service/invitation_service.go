package service

import (
	"context"
	"strings"
	"time"

	"github.com/undangan-next/internal/cache"
	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/queue"
	"github.com/undangan-next/internal/repository"

	"gorm.io/gorm"
)

const maxCoupleNameLength = 50

// InvitationService 请柬生命周期服务
type InvitationService struct {
	*invitationGuard
	invitationRepo repository.InvitationRepository
	orderRepo      repository.OrderRepository
	themeRepo      repository.ThemeRepository
	sections       *repository.SectionRepositories
	uploads        *UploadService
	queueClient    *queue.Client
	publicCacheTTL time.Duration
}

// NewInvitationService 创建请柬服务
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	orderRepo repository.OrderRepository,
	themeRepo repository.ThemeRepository,
	sections *repository.SectionRepositories,
	uploads *UploadService,
	queueClient *queue.Client,
	publicCacheTTL time.Duration,
) *InvitationService {
	return &InvitationService{
		invitationGuard: newInvitationGuard(invitationRepo, orderRepo),
		invitationRepo:  invitationRepo,
		orderRepo:       orderRepo,
		themeRepo:       themeRepo,
		sections:        sections,
		uploads:         uploads,
		queueClient:     queueClient,
		publicCacheTTL:  publicCacheTTL,
	}
}

// CreateInvitationInput 创建请柬参数
type CreateInvitationInput struct {
	OrderCode string
	ThemeID   uint
	GroomName string
	BrideName string
}

// UpdateInvitationInput 更新请柬参数，nil 字段保持不变
type UpdateInvitationInput struct {
	ThemeID   *uint
	GroomName *string
	BrideName *string
}

// Create 基于订单创建草稿请柬，到期时间由套餐等级决定
func (s *InvitationService) Create(ctx context.Context, userID uint, input CreateInvitationInput) (*models.Invitation, error) {
	verr := &ValidationError{}
	code := strings.ToUpper(strings.TrimSpace(input.OrderCode))
	if code == "" {
		verr.Add("order_id", "is required")
	}
	if input.ThemeID == 0 {
		verr.Add("theme_id", "is required")
	}
	groom := strings.TrimSpace(input.GroomName)
	bride := strings.TrimSpace(input.BrideName)
	validateCoupleName(verr, "groom_name", groom)
	validateCoupleName(verr, "bride_name", bride)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if err := s.ensureTheme(input.ThemeID); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	existing, err := s.invitationRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrInvitationExists
	}
	ent, err := ResolvePackageEntitlements(order.Package)
	if err != nil {
		return nil, err
	}

	invitation := &models.Invitation{
		UserID:     userID,
		OrderID:    order.ID,
		ThemeID:    input.ThemeID,
		Status:     constants.InvitationStatusDraft,
		ExpiryDate: s.now().AddDate(0, 0, ent.ActiveDays),
		GroomName:  groom,
		BrideName:  bride,
	}
	if err := s.invitationRepo.Create(invitation); err != nil {
		return nil, err
	}
	logger.Infow("invitation_created",
		"invitation_id", invitation.ID,
		"order_code", order.OrderCode,
		"tier", ent.Tier,
		"expiry_date", invitation.ExpiryDate,
	)
	return s.invitationRepo.GetByID(invitation.ID)
}

// Update 局部更新；过期后拒绝，已发布请柬的新人姓名变化时重新生成 slug
func (s *InvitationService) Update(ctx context.Context, userID, id uint, input UpdateInvitationInput) (*models.Invitation, error) {
	invitation, err := s.editable(userID, id)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if input.GroomName != nil {
		validateCoupleName(verr, "groom_name", strings.TrimSpace(*input.GroomName))
	}
	if input.BrideName != nil {
		validateCoupleName(verr, "bride_name", strings.TrimSpace(*input.BrideName))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if input.ThemeID != nil {
		if err := s.ensureTheme(*input.ThemeID); err != nil {
			return nil, err
		}
		invitation.ThemeID = *input.ThemeID
	}

	oldSlug := invitation.SlugValue()
	namesChanged := false
	if input.GroomName != nil {
		name := strings.TrimSpace(*input.GroomName)
		namesChanged = namesChanged || name != invitation.GroomName
		invitation.GroomName = name
	}
	if input.BrideName != nil {
		name := strings.TrimSpace(*input.BrideName)
		namesChanged = namesChanged || name != invitation.BrideName
		invitation.BrideName = name
	}
	if namesChanged && invitation.Status == constants.InvitationStatusPublished {
		slug, err := s.generateSlug(invitation)
		if err != nil {
			return nil, err
		}
		invitation.Slug = &slug
	}

	if err := s.invitationRepo.Update(invitation); err != nil {
		return nil, err
	}
	s.invalidatePublic(ctx, oldSlug, invitation.SlugValue())
	return s.invitationRepo.GetByID(invitation.ID)
}

// Publish 发布请柬，slug 为空时生成；重复调用保持原 slug
func (s *InvitationService) Publish(ctx context.Context, userID, id uint) (*models.Invitation, error) {
	invitation, err := s.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if invitation.SlugValue() == "" {
		slug, err := s.generateSlug(invitation)
		if err != nil {
			return nil, err
		}
		invitation.Slug = &slug
	}
	invitation.Status = constants.InvitationStatusPublished
	if err := s.invitationRepo.Update(invitation); err != nil {
		return nil, err
	}
	s.invalidatePublic(ctx, invitation.SlugValue())
	logger.Infow("invitation_published", "invitation_id", invitation.ID, "slug", invitation.SlugValue())
	return invitation, nil
}

// Delete 在事务内删除请柬及全部内容模块，提交后清理文件
func (s *InvitationService) Delete(ctx context.Context, userID, id uint) error {
	invitation, err := s.owned(userID, id)
	if err != nil {
		return err
	}
	files, err := s.collectFiles(invitation.ID)
	if err != nil {
		return err
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		sections := s.sections.WithTx(tx)
		steps := []func(uint) error{
			sections.Comment.DeleteByInvitation,
			sections.Guest.DeleteByInvitation,
			sections.Gift.DeleteByInvitation,
			sections.Video.DeleteByInvitation,
			sections.Gallery.DeleteByInvitation,
			sections.LoveStory.DeleteByInvitation,
			sections.Event.DeleteByInvitation,
			sections.MainInfo.DeleteByInvitation,
			sections.Bride.DeleteByInvitation,
			sections.Groom.DeleteByInvitation,
		}
		for _, step := range steps {
			if err := step(invitation.ID); err != nil {
				return err
			}
		}
		return s.invitationRepo.WithTx(tx).Delete(invitation.ID)
	})
	if err != nil {
		return err
	}

	s.invalidatePublic(ctx, invitation.SlugValue())
	s.cleanupFiles(ctx, invitation.ID, files)
	logger.Infow("invitation_deleted", "invitation_id", invitation.ID, "files", len(files))
	return nil
}

// Get 获取用户自己的请柬详情
func (s *InvitationService) Get(userID, id uint) (*models.Invitation, error) {
	if _, err := s.owned(userID, id); err != nil {
		return nil, err
	}
	invitation, err := s.invitationRepo.GetDetail(id)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrInvitationNotFound
	}
	return invitation, nil
}

// ListByUser 用户请柬列表
func (s *InvitationService) ListByUser(userID uint) ([]models.Invitation, error) {
	return s.invitationRepo.ListByUser(userID)
}

// CheckByOrder 查询订单对应的请柬
func (s *InvitationService) CheckByOrder(userID uint, orderCode string) (*models.Invitation, error) {
	order, err := s.orderRepo.GetByCode(strings.ToUpper(strings.TrimSpace(orderCode)))
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	invitation, err := s.invitationRepo.GetByOrderID(order.ID)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrInvitationNotFound
	}
	return invitation, nil
}

// GetPublicBySlug 公开访问已发布请柬（含全部内容模块）
func (s *InvitationService) GetPublicBySlug(ctx context.Context, slug string) (*models.Invitation, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrInvitationNotFound
	}
	if cached, hit, err := cache.GetPublicInvitation(ctx, slug); err != nil {
		logger.Warnw("invitation_cache_read_failed", "slug", slug, "error", err)
	} else if hit {
		return cached, nil
	}

	invitation, err := s.invitationRepo.GetPublishedDetailBySlug(slug)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrInvitationNotFound
	}
	if err := cache.SetPublicInvitation(ctx, invitation, s.publicCacheTTL); err != nil {
		logger.Warnw("invitation_cache_write_failed", "slug", slug, "error", err)
	}
	return invitation, nil
}

func (s *InvitationService) generateSlug(invitation *models.Invitation) (string, error) {
	base := InvitationSlugBase(invitation.GroomName, invitation.BrideName, s.now())
	return UniqueSlug(base, invitation.ID, s.invitationRepo.ExistsSlug)
}

func (s *InvitationService) ensureTheme(themeID uint) error {
	theme, err := s.themeRepo.GetByID(themeID)
	if err != nil {
		return err
	}
	if theme == nil {
		return NewValidationError("theme_id", "selected theme_id is invalid")
	}
	return nil
}

// invalidatePublic 公开缓存失效，失败只记录
func (s *InvitationService) invalidatePublic(ctx context.Context, slugs ...string) {
	if err := cache.InvalidatePublicInvitation(ctx, slugs...); err != nil {
		logger.Warnw("invitation_cache_invalidate_failed", "slugs", slugs, "error", err)
	}
}

// collectFiles 收集请柬下所有内容模块引用的文件
func (s *InvitationService) collectFiles(invitationID uint) ([]string, error) {
	var files []string
	add := func(p *string) {
		if p != nil && strings.TrimSpace(*p) != "" {
			files = append(files, *p)
		}
	}

	groom, err := s.sections.Groom.GetByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if groom != nil {
		add(groom.Photo)
	}
	bride, err := s.sections.Bride.GetByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if bride != nil {
		add(bride.Photo)
	}
	info, err := s.sections.MainInfo.GetByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if info != nil {
		add(info.MainPhoto)
		add(info.CustomBacksound)
	}
	stories, err := s.sections.LoveStory.ListByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	for i := range stories {
		add(stories[i].Thumbnail)
	}
	galleries, err := s.sections.Gallery.ListByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	for i := range galleries {
		add(&galleries[i].Image)
	}
	videos, err := s.sections.Video.ListByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	for i := range videos {
		add(&videos[i].Video)
	}
	return files, nil
}

// cleanupFiles 优先投递异步清理任务，队列不可用时同步尽力删除
func (s *InvitationService) cleanupFiles(ctx context.Context, invitationID uint, files []string) {
	if len(files) == 0 {
		return
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueFilesCleanup(queue.FilesCleanupPayload{InvitationID: invitationID, Paths: files})
		if err == nil {
			return
		}
		logger.Warnw("files_cleanup_enqueue_failed", "invitation_id", invitationID, "error", err)
	}
	s.uploads.Delete(context.WithoutCancel(ctx), files...)
}

func validateCoupleName(verr *ValidationError, field, value string) {
	if value == "" {
		verr.Add(field, "is required")
		return
	}
	if len([]rune(value)) > maxCoupleNameLength {
		verr.Add(field, "may not be greater than 50 characters")
	}
}
