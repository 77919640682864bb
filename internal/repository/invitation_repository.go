package repository

import (
	"strings"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/models"

	"gorm.io/gorm"
)

// InvitationRepository 请柬数据访问接口
type InvitationRepository interface {
	Create(invitation *models.Invitation) error
	Update(invitation *models.Invitation) error
	Delete(id uint) error
	GetByID(id uint) (*models.Invitation, error)
	GetByOrderID(orderID uint) (*models.Invitation, error)
	GetPublishedBySlug(slug string) (*models.Invitation, error)
	GetPublishedDetailBySlug(slug string) (*models.Invitation, error)
	GetDetail(id uint) (*models.Invitation, error)
	ExistsSlug(slug string, excludeID uint) (bool, error)
	ListByUser(userID uint) ([]models.Invitation, error)
	WithTx(tx *gorm.DB) *GormInvitationRepository
}

// GormInvitationRepository GORM 实现
type GormInvitationRepository struct {
	baseRepository[models.Invitation]
}

// NewInvitationRepository 创建请柬仓库
func NewInvitationRepository(db *gorm.DB) *GormInvitationRepository {
	return &GormInvitationRepository{baseRepository[models.Invitation]{db: db}}
}

// WithTx 绑定事务
func (r *GormInvitationRepository) WithTx(tx *gorm.DB) *GormInvitationRepository {
	if tx == nil {
		return r
	}
	return NewInvitationRepository(tx)
}

// GetByOrderID 按订单获取请柬
func (r *GormInvitationRepository) GetByOrderID(orderID uint) (*models.Invitation, error) {
	return firstOrNil[models.Invitation](r.db.Where("order_id = ?", orderID))
}

// GetPublishedBySlug 获取已发布请柬（不含内容模块）
func (r *GormInvitationRepository) GetPublishedBySlug(slug string) (*models.Invitation, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	return firstOrNil[models.Invitation](r.db.
		Where("slug = ? AND status = ?", slug, constants.InvitationStatusPublished))
}

// GetPublishedDetailBySlug 获取已发布请柬及全部内容模块
func (r *GormInvitationRepository) GetPublishedDetailBySlug(slug string) (*models.Invitation, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	return firstOrNil[models.Invitation](withSections(r.db).
		Where("slug = ? AND status = ?", slug, constants.InvitationStatusPublished))
}

// GetDetail 获取请柬及全部内容模块
func (r *GormInvitationRepository) GetDetail(id uint) (*models.Invitation, error) {
	return firstOrNil[models.Invitation](withSections(r.db).Preload("Order").Where("id = ?", id))
}

// ExistsSlug 判断 slug 是否被其他请柬占用
func (r *GormInvitationRepository) ExistsSlug(slug string, excludeID uint) (bool, error) {
	query := r.db.Model(&models.Invitation{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser 用户请柬列表
func (r *GormInvitationRepository) ListByUser(userID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.db.Preload("Theme").Preload("Order").
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

func withSections(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Theme").
		Preload("Groom").
		Preload("Bride").
		Preload("MainInfo").
		Preload("MainInfo.Music", withDeleted).
		Preload("Events", orderBy("date asc, time_start asc")).
		Preload("LoveStories", orderBy("date asc")).
		Preload("Galleries", orderBy("id asc")).
		Preload("Videos", orderBy("id asc")).
		Preload("Gifts", orderBy("id asc")).
		Preload("Comments", orderBy("created_at desc"))
}

func orderBy(clause string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause)
	}
}
