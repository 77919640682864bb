package repository

import (
	"strings"

	"github.com/undangan-next/internal/models"

	"gorm.io/gorm"
)

// SectionRepository 请柬内容模块数据访问接口（所有模块表都带 invitation_id）
type SectionRepository[T any] interface {
	Create(entity *T) error
	CreateBatch(entities []T) error
	Update(entity *T) error
	Delete(id uint) error
	GetByID(id uint) (*T, error)
	GetByInvitation(invitationID uint) (*T, error)
	ListByInvitation(invitationID uint) ([]T, error)
	ListByIDs(ids []uint) ([]T, error)
	CountByInvitation(invitationID uint) (int64, error)
	DeleteByIDs(ids []uint) error
	DeleteByInvitation(invitationID uint) error
	WithTx(tx *gorm.DB) SectionRepository[T]
}

// GormSectionRepository GORM 实现
type GormSectionRepository[T any] struct {
	baseRepository[T]
	orderClause string
}

// NewSectionRepository 创建内容模块仓库，orderClause 为列表排序
func NewSectionRepository[T any](db *gorm.DB, orderClause string) *GormSectionRepository[T] {
	if strings.TrimSpace(orderClause) == "" {
		orderClause = "id asc"
	}
	return &GormSectionRepository[T]{baseRepository: baseRepository[T]{db: db}, orderClause: orderClause}
}

// WithTx 绑定事务
func (r *GormSectionRepository[T]) WithTx(tx *gorm.DB) SectionRepository[T] {
	if tx == nil {
		return r
	}
	return NewSectionRepository[T](tx, r.orderClause)
}

// CreateBatch 批量创建
func (r *GormSectionRepository[T]) CreateBatch(entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	return r.db.Create(&entities).Error
}

// GetByInvitation 获取单行模块（新郎/新娘/主信息）
func (r *GormSectionRepository[T]) GetByInvitation(invitationID uint) (*T, error) {
	return firstOrNil[T](r.db.Where("invitation_id = ?", invitationID))
}

// ListByInvitation 列出请柬下的模块记录
func (r *GormSectionRepository[T]) ListByInvitation(invitationID uint) ([]T, error) {
	var rows []T
	if err := r.db.Where("invitation_id = ?", invitationID).Order(r.orderClause).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByIDs 按 ID 批量获取
func (r *GormSectionRepository[T]) ListByIDs(ids []uint) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []T
	if err := r.db.Where("id IN ?", ids).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByInvitation 统计请柬下的模块记录数
func (r *GormSectionRepository[T]) CountByInvitation(invitationID uint) (int64, error) {
	var zero T
	var count int64
	if err := r.db.Model(&zero).Where("invitation_id = ?", invitationID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteByIDs 批量删除
func (r *GormSectionRepository[T]) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var zero T
	return r.db.Where("id IN ?", ids).Delete(&zero).Error
}

// DeleteByInvitation 删除请柬下全部模块记录
func (r *GormSectionRepository[T]) DeleteByInvitation(invitationID uint) error {
	var zero T
	return r.db.Where("invitation_id = ?", invitationID).Delete(&zero).Error
}

// GuestRepository 宾客数据访问接口
type GuestRepository interface {
	SectionRepository[models.Guest]
	ExistsSlug(slug string, excludeID uint) (bool, error)
	GetBySlug(invitationID uint, slug string) (*models.Guest, error)
}

// GormGuestRepository GORM 实现
type GormGuestRepository struct {
	*GormSectionRepository[models.Guest]
}

// NewGuestRepository 创建宾客仓库
func NewGuestRepository(db *gorm.DB) *GormGuestRepository {
	return &GormGuestRepository{NewSectionRepository[models.Guest](db, "created_at desc, id desc")}
}

// ExistsSlug 判断宾客 slug 是否被占用（全局范围）
func (r *GormGuestRepository) ExistsSlug(slug string, excludeID uint) (bool, error) {
	query := r.db.Model(&models.Guest{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetBySlug 在指定请柬下按 slug 查找宾客
func (r *GormGuestRepository) GetBySlug(invitationID uint, slug string) (*models.Guest, error) {
	return firstOrNil[models.Guest](r.db.Where("invitation_id = ? AND slug = ?", invitationID, strings.TrimSpace(slug)))
}

// SectionRepositories 请柬全部内容模块仓库
type SectionRepositories struct {
	Groom     SectionRepository[models.Groom]
	Bride     SectionRepository[models.Bride]
	MainInfo  SectionRepository[models.MainInfo]
	Event     SectionRepository[models.Event]
	LoveStory SectionRepository[models.LoveStory]
	Gallery   SectionRepository[models.Gallery]
	Video     SectionRepository[models.Video]
	Gift      SectionRepository[models.Gift]
	Guest     GuestRepository
	Comment   SectionRepository[models.Comment]
}

// NewSectionRepositories 创建全部内容模块仓库
func NewSectionRepositories(db *gorm.DB) *SectionRepositories {
	return &SectionRepositories{
		Groom:     NewSectionRepository[models.Groom](db, "id asc"),
		Bride:     NewSectionRepository[models.Bride](db, "id asc"),
		MainInfo:  NewSectionRepository[models.MainInfo](db, "id asc"),
		Event:     NewSectionRepository[models.Event](db, "date asc, time_start asc"),
		LoveStory: NewSectionRepository[models.LoveStory](db, "date asc"),
		Gallery:   NewSectionRepository[models.Gallery](db, "id asc"),
		Video:     NewSectionRepository[models.Video](db, "id asc"),
		Gift:      NewSectionRepository[models.Gift](db, "id asc"),
		Guest:     NewGuestRepository(db),
		Comment:   NewSectionRepository[models.Comment](db, "created_at desc, id desc"),
	}
}

// WithTx 绑定事务
func (r *SectionRepositories) WithTx(tx *gorm.DB) *SectionRepositories {
	if tx == nil {
		return r
	}
	return NewSectionRepositories(tx)
}
