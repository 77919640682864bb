package repository

import (
	"strings"

	"github.com/undangan-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetByCode(code string) (*models.Order, error)
	ExistsCode(code string) (bool, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateFields(id uint, updates map[string]interface{}) error
	TransitionStatus(id uint, from []string, to string, updates map[string]interface{}) (bool, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	baseRepository[models.Order]
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{baseRepository[models.Order]{db: db}}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return NewOrderRepository(tx)
}

// GetByID 获取订单（含套餐）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	return firstOrNil[models.Order](r.db.Preload("Package", withDeleted).Where("id = ?", id))
}

// GetByCode 按订单编号获取订单（含套餐）
func (r *GormOrderRepository) GetByCode(code string) (*models.Order, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	return firstOrNil[models.Order](r.db.Preload("Package", withDeleted).Where("order_code = ?", code))
}

// ExistsCode 判断订单编号是否已存在
func (r *GormOrderRepository) ExistsCode(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).Where("order_code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser 用户订单列表
func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	return r.list(r.db.Model(&models.Order{}).Where("user_id = ?", filter.UserID), filter)
}

// ListAdmin 后台订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	return r.list(query.Preload("User"), filter)
}

func (r *GormOrderRepository) list(query *gorm.DB, filter OrderListFilter) ([]models.Order, int64, error) {
	if status := strings.TrimSpace(filter.PaymentStatus); status != "" {
		query = query.Where("payment_status = ?", status)
	}
	query = applyKeywordSearch(query, filter.OrderCode, "order_code")
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	query = applyPagination(query.Preload("Package", withDeleted).Order("id desc"), filter.Page, filter.PageSize)
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateFields 更新订单字段
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// TransitionStatus 条件更新支付状态，仅当当前状态在 from 中时生效，返回是否实际发生变更
func (r *GormOrderRepository) TransitionStatus(id uint, from []string, to string, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"payment_status": to}
	for k, v := range updates {
		values[k] = v
	}
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND payment_status IN ?", id, from).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func withDeleted(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
