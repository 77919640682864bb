package repository

import (
	"strings"

	"github.com/undangan-next/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ListByRole(role string) ([]models.User, error)
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	baseRepository[models.User]
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{baseRepository[models.User]{db: db}}
}

// GetByEmail 按邮箱查询（不区分大小写）
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	return firstOrNil[models.User](r.db.Where("email = ?", normalized))
}

// ListByRole 按角色列出用户
func (r *GormUserRepository) ListByRole(role string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", role).Order("id asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
