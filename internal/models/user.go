package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                          // 主键
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`        // 名称
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`             // 邮箱
	Phone        string         `gorm:"type:varchar(32)" json:"phone,omitempty"`       // 手机号（下单时传给支付网关）
	PasswordHash string         `gorm:"not null" json:"-"`                             // 密码哈希
	Role         string         `gorm:"type:varchar(20);default:'user'" json:"role"`   // 角色 user/admin
	LastLoginAt  *time.Time     `json:"last_login_at"`                                 // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                    // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
