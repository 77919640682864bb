package models

import (
	"time"

	"gorm.io/gorm"
)

// ThemeCategory 主题分类表
type ThemeCategory struct {
	ID          uint      `gorm:"primarykey" json:"id"`                   // 主键
	Name        string    `gorm:"type:varchar(100);not null" json:"name"` // 名称
	Description string    `gorm:"type:text" json:"description"`           // 描述
	CreatedAt   time.Time `json:"created_at"`                             // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                             // 更新时间
}

// TableName 指定表名
func (ThemeCategory) TableName() string {
	return "theme_categories"
}

// Theme 请柬主题表
type Theme struct {
	ID              uint           `gorm:"primarykey" json:"id"`                       // 主键
	ThemeCategoryID uint           `gorm:"index;not null" json:"theme_category_id"`    // 分类ID
	Name            string         `gorm:"type:varchar(100);not null" json:"name"`     // 名称
	Link            string         `gorm:"type:varchar(500)" json:"link"`              // 预览链接
	Thumbnail       string         `gorm:"type:varchar(500)" json:"thumbnail"`         // 缩略图路径
	IsPremium       bool           `gorm:"default:false" json:"is_premium"`            // 是否高级主题
	CreatedAt       time.Time      `json:"created_at"`                                 // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                 // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间

	Category *ThemeCategory `gorm:"foreignKey:ThemeCategoryID" json:"category,omitempty"`
}

// TableName 指定表名
func (Theme) TableName() string {
	return "themes"
}

// Music 背景音乐表
type Music struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	Name      string         `gorm:"type:varchar(150);not null" json:"name"` // 曲名
	Artist    string         `gorm:"type:varchar(150)" json:"artist"`        // 歌手
	Audio     string         `gorm:"type:varchar(500)" json:"audio"`         // 音频文件路径
	Thumbnail string         `gorm:"type:varchar(500)" json:"thumbnail"`     // 封面路径
	CreatedAt time.Time      `json:"created_at"`                             // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                             // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Music) TableName() string {
	return "musics"
}
