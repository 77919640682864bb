package models

import (
	"time"
)

// Invitation 请柬表
type Invitation struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                   // 主键
	UserID     uint      `gorm:"index;not null" json:"user_id"`                          // 所属用户
	OrderID    uint      `gorm:"uniqueIndex;not null" json:"order_id"`                   // 订单ID（一单一请柬）
	ThemeID    uint      `gorm:"index;not null" json:"theme_id"`                         // 主题ID
	Status     string    `gorm:"type:varchar(20);index;not null" json:"status"`          // 状态 draft/published/expired
	ExpiryDate time.Time `gorm:"index;not null" json:"expiry_date"`                      // 到期时间
	GroomName  string    `gorm:"type:varchar(50);not null" json:"groom_name"`            // 新郎称呼
	BrideName  string    `gorm:"type:varchar(50);not null" json:"bride_name"`            // 新娘称呼
	Slug       *string   `gorm:"type:varchar(255);uniqueIndex" json:"slug"`              // 公开访问 slug（发布时生成）
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                             // 更新时间

	Order       *Order      `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Theme       *Theme      `gorm:"foreignKey:ThemeID" json:"theme,omitempty"`
	Groom       *Groom      `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"groom,omitempty"`
	Bride       *Bride      `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"bride,omitempty"`
	MainInfo    *MainInfo   `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"main_info,omitempty"`
	Events      []Event     `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"events,omitempty"`
	LoveStories []LoveStory `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"love_stories,omitempty"`
	Galleries   []Gallery   `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"galleries,omitempty"`
	Videos      []Video     `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"videos,omitempty"`
	Gifts       []Gift      `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"gifts,omitempty"`
	Guests      []Guest     `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"guests,omitempty"`
	Comments    []Comment   `gorm:"foreignKey:InvitationID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// TableName 指定表名
func (Invitation) TableName() string {
	return "invitations"
}

// IsExpiredAt 判断在给定时刻是否已过期（实时比较，不依赖 status 字段）
func (i *Invitation) IsExpiredAt(now time.Time) bool {
	if i == nil {
		return false
	}
	return now.After(i.ExpiryDate)
}

// SlugValue 返回 slug 字符串，未生成时为空
func (i *Invitation) SlugValue() string {
	if i == nil || i.Slug == nil {
		return ""
	}
	return *i.Slug
}
