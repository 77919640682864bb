package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Package 套餐表
type Package struct {
	ID        uint                        `gorm:"primarykey" json:"id"`                            // 主键
	Name      string                      `gorm:"type:varchar(100);not null" json:"name"`          // 套餐名称
	Tier      string                      `gorm:"type:varchar(32);index;not null" json:"tier"`     // 权益等级标识
	Price     Money                       `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 原价
	Discount  *int                        `json:"discount"`                                        // 折扣百分比 0-100
	Features  datatypes.JSONSlice[string] `json:"features"`                                        // 功能列表（有序）
	SortOrder int                         `gorm:"default:0" json:"sort_order"`                     // 排序
	CreatedAt time.Time                   `json:"created_at"`                                      // 创建时间
	UpdatedAt time.Time                   `json:"updated_at"`                                      // 更新时间
	DeletedAt gorm.DeletedAt              `gorm:"index" json:"-"`                                  // 软删除时间

	FinalPrice Money `gorm:"-" json:"final_price"` // 折后价（派生字段）
}

// TableName 指定表名
func (Package) TableName() string {
	return "packages"
}

// DiscountPercent 返回有效折扣百分比
func (p *Package) DiscountPercent() int {
	if p == nil || p.Discount == nil {
		return 0
	}
	return *p.Discount
}

// ComputeFinalPrice 计算折后价：price - price*discount/100
func (p *Package) ComputeFinalPrice() Money {
	if p == nil {
		return Money{}
	}
	return p.Price.ApplyDiscountPercent(p.DiscountPercent())
}

// AfterFind 查询后填充派生字段
func (p *Package) AfterFind(tx *gorm.DB) error {
	p.FinalPrice = p.ComputeFinalPrice()
	return nil
}
