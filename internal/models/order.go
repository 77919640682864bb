package models

import (
	"time"
)

// Order 套餐订单表
type Order struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                     // 主键
	OrderCode     string     `gorm:"uniqueIndex;type:varchar(32);not null" json:"order_id"`    // 订单编号 ORDER-XXXXXX
	UserID        uint       `gorm:"index;not null" json:"user_id"`                            // 用户ID
	PackageID     uint       `gorm:"index;not null" json:"package_id"`                         // 套餐ID
	Amount        Money      `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`      // 下单时冻结的金额
	PaymentStatus string     `gorm:"type:varchar(20);index;not null" json:"payment_status"`    // 支付状态
	PaymentMethod *string    `gorm:"type:varchar(50)" json:"payment_method"`                   // 支付方式（网关 payment_type）
	SnapToken     *string    `gorm:"type:varchar(255)" json:"snap_token"`                      // 网关会话 token
	RedirectURL   *string    `gorm:"type:varchar(500)" json:"midtrans_url"`                    // 网关跳转地址
	TransactionID *string    `gorm:"type:varchar(100);index" json:"midtrans_transaction_id"`   // 网关交易ID
	PaidAt        *time.Time `json:"paid_at"`                                                  // 支付时间
	CanceledAt    *time.Time `json:"canceled_at"`                                              // 取消时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                               // 更新时间

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Package *Package `gorm:"foreignKey:PackageID" json:"package,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
