package models

import (
	"time"
)

// Person 新郎/新娘共用资料字段
type Person struct {
	InvitationID uint    `gorm:"uniqueIndex;not null" json:"invitation_id"`   // 请柬ID（一对一）
	FullName     string  `gorm:"type:varchar(255);not null" json:"full_name"` // 全名
	FatherName   string  `gorm:"type:varchar(255)" json:"father_name"`        // 父亲姓名
	MotherName   string  `gorm:"type:varchar(255)" json:"mother_name"`        // 母亲姓名
	Instagram    *string `gorm:"type:varchar(255)" json:"instagram"`          // Instagram 账号
	Photo        *string `gorm:"type:varchar(500)" json:"photo"`              // 照片路径
}

// Groom 新郎资料表
type Groom struct {
	ID uint `gorm:"primarykey" json:"id"`
	Person
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Groom) TableName() string {
	return "grooms"
}

// Profile 共用资料字段
func (g *Groom) Profile() *Person {
	return &g.Person
}

// Bride 新娘资料表
type Bride struct {
	ID uint `gorm:"primarykey" json:"id"`
	Person
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (Bride) TableName() string {
	return "brides"
}

// Profile 共用资料字段
func (b *Bride) Profile() *Person {
	return &b.Person
}

// MainInfo 婚礼主信息表
type MainInfo struct {
	ID              uint      `gorm:"primarykey" json:"id"`                          // 主键
	InvitationID    uint      `gorm:"uniqueIndex;not null" json:"invitation_id"`     // 请柬ID（一对一）
	MusicID         *uint     `gorm:"index" json:"music_id"`                         // 背景音乐ID
	MainPhoto       *string   `gorm:"type:varchar(500)" json:"main_photo"`           // 主图路径
	WeddingDate     time.Time `json:"wedding_date"`                                  // 婚礼日期
	WeddingTime     string    `gorm:"type:varchar(5)" json:"wedding_time"`           // 婚礼时间 HH:MM
	TimeZone        string    `gorm:"type:varchar(5)" json:"time_zone"`              // 时区 WIB/WITA/WIT
	CustomBacksound *string   `gorm:"type:varchar(500)" json:"custom_backsound"`     // 自定义背景音频路径
	CreatedAt       time.Time `json:"created_at"`                                    // 创建时间
	UpdatedAt       time.Time `json:"updated_at"`                                    // 更新时间

	Music *Music `gorm:"foreignKey:MusicID" json:"music,omitempty"`
}

// TableName 指定表名
func (MainInfo) TableName() string {
	return "main_infos"
}

// Event 婚礼活动表（akad / resepsi 等）
type Event struct {
	ID           uint      `gorm:"primarykey" json:"id"`                    // 主键
	InvitationID uint      `gorm:"index;not null" json:"invitation_id"`     // 请柬ID
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`  // 活动名称
	Venue        string    `gorm:"type:varchar(255);not null" json:"venue"` // 场地
	Date         time.Time `json:"date"`                                    // 日期
	TimeStart    string    `gorm:"type:varchar(5)" json:"time_start"`       // 开始时间 HH:MM
	TimeEnd      *string   `gorm:"type:varchar(5)" json:"time_end"`         // 结束时间 HH:MM
	Address      string    `gorm:"type:text" json:"address"`                // 地址
	MapsURL      *string   `gorm:"type:varchar(1000)" json:"maps_url"`      // 地图链接
	MapsEmbedURL *string   `gorm:"type:text" json:"maps_embed_url"`         // 地图嵌入链接
	CreatedAt    time.Time `json:"created_at"`                              // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                              // 更新时间
}

// TableName 指定表名
func (Event) TableName() string {
	return "events"
}

// LoveStory 恋爱故事表
type LoveStory struct {
	ID           uint      `gorm:"primarykey" json:"id"`                    // 主键
	InvitationID uint      `gorm:"index;not null" json:"invitation_id"`     // 请柬ID
	Title        string    `gorm:"type:varchar(255);not null" json:"title"` // 标题
	Date         *time.Time `json:"date"`                                   // 日期
	Description  string    `gorm:"type:text" json:"description"`            // 描述
	Thumbnail    *string   `gorm:"type:varchar(500)" json:"thumbnail"`      // 缩略图路径
	CreatedAt    time.Time `json:"created_at"`                              // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                              // 更新时间
}

// TableName 指定表名
func (LoveStory) TableName() string {
	return "love_stories"
}

// Gallery 相册图片表（一行一张图）
type Gallery struct {
	ID           uint      `gorm:"primarykey" json:"id"`                    // 主键
	InvitationID uint      `gorm:"index;not null" json:"invitation_id"`     // 请柬ID
	Image        string    `gorm:"type:varchar(500);not null" json:"image"` // 图片路径
	CreatedAt    time.Time `json:"created_at"`                              // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                              // 更新时间
}

// TableName 指定表名
func (Gallery) TableName() string {
	return "galleries"
}

// Video 视频表（一行一个视频）
type Video struct {
	ID           uint      `gorm:"primarykey" json:"id"`                    // 主键
	InvitationID uint      `gorm:"index;not null" json:"invitation_id"`     // 请柬ID
	Video        string    `gorm:"type:varchar(500);not null" json:"video"` // 视频路径
	CreatedAt    time.Time `json:"created_at"`                              // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                              // 更新时间
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}

// Gift 礼金账户表
type Gift struct {
	ID            uint      `gorm:"primarykey" json:"id"`                             // 主键
	InvitationID  uint      `gorm:"index;not null" json:"invitation_id"`              // 请柬ID
	BankName      string    `gorm:"type:varchar(255);not null" json:"bank_name"`      // 银行 / 钱包名称
	AccountNumber string    `gorm:"type:varchar(255);not null" json:"account_number"` // 账号
	AccountHolder string    `gorm:"type:varchar(255);not null" json:"account_holder"` // 户名
	CreatedAt     time.Time `json:"created_at"`                                       // 创建时间
	UpdatedAt     time.Time `json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (Gift) TableName() string {
	return "gifts"
}

// Guest 宾客表
type Guest struct {
	ID               uint      `gorm:"primarykey" json:"id"`                                   // 主键
	InvitationID     uint      `gorm:"index;not null" json:"invitation_id"`                    // 请柬ID
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`                 // 姓名
	Slug             string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`     // 全局唯一 slug
	Phone            *string   `gorm:"type:varchar(20)" json:"phone"`                          // 手机号
	IsGroup          bool      `gorm:"default:false" json:"is_group"`                          // 是否团体宾客
	AttendanceStatus string    `gorm:"type:varchar(20);not null" json:"attendance_status"`     // 出席状态
	CreatedAt        time.Time `gorm:"index" json:"created_at"`                                // 创建时间
	UpdatedAt        time.Time `json:"updated_at"`                                             // 更新时间
}

// TableName 指定表名
func (Guest) TableName() string {
	return "guests"
}

// Comment 留言表
type Comment struct {
	ID           uint      `gorm:"primarykey" json:"id"`                   // 主键
	InvitationID uint      `gorm:"index;not null" json:"invitation_id"`    // 请柬ID
	Name         string    `gorm:"type:varchar(255);not null" json:"name"` // 留言人
	Message      string    `gorm:"type:text;not null" json:"message"`      // 内容
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                             // 更新时间
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}
