package constants

// 订单支付状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusCanceled = "canceled"
	PaymentStatusExpired  = "expired"
)

// 请柬状态常量
const (
	InvitationStatusDraft     = "draft"
	InvitationStatusPublished = "published"
	InvitationStatusExpired   = "expired"
)

// 宾客出席状态常量
const (
	AttendancePending      = "pending"
	AttendanceAttending    = "attending"
	AttendanceNotAttending = "not_attending"
)

// 套餐等级常量（权益按等级标识解析，不依赖自增 ID）
const (
	PackageTierEconomy   = "economy"
	PackageTierPremium   = "premium"
	PackageTierBusiness  = "business"
	PackageTierExclusive = "exclusive"
)

// 用户角色常量
const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

// 婚礼时区常量
const (
	TimeZoneWIB  = "WIB"
	TimeZoneWITA = "WITA"
	TimeZoneWIT  = "WIT"
)

// 上传目录常量
const (
	UploadDirGroomPhotos     = "grooms/photos"
	UploadDirBridePhotos     = "brides/photos"
	UploadDirMainPhotos      = "main-infos/photos"
	UploadDirBacksounds      = "main-infos/backsounds"
	UploadDirLoveStoryThumbs = "love-stories/thumbnails"
	UploadDirGalleryImages   = "galleries/images"
	UploadDirGalleryVideos   = "galleries/videos"
	UploadDirThemeThumbs     = "themes/thumbnails"
	UploadDirMusicAudio      = "musics/audio"
	UploadDirMusicThumbs     = "musics/thumbnails"
)

// 支付通知任务类型
const (
	TaskOrderPaid    = "order:paid"
	TaskFilesCleanup = "files:cleanup"
)
