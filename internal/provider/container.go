package provider

import (
	"context"
	"time"

	"github.com/undangan-next/internal/authz"
	"github.com/undangan-next/internal/cache"
	"github.com/undangan-next/internal/config"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/payment/midtrans"
	"github.com/undangan-next/internal/queue"
	"github.com/undangan-next/internal/repository"
	"github.com/undangan-next/internal/service"
	"github.com/undangan-next/internal/storage"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Storage     storage.FileStorage
	Midtrans    *midtrans.Client

	// Repositories
	UserRepo          repository.UserRepository
	PackageRepo       repository.PackageRepository
	ThemeCategoryRepo repository.ThemeCategoryRepository
	ThemeRepo         repository.ThemeRepository
	MusicRepo         repository.MusicRepository
	OrderRepo         repository.OrderRepository
	InvitationRepo    repository.InvitationRepository
	Sections          *repository.SectionRepositories

	// Services
	AuthzService      *authz.Service
	UserAuthService   *service.UserAuthService
	CaptchaService    *service.CaptchaService
	UploadService     *service.UploadService
	CatalogService    *service.CatalogService
	OrderService      *service.OrderService
	InvitationService *service.InvitationService
	GroomService      *service.PersonService[models.Groom, *models.Groom]
	BrideService      *service.PersonService[models.Bride, *models.Bride]
	MainInfoService   *service.MainInfoService
	EventService      *service.EventService
	LoveStoryService  *service.LoveStoryService
	GalleryService    *service.MediaService[models.Gallery]
	VideoService      *service.MediaService[models.Video]
	GiftService       *service.GiftService
	GuestService      *service.GuestService
	CommentService    *service.CommentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	store, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		logger.Errorw("provider_init_storage_failed", "driver", cfg.Storage.Driver, "error", err)
		panic(err)
	}

	gateway := midtrans.NewClient(midtrans.Config{
		ServerKey: cfg.Midtrans.ServerKey,
		SnapURL:   cfg.Midtrans.SnapURL(),
		Timeout:   cfg.Midtrans.Timeout(),
	})
	if !gateway.Configured() {
		logger.Warnw("provider_midtrans_not_configured")
	}

	return Assemble(cfg, models.DB, store, gateway, queueClient)
}

// Assemble 基于已就绪的数据库、存储与网关组装仓库和服务
func Assemble(cfg *config.Config, db *gorm.DB, store storage.FileStorage, gateway *midtrans.Client, queueClient *queue.Client) *Container {
	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Storage:     store,
		Midtrans:    gateway,
	}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.PackageRepo = repository.NewPackageRepository(db)
	c.ThemeCategoryRepo = repository.NewThemeCategoryRepository(db)
	c.ThemeRepo = repository.NewThemeRepository(db)
	c.MusicRepo = repository.NewMusicRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.InvitationRepo = repository.NewInvitationRepository(db)
	c.Sections = repository.NewSectionRepositories(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	cfg := c.Config
	invitations, orders, sections := c.InvitationRepo, c.OrderRepo, c.Sections

	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
	c.UploadService = service.NewUploadService(cfg.Upload, c.Storage)
	c.CatalogService = service.NewCatalogService(c.PackageRepo, c.ThemeCategoryRepo, c.ThemeRepo, c.MusicRepo, c.UploadService)
	c.OrderService = service.NewOrderService(orders, c.PackageRepo, c.UserRepo, c.Midtrans, c.QueueClient)
	c.InvitationService = service.NewInvitationService(
		invitations,
		orders,
		c.ThemeRepo,
		sections,
		c.UploadService,
		c.QueueClient,
		time.Duration(cfg.App.PublicCacheSeconds)*time.Second,
	)
	c.GroomService = service.NewGroomService(invitations, orders, sections.Groom, c.UploadService)
	c.BrideService = service.NewBrideService(invitations, orders, sections.Bride, c.UploadService)
	c.MainInfoService = service.NewMainInfoService(invitations, orders, sections.MainInfo, c.MusicRepo, c.UploadService)
	c.EventService = service.NewEventService(invitations, orders, sections.Event)
	c.LoveStoryService = service.NewLoveStoryService(invitations, orders, sections.LoveStory, c.UploadService)
	c.GalleryService = service.NewGalleryService(invitations, orders, sections.Gallery, c.UploadService)
	c.VideoService = service.NewVideoService(invitations, orders, sections.Video, c.UploadService)
	c.GiftService = service.NewGiftService(invitations, orders, sections.Gift)
	c.GuestService = service.NewGuestService(invitations, orders, sections.Guest, cfg.App.PublicBaseURL)
	c.CommentService = service.NewCommentService(invitations, orders, sections.Comment, c.CaptchaService)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
