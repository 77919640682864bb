package router

import (
	"fmt"
	"strings"

	"github.com/undangan-next/internal/cache"
	"github.com/undangan-next/internal/config"
	adminhandlers "github.com/undangan-next/internal/http/handlers/admin"
	publichandlers "github.com/undangan-next/internal/http/handlers/public"
	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	if strings.EqualFold(cfg.Server.Mode, gin.ReleaseMode) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "undangan"
	}
	redisClient := cache.Client()
	loginRule := NewRateLimitRule(fmt.Sprintf("%s:rate:login", redisPrefix), cfg.Security.LoginRateLimit)
	webhookRule := NewRateLimitRule(fmt.Sprintf("%s:rate:webhook", redisPrefix), cfg.Security.WebhookRateLimit)
	commentRule := NewRateLimitRule(fmt.Sprintf("%s:rate:comment", redisPrefix), cfg.Security.CommentRateLimit)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(MetricsMiddleware())
	r.Use(CORSMiddleware(cfg.CORS))

	// 本地存储时直接托管上传文件
	if strings.EqualFold(strings.TrimSpace(cfg.Storage.Driver), "local") || strings.TrimSpace(cfg.Storage.Driver) == "" {
		urlPrefix := strings.TrimSpace(cfg.Storage.Local.URLPrefix)
		root := strings.TrimSpace(cfg.Storage.Local.Root)
		if urlPrefix == "" {
			urlPrefix = "/storage"
		}
		if root == "" {
			root = "./storage"
		}
		if strings.HasPrefix(urlPrefix, "/") {
			r.Static(urlPrefix, root)
		}
	}

	r.GET("/metrics", PrometheusHandler())

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		apiV1.GET("/health", publicHandler.Health)
		apiV1.GET("/captcha", publicHandler.GetCaptcha)

		apiV1.GET("/packages", publicHandler.ListPackages)
		apiV1.GET("/packages/:id", publicHandler.GetPackage)
		apiV1.GET("/themes", publicHandler.ListThemes)
		apiV1.GET("/themes/:id", publicHandler.GetTheme)
		apiV1.GET("/theme-categories", publicHandler.ListThemeCategories)
		apiV1.GET("/theme-categories/:id", publicHandler.GetThemeCategory)
		apiV1.GET("/musics", publicHandler.ListMusics)
		apiV1.GET("/musics/:id", publicHandler.GetMusic)

		publicInvitation := apiV1.Group("/invitations/slug/:slug")
		{
			publicInvitation.GET("", publicHandler.GetPublicInvitation)
			publicInvitation.GET("/guests/:guest_slug", publicHandler.GetPublicGuest)
			publicInvitation.GET("/comments", publicHandler.ListPublicComments)
			publicInvitation.POST("/comments", RateLimitMiddleware(redisClient, commentRule, KeyByIP), publicHandler.CreatePublicComment)
		}
		apiV1.PUT("/guests/:id/rsvp", publicHandler.UpdateGuestRSVP)

		// 支付回调
		payments := apiV1.Group("/payments")
		payments.Use(RateLimitMiddleware(redisClient, webhookRule, KeyByIP))
		{
			payments.POST("/notification", publicHandler.PaymentNotification)
			payments.POST("/recurring", publicHandler.RecurringNotification)
			payments.POST("/account", publicHandler.AccountNotification)
		}

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(redisClient, loginRule, KeyByIP), publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/auth/me", publicHandler.Me)

			user.POST("/orders", publicHandler.CreateOrder)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:code", publicHandler.GetOrder)
			user.POST("/orders/:code/cancel", publicHandler.CancelOrder)
			user.POST("/orders/:code/payment", publicHandler.RefreshOrderPayment)

			user.POST("/invitations", publicHandler.CreateInvitation)
			user.GET("/invitations", publicHandler.ListInvitations)
			user.GET("/invitations/check/:code", publicHandler.CheckInvitationByOrder)
			user.GET("/invitations/:id", publicHandler.GetInvitation)
			user.PUT("/invitations/:id", publicHandler.UpdateInvitation)
			user.DELETE("/invitations/:id", publicHandler.DeleteInvitation)
			user.POST("/invitations/:id/publish", publicHandler.PublishInvitation)

			registerSectionRoutes(user.Group("/invitations/:id"), publicHandler)
		}

		// 管理接口（需鉴权 + RBAC）
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		admin.Use(AdminRBACMiddleware(c.AuthzService))
		{
			admin.GET("/packages", adminHandler.ListPackages)
			admin.GET("/packages/:id", adminHandler.GetPackage)
			admin.POST("/packages", adminHandler.CreatePackage)
			admin.PUT("/packages/:id", adminHandler.UpdatePackage)
			admin.DELETE("/packages/:id", adminHandler.DeletePackage)

			admin.GET("/theme-categories", adminHandler.ListThemeCategories)
			admin.GET("/theme-categories/:id", adminHandler.GetThemeCategory)
			admin.POST("/theme-categories", adminHandler.CreateThemeCategory)
			admin.PUT("/theme-categories/:id", adminHandler.UpdateThemeCategory)
			admin.DELETE("/theme-categories/:id", adminHandler.DeleteThemeCategory)

			admin.GET("/themes", adminHandler.ListThemes)
			admin.GET("/themes/:id", adminHandler.GetTheme)
			admin.POST("/themes", adminHandler.CreateTheme)
			admin.PUT("/themes/:id", adminHandler.UpdateTheme)
			admin.DELETE("/themes/:id", adminHandler.DeleteTheme)

			admin.GET("/musics", adminHandler.ListMusics)
			admin.GET("/musics/:id", adminHandler.GetMusic)
			admin.POST("/musics", adminHandler.CreateMusic)
			admin.PUT("/musics/:id", adminHandler.UpdateMusic)
			admin.DELETE("/musics/:id", adminHandler.DeleteMusic)

			admin.GET("/orders", adminHandler.ListOrders)

			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
			admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
			admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
			admin.GET("/authz/users/:id/roles", adminHandler.GetAuthzUserRoles)
			admin.PUT("/authz/users/:id/roles", adminHandler.SetAuthzUserRoles)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "Route not found.")
	})

	return r
}

// registerSectionRoutes 注册请柬内容分区路由
func registerSectionRoutes(g *gin.RouterGroup, h *publichandlers.Handler) {
	g.GET("/groom", h.GetGroom)
	g.POST("/groom", h.CreateGroom)
	g.PUT("/groom", h.UpdateGroom)
	g.DELETE("/groom", h.DeleteGroom)

	g.GET("/bride", h.GetBride)
	g.POST("/bride", h.CreateBride)
	g.PUT("/bride", h.UpdateBride)
	g.DELETE("/bride", h.DeleteBride)

	g.GET("/main-info", h.GetMainInfo)
	g.POST("/main-info", h.CreateMainInfo)
	g.PUT("/main-info", h.UpdateMainInfo)
	g.DELETE("/main-info", h.DeleteMainInfo)

	g.GET("/events", h.ListEvents)
	g.POST("/events", h.CreateEvent)
	g.PUT("/events/:event_id", h.UpdateEvent)
	g.DELETE("/events/:event_id", h.DeleteEvent)

	g.GET("/love-stories", h.ListLoveStories)
	g.POST("/love-stories", h.CreateLoveStory)
	g.PUT("/love-stories/:story_id", h.UpdateLoveStory)
	g.DELETE("/love-stories/:story_id", h.DeleteLoveStory)

	g.GET("/galleries", h.ListGalleries)
	g.POST("/galleries", h.UploadGalleries)
	g.POST("/galleries/bulk-delete", h.BulkDeleteGalleries)
	g.DELETE("/galleries/:item_id", h.DeleteGallery)

	g.GET("/videos", h.ListVideos)
	g.POST("/videos", h.UploadVideos)
	g.POST("/videos/bulk-delete", h.BulkDeleteVideos)
	g.DELETE("/videos/:item_id", h.DeleteVideo)

	g.GET("/gifts", h.ListGifts)
	g.POST("/gifts", h.CreateGift)
	g.PUT("/gifts/:gift_id", h.UpdateGift)
	g.DELETE("/gifts/:gift_id", h.DeleteGift)

	g.GET("/guests", h.ListGuests)
	g.POST("/guests", h.CreateGuest)
	g.PUT("/guests/:guest_id", h.UpdateGuest)
	g.DELETE("/guests/:guest_id", h.DeleteGuest)
	g.GET("/guests/:guest_id/qrcode", h.GuestQRCode)

	g.GET("/comments", h.ListComments)
	g.DELETE("/comments/:comment_id", h.DeleteComment)
}
