package main

import (
	"errors"
	"os"
	"strings"

	"github.com/undangan-next/internal/authz"
	"github.com/undangan-next/internal/config"
	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type packageSeed struct {
	Name     string
	Tier     string
	Price    int64
	Features []string
}

var packageSeeds = []packageSeed{
	{
		Name:  "Economy",
		Tier:  constants.PackageTierEconomy,
		Price: 100000,
		Features: []string{
			"100 tamu undangan + grup",
			"4 foto galeri (max)",
			"Informasi acara",
			"Background musik (list)",
			"Timer countdown",
			"Maps lokasi",
			"Story",
			"RSVP",
			"Ucapan tamu",
			"1 bulan masa aktif",
		},
	},
	{
		Name:  "Premium",
		Tier:  constants.PackageTierPremium,
		Price: 150000,
		Features: []string{
			"500 tamu undangan + grup",
			"10 foto galeri (max)",
			"1 video",
			"Informasi acara",
			"Background musik custom",
			"Timer countdown",
			"Maps lokasi",
			"Tambah ke kalender",
			"Story",
			"RSVP",
			"Ucapan tamu",
			"Kirim hadiah",
			"3 bulan masa aktif",
		},
	},
	{
		Name:  "Business",
		Tier:  constants.PackageTierBusiness,
		Price: 250000,
		Features: []string{
			"Unlimited tamu undangan + grup",
			"50 foto galeri (max)",
			"10 video (max)",
			"Informasi acara",
			"Background musik custom",
			"Timer countdown",
			"Maps lokasi",
			"Tambah ke kalender",
			"Story",
			"RSVP",
			"Ucapan tamu",
			"Kirim hadiah",
			"6 bulan masa aktif",
		},
	},
}

var categorySeeds = []string{"Basic", "Modern", "Social"}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	log := logger.S()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		log.Fatalw("seed_database_init_failed", "error", err)
	}
	if err := models.AutoMigrate(); err != nil {
		log.Fatalw("seed_database_migrate_failed", "error", err)
	}

	seedPackages(models.DB, log)
	seedCategories(models.DB, log)
	seedAdmin(models.DB, log)
}

func seedPackages(db *gorm.DB, log *zap.SugaredLogger) {
	for i, seed := range packageSeeds {
		var existing models.Package
		err := db.Where("tier = ?", seed.Tier).First(&existing).Error
		if err == nil {
			log.Infow("seed_package_exists", "tier", seed.Tier)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Errorw("seed_package_lookup_failed", "tier", seed.Tier, "error", err)
			continue
		}
		pkg := models.Package{
			Name:      seed.Name,
			Tier:      seed.Tier,
			Price:     models.NewMoneyFromInt(seed.Price),
			Features:  datatypes.JSONSlice[string](seed.Features),
			SortOrder: i,
		}
		if err := db.Create(&pkg).Error; err != nil {
			log.Errorw("seed_package_create_failed", "tier", seed.Tier, "error", err)
			continue
		}
		log.Infow("seed_package_created", "tier", seed.Tier, "package_id", pkg.ID)
	}
}

func seedCategories(db *gorm.DB, log *zap.SugaredLogger) {
	for _, name := range categorySeeds {
		category := models.ThemeCategory{Name: name}
		result := db.Where("name = ?", name).FirstOrCreate(&category)
		if result.Error != nil {
			log.Errorw("seed_category_failed", "name", name, "error", result.Error)
			continue
		}
		log.Infow("seed_category_ready", "name", name, "created", result.RowsAffected > 0)
	}
}

// seedAdmin 通过 UNDANGAN_ADMIN_EMAIL / UNDANGAN_ADMIN_PASSWORD 创建管理员并绑定 casbin 角色
func seedAdmin(db *gorm.DB, log *zap.SugaredLogger) {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("UNDANGAN_ADMIN_EMAIL")))
	password := os.Getenv("UNDANGAN_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Warnw("seed_admin_skipped", "reason", "UNDANGAN_ADMIN_EMAIL or UNDANGAN_ADMIN_PASSWORD not set")
		return
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			log.Errorw("seed_admin_hash_failed", "error", hashErr)
			return
		}
		user = models.User{Name: "Administrator", Email: email, PasswordHash: string(hash), Role: constants.UserRoleAdmin}
		if err := db.Create(&user).Error; err != nil {
			log.Errorw("seed_admin_create_failed", "error", err)
			return
		}
		log.Infow("seed_admin_created", "user_id", user.ID)
	case err != nil:
		log.Errorw("seed_admin_lookup_failed", "error", err)
		return
	default:
		log.Infow("seed_admin_exists", "user_id", user.ID)
	}

	authzService, err := authz.NewService(db)
	if err != nil {
		log.Errorw("seed_admin_authz_init_failed", "error", err)
		return
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		log.Errorw("seed_admin_authz_bootstrap_failed", "error", err)
		return
	}
	if err := authzService.SetUserRoles(user.ID, []string{constants.UserRoleAdmin}); err != nil {
		log.Errorw("seed_admin_role_bind_failed", "user_id", user.ID, "error", err)
		return
	}
	log.Infow("seed_admin_role_bound", "user_id", user.ID, "role", constants.UserRoleAdmin)
}
