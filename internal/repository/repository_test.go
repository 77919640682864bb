package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

type fixture struct {
	user       models.User
	pkg        models.Package
	theme      models.Theme
	order      models.Order
	invitation models.Invitation
}

func seedFixture(t *testing.T, db *gorm.DB, suffix string) fixture {
	t.Helper()
	f := fixture{}
	f.user = models.User{Name: "Owner " + suffix, Email: "owner_" + suffix + "@example.com", PasswordHash: "hash", Role: constants.UserRoleUser}
	if err := db.Create(&f.user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	f.pkg = models.Package{Name: "Premium", Tier: constants.PackageTierPremium, Price: models.MustMoney("150000")}
	if err := db.Create(&f.pkg).Error; err != nil {
		t.Fatalf("create package failed: %v", err)
	}
	category := models.ThemeCategory{Name: "Rustic"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	f.theme = models.Theme{Name: "Sage", ThemeCategoryID: category.ID}
	if err := db.Create(&f.theme).Error; err != nil {
		t.Fatalf("create theme failed: %v", err)
	}
	f.order = models.Order{
		OrderCode:     "ORDER-" + suffix,
		UserID:        f.user.ID,
		PackageID:     f.pkg.ID,
		Amount:        f.pkg.ComputeFinalPrice(),
		PaymentStatus: constants.PaymentStatusPaid,
	}
	if err := db.Create(&f.order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	f.invitation = models.Invitation{
		UserID:     f.user.ID,
		OrderID:    f.order.ID,
		ThemeID:    f.theme.ID,
		Status:     constants.InvitationStatusDraft,
		ExpiryDate: time.Now().Add(90 * 24 * time.Hour),
		GroomName:  "Budi",
		BrideName:  "Sari",
	}
	if err := db.Create(&f.invitation).Error; err != nil {
		t.Fatalf("create invitation failed: %v", err)
	}
	return f
}

func TestInvitationExistsSlugExcludesSelf(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewInvitationRepository(db)
	f := seedFixture(t, db, "AAA111")

	slug := "budi-sari"
	f.invitation.Slug = &slug
	if err := repo.Update(&f.invitation); err != nil {
		t.Fatalf("update invitation failed: %v", err)
	}

	exists, err := repo.ExistsSlug(slug, 0)
	if err != nil {
		t.Fatalf("exists slug failed: %v", err)
	}
	if !exists {
		t.Fatalf("slug should exist")
	}
	exists, err = repo.ExistsSlug(slug, f.invitation.ID)
	if err != nil {
		t.Fatalf("exists slug with exclude failed: %v", err)
	}
	if exists {
		t.Fatalf("slug should not collide with its own record")
	}
}

func TestInvitationPublishedLookupIgnoresDrafts(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewInvitationRepository(db)
	f := seedFixture(t, db, "BBB222")

	slug := "draft-only"
	f.invitation.Slug = &slug
	if err := repo.Update(&f.invitation); err != nil {
		t.Fatalf("update invitation failed: %v", err)
	}
	got, err := repo.GetPublishedDetailBySlug(slug)
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if got != nil {
		t.Fatalf("draft invitation must not be visible by slug")
	}

	f.invitation.Status = constants.InvitationStatusPublished
	if err := repo.Update(&f.invitation); err != nil {
		t.Fatalf("publish invitation failed: %v", err)
	}
	got, err = repo.GetPublishedDetailBySlug(slug)
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if got == nil || got.ID != f.invitation.ID {
		t.Fatalf("published invitation should be returned, got %+v", got)
	}
}

func TestOrderTransitionStatusOnlyFromAllowedStates(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewOrderRepository(db)
	f := seedFixture(t, db, "CCC333")

	if err := repo.UpdateFields(f.order.ID, map[string]interface{}{"payment_status": constants.PaymentStatusPending}); err != nil {
		t.Fatalf("reset status failed: %v", err)
	}
	changed, err := repo.TransitionStatus(f.order.ID, []string{constants.PaymentStatusPending}, constants.PaymentStatusPaid, nil)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if !changed {
		t.Fatalf("pending -> paid should change the row")
	}
	changed, err = repo.TransitionStatus(f.order.ID, []string{constants.PaymentStatusPending}, constants.PaymentStatusPaid, nil)
	if err != nil {
		t.Fatalf("second transition failed: %v", err)
	}
	if changed {
		t.Fatalf("replayed transition should be a no-op")
	}

	got, err := repo.GetByCode(f.order.OrderCode)
	if err != nil {
		t.Fatalf("get by code failed: %v", err)
	}
	if got == nil || got.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("order should be paid, got %+v", got)
	}
	if got.Package == nil || got.Package.Tier != constants.PackageTierPremium {
		t.Fatalf("package should be preloaded")
	}
}

func TestSectionRepositoryCountAndDelete(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewSectionRepository[models.Gallery](db, "")
	f := seedFixture(t, db, "DDD444")

	rows := []models.Gallery{
		{InvitationID: f.invitation.ID, Image: "galleries/images/a.jpg"},
		{InvitationID: f.invitation.ID, Image: "galleries/images/b.jpg"},
		{InvitationID: f.invitation.ID, Image: "galleries/images/c.jpg"},
	}
	if err := repo.CreateBatch(rows); err != nil {
		t.Fatalf("create batch failed: %v", err)
	}
	count, err := repo.CountByInvitation(f.invitation.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("count want 3 got %d", count)
	}

	listed, err := repo.ListByInvitation(f.invitation.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if err := repo.DeleteByIDs([]uint{listed[0].ID, listed[1].ID}); err != nil {
		t.Fatalf("delete by ids failed: %v", err)
	}
	count, _ = repo.CountByInvitation(f.invitation.ID)
	if count != 1 {
		t.Fatalf("count after delete want 1 got %d", count)
	}

	if err := repo.DeleteByInvitation(f.invitation.ID); err != nil {
		t.Fatalf("delete by invitation failed: %v", err)
	}
	count, _ = repo.CountByInvitation(f.invitation.ID)
	if count != 0 {
		t.Fatalf("count after purge want 0 got %d", count)
	}
}

func TestGuestExistsSlugIsGlobal(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewGuestRepository(db)
	a := seedFixture(t, db, "EEE555")
	b := seedFixture(t, db, "FFF666")

	guest := models.Guest{InvitationID: a.invitation.ID, Name: "Andi", Slug: "andi", AttendanceStatus: constants.AttendancePending}
	if err := repo.Create(&guest); err != nil {
		t.Fatalf("create guest failed: %v", err)
	}
	exists, err := repo.ExistsSlug("andi", 0)
	if err != nil {
		t.Fatalf("exists slug failed: %v", err)
	}
	if !exists {
		t.Fatalf("slug should be visible across invitations")
	}
	found, err := repo.GetBySlug(b.invitation.ID, "andi")
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if found != nil {
		t.Fatalf("guest lookup must be scoped to the invitation")
	}
}
