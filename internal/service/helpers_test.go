package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/undangan-next/internal/config"
	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/payment/midtrans"
	"github.com/undangan-next/internal/repository"
	"github.com/undangan-next/internal/storage"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	store       *storage.LocalStorage
	uploads     *UploadService
	users       *repository.GormUserRepository
	packages    *repository.GormPackageRepository
	categories  *repository.GormThemeCategoryRepository
	themes      *repository.GormThemeRepository
	musics      *repository.GormMusicRepository
	orders      *repository.GormOrderRepository
	invitations *repository.GormInvitationRepository
	sections    *repository.SectionRepositories
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("create local storage failed: %v", err)
	}
	uploads := NewUploadService(config.UploadConfig{
		Image: config.UploadRule{MaxSize: 2 << 20, AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".webp"}},
		Video: config.UploadRule{MaxSize: 100 << 20, AllowedExtensions: []string{".mp4", ".webm"}},
		Audio: config.UploadRule{MaxSize: 20 << 20, AllowedExtensions: []string{".mp3", ".wav"}},
	}, store)

	return &testEnv{
		db:          db,
		store:       store,
		uploads:     uploads,
		users:       repository.NewUserRepository(db),
		packages:    repository.NewPackageRepository(db),
		categories:  repository.NewThemeCategoryRepository(db),
		themes:      repository.NewThemeRepository(db),
		musics:      repository.NewMusicRepository(db),
		orders:      repository.NewOrderRepository(db),
		invitations: repository.NewInvitationRepository(db),
		sections:    repository.NewSectionRepositories(db),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "User " + email, Email: email, PasswordHash: "hash", Role: constants.UserRoleUser}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (e *testEnv) createPackage(t *testing.T, tier, price string, discount *int) *models.Package {
	t.Helper()
	pkg := &models.Package{Name: "Paket " + tier, Tier: tier, Price: models.MustMoney(price), Discount: discount}
	if err := e.db.Create(pkg).Error; err != nil {
		t.Fatalf("create package failed: %v", err)
	}
	return pkg
}

func (e *testEnv) createTheme(t *testing.T) *models.Theme {
	t.Helper()
	category := &models.ThemeCategory{Name: "Classic"}
	if err := e.db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	theme := &models.Theme{ThemeCategoryID: category.ID, Name: "Ivory", Thumbnail: "themes/thumbnails/ivory.png"}
	if err := e.db.Create(theme).Error; err != nil {
		t.Fatalf("create theme failed: %v", err)
	}
	return theme
}

func (e *testEnv) createOrder(t *testing.T, user *models.User, pkg *models.Package, code, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderCode:     code,
		UserID:        user.ID,
		PackageID:     pkg.ID,
		Amount:        pkg.ComputeFinalPrice(),
		PaymentStatus: status,
	}
	if err := e.db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

// createInvitation 为指定等级创建一张有效期内的草稿请柬
func (e *testEnv) createInvitation(t *testing.T, tier string) (*models.User, *models.Invitation) {
	t.Helper()
	suffix := time.Now().UnixNano()
	user := e.createUser(t, fmt.Sprintf("owner_%d@example.com", suffix))
	pkg := e.createPackage(t, tier, "100000", nil)
	theme := e.createTheme(t)
	order := e.createOrder(t, user, pkg, fmt.Sprintf("ORDER-%06d", suffix%1000000), constants.PaymentStatusPaid)
	invitation := &models.Invitation{
		UserID:     user.ID,
		OrderID:    order.ID,
		ThemeID:    theme.ID,
		Status:     constants.InvitationStatusDraft,
		ExpiryDate: time.Now().AddDate(0, 0, 30),
		GroomName:  "Budi",
		BrideName:  "Sari",
	}
	if err := e.db.Create(invitation).Error; err != nil {
		t.Fatalf("create invitation failed: %v", err)
	}
	return user, invitation
}

func (e *testEnv) expire(t *testing.T, invitation *models.Invitation) {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	if err := e.db.Model(&models.Invitation{}).Where("id = ?", invitation.ID).Update("expiry_date", past).Error; err != nil {
		t.Fatalf("expire invitation failed: %v", err)
	}
	invitation.ExpiryDate = past
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

func testImageFile(t *testing.T, name string) *FileInput {
	t.Helper()
	return FileFromBytes(name, testPNG(t))
}

func testVideoFile(name string) *FileInput {
	data := append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypmp42\x00\x00\x00\x00mp42isom")...)
	return FileFromBytes(name, data)
}

func testAudioFile(name string) *FileInput {
	data := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 32)...)
	return FileFromBytes(name, data)
}

// fakeGateway 记录调用并按配置返回结果的支付网关
type fakeGateway struct {
	mu         sync.Mutex
	configured bool
	serverKey  string
	createErr  error
	inputs     []midtrans.CreateInput
}

const testServerKey = "SB-Mid-server-test"

func newFakeGateway() *fakeGateway {
	return &fakeGateway{configured: true, serverKey: testServerKey}
}

func (g *fakeGateway) Configured() bool {
	return g.configured
}

func (g *fakeGateway) CreateTransaction(_ context.Context, input midtrans.CreateInput) (*midtrans.CreateResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inputs = append(g.inputs, input)
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &midtrans.CreateResult{
		Token:       "snap-" + input.OrderID,
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v4/redirection/" + input.OrderID,
	}, nil
}

func (g *fakeGateway) VerifyNotification(n *midtrans.Notification) error {
	return midtrans.VerifySignature(n, g.serverKey)
}

func signedNotification(order *models.Order, transactionStatus, fraudStatus string) *midtrans.Notification {
	gross := order.Amount.StringFixed(2)
	n := &midtrans.Notification{
		OrderID:           order.OrderCode,
		StatusCode:        "200",
		GrossAmount:       gross,
		TransactionStatus: transactionStatus,
		FraudStatus:       fraudStatus,
		PaymentType:       "bank_transfer",
		TransactionID:     "trx-" + order.OrderCode,
	}
	n.SignatureKey = midtrans.Signature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
	return n
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func repositoryFilter(userID uint) repository.OrderListFilter {
	return repository.OrderListFilter{Page: 1, PageSize: 20, UserID: userID}
}
