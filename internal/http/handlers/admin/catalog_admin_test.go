package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/undangan-next/internal/config"
	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/payment/midtrans"
	"github.com/undangan-next/internal/provider"
	"github.com/undangan-next/internal/queue"
	"github.com/undangan-next/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAdminHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("create storage failed: %v", err)
	}
	queueClient, _ := queue.NewClient(nil)
	h := New(provider.Assemble(&config.Config{}, db, store, midtrans.NewClient(midtrans.Config{}), queueClient))

	r := gin.New()
	r.GET("/admin/packages", h.ListPackages)
	r.POST("/admin/packages", h.CreatePackage)
	r.PUT("/admin/packages/:id", h.UpdatePackage)
	r.DELETE("/admin/packages/:id", h.DeletePackage)
	r.POST("/admin/theme-categories", h.CreateThemeCategory)
	r.DELETE("/admin/theme-categories/:id", h.DeleteThemeCategory)
	r.GET("/admin/orders", h.ListOrders)
	return r, db
}

func doAdminJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
		}
	}
	return w, resp
}

func TestAdminPackageCRUD(t *testing.T) {
	r, _ := setupAdminHandlerTest(t)

	w, resp := doAdminJSON(t, r, http.MethodPost, "/admin/packages", gin.H{
		"name":     "Premium",
		"tier":     constants.PackageTierPremium,
		"price":    "150000",
		"discount": 10,
		"features": []string{"10 foto galeri", "1 video"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	data := resp["data"].(map[string]interface{})
	id := uint(data["id"].(float64))
	if data["final_price"] != "135000.00" {
		t.Fatalf("final price want 135000.00 got %v", data["final_price"])
	}

	w, resp = doAdminJSON(t, r, http.MethodPut, fmt.Sprintf("/admin/packages/%d", id), gin.H{
		"name":  "Premium Plus",
		"tier":  constants.PackageTierPremium,
		"price": "175000",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	if name := resp["data"].(map[string]interface{})["name"]; name != "Premium Plus" {
		t.Fatalf("updated name mismatch: %v", name)
	}

	w, _ = doAdminJSON(t, r, http.MethodDelete, fmt.Sprintf("/admin/packages/%d", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status want 200 got %d", w.Code)
	}
	w, _ = doAdminJSON(t, r, http.MethodDelete, fmt.Sprintf("/admin/packages/%d", id), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete want 404 got %d", w.Code)
	}
}

func TestAdminDeleteCategoryInUse(t *testing.T) {
	r, db := setupAdminHandlerTest(t)

	w, resp := doAdminJSON(t, r, http.MethodPost, "/admin/theme-categories", gin.H{"name": "Rustic"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category want 201 got %d body=%s", w.Code, w.Body.String())
	}
	categoryID := uint(resp["data"].(map[string]interface{})["id"].(float64))
	if err := db.Create(&models.Theme{ThemeCategoryID: categoryID, Name: "Barn"}).Error; err != nil {
		t.Fatalf("create theme failed: %v", err)
	}

	w, _ = doAdminJSON(t, r, http.MethodDelete, fmt.Sprintf("/admin/theme-categories/%d", categoryID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("delete in-use category want 409 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAdminListOrdersPagination(t *testing.T) {
	r, db := setupAdminHandlerTest(t)
	user := &models.User{Name: "Buyer", Email: "buyer@example.com", PasswordHash: "x", Role: constants.UserRoleUser}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	pkg := &models.Package{Name: "Economy", Tier: constants.PackageTierEconomy, Price: models.NewMoneyFromInt(100000)}
	if err := db.Create(pkg).Error; err != nil {
		t.Fatalf("create package failed: %v", err)
	}
	for i, status := range []string{constants.PaymentStatusPending, constants.PaymentStatusPaid, constants.PaymentStatusPaid} {
		order := &models.Order{OrderCode: fmt.Sprintf("ORDER-ADM00%d", i), UserID: user.ID, PackageID: pkg.ID, Amount: pkg.Price, PaymentStatus: status}
		if err := db.Create(order).Error; err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	w, resp := doAdminJSON(t, r, http.MethodGet, "/admin/orders?payment_status=paid&page=1&page_size=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list orders want 200 got %d", w.Code)
	}
	pagination := resp["pagination"].(map[string]interface{})
	if pagination["total"].(float64) != 2 {
		t.Fatalf("paid total want 2 got %v", pagination["total"])
	}
	if items := resp["data"].([]interface{}); len(items) != 1 {
		t.Fatalf("page size 1 should return one order, got %d", len(items))
	}
}
