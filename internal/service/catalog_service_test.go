package service

import (
	"context"
	"testing"

	"github.com/undangan-next/internal/config"
	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService(env *testEnv) *CatalogService {
	return NewCatalogService(env.packages, env.categories, env.themes, env.musics, env.uploads)
}

func TestCatalogPackageLifecycle(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTestCatalogService(env)

	_, err := svc.CreatePackage(PackageInput{Name: "Gold", Tier: "gold", Price: models.MustMoney("10")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "tier")

	pkg, err := svc.CreatePackage(PackageInput{
		Name: "Premium", Tier: "PREMIUM", Price: models.MustMoney("150000"), Discount: intPtr(10),
		Features: []string{"10 foto", " ", "1 video"},
	})
	require.NoError(t, err)
	assert.Equal(t, constants.PackageTierPremium, pkg.Tier)
	assert.Equal(t, []string{"10 foto", "1 video"}, []string(pkg.Features))
	assert.True(t, pkg.FinalPrice.Equal(models.MustMoney("135000").Decimal))

	listed, err := svc.ListPackages()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].FinalPrice.Equal(models.MustMoney("135000").Decimal))

	user := env.createUser(t, "buyer@example.com")
	env.createOrder(t, user, pkg, "ORDER-CAT001", constants.PaymentStatusPending)
	require.ErrorIs(t, svc.DeletePackage(pkg.ID), ErrPackageInUse)
}

func TestCatalogThemeAndCategory(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTestCatalogService(env)
	ctx := context.Background()

	category, err := svc.CreateCategory(ThemeCategoryInput{Name: "Floral"})
	require.NoError(t, err)

	_, err = svc.CreateTheme(ctx, ThemeInput{ThemeCategoryID: category.ID, Name: "Rose"})
	require.ErrorIs(t, err, ErrValidation)

	theme, err := svc.CreateTheme(ctx, ThemeInput{
		ThemeCategoryID: category.ID, Name: "Rose", Link: "https://demo.test/rose", Thumbnail: testImageFile(t, "rose.png"),
	})
	require.NoError(t, err)
	old := theme.Thumbnail

	updated, err := svc.UpdateTheme(ctx, theme.ID, ThemeInput{
		ThemeCategoryID: category.ID, Name: "Rose Gold", Thumbnail: testImageFile(t, "rose2.png"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, old, updated.Thumbnail)
	exists, err := env.store.Exists(ctx, old)
	require.NoError(t, err)
	assert.False(t, exists)

	themes, total, err := svc.ListThemes(repository.ThemeListFilter{Page: 1, PageSize: 10, CategoryID: category.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Rose Gold", themes[0].Name)

	require.ErrorIs(t, svc.DeleteCategory(category.ID), ErrCategoryInUse)
	require.NoError(t, svc.DeleteTheme(theme.ID))
	require.NoError(t, svc.DeleteCategory(category.ID))
	_, err = svc.GetCategory(category.ID)
	require.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogMusicRequiresAudio(t *testing.T) {
	env := setupServiceTest(t)
	svc := newTestCatalogService(env)
	ctx := context.Background()

	_, err := svc.CreateMusic(ctx, MusicInput{Name: "Lagu"})
	require.ErrorIs(t, err, ErrValidation)

	music, err := svc.CreateMusic(ctx, MusicInput{Name: "Lagu", Artist: "Penyanyi", Audio: testAudioFile("lagu.mp3")})
	require.NoError(t, err)
	assert.NotEmpty(t, music.Audio)

	musics, total, err := svc.ListMusics(repository.CatalogListFilter{Search: "penyanyi"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, music.ID, musics[0].ID)
}

func TestCaptchaVerifyComment(t *testing.T) {
	disabled := NewCaptchaService(config.CaptchaConfig{})
	require.NoError(t, disabled.VerifyComment(CaptchaVerifyPayload{}))

	enabled := NewCaptchaService(config.CaptchaConfig{CommentEnabled: true})
	require.ErrorIs(t, enabled.VerifyComment(CaptchaVerifyPayload{}), ErrCaptchaRequired)

	challenge, err := enabled.Generate()
	require.NoError(t, err)
	assert.NotEmpty(t, challenge.CaptchaID)
	assert.NotEmpty(t, challenge.ImageBase64)
	require.ErrorIs(t, enabled.VerifyComment(CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "wrong"}), ErrCaptchaInvalid)
}
