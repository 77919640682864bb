package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/undangan-next/internal/config"
	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryQuotaReportsRemainingSlots(t *testing.T) {
	env := setupServiceTest(t)
	user, invitation := env.createInvitation(t, constants.PackageTierEconomy)
	svc := NewGalleryService(env.invitations, env.orders, env.sections.Gallery, env.uploads)
	ctx := context.Background()

	first, err := svc.Upload(ctx, user.ID, invitation.ID, []*FileInput{
		testImageFile(t, "1.png"), testImageFile(t, "2.png"), testImageFile(t, "3.png"),
	})
	require.NoError(t, err)
	assert.Len(t, first.Items, 3)
	assert.Equal(t, 3, first.Quota.CurrentCount)
	assert.Equal(t, 1, first.Quota.RemainingSlots)

	_, err = svc.Upload(ctx, user.ID, invitation.ID, []*FileInput{testImageFile(t, "4.png"), testImageFile(t, "5.png")})
	var quota *QuotaExceededError
	require.ErrorAs(t, err, &quota)
	assert.Equal(t, 3, quota.CurrentCount)
	assert.Equal(t, 4, quota.MaxAllowed)
	assert.Equal(t, 1, quota.RemainingSlots)
	assert.Equal(t, 2, quota.RequestedCount)
	assert.ErrorIs(t, err, ErrTierRestricted)

	count, err := env.sections.Gallery.CountByInvitation(invitation.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestGalleryUploadRejectsInvalidFilesBeforeWriting(t *testing.T) {
	env := setupServiceTest(t)
	user, invitation := env.createInvitation(t, constants.PackageTierPremium)
	svc := NewGalleryService(env.invitations, env.orders, env.sections.Gallery, env.uploads)

	_, err := svc.Upload(context.Background(), user.ID, invitation.ID, []*FileInput{
		testImageFile(t, "ok.png"),
		FileFromBytes("notes.txt", []byte("hello")),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "images.1")

	count, err := env.sections.Gallery.CountByInvitation(invitation.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGalleryBulkDeleteChecksOwnership(t *testing.T) {
	env := setupServiceTest(t)
	ownerA, invA := env.createInvitation(t, constants.PackageTierPremium)
	ownerB, invB := env.createInvitation(t, constants.PackageTierPremium)
	svc := NewGalleryService(env.invitations, env.orders, env.sections.Gallery, env.uploads)
	ctx := context.Background()

	a, err := svc.Upload(ctx, ownerA.ID, invA.ID, []*FileInput{testImageFile(t, "a1.png"), testImageFile(t, "a2.png")})
	require.NoError(t, err)
	b, err := svc.Upload(ctx, ownerB.ID, invB.ID, []*FileInput{testImageFile(t, "b1.png")})
	require.NoError(t, err)

	_, err = svc.BulkDelete(ctx, ownerA.ID, invA.ID, []uint{a.Items[0].ID, b.Items[0].ID})
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.BulkDelete(ctx, ownerA.ID, invA.ID, []uint{a.Items[0].ID, 99999})
	require.ErrorIs(t, err, ErrValidation)

	deleted, err := svc.BulkDelete(ctx, ownerA.ID, invA.ID, []uint{a.Items[0].ID, a.Items[1].ID, a.Items[0].ID})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	exists, err := env.store.Exists(ctx, a.Items[0].Image)
	require.NoError(t, err)
	assert.False(t, exists)

	require.ErrorIs(t, svc.Delete(ctx, ownerA.ID, invA.ID, b.Items[0].ID), ErrSectionNotFound)
}

func TestVideoUploadRespectsTier(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	svc := NewVideoService(env.invitations, env.orders, env.sections.Video, env.uploads)

	economyUser, economy := env.createInvitation(t, constants.PackageTierEconomy)
	_, err := svc.Upload(ctx, economyUser.ID, economy.ID, []*FileInput{testVideoFile("clip.mp4")})
	require.ErrorIs(t, err, ErrVideoNotAllowed)

	premiumUser, premium := env.createInvitation(t, constants.PackageTierPremium)
	res, err := svc.Upload(ctx, premiumUser.ID, premium.ID, []*FileInput{testVideoFile("clip.mp4")})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Quota.RemainingSlots)

	_, err = svc.Upload(ctx, premiumUser.ID, premium.ID, []*FileInput{testVideoFile("again.mp4")})
	var quota *QuotaExceededError
	require.ErrorAs(t, err, &quota)
	assert.Equal(t, 1, quota.MaxAllowed)

	exclusiveUser, exclusive := env.createInvitation(t, constants.PackageTierExclusive)
	files := make([]*FileInput, 0, 12)
	for i := 0; i < 12; i++ {
		files = append(files, testVideoFile("clip.mp4"))
	}
	res, err = svc.Upload(ctx, exclusiveUser.ID, exclusive.ID, files)
	require.NoError(t, err)
	assert.True(t, res.Quota.Unlimited)
	assert.Equal(t, 12, res.Quota.CurrentCount)
}

func TestMainInfoBacksoundTierGate(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	svc := NewMainInfoService(env.invitations, env.orders, env.sections.MainInfo, env.musics, env.uploads)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(dateLayout)

	economyUser, economy := env.createInvitation(t, constants.PackageTierEconomy)
	_, err := svc.Create(ctx, economyUser.ID, economy.ID, MainInfoInput{
		WeddingDate: tomorrow, WeddingTime: "10:00", TimeZone: "WIB", CustomBacksound: testAudioFile("song.mp3"),
	})
	require.ErrorIs(t, err, ErrBacksoundNotAllowed)

	info, err := svc.Create(ctx, economyUser.ID, economy.ID, MainInfoInput{
		WeddingDate: tomorrow, WeddingTime: "10:00", TimeZone: "wita",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.TimeZoneWITA, info.TimeZone)
	assert.Nil(t, info.CustomBacksound)

	_, err = svc.Create(ctx, economyUser.ID, economy.ID, MainInfoInput{WeddingDate: tomorrow, WeddingTime: "10:00", TimeZone: "WIB"})
	require.ErrorIs(t, err, ErrSectionExists)

	premiumUser, premium := env.createInvitation(t, constants.PackageTierPremium)
	created, err := svc.Create(ctx, premiumUser.ID, premium.ID, MainInfoInput{
		WeddingDate: tomorrow, WeddingTime: "19:30", TimeZone: "WIT", CustomBacksound: testAudioFile("song.mp3"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.CustomBacksound)
	old := *created.CustomBacksound

	updated, err := svc.Update(ctx, premiumUser.ID, premium.ID, MainInfoInput{
		WeddingDate: tomorrow, WeddingTime: "19:30", TimeZone: "WIT", CustomBacksound: testAudioFile("other.mp3"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, old, *updated.CustomBacksound)
	exists, err := env.store.Exists(ctx, old)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMainInfoValidation(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewMainInfoService(env.invitations, env.orders, env.sections.MainInfo, env.musics, env.uploads)
	user, invitation := env.createInvitation(t, constants.PackageTierPremium)
	musicID := uint(777)

	_, err := svc.Create(context.Background(), user.ID, invitation.ID, MainInfoInput{
		WeddingDate: "2000-01-01", WeddingTime: "25:99", TimeZone: "UTC", MusicID: &musicID,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"wedding_date", "wedding_time", "time_zone", "music_id"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestGuestSlugAndAttendance(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	svc := NewGuestService(env.invitations, env.orders, env.sections.Guest, "https://undangan.test/")
	ownerA, invA := env.createInvitation(t, constants.PackageTierPremium)
	ownerB, invB := env.createInvitation(t, constants.PackageTierPremium)

	family, err := svc.Create(ctx, ownerA.ID, invA.ID, GuestInput{Name: "Keluarga Besar", IsGroup: true})
	require.NoError(t, err)
	assert.Equal(t, constants.AttendanceAttending, family.AttendanceStatus)
	assert.Equal(t, "keluarga-besar", family.Slug)

	single, err := svc.Create(ctx, ownerA.ID, invA.ID, GuestInput{Name: "Rina", Phone: strPtr("0812")})
	require.NoError(t, err)
	assert.Equal(t, constants.AttendancePending, single.AttendanceStatus)

	// slug 全局唯一
	other, err := svc.Create(ctx, ownerB.ID, invB.ID, GuestInput{Name: "Rina"})
	require.NoError(t, err)
	assert.Equal(t, "rina-1", other.Slug)

	unchanged, err := svc.Update(ctx, ownerA.ID, invA.ID, single.ID, UpdateGuestInput{Name: strPtr("Rina"), Phone: strPtr("0813")})
	require.NoError(t, err)
	assert.Equal(t, "rina", unchanged.Slug)

	grouped, err := svc.Update(ctx, ownerA.ID, invA.ID, single.ID, UpdateGuestInput{IsGroup: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, constants.AttendanceAttending, grouped.AttendanceStatus)

	renamed, err := svc.Update(ctx, ownerA.ID, invA.ID, single.ID, UpdateGuestInput{Name: strPtr("Rina Wati")})
	require.NoError(t, err)
	assert.Equal(t, "rina-wati", renamed.Slug)

	_, err = svc.Update(ctx, ownerB.ID, invB.ID, single.ID, UpdateGuestInput{Name: strPtr("X")})
	require.ErrorIs(t, err, ErrGuestNotFound)

	_, err = svc.Create(ctx, ownerA.ID, invA.ID, GuestInput{Name: "Budi", Phone: strPtr(strings.Repeat("9", 21))})
	require.ErrorIs(t, err, ErrValidation)
}

func TestGuestRSVPAndPublicLookup(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	guests := NewGuestService(env.invitations, env.orders, env.sections.Guest, "https://undangan.test")
	invitations := newTestInvitationService(t, env)
	user, invitation := env.createInvitation(t, constants.PackageTierPremium)

	guest, err := guests.Create(ctx, user.ID, invitation.ID, GuestInput{Name: "Dewi"})
	require.NoError(t, err)

	_, err = guests.QRCode(user.ID, invitation.ID, guest.ID)
	require.ErrorIs(t, err, ErrInvitationNotPublished)

	_, err = invitations.Publish(ctx, user.ID, invitation.ID)
	require.NoError(t, err)

	qr, err := guests.QRCode(user.ID, invitation.ID, guest.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://undangan.test/budi-sari?guest=dewi", qr.Link)
	assert.True(t, len(qr.PNG) > 8 && string(qr.PNG[1:4]) == "PNG")

	found, err := guests.GetPublic("budi-sari", "dewi")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, found.Guest.ID)

	_, err = guests.UpdateAttendance(ctx, guest.ID, "maybe")
	require.ErrorIs(t, err, ErrValidation)
	replied, err := guests.UpdateAttendance(ctx, guest.ID, constants.AttendanceNotAttending)
	require.NoError(t, err)
	assert.Equal(t, constants.AttendanceNotAttending, replied.AttendanceStatus)

	_, err = guests.GetPublic("budi-sari", "missing")
	require.ErrorIs(t, err, ErrGuestNotFound)
}

func TestEventValidationAndOwnership(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	svc := NewEventService(env.invitations, env.orders, env.sections.Event)
	user, invitation := env.createInvitation(t, constants.PackageTierPremium)
	_, otherInvitation := env.createInvitation(t, constants.PackageTierPremium)

	_, err := svc.Create(ctx, user.ID, invitation.ID, EventInput{
		Name: "Akad", Venue: "Masjid", Date: "2026-13-01", TimeStart: "8am", MapsURL: strPtr("not a url"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"date", "time_start", "maps_url"} {
		assert.Contains(t, verr.Fields, field)
	}

	resepsi, err := svc.Create(ctx, user.ID, invitation.ID, EventInput{
		Name: "Resepsi", Venue: "Gedung", Date: "2026-12-20", TimeStart: "11:00", TimeEnd: strPtr("14:00"),
	})
	require.NoError(t, err)
	akad, err := svc.Create(ctx, user.ID, invitation.ID, EventInput{
		Name: "Akad", Venue: "Masjid", Date: "2026-12-20", TimeStart: "08:00",
		MapsURL: strPtr("https://maps.google.com/?q=masjid"),
	})
	require.NoError(t, err)

	events, err := svc.List(user.ID, invitation.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, akad.ID, events[0].ID)
	assert.Equal(t, resepsi.ID, events[1].ID)

	_, err = svc.Update(ctx, user.ID, otherInvitation.ID, akad.ID, EventInput{})
	require.ErrorIs(t, err, ErrForbidden)
	require.NoError(t, svc.Delete(ctx, user.ID, invitation.ID, akad.ID))
}

func TestLoveStoryThumbnailReplacement(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	svc := NewLoveStoryService(env.invitations, env.orders, env.sections.LoveStory, env.uploads)
	user, invitation := env.createInvitation(t, constants.PackageTierPremium)

	story, err := svc.Create(ctx, user.ID, invitation.ID, LoveStoryInput{Title: "Pertama bertemu", Thumbnail: testImageFile(t, "t.png")})
	require.NoError(t, err)
	assert.Nil(t, story.Date)
	require.NotNil(t, story.Thumbnail)
	old := *story.Thumbnail

	updated, err := svc.Update(ctx, user.ID, invitation.ID, story.ID, LoveStoryInput{
		Title: "Lamaran", Date: "2025-02-14", Thumbnail: testImageFile(t, "n.png"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Date)
	assert.Equal(t, "2025-02-14", updated.Date.Format(dateLayout))
	exists, err := env.store.Exists(ctx, old)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCommentPublicFlow(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	captcha := NewCaptchaService(config.CaptchaConfig{})
	svc := NewCommentService(env.invitations, env.orders, env.sections.Comment, captcha)
	invitations := newTestInvitationService(t, env)
	user, invitation := env.createInvitation(t, constants.PackageTierEconomy)

	_, err := svc.CreatePublic(ctx, "budi-sari", CommentInput{Name: "Tamu", Message: "Selamat"})
	require.ErrorIs(t, err, ErrInvitationNotFound)

	_, err = invitations.Publish(ctx, user.ID, invitation.ID)
	require.NoError(t, err)

	_, err = svc.CreatePublic(ctx, "budi-sari", CommentInput{Name: strings.Repeat("n", 101), Message: ""})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "message")

	comment, err := svc.CreatePublic(ctx, "budi-sari", CommentInput{Name: "Tamu", Message: "Selamat menempuh hidup baru"})
	require.NoError(t, err)

	list, err := svc.ListPublic("budi-sari")
	require.NoError(t, err)
	require.Len(t, list, 1)

	stranger := env.createUser(t, "stranger@example.com")
	require.ErrorIs(t, svc.Delete(ctx, stranger.ID, invitation.ID, comment.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, user.ID, invitation.ID, comment.ID))
}

func TestPersonSectionIsSingleRow(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	svc := NewBrideService(env.invitations, env.orders, env.sections.Bride, env.uploads)
	user, invitation := env.createInvitation(t, constants.PackageTierEconomy)

	_, err := svc.Create(ctx, user.ID, invitation.ID, PersonInput{FullName: "Sari"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "father_name")

	bride, err := svc.Create(ctx, user.ID, invitation.ID, PersonInput{
		FullName: "Sari Dewi", FatherName: "Ahmad", MotherName: "Aminah", Instagram: strPtr("@sari"),
	})
	require.NoError(t, err)
	assert.Equal(t, invitation.ID, bride.InvitationID)

	_, err = svc.Create(ctx, user.ID, invitation.ID, PersonInput{FullName: "Sari", FatherName: "A", MotherName: "B"})
	require.True(t, errors.Is(err, ErrSectionExists))

	got, err := svc.Get(user.ID, invitation.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sari Dewi", got.FullName)
}

func TestGiftCRUD(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()
	svc := NewGiftService(env.invitations, env.orders, env.sections.Gift)
	user, invitation := env.createInvitation(t, constants.PackageTierEconomy)

	_, err := svc.Create(ctx, user.ID, invitation.ID, GiftInput{BankName: "BCA"})
	require.ErrorIs(t, err, ErrValidation)

	gift, err := svc.Create(ctx, user.ID, invitation.ID, GiftInput{BankName: "BCA", AccountNumber: "1234567890", AccountHolder: "Budi"})
	require.NoError(t, err)
	updated, err := svc.Update(ctx, user.ID, invitation.ID, gift.ID, GiftInput{BankName: "Mandiri", AccountNumber: "1", AccountHolder: "Budi"})
	require.NoError(t, err)
	assert.Equal(t, "Mandiri", updated.BankName)

	var stored models.Gift
	require.NoError(t, env.db.First(&stored, gift.ID).Error)
	assert.Equal(t, "Mandiri", stored.BankName)
	require.NoError(t, svc.Delete(ctx, user.ID, invitation.ID, gift.ID))
}
