package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"

	qrcode "github.com/skip2/go-qrcode"
)

const guestQRCodeSize = 256

// GuestInput 新增宾客参数
type GuestInput struct {
	Name    string
	Phone   *string
	IsGroup bool
}

// UpdateGuestInput 宾客部分更新参数，nil 表示不修改
type UpdateGuestInput struct {
	Name             *string
	Phone            *string
	IsGroup          *bool
	AttendanceStatus *string
}

// PublicGuest 公开宾客查询结果
type PublicGuest struct {
	Invitation *models.Invitation `json:"invitation"`
	Guest      *models.Guest      `json:"guest"`
}

// GuestQRCode 宾客专属链接二维码
type GuestQRCode struct {
	Link string
	PNG  []byte
}

// GuestService 宾客服务
type GuestService struct {
	*invitationGuard
	repo          repository.GuestRepository
	publicBaseURL string
}

// NewGuestService 创建宾客服务
func NewGuestService(invitations repository.InvitationRepository, orders repository.OrderRepository, repo repository.GuestRepository, publicBaseURL string) *GuestService {
	return &GuestService{
		invitationGuard: newInvitationGuard(invitations, orders),
		repo:            repo,
		publicBaseURL:   strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

// List 宾客列表
func (s *GuestService) List(userID, invitationID uint) ([]models.Guest, error) {
	if _, err := s.owned(userID, invitationID); err != nil {
		return nil, err
	}
	return s.repo.ListByInvitation(invitationID)
}

// Create 新增宾客，团体宾客默认出席
func (s *GuestService) Create(ctx context.Context, userID, invitationID uint, input GuestInput) (*models.Guest, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	name := requireText(verr, "name", input.Name, 255)
	phone := optionalText(verr, "phone", input.Phone, 20)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	slug, err := UniqueSlug(GuestSlugBase(name, s.now()), 0, s.repo.ExistsSlug)
	if err != nil {
		return nil, err
	}
	guest := &models.Guest{
		InvitationID:     invitationID,
		Name:             name,
		Slug:             slug,
		Phone:            phone,
		IsGroup:          input.IsGroup,
		AttendanceStatus: defaultAttendance(input.IsGroup),
	}
	if err := s.repo.Create(guest); err != nil {
		return nil, err
	}
	s.touch(ctx, invitation)
	return guest, nil
}

// Update 部分更新，改名时重新生成 slug，切换团体标记时重算出席状态
func (s *GuestService) Update(ctx context.Context, userID, invitationID, guestID uint, input UpdateGuestInput) (*models.Guest, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	guest, err := s.loadGuest(guestID, invitationID)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	var name string
	if input.Name != nil {
		name = requireText(verr, "name", *input.Name, 255)
	}
	phone := optionalText(verr, "phone", input.Phone, 20)
	var attendance string
	if input.AttendanceStatus != nil {
		attendance = strings.TrimSpace(*input.AttendanceStatus)
		if !isAttendanceStatus(attendance) {
			verr.Add("attendance_status", "is invalid")
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if input.Name != nil && name != guest.Name {
		slug, err := UniqueSlug(GuestSlugBase(name, s.now()), guest.ID, s.repo.ExistsSlug)
		if err != nil {
			return nil, err
		}
		guest.Name = name
		guest.Slug = slug
	}
	if input.Phone != nil {
		guest.Phone = phone
	}
	if input.IsGroup != nil && *input.IsGroup != guest.IsGroup {
		guest.IsGroup = *input.IsGroup
		guest.AttendanceStatus = defaultAttendance(guest.IsGroup)
	}
	if input.AttendanceStatus != nil {
		guest.AttendanceStatus = attendance
	}
	if err := s.repo.Update(guest); err != nil {
		return nil, err
	}
	s.touch(ctx, invitation)
	return guest, nil
}

// Delete 删除宾客
func (s *GuestService) Delete(ctx context.Context, userID, invitationID, guestID uint) error {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return err
	}
	guest, err := s.loadGuest(guestID, invitationID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(guest.ID); err != nil {
		return err
	}
	s.touch(ctx, invitation)
	return nil
}

// UpdateAttendance 宾客公开回复出席状态
func (s *GuestService) UpdateAttendance(ctx context.Context, guestID uint, status string) (*models.Guest, error) {
	status = strings.TrimSpace(status)
	if status != constants.AttendanceAttending && status != constants.AttendanceNotAttending {
		return nil, NewValidationError("attendance_status", "must be attending or not_attending")
	}
	if guestID == 0 {
		return nil, ErrGuestNotFound
	}
	guest, err := s.repo.GetByID(guestID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}
	invitation, err := s.invitations.GetByID(guest.InvitationID)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, ErrGuestNotFound
	}
	if invitation.IsExpiredAt(s.now()) {
		return nil, ErrInvitationExpired
	}
	guest.AttendanceStatus = status
	if err := s.repo.Update(guest); err != nil {
		return nil, err
	}
	logger.Infow("guest_attendance_updated", "guest_id", guest.ID, "invitation_id", guest.InvitationID, "status", status)
	s.touch(ctx, invitation)
	return guest, nil
}

// GetPublic 按请柬 slug 与宾客 slug 查询
func (s *GuestService) GetPublic(invitationSlug, guestSlug string) (*PublicGuest, error) {
	invitation, err := s.published(invitationSlug)
	if err != nil {
		return nil, err
	}
	guest, err := s.repo.GetBySlug(invitation.ID, guestSlug)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}
	return &PublicGuest{Invitation: invitation, Guest: guest}, nil
}

// QRCode 生成宾客专属链接的二维码 PNG，请柬需已发布
func (s *GuestService) QRCode(userID, invitationID, guestID uint) (*GuestQRCode, error) {
	invitation, err := s.owned(userID, invitationID)
	if err != nil {
		return nil, err
	}
	guest, err := s.loadGuest(guestID, invitationID)
	if err != nil {
		return nil, err
	}
	slug := invitation.SlugValue()
	if invitation.Status != constants.InvitationStatusPublished || slug == "" {
		return nil, ErrInvitationNotPublished
	}
	link := s.GuestLink(slug, guest.Slug)
	png, err := qrcode.Encode(link, qrcode.Medium, guestQRCodeSize)
	if err != nil {
		return nil, err
	}
	return &GuestQRCode{Link: link, PNG: png}, nil
}

// GuestLink 宾客专属访问链接
func (s *GuestService) GuestLink(invitationSlug, guestSlug string) string {
	return s.publicBaseURL + "/" + url.PathEscape(invitationSlug) + "?guest=" + url.QueryEscape(guestSlug)
}

func (s *GuestService) loadGuest(guestID, invitationID uint) (*models.Guest, error) {
	guest, err := sectionItem[models.Guest](s.repo, guestID, invitationID, func(g *models.Guest) uint { return g.InvitationID })
	if errors.Is(err, ErrSectionNotFound) {
		return nil, ErrGuestNotFound
	}
	return guest, err
}

func defaultAttendance(isGroup bool) string {
	if isGroup {
		return constants.AttendanceAttending
	}
	return constants.AttendancePending
}

func isAttendanceStatus(status string) bool {
	switch status {
	case constants.AttendancePending, constants.AttendanceAttending, constants.AttendanceNotAttending:
		return true
	}
	return false
}
