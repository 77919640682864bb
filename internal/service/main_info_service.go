package service

import (
	"context"
	"strings"
	"time"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/metrics"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"
)

// MainInfoInput 婚礼主信息参数
type MainInfoInput struct {
	MusicID         *uint
	MainPhoto       *FileInput
	WeddingDate     string
	WeddingTime     string
	TimeZone        string
	CustomBacksound *FileInput
}

// MainInfoService 婚礼主信息服务
type MainInfoService struct {
	*invitationGuard
	repo      repository.SectionRepository[models.MainInfo]
	musicRepo repository.MusicRepository
	uploads   *UploadService
}

// NewMainInfoService 创建主信息服务
func NewMainInfoService(invitations repository.InvitationRepository, orders repository.OrderRepository, repo repository.SectionRepository[models.MainInfo], musicRepo repository.MusicRepository, uploads *UploadService) *MainInfoService {
	return &MainInfoService{
		invitationGuard: newInvitationGuard(invitations, orders),
		repo:            repo,
		musicRepo:       musicRepo,
		uploads:         uploads,
	}
}

// Get 获取主信息
func (s *MainInfoService) Get(userID, invitationID uint) (*models.MainInfo, error) {
	if _, err := s.owned(userID, invitationID); err != nil {
		return nil, err
	}
	info, err := s.repo.GetByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrSectionNotFound
	}
	return info, nil
}

// Create 创建主信息；自定义背景音受套餐限制
func (s *MainInfoService) Create(ctx context.Context, userID, invitationID uint, input MainInfoInput) (*models.MainInfo, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSectionExists
	}
	info := &models.MainInfo{InvitationID: invitationID}
	if err := s.apply(info, input); err != nil {
		return nil, err
	}
	if err := s.checkBacksound(invitation, input); err != nil {
		return nil, err
	}

	tracker := s.uploads.track()
	defer tracker.release(ctx)
	if input.MainPhoto != nil {
		path, err := tracker.save(ctx, "main_photo", UploadKindImage, input.MainPhoto, constants.UploadDirMainPhotos)
		if err != nil {
			return nil, err
		}
		info.MainPhoto = &path
	}
	if input.CustomBacksound != nil {
		path, err := tracker.save(ctx, "custom_backsound", UploadKindAudio, input.CustomBacksound, constants.UploadDirBacksounds)
		if err != nil {
			return nil, err
		}
		info.CustomBacksound = &path
	}
	if err := s.repo.Create(info); err != nil {
		return nil, err
	}
	tracker.commit()
	s.touch(ctx, invitation)
	logger.Infow("section_created", "section", "main_info", "invitation_id", invitationID)
	return info, nil
}

// Update 更新主信息，替换文件时删除旧文件
func (s *MainInfoService) Update(ctx context.Context, userID, invitationID uint, input MainInfoInput) (*models.MainInfo, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	info, err := s.repo.GetByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrSectionNotFound
	}
	if err := s.apply(info, input); err != nil {
		return nil, err
	}
	if err := s.checkBacksound(invitation, input); err != nil {
		return nil, err
	}

	tracker := s.uploads.track()
	defer tracker.release(ctx)
	var replaced []string
	if input.MainPhoto != nil {
		path, err := tracker.save(ctx, "main_photo", UploadKindImage, input.MainPhoto, constants.UploadDirMainPhotos)
		if err != nil {
			return nil, err
		}
		replaced = append(replaced, replaceFile(&info.MainPhoto, path))
	}
	if input.CustomBacksound != nil {
		path, err := tracker.save(ctx, "custom_backsound", UploadKindAudio, input.CustomBacksound, constants.UploadDirBacksounds)
		if err != nil {
			return nil, err
		}
		replaced = append(replaced, replaceFile(&info.CustomBacksound, path))
	}
	info.Music = nil
	if err := s.repo.Update(info); err != nil {
		return nil, err
	}
	tracker.commit()
	s.uploads.Delete(ctx, replaced...)
	s.touch(ctx, invitation)
	return info, nil
}

// Delete 删除主信息及其文件
func (s *MainInfoService) Delete(ctx context.Context, userID, invitationID uint) error {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return err
	}
	info, err := s.repo.GetByInvitation(invitationID)
	if err != nil {
		return err
	}
	if info == nil {
		return ErrSectionNotFound
	}
	if err := s.repo.Delete(info.ID); err != nil {
		return err
	}
	var files []string
	if info.MainPhoto != nil {
		files = append(files, *info.MainPhoto)
	}
	if info.CustomBacksound != nil {
		files = append(files, *info.CustomBacksound)
	}
	s.uploads.Delete(ctx, files...)
	s.touch(ctx, invitation)
	return nil
}

func (s *MainInfoService) apply(info *models.MainInfo, input MainInfoInput) error {
	verr := &ValidationError{}
	date := parseDate(verr, "wedding_date", input.WeddingDate, true)
	if !date.IsZero() {
		y, m, d := s.now().Date()
		if date.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
			verr.Add("wedding_date", "must be a date after or equal to today")
		}
	}
	clock := parseClock(verr, "wedding_time", input.WeddingTime)
	zone := strings.ToUpper(strings.TrimSpace(input.TimeZone))
	switch zone {
	case constants.TimeZoneWIB, constants.TimeZoneWITA, constants.TimeZoneWIT:
	case "":
		verr.Add("time_zone", "is required")
	default:
		verr.Add("time_zone", "must be one of WIB, WITA, WIT")
	}
	if input.MusicID != nil && *input.MusicID > 0 {
		music, err := s.musicRepo.GetByID(*input.MusicID)
		if err != nil {
			return err
		}
		if music == nil {
			verr.Add("music_id", "selected music_id is invalid")
		}
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	info.WeddingDate = date
	info.WeddingTime = clock
	info.TimeZone = zone
	info.MusicID = nil
	if input.MusicID != nil && *input.MusicID > 0 {
		id := *input.MusicID
		info.MusicID = &id
	}
	return nil
}

// checkBacksound 上传自定义背景音前校验套餐权益
func (s *MainInfoService) checkBacksound(invitation *models.Invitation, input MainInfoInput) error {
	if input.CustomBacksound == nil {
		return nil
	}
	ent, err := s.entitlements(invitation)
	if err != nil {
		return err
	}
	if !ent.AllowCustomBacksound {
		logger.Infow("backsound_rejected", "invitation_id", invitation.ID, "tier", ent.Tier)
		metrics.RecordQuotaRejected("backsound", ent.Tier)
		return ErrBacksoundNotAllowed
	}
	return nil
}
