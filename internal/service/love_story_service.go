package service

import (
	"context"
	"strings"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"
)

// LoveStoryInput 恋爱故事参数
type LoveStoryInput struct {
	Title       string
	Date        string
	Description string
	Thumbnail   *FileInput
}

// LoveStoryService 恋爱故事服务
type LoveStoryService struct {
	*invitationGuard
	repo    repository.SectionRepository[models.LoveStory]
	uploads *UploadService
}

// NewLoveStoryService 创建恋爱故事服务
func NewLoveStoryService(invitations repository.InvitationRepository, orders repository.OrderRepository, repo repository.SectionRepository[models.LoveStory], uploads *UploadService) *LoveStoryService {
	return &LoveStoryService{invitationGuard: newInvitationGuard(invitations, orders), repo: repo, uploads: uploads}
}

// List 故事列表
func (s *LoveStoryService) List(userID, invitationID uint) ([]models.LoveStory, error) {
	if _, err := s.owned(userID, invitationID); err != nil {
		return nil, err
	}
	return s.repo.ListByInvitation(invitationID)
}

// Create 新增故事
func (s *LoveStoryService) Create(ctx context.Context, userID, invitationID uint, input LoveStoryInput) (*models.LoveStory, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	story := &models.LoveStory{InvitationID: invitationID}
	if err := applyLoveStoryInput(story, input); err != nil {
		return nil, err
	}

	tracker := s.uploads.track()
	defer tracker.release(ctx)
	if input.Thumbnail != nil {
		path, err := tracker.save(ctx, "thumbnail", UploadKindImage, input.Thumbnail, constants.UploadDirLoveStoryThumbs)
		if err != nil {
			return nil, err
		}
		story.Thumbnail = &path
	}
	if err := s.repo.Create(story); err != nil {
		return nil, err
	}
	tracker.commit()
	s.touch(ctx, invitation)
	return story, nil
}

// Update 更新故事，替换缩略图时删除旧文件
func (s *LoveStoryService) Update(ctx context.Context, userID, invitationID, storyID uint, input LoveStoryInput) (*models.LoveStory, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	story, err := sectionItem(s.repo, storyID, invitationID, func(l *models.LoveStory) uint { return l.InvitationID })
	if err != nil {
		return nil, err
	}
	if err := applyLoveStoryInput(story, input); err != nil {
		return nil, err
	}

	tracker := s.uploads.track()
	defer tracker.release(ctx)
	oldThumb := ""
	if input.Thumbnail != nil {
		path, err := tracker.save(ctx, "thumbnail", UploadKindImage, input.Thumbnail, constants.UploadDirLoveStoryThumbs)
		if err != nil {
			return nil, err
		}
		oldThumb = replaceFile(&story.Thumbnail, path)
	}
	if err := s.repo.Update(story); err != nil {
		return nil, err
	}
	tracker.commit()
	s.uploads.Delete(ctx, oldThumb)
	s.touch(ctx, invitation)
	return story, nil
}

// Delete 删除故事及缩略图
func (s *LoveStoryService) Delete(ctx context.Context, userID, invitationID, storyID uint) error {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return err
	}
	story, err := sectionItem(s.repo, storyID, invitationID, func(l *models.LoveStory) uint { return l.InvitationID })
	if err != nil {
		return err
	}
	if err := s.repo.Delete(story.ID); err != nil {
		return err
	}
	if story.Thumbnail != nil {
		s.uploads.Delete(ctx, *story.Thumbnail)
	}
	s.touch(ctx, invitation)
	return nil
}

func applyLoveStoryInput(story *models.LoveStory, input LoveStoryInput) error {
	verr := &ValidationError{}
	title := requireText(verr, "title", input.Title, 255)
	date := parseDate(verr, "date", input.Date, false)
	if err := verr.OrNil(); err != nil {
		return err
	}
	story.Title = title
	story.Date = nil
	if !date.IsZero() {
		story.Date = &date
	}
	story.Description = strings.TrimSpace(input.Description)
	return nil
}
