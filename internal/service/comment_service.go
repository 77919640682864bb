package service

import (
	"context"

	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"
)

// CommentInput 留言参数
type CommentInput struct {
	Name    string
	Message string
	Captcha CaptchaVerifyPayload
}

// CommentService 留言服务
type CommentService struct {
	*invitationGuard
	repo    repository.SectionRepository[models.Comment]
	captcha *CaptchaService
}

// NewCommentService 创建留言服务
func NewCommentService(invitations repository.InvitationRepository, orders repository.OrderRepository, repo repository.SectionRepository[models.Comment], captcha *CaptchaService) *CommentService {
	return &CommentService{invitationGuard: newInvitationGuard(invitations, orders), repo: repo, captcha: captcha}
}

// CreatePublic 访客在已发布请柬下留言
func (s *CommentService) CreatePublic(ctx context.Context, slug string, input CommentInput) (*models.Comment, error) {
	invitation, err := s.published(slug)
	if err != nil {
		return nil, err
	}
	if invitation.IsExpiredAt(s.now()) {
		return nil, ErrInvitationExpired
	}
	verr := &ValidationError{}
	name := requireText(verr, "name", input.Name, 100)
	message := requireText(verr, "message", input.Message, 1000)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if s.captcha != nil {
		if err := s.captcha.VerifyComment(input.Captcha); err != nil {
			return nil, err
		}
	}
	comment := &models.Comment{InvitationID: invitation.ID, Name: name, Message: message}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	logger.Infow("comment_created", "invitation_id", invitation.ID, "comment_id", comment.ID)
	s.touch(ctx, invitation)
	return comment, nil
}

// ListPublic 已发布请柬的留言列表
func (s *CommentService) ListPublic(slug string) ([]models.Comment, error) {
	invitation, err := s.published(slug)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByInvitation(invitation.ID)
}

// List 请柬所有者查看留言
func (s *CommentService) List(userID, invitationID uint) ([]models.Comment, error) {
	if _, err := s.owned(userID, invitationID); err != nil {
		return nil, err
	}
	return s.repo.ListByInvitation(invitationID)
}

// Delete 请柬所有者删除留言，到期后仍可删除
func (s *CommentService) Delete(ctx context.Context, userID, invitationID, commentID uint) error {
	invitation, err := s.owned(userID, invitationID)
	if err != nil {
		return err
	}
	comment, err := sectionItem(s.repo, commentID, invitationID, func(c *models.Comment) uint { return c.InvitationID })
	if err != nil {
		return err
	}
	if err := s.repo.Delete(comment.ID); err != nil {
		return err
	}
	s.touch(ctx, invitation)
	return nil
}
