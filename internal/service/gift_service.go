package service

import (
	"context"

	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"
)

// GiftInput 礼金账户参数
type GiftInput struct {
	BankName      string
	AccountNumber string
	AccountHolder string
}

// GiftService 礼金账户服务
type GiftService struct {
	*invitationGuard
	repo repository.SectionRepository[models.Gift]
}

// NewGiftService 创建礼金账户服务
func NewGiftService(invitations repository.InvitationRepository, orders repository.OrderRepository, repo repository.SectionRepository[models.Gift]) *GiftService {
	return &GiftService{invitationGuard: newInvitationGuard(invitations, orders), repo: repo}
}

// List 账户列表
func (s *GiftService) List(userID, invitationID uint) ([]models.Gift, error) {
	if _, err := s.owned(userID, invitationID); err != nil {
		return nil, err
	}
	return s.repo.ListByInvitation(invitationID)
}

// Create 新增账户
func (s *GiftService) Create(ctx context.Context, userID, invitationID uint, input GiftInput) (*models.Gift, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	gift := &models.Gift{InvitationID: invitationID}
	if err := applyGiftInput(gift, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(gift); err != nil {
		return nil, err
	}
	s.touch(ctx, invitation)
	return gift, nil
}

// Update 更新账户
func (s *GiftService) Update(ctx context.Context, userID, invitationID, giftID uint, input GiftInput) (*models.Gift, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	gift, err := sectionItem(s.repo, giftID, invitationID, func(g *models.Gift) uint { return g.InvitationID })
	if err != nil {
		return nil, err
	}
	if err := applyGiftInput(gift, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(gift); err != nil {
		return nil, err
	}
	s.touch(ctx, invitation)
	return gift, nil
}

// Delete 删除账户
func (s *GiftService) Delete(ctx context.Context, userID, invitationID, giftID uint) error {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return err
	}
	gift, err := sectionItem(s.repo, giftID, invitationID, func(g *models.Gift) uint { return g.InvitationID })
	if err != nil {
		return err
	}
	if err := s.repo.Delete(gift.ID); err != nil {
		return err
	}
	s.touch(ctx, invitation)
	return nil
}

func applyGiftInput(gift *models.Gift, input GiftInput) error {
	verr := &ValidationError{}
	bank := requireText(verr, "bank_name", input.BankName, 255)
	number := requireText(verr, "account_number", input.AccountNumber, 255)
	holder := requireText(verr, "account_holder", input.AccountHolder, 255)
	if err := verr.OrNil(); err != nil {
		return err
	}
	gift.BankName = bank
	gift.AccountNumber = number
	gift.AccountHolder = holder
	return nil
}
