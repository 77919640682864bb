package service

import (
	"context"

	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"
)

// EventInput 婚礼活动参数
type EventInput struct {
	Name         string
	Venue        string
	Date         string
	TimeStart    string
	TimeEnd      *string
	Address      string
	MapsURL      *string
	MapsEmbedURL *string
}

// EventService 婚礼活动服务
type EventService struct {
	*invitationGuard
	repo repository.SectionRepository[models.Event]
}

// NewEventService 创建活动服务
func NewEventService(invitations repository.InvitationRepository, orders repository.OrderRepository, repo repository.SectionRepository[models.Event]) *EventService {
	return &EventService{invitationGuard: newInvitationGuard(invitations, orders), repo: repo}
}

// List 活动列表
func (s *EventService) List(userID, invitationID uint) ([]models.Event, error) {
	if _, err := s.owned(userID, invitationID); err != nil {
		return nil, err
	}
	return s.repo.ListByInvitation(invitationID)
}

// Create 新增活动
func (s *EventService) Create(ctx context.Context, userID, invitationID uint, input EventInput) (*models.Event, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	event := &models.Event{InvitationID: invitationID}
	if err := applyEventInput(event, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(event); err != nil {
		return nil, err
	}
	s.touch(ctx, invitation)
	return event, nil
}

// Update 更新活动
func (s *EventService) Update(ctx context.Context, userID, invitationID, eventID uint, input EventInput) (*models.Event, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	event, err := sectionItem(s.repo, eventID, invitationID, func(e *models.Event) uint { return e.InvitationID })
	if err != nil {
		return nil, err
	}
	if err := applyEventInput(event, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(event); err != nil {
		return nil, err
	}
	s.touch(ctx, invitation)
	return event, nil
}

// Delete 删除活动
func (s *EventService) Delete(ctx context.Context, userID, invitationID, eventID uint) error {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return err
	}
	event, err := sectionItem(s.repo, eventID, invitationID, func(e *models.Event) uint { return e.InvitationID })
	if err != nil {
		return err
	}
	if err := s.repo.Delete(event.ID); err != nil {
		return err
	}
	s.touch(ctx, invitation)
	return nil
}

func applyEventInput(event *models.Event, input EventInput) error {
	verr := &ValidationError{}
	name := requireText(verr, "name", input.Name, 255)
	venue := requireText(verr, "venue", input.Venue, 255)
	date := parseDate(verr, "date", input.Date, true)
	start := parseClock(verr, "time_start", input.TimeStart)
	end := optionalClock(verr, "time_end", input.TimeEnd)
	address := input.Address
	mapsURL := optionalURL(verr, "maps_url", input.MapsURL, 500)
	embedURL := optionalURL(verr, "maps_embed_url", input.MapsEmbedURL, 1000)
	if err := verr.OrNil(); err != nil {
		return err
	}
	event.Name = name
	event.Venue = venue
	event.Date = date
	event.TimeStart = start
	event.TimeEnd = end
	event.Address = address
	event.MapsURL = mapsURL
	event.MapsEmbedURL = embedURL
	return nil
}
