package service

import (
	"context"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"
)

type personModel[T any] interface {
	*T
	Profile() *models.Person
}

// PersonInput 新郎/新娘资料参数
type PersonInput struct {
	FullName   string
	FatherName string
	MotherName string
	Instagram  *string
	Photo      *FileInput
}

// PersonService 新郎/新娘资料服务，每个请柬至多一条
type PersonService[T any, P personModel[T]] struct {
	*invitationGuard
	repo    repository.SectionRepository[T]
	uploads *UploadService
	dir     string
	section string
}

// NewGroomService 新郎资料服务
func NewGroomService(invitations repository.InvitationRepository, orders repository.OrderRepository, repo repository.SectionRepository[models.Groom], uploads *UploadService) *PersonService[models.Groom, *models.Groom] {
	return &PersonService[models.Groom, *models.Groom]{
		invitationGuard: newInvitationGuard(invitations, orders),
		repo:            repo,
		uploads:         uploads,
		dir:             constants.UploadDirGroomPhotos,
		section:         "groom",
	}
}

// NewBrideService 新娘资料服务
func NewBrideService(invitations repository.InvitationRepository, orders repository.OrderRepository, repo repository.SectionRepository[models.Bride], uploads *UploadService) *PersonService[models.Bride, *models.Bride] {
	return &PersonService[models.Bride, *models.Bride]{
		invitationGuard: newInvitationGuard(invitations, orders),
		repo:            repo,
		uploads:         uploads,
		dir:             constants.UploadDirBridePhotos,
		section:         "bride",
	}
}

// Get 获取资料
func (s *PersonService[T, P]) Get(userID, invitationID uint) (*T, error) {
	if _, err := s.owned(userID, invitationID); err != nil {
		return nil, err
	}
	entity, err := s.repo.GetByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrSectionNotFound
	}
	return entity, nil
}

// Create 创建资料，已存在时返回 ErrSectionExists
func (s *PersonService[T, P]) Create(ctx context.Context, userID, invitationID uint, input PersonInput) (*T, error) {
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

	var entity T
	profile := P(&entity).Profile()
	profile.InvitationID = invitationID
	if err := applyPersonInput(profile, input); err != nil {
		return nil, err
	}

	tracker := s.uploads.track()
	defer tracker.release(ctx)
	if input.Photo != nil {
		path, err := tracker.save(ctx, "photo", UploadKindImage, input.Photo, s.dir)
		if err != nil {
			return nil, err
		}
		profile.Photo = &path
	}
	if err := s.repo.Create(&entity); err != nil {
		return nil, err
	}
	tracker.commit()
	s.touch(ctx, invitation)
	logger.Infow("section_created", "section", s.section, "invitation_id", invitationID)
	return &entity, nil
}

// Update 更新资料，上传新照片时替换并删除旧文件
func (s *PersonService[T, P]) Update(ctx context.Context, userID, invitationID uint, input PersonInput) (*T, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	entity, err := s.repo.GetByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, ErrSectionNotFound
	}
	profile := P(entity).Profile()
	if err := applyPersonInput(profile, input); err != nil {
		return nil, err
	}

	tracker := s.uploads.track()
	defer tracker.release(ctx)
	oldPhoto := ""
	if input.Photo != nil {
		path, err := tracker.save(ctx, "photo", UploadKindImage, input.Photo, s.dir)
		if err != nil {
			return nil, err
		}
		oldPhoto = replaceFile(&profile.Photo, path)
	}
	if err := s.repo.Update(entity); err != nil {
		return nil, err
	}
	tracker.commit()
	s.uploads.Delete(ctx, oldPhoto)
	s.touch(ctx, invitation)
	return entity, nil
}

// Delete 删除资料及照片
func (s *PersonService[T, P]) Delete(ctx context.Context, userID, invitationID uint) error {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return err
	}
	entity, err := s.repo.GetByInvitation(invitationID)
	if err != nil {
		return err
	}
	if entity == nil {
		return ErrSectionNotFound
	}
	profile := P(entity).Profile()
	if err := s.repo.DeleteByInvitation(invitationID); err != nil {
		return err
	}
	if profile.Photo != nil {
		s.uploads.Delete(ctx, *profile.Photo)
	}
	s.touch(ctx, invitation)
	return nil
}

func applyPersonInput(profile *models.Person, input PersonInput) error {
	verr := &ValidationError{}
	profile.FullName = requireText(verr, "full_name", input.FullName, 255)
	profile.FatherName = requireText(verr, "father_name", input.FatherName, 255)
	profile.MotherName = requireText(verr, "mother_name", input.MotherName, 255)
	profile.Instagram = optionalText(verr, "instagram", input.Instagram, 255)
	return verr.OrNil()
}
