package service

import (
	"context"
	"fmt"

	"github.com/undangan-next/internal/constants"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/metrics"
	"github.com/undangan-next/internal/models"
	"github.com/undangan-next/internal/repository"

	"gorm.io/gorm"
)

// QuotaInfo 上传后的数量信息，Unlimited 时 MaxAllowed 与 RemainingSlots 为 -1
type QuotaInfo struct {
	CurrentCount   int  `json:"current_count"`
	MaxAllowed     int  `json:"max_allowed"`
	RemainingSlots int  `json:"remaining_slots"`
	Unlimited      bool `json:"unlimited"`
}

func newQuotaInfo(limit Limit, current int) QuotaInfo {
	info := QuotaInfo{CurrentCount: current, MaxAllowed: limit.Max, RemainingSlots: limit.Remaining(current), Unlimited: limit.Unlimited}
	if limit.Unlimited {
		info.MaxAllowed = -1
	}
	return info
}

// MediaUploadResult 批量上传结果
type MediaUploadResult[T any] struct {
	Items []T       `json:"items"`
	Quota QuotaInfo `json:"quota"`
}

// mediaKind 描述一种按行计数的媒体模块
type mediaKind[T any] struct {
	resource   string
	field      string
	uploadKind UploadKind
	dir        string
	limit      func(Entitlements) Limit
	build      func(invitationID uint, path string) T
	path       func(*T) string
	owner      func(*T) uint
	// disabled 套餐不支持该模块时返回的错误
	disabled error
}

// MediaService 相册/视频服务
type MediaService[T any] struct {
	*invitationGuard
	repo    repository.SectionRepository[T]
	uploads *UploadService
	kind    mediaKind[T]
}

// NewGalleryService 创建相册服务
func NewGalleryService(invitations repository.InvitationRepository, orders repository.OrderRepository, repo repository.SectionRepository[models.Gallery], uploads *UploadService) *MediaService[models.Gallery] {
	return &MediaService[models.Gallery]{
		invitationGuard: newInvitationGuard(invitations, orders),
		repo:            repo,
		uploads:         uploads,
		kind: mediaKind[models.Gallery]{
			resource:   "gallery",
			field:      "images",
			uploadKind: UploadKindImage,
			dir:        constants.UploadDirGalleryImages,
			limit:      func(e Entitlements) Limit { return e.MaxGalleryImages },
			build: func(invitationID uint, path string) models.Gallery {
				return models.Gallery{InvitationID: invitationID, Image: path}
			},
			path:  func(g *models.Gallery) string { return g.Image },
			owner: func(g *models.Gallery) uint { return g.InvitationID },
		},
	}
}

// NewVideoService 创建视频服务
func NewVideoService(invitations repository.InvitationRepository, orders repository.OrderRepository, repo repository.SectionRepository[models.Video], uploads *UploadService) *MediaService[models.Video] {
	return &MediaService[models.Video]{
		invitationGuard: newInvitationGuard(invitations, orders),
		repo:            repo,
		uploads:         uploads,
		kind: mediaKind[models.Video]{
			resource:   "video",
			field:      "videos",
			uploadKind: UploadKindVideo,
			dir:        constants.UploadDirGalleryVideos,
			limit:      func(e Entitlements) Limit { return e.MaxVideos },
			build: func(invitationID uint, path string) models.Video {
				return models.Video{InvitationID: invitationID, Video: path}
			},
			path:     func(v *models.Video) string { return v.Video },
			owner:    func(v *models.Video) uint { return v.InvitationID },
			disabled: ErrVideoNotAllowed,
		},
	}
}

// List 列表及当前配额
func (s *MediaService[T]) List(userID, invitationID uint) ([]T, QuotaInfo, error) {
	invitation, err := s.owned(userID, invitationID)
	if err != nil {
		return nil, QuotaInfo{}, err
	}
	items, err := s.repo.ListByInvitation(invitationID)
	if err != nil {
		return nil, QuotaInfo{}, err
	}
	ent, err := s.entitlements(invitation)
	if err != nil {
		return nil, QuotaInfo{}, err
	}
	return items, newQuotaInfo(s.kind.limit(ent), len(items)), nil
}

// Upload 批量上传：先整体校验文件与配额，全部写入成功后一次性入库
func (s *MediaService[T]) Upload(ctx context.Context, userID, invitationID uint, files []*FileInput) (*MediaUploadResult[T], error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, NewValidationError(s.kind.field, "at least one file is required")
	}
	verr := &ValidationError{}
	for i, file := range files {
		field := fmt.Sprintf("%s.%d", s.kind.field, i)
		if err := verr.Merge(s.uploads.Validate(field, s.kind.uploadKind, file)); err != nil {
			return nil, err
		}
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	ent, err := s.entitlements(invitation)
	if err != nil {
		return nil, err
	}
	limit := s.kind.limit(ent)
	if s.kind.disabled != nil && !limit.Unlimited && limit.Max == 0 {
		metrics.RecordQuotaRejected(s.kind.resource, ent.Tier)
		return nil, s.kind.disabled
	}
	current, err := s.repo.CountByInvitation(invitationID)
	if err != nil {
		return nil, err
	}
	if err := CheckQuota(s.kind.resource, limit, int(current), len(files)); err != nil {
		metrics.RecordQuotaRejected(s.kind.resource, ent.Tier)
		return nil, err
	}

	tracker := s.uploads.track()
	defer tracker.release(ctx)
	items := make([]T, 0, len(files))
	for i, file := range files {
		path, err := tracker.save(ctx, fmt.Sprintf("%s.%d", s.kind.field, i), s.kind.uploadKind, file, s.kind.dir)
		if err != nil {
			return nil, err
		}
		items = append(items, s.kind.build(invitationID, path))
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).CreateBatch(items)
	})
	if err != nil {
		return nil, err
	}
	tracker.commit()
	s.touch(ctx, invitation)

	total := int(current) + len(items)
	logger.Infow("media_uploaded",
		"resource", s.kind.resource,
		"invitation_id", invitationID,
		"count", len(items),
		"total", total,
	)
	return &MediaUploadResult[T]{Items: items, Quota: newQuotaInfo(limit, total)}, nil
}

// Delete 删除单个媒体
func (s *MediaService[T]) Delete(ctx context.Context, userID, invitationID, itemID uint) error {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return err
	}
	item, err := sectionItem(s.repo, itemID, invitationID, s.kind.owner)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByIDs([]uint{itemID}); err != nil {
		return err
	}
	s.uploads.Delete(ctx, s.kind.path(item))
	s.touch(ctx, invitation)
	return nil
}

// BulkDelete 批量删除，任一 ID 不存在或不属于该请柬则整体拒绝
func (s *MediaService[T]) BulkDelete(ctx context.Context, userID, invitationID uint, ids []uint) (int, error) {
	invitation, err := s.editable(userID, invitationID)
	if err != nil {
		return 0, err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, NewValidationError("ids", "at least one id is required")
	}
	items, err := s.repo.ListByIDs(ids)
	if err != nil {
		return 0, err
	}
	if len(items) != len(ids) {
		return 0, NewValidationError("ids", "one or more ids are invalid")
	}
	paths := make([]string, 0, len(items))
	for i := range items {
		if s.kind.owner(&items[i]) != invitationID {
			return 0, ErrForbidden
		}
		paths = append(paths, s.kind.path(&items[i]))
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeleteByIDs(ids)
	})
	if err != nil {
		return 0, err
	}
	s.uploads.Delete(ctx, paths...)
	s.touch(ctx, invitation)
	return len(items), nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
