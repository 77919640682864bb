package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/undangan-next/internal/config"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/storage"
)

// UploadKind 上传文件类别
type UploadKind string

const (
	UploadKindImage UploadKind = "image"
	UploadKindVideo UploadKind = "video"
	UploadKindAudio UploadKind = "audio"
)

// FileInput 待上传文件
type FileInput struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// FileFromHeader 从 multipart 表单文件构造 FileInput
func FileFromHeader(h *multipart.FileHeader) *FileInput {
	if h == nil {
		return nil
	}
	return &FileInput{
		Filename: h.Filename,
		Size:     h.Size,
		Open: func() (io.ReadCloser, error) {
			return h.Open()
		},
	}
}

// FileFromBytes 从内存数据构造 FileInput
func FileFromBytes(filename string, data []byte) *FileInput {
	return &FileInput{
		Filename: filename,
		Size:     int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

type uploadRule struct {
	maxSize    int64
	extensions []string
	// sniffOK 根据嗅探到的 MIME 判断内容是否与类别相符
	sniffOK func(contentType string) bool
}

// UploadService 文件上传服务，负责校验与写入存储
type UploadService struct {
	store storage.FileStorage
	rules map[UploadKind]uploadRule
}

// NewUploadService 创建上传服务
func NewUploadService(cfg config.UploadConfig, store storage.FileStorage) *UploadService {
	return &UploadService{
		store: store,
		rules: map[UploadKind]uploadRule{
			UploadKindImage: {
				maxSize:    cfg.Image.MaxSize,
				extensions: cfg.Image.AllowedExtensions,
				sniffOK: func(ct string) bool {
					return ct == "image/jpeg" || ct == "image/png" || ct == "image/webp"
				},
			},
			UploadKindVideo: {
				maxSize:    cfg.Video.MaxSize,
				extensions: cfg.Video.AllowedExtensions,
				sniffOK:    notImageOrText,
			},
			UploadKindAudio: {
				maxSize:    cfg.Audio.MaxSize,
				extensions: cfg.Audio.AllowedExtensions,
				sniffOK:    notImageOrText,
			},
		},
	}
}

// Storage 底层存储
func (s *UploadService) Storage() storage.FileStorage {
	return s.store
}

// Validate 校验文件大小与扩展名，返回字段级错误
func (s *UploadService) Validate(field string, kind UploadKind, file *FileInput) error {
	rule, ok := s.rules[kind]
	if !ok {
		return fmt.Errorf("unknown upload kind %q", kind)
	}
	if file == nil || file.Open == nil {
		return NewValidationError(field, ErrFileRequired.Error())
	}
	if rule.maxSize > 0 && file.Size > rule.maxSize {
		return NewValidationError(field, fmt.Sprintf("%s (max %d KB)", ErrFileTooLarge.Error(), rule.maxSize/1024))
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !isAllowedExtension(ext, rule.extensions) {
		return NewValidationError(field, fmt.Sprintf("%s: %s", ErrFileTypeInvalid.Error(), strings.Join(rule.extensions, ", ")))
	}
	return nil
}

// Save 校验并写入存储，返回相对路径
func (s *UploadService) Save(ctx context.Context, field string, kind UploadKind, file *FileInput, dir string) (string, error) {
	if err := s.Validate(field, kind, file); err != nil {
		return "", err
	}
	rule := s.rules[kind]

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if rule.sniffOK != nil && !rule.sniffOK(contentType) {
		return "", NewValidationError(field, fmt.Sprintf("%s: detected %s", ErrFileTypeInvalid.Error(), contentType))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	body := io.MultiReader(bytes.NewReader(head), src)
	if seeker, ok := src.(io.ReadSeeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err == nil {
			body = seeker
		}
	}
	return s.store.Save(ctx, body, dir, ext, contentType)
}

// Delete 尽力删除文件，失败仅记录日志
func (s *UploadService) Delete(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := s.store.Delete(ctx, p); err != nil {
			logger.Warnw("upload_file_delete_failed", "path", p, "error", err)
		}
	}
}

// uploadTracker 记录本次操作已写入的文件，出错时统一回收
type uploadTracker struct {
	uploads *UploadService
	paths   []string
	done    bool
}

func (s *UploadService) track() *uploadTracker {
	return &uploadTracker{uploads: s}
}

func (t *uploadTracker) save(ctx context.Context, field string, kind UploadKind, file *FileInput, dir string) (string, error) {
	p, err := t.uploads.Save(ctx, field, kind, file, dir)
	if err != nil {
		return "", err
	}
	t.paths = append(t.paths, p)
	return p, nil
}

// commit 标记成功，之后 release 不再删除
func (t *uploadTracker) commit() {
	t.done = true
}

// release 未 commit 时删除已写入文件，配合 defer 使用
func (t *uploadTracker) release(ctx context.Context) {
	if t.done || len(t.paths) == 0 {
		return
	}
	logger.Infow("upload_rollback", "files", len(t.paths))
	t.uploads.Delete(context.WithoutCancel(ctx), t.paths...)
}

func notImageOrText(ct string) bool {
	return !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "text/")
}

func isAllowedExtension(ext string, allowed []string) bool {
	if ext == "" {
		return false
	}
	for _, candidate := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(candidate))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if ext == normalized {
			return true
		}
	}
	return false
}
