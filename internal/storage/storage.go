package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/undangan-next/internal/config"

	"github.com/google/uuid"
)

// ErrInvalidPath 路径非法（越界或为空）
var ErrInvalidPath = errors.New("storage: invalid path")

// FileStorage 文件存储抽象
type FileStorage interface {
	// Save 写入文件并返回相对路径 dir/yyyy/mm/<uuid><ext>
	Save(ctx context.Context, r io.Reader, dir, ext, contentType string) (string, error)
	Delete(ctx context.Context, p string) error
	Exists(ctx context.Context, p string) (bool, error)
	// URL 返回可公开访问的地址
	URL(p string) string
}

// New 根据配置创建存储实现
func New(ctx context.Context, cfg config.StorageConfig) (FileStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "local":
		return NewLocalStorage(cfg.Local.Root, cfg.Local.URLPrefix)
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// objectKey 生成唯一对象路径，不使用客户端文件名
func objectKey(dir, ext string, now time.Time) (string, error) {
	cleanDir, err := cleanRelative(dir)
	if err != nil {
		return "", err
	}
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := uuid.NewString() + ext
	return path.Join(cleanDir, now.Format("2006"), now.Format("01"), name), nil
}

// cleanRelative 规范化相对路径并拒绝 .. 越界
func cleanRelative(p string) (string, error) {
	p = strings.TrimSpace(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
