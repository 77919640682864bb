package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage 本地磁盘存储
type LocalStorage struct {
	root      string
	urlPrefix string
	now       func() time.Time
}

// NewLocalStorage 创建本地存储，root 不存在时自动创建
func NewLocalStorage(root, urlPrefix string) (*LocalStorage, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "storage"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStorage{
		root:      root,
		urlPrefix: strings.TrimRight(strings.TrimSpace(urlPrefix), "/"),
		now:       time.Now,
	}, nil
}

// Root 存储根目录
func (s *LocalStorage) Root() string {
	return s.root
}

// Save 写入本地文件，写入失败时删除半成品
func (s *LocalStorage) Save(ctx context.Context, r io.Reader, dir, ext, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := objectKey(dir, ext, s.now())
	if err != nil {
		return "", err
	}
	full := s.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(full)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(full)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(full)
		return "", err
	}
	return key, nil
}

// Delete 删除文件，文件不存在视为成功
func (s *LocalStorage) Delete(_ context.Context, p string) error {
	key, err := cleanRelative(p)
	if err != nil {
		return err
	}
	if err := os.Remove(s.fullPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists 判断文件是否存在
func (s *LocalStorage) Exists(_ context.Context, p string) (bool, error) {
	key, err := cleanRelative(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(s.fullPath(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// URL 拼接访问地址
func (s *LocalStorage) URL(p string) string {
	if p == "" {
		return ""
	}
	if s.urlPrefix == "" {
		return "/" + strings.TrimLeft(p, "/")
	}
	return s.urlPrefix + "/" + strings.TrimLeft(path.Clean(p), "/")
}

func (s *LocalStorage) fullPath(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}
