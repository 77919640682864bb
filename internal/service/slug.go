package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9-]`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// maxSlugAttempts 后缀重试上限
const maxSlugAttempts = 10000

// SlugExistsFunc 判断 slug 是否被除 excludeID 以外的记录占用
type SlugExistsFunc func(slug string, excludeID uint) (bool, error)

// NormalizeSlug 规范化：小写、空白转连字符、去除非 [a-z0-9-]、合并连字符、去除首尾连字符
func NormalizeSlug(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// UniqueSlug 依次尝试 base、base-1、base-2 …，返回第一个未占用的 slug
func UniqueSlug(base string, excludeID uint, exists SlugExistsFunc) (string, error) {
	if base == "" {
		return "", fmt.Errorf("empty slug base")
	}
	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		taken, err := exists(candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("slug %q exhausted after %d attempts", base, maxSlugAttempts)
}

// InvitationSlugBase 请柬 slug 基础串：新郎-新娘，单侧为空时取另一侧，全空时 invitation-<时间戳>
func InvitationSlugBase(groomName, brideName string, now time.Time) string {
	groom := NormalizeSlug(groomName)
	bride := NormalizeSlug(brideName)
	switch {
	case groom != "" && bride != "":
		return groom + "-" + bride
	case groom != "":
		return groom
	case bride != "":
		return bride
	default:
		return fmt.Sprintf("invitation-%d", now.Unix())
	}
}

// GuestSlugBase 宾客 slug 基础串，姓名规范化后为空时 guest-<时间戳>
func GuestSlugBase(name string, now time.Time) string {
	if base := NormalizeSlug(name); base != "" {
		return base
	}
	return fmt.Sprintf("guest-%d", now.Unix())
}
