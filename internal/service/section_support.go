package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/undangan-next/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// sectionItem 按 ID 加载内容记录并确认其属于指定请柬
func sectionItem[T any](repo repository.SectionRepository[T], id, invitationID uint, owner func(*T) uint) (*T, error) {
	if id == 0 {
		return nil, ErrSectionNotFound
	}
	item, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil || owner(item) != invitationID {
		return nil, ErrSectionNotFound
	}
	return item, nil
}

func requireText(verr *ValidationError, field, value string, maxLen int) string {
	value = strings.TrimSpace(value)
	if value == "" {
		verr.Add(field, "is required")
		return value
	}
	if maxLen > 0 && len([]rune(value)) > maxLen {
		verr.Add(field, fmt.Sprintf("may not be greater than %d characters", maxLen))
	}
	return value
}

// optionalText 空串视为 nil
func optionalText(verr *ValidationError, field string, value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	if maxLen > 0 && len([]rune(trimmed)) > maxLen {
		verr.Add(field, fmt.Sprintf("may not be greater than %d characters", maxLen))
	}
	return &trimmed
}

func optionalURL(verr *ValidationError, field string, value *string, maxLen int) *string {
	trimmed := optionalText(verr, field, value, maxLen)
	if trimmed == nil {
		return nil
	}
	parsed, err := url.ParseRequestURI(*trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		verr.Add(field, "must be a valid URL")
	}
	return trimmed
}

func parseDate(verr *ValidationError, field, value string, required bool) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			verr.Add(field, "is required")
		}
		return time.Time{}
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		verr.Add(field, "must be a date in YYYY-MM-DD format")
		return time.Time{}
	}
	return parsed
}

func parseClock(verr *ValidationError, field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		verr.Add(field, "is required")
		return value
	}
	if _, err := time.Parse(timeLayout, value); err != nil {
		verr.Add(field, "must match the format HH:MM")
	}
	return value
}

func optionalClock(verr *ValidationError, field string, value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	clock := parseClock(verr, field, *value)
	return &clock
}

// replaceFile 新文件写入成功后返回需要删除的旧文件
func replaceFile(current **string, next string) string {
	old := ""
	if *current != nil {
		old = **current
	}
	*current = &next
	return old
}
