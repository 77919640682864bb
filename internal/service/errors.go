package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// 通用错误
var (
	ErrNotFound          = errors.New("resource not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("resource already exists")
	ErrValidation        = errors.New("validation failed")
	ErrExternalService   = errors.New("external service failure")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrEmailExists       = errors.New("email already registered")
)

// 订单与支付错误
var (
	ErrOrderNotFound        = fmt.Errorf("%w: order not found", ErrNotFound)
	ErrPackageNotFound      = fmt.Errorf("%w: package not found", ErrNotFound)
	ErrInvalidOrderState    = errors.New("order is not in a valid state for this operation")
	ErrInvalidSignature     = errors.New("invalid notification signature")
	ErrOrderCodeExhausted   = errors.New("unable to allocate a unique order code")
	ErrPaymentNotConfigured = errors.New("payment gateway is not configured")
)

// 请柬与内容模块错误
var (
	ErrInvalidPackage         = errors.New("package does not resolve to a known entitlement tier")
	ErrInvitationNotFound     = fmt.Errorf("%w: invitation not found", ErrNotFound)
	ErrInvitationExists       = fmt.Errorf("%w: invitation already exists for this order", ErrConflict)
	ErrInvitationExpired      = errors.New("invitation has expired")
	ErrInvitationNotPublished = errors.New("invitation is not published yet")
	ErrThemeNotFound          = fmt.Errorf("%w: theme not found", ErrNotFound)
	ErrCategoryNotFound       = fmt.Errorf("%w: theme category not found", ErrNotFound)
	ErrSectionNotFound        = fmt.Errorf("%w: section not found", ErrNotFound)
	ErrSectionExists          = fmt.Errorf("%w: section already exists for this invitation", ErrConflict)
	ErrGuestNotFound          = fmt.Errorf("%w: guest not found", ErrNotFound)
	ErrMusicNotFound          = fmt.Errorf("%w: music not found", ErrNotFound)
	ErrTierRestricted         = errors.New("feature not available for this package")
	ErrVideoNotAllowed        = fmt.Errorf("%w: video upload is not allowed", ErrTierRestricted)
	ErrBacksoundNotAllowed    = fmt.Errorf("%w: custom backsound is not allowed", ErrTierRestricted)
	ErrCategoryInUse          = fmt.Errorf("%w: category still has themes", ErrConflict)
	ErrPackageInUse           = fmt.Errorf("%w: package is referenced by orders", ErrConflict)
)

// 上传错误
var (
	ErrFileRequired    = errors.New("file is required")
	ErrFileTooLarge    = errors.New("file too large")
	ErrFileTypeInvalid = errors.New("file type not allowed")
)

// 验证码错误
var (
	ErrCaptchaRequired = errors.New("captcha is required")
	ErrCaptchaInvalid  = errors.New("captcha is invalid")
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError 创建单字段校验错误
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add 追加字段错误
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Merge 合并另一个错误：字段错误逐项并入，其余错误原样返回
func (e *ValidationError) Merge(err error) error {
	if err == nil {
		return nil
	}
	var other *ValidationError
	if !errors.As(err, &other) {
		return err
	}
	for field, messages := range other.Fields {
		for _, m := range messages {
			e.Add(field, m)
		}
	}
	return nil
}

// HasErrors 是否存在字段错误
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil 无字段错误时返回 nil，便于 return v.OrNil()
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap 使 errors.Is(err, ErrValidation) 成立
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// QuotaExceededError 套餐数量上限错误
type QuotaExceededError struct {
	Resource       string `json:"resource"`
	CurrentCount   int    `json:"current_count"`
	MaxAllowed     int    `json:"max_allowed"`
	RemainingSlots int    `json:"remaining_slots"`
	RequestedCount int    `json:"requested_count"`
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s limit exceeded: current=%d max=%d requested=%d remaining=%d",
		e.Resource, e.CurrentCount, e.MaxAllowed, e.RequestedCount, e.RemainingSlots)
}

// Unwrap 使 errors.Is(err, ErrTierRestricted) 成立
func (e *QuotaExceededError) Unwrap() error {
	return ErrTierRestricted
}
