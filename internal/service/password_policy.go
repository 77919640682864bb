package service

import (
	"fmt"
	"unicode"
)

const defaultPasswordMinLen = 8

// validatePassword 密码至少 minLen 位，且同时包含字母与数字
func validatePassword(minLen int, password string) error {
	if minLen <= 0 {
		minLen = defaultPasswordMinLen
	}
	if len([]rune(password)) < minLen {
		return NewValidationError("password", fmt.Sprintf("must be at least %d characters", minLen))
	}
	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return NewValidationError("password", "must contain letters and numbers")
	}
	return nil
}
