package shared

import (
	"errors"
	"net/http"
	"strings"

	"github.com/undangan-next/internal/http/response"
	"github.com/undangan-next/internal/logger"
	"github.com/undangan-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	MsgValidationFailed = "The given data was invalid."
	MsgInternalError    = "Internal server error."
)

// ErrorRule 业务错误到接口错误响应的映射关系
type ErrorRule struct {
	Target  error
	Code    int
	Message string
}

// CommonErrorRules 各处理器共用的兜底映射，按顺序匹配
var CommonErrorRules = []ErrorRule{
	{Target: service.ErrUnauthorized, Code: http.StatusUnauthorized, Message: "Unauthenticated."},
	{Target: service.ErrInvalidCredential, Code: http.StatusUnauthorized, Message: "Invalid email or password."},
	{Target: service.ErrInvalidSignature, Code: http.StatusForbidden, Message: "Invalid signature."},
	{Target: service.ErrTierRestricted, Code: http.StatusForbidden, Message: "This feature is not available for your package."},
	{Target: service.ErrForbidden, Code: http.StatusForbidden, Message: "You are not allowed to access this resource."},
	{Target: service.ErrNotFound, Code: http.StatusNotFound, Message: "Resource not found."},
	{Target: service.ErrEmailExists, Code: http.StatusConflict, Message: "Email is already registered."},
	{Target: service.ErrConflict, Code: http.StatusConflict, Message: "Resource already exists."},
	{Target: service.ErrInvitationExpired, Code: http.StatusBadRequest, Message: "Invitation has expired."},
	{Target: service.ErrInvitationNotPublished, Code: http.StatusBadRequest, Message: "Invitation is not published yet."},
	{Target: service.ErrInvalidOrderState, Code: http.StatusBadRequest, Message: "Order is not in a valid state for this operation."},
	{Target: service.ErrInvalidPackage, Code: http.StatusBadRequest, Message: "Package tier is not recognized."},
	{Target: service.ErrCaptchaRequired, Code: http.StatusBadRequest, Message: "Captcha is required."},
	{Target: service.ErrCaptchaInvalid, Code: http.StatusBadRequest, Message: "Captcha is invalid."},
	{Target: service.ErrExternalService, Code: http.StatusBadGateway, Message: "Payment gateway is unavailable."},
	{Target: service.ErrPaymentNotConfigured, Code: http.StatusServiceUnavailable, Message: "Payment gateway is not configured."},
}

// RequestLog 提供携带 request_id 的日志实例
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志
func RespondError(c *gin.Context, code int, msg string, err error) {
	RespondAppError(c, response.WrapError(code, msg, err))
}

// RespondAppError 输出 AppError，5xx 记录为错误日志
func RespondAppError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		log := RequestLog(c)
		if appErr.Code >= http.StatusInternalServerError {
			log.Errorw("handler_error", "code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
		} else {
			log.Debugw("handler_error", "code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
		}
	}
	response.ErrorWithData(c, appErr.Code, appErr.Message, appErr.Errors)
}

// RespondMappedError 依次按字段错误、配额错误、专用规则与通用规则映射业务错误
func RespondMappedError(c *gin.Context, err error, rules []ErrorRule, fallbackMsg string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		response.ErrorWithData(c, http.StatusUnprocessableEntity, MsgValidationFailed, verr.Fields)
		return
	}
	var quotaErr *service.QuotaExceededError
	if errors.As(err, &quotaErr) {
		response.ErrorWithData(c, http.StatusForbidden, "Upload limit reached for your package.", quotaErr)
		return
	}
	for _, group := range [][]ErrorRule{rules, CommonErrorRules} {
		for _, rule := range group {
			if errors.Is(err, rule.Target) {
				RespondError(c, rule.Code, rule.Message, err)
				return
			}
		}
	}
	if fallbackMsg == "" {
		fallbackMsg = MsgInternalError
	}
	RespondError(c, http.StatusInternalServerError, fallbackMsg, err)
}

// ConcatErrorRules 合并多组映射规则
func ConcatErrorRules(groups ...[]ErrorRule) []ErrorRule {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]ErrorRule, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// RespondBindError 请求体解析失败，binding 校验错误按字段输出
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			name := toSnake(fe.Field())
			fields[name] = append(fields[name], bindingMessage(fe))
		}
		response.ErrorWithData(c, http.StatusUnprocessableEntity, MsgValidationFailed, fields)
		return
	}
	RespondError(c, http.StatusUnprocessableEntity, MsgValidationFailed, err)
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "may not be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
