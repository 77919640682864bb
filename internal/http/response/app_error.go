package response

// AppError 统一错误包装，Code 为 HTTP 状态码
type AppError struct {
	Code    int
	Message string
	Errors  interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithErrors 附加字段级错误详情
func (e *AppError) WithErrors(errs interface{}) *AppError {
	e.Errors = errs
	return e
}
