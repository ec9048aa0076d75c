package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode представляет код ошибки
type ErrorCode string

const (
	// Общие ошибки
	ErrCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest ErrorCode = "BAD_REQUEST"

	// Ошибки идентификации Telegram
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeIdentityMissing ErrorCode = "IDENTITY_MISSING"

	// Ошибки VPN API
	ErrCodeUpstreamStatus      ErrorCode = "UPSTREAM_STATUS"
	ErrCodeUpstreamInvalidJSON ErrorCode = "UPSTREAM_INVALID_JSON"
	ErrCodeUpstreamNonJSON     ErrorCode = "UPSTREAM_NON_JSON"
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeRequestFailed       ErrorCode = "REQUEST_FAILED"

	// Ошибки оплаты
	ErrCodePaymentRedirectMissing ErrorCode = "PAYMENT_REDIRECT_MISSING"
	ErrCodePaymentNotPending      ErrorCode = "PAYMENT_NOT_PENDING"

	// Ошибки хранилища
	ErrCodeStoreError ErrorCode = "STORE_ERROR"
)

// AppError представляет типизированную ошибку приложения
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Status    int                    `json:"status,omitempty"` // HTTP статус ответа VPN API, если был
	Details   map[string]interface{} `json:"details,omitempty"`
	Stack     []string               `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	Cause     error                  `json:"-"`
}

// Error возвращает строковое представление ошибки
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap возвращает причину ошибки
func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound || (e.Code == ErrCodeUpstreamStatus && e.Status == 404)
}

func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation || e.Code == ErrCodeBadRequest
}

func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeIdentityMissing
}

// IsUpstream сообщает, что ошибка пришла от VPN API или транспорта до него
func (e *AppError) IsUpstream() bool {
	switch e.Code {
	case ErrCodeUpstreamStatus, ErrCodeUpstreamInvalidJSON, ErrCodeUpstreamNonJSON,
		ErrCodeUpstreamUnavailable, ErrCodeRequestFailed:
		return true
	}
	return false
}

func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal || e.Code == ErrCodeStoreError
}

// WithDetail добавляет детальную информацию к ошибке
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithStatus запоминает HTTP статус ответа
func (e *AppError) WithStatus(status int) *AppError {
	e.Status = status
	return e
}

// WithRequestID добавляет ID запроса к ошибке
func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

// New создает новую ошибку приложения
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

// Wrap оборачивает существующую ошибку
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf оборачивает существующую ошибку с форматированием
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		// Пропускаем внутренние функции пакета errors
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// NewValidationError создает ошибку валидации
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewUpstreamStatusError создает ошибку неуспешного HTTP ответа VPN API
func NewUpstreamStatusError(status int, body string) *AppError {
	msg := fmt.Sprintf("API request failed: %d", status)
	if body != "" {
		msg = fmt.Sprintf("API request failed: %d %s", status, body)
	}
	return New(ErrCodeUpstreamStatus, msg).WithStatus(status)
}

// NewIdentityMissingError создает ошибку отсутствующего Telegram ID
func NewIdentityMissingError() *AppError {
	return New(ErrCodeIdentityMissing, "Не удалось получить Telegram ID. Откройте приложение через Telegram.")
}

// NewStoreError создает ошибку хранилища
func NewStoreError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStoreError, fmt.Sprintf("Store operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError находит AppError в цепочке ошибок
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil && stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// StatusOf возвращает HTTP статус VPN API, сохраненный в ошибке, или 0
func StatusOf(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Status
	}
	return 0
}
