package validation

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"vpn-storefront/internal/common/errors"
)

const (
	// Допустимое количество устройств в тарифе
	MinDevices = 3
	MaxDevices = 7

	DefaultDevices = 3
)

// Validate общий валидатор для DTO запросов
var Validate = validator.New()

// Struct проверяет DTO по тегам validate и возвращает ошибку валидации
func Struct(v interface{}) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(err, errors.ErrCodeValidation, "Validation failed")
	}

	messages := make([]string, 0, len(verrs))
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		fields[field] = fe.Tag()
		if fe.Tag() == "required" {
			messages = append(messages, field+" is required")
		} else {
			messages = append(messages, field+" is invalid")
		}
	}

	return errors.New(errors.ErrCodeValidation, strings.Join(messages, "; ")).
		WithDetail("fields", fields)
}

// ValidateDevices проверяет количество устройств
func ValidateDevices(devices int) error {
	if devices < MinDevices || devices > MaxDevices {
		return errors.NewValidationError("devices", fmt.Sprintf("must be between %d and %d", MinDevices, MaxDevices))
	}
	return nil
}

// ClampDevices приводит количество устройств к допустимому диапазону
func ClampDevices(devices int) int {
	if devices < MinDevices {
		return MinDevices
	}
	if devices > MaxDevices {
		return MaxDevices
	}
	return devices
}
