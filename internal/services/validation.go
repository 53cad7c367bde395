package services

import (
	"errors"

	"contacts_backend/internal/validator"
	"contacts_backend/pkg/apperrors"
)

// validateRequest переводит ошибки валидатора в AppError (400 VALIDATION_FAILED)
func validateRequest(v *validator.Validator, obj interface{}) error {
	err := v.Validate(obj)
	if err == nil {
		return nil
	}

	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		return apperrors.ValidationError(vErr.Errors)
	}
	return apperrors.InternalError(err)
}
