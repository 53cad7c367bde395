package validator

import (
	"log"
	"regexp"
	"strings"

	"contacts_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	contactNameRegex = regexp.MustCompile(`^[A-Za-z\s]+$`)
	phoneRegex       = regexp.MustCompile(`^[0-9() +,\-.]+$`)
)

// registerCustomRules регистрирует все кастомные функции валидации
func registerCustomRules(v *validator.Validate, allowedTLDs []string) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации - это ошибка программиста, приложение не должно стартовать
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'contact-name': только латинские буквы и пробелы
	mustRegister("contact-name", validateContactName)

	// 'phone': цифры, пробел и ( ) + , - .
	mustRegister("phone", validatePhone)

	// 'subscription': starter | pro | business
	mustRegister("subscription", validateSubscription)

	// 'email-tld': домен первого уровня из разрешенного списка
	mustRegister("email-tld", newEmailTLDRule(allowedTLDs))
}

func validateContactName(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Не проверяем пустые значения, для этого есть 'required'
	}
	return contactNameRegex.MatchString(value)
}

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return phoneRegex.MatchString(value)
}

func validateSubscription(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Subscription(value).IsValid()
}

func newEmailTLDRule(allowedTLDs []string) validator.Func {
	allowed := make(map[string]struct{}, len(allowedTLDs))
	for _, tld := range allowedTLDs {
		allowed[strings.ToLower(strings.TrimPrefix(tld, "."))] = struct{}{}
	}

	return func(fl validator.FieldLevel) bool {
		if len(allowed) == 0 {
			return true
		}
		value := fl.Field().String()
		if value == "" {
			return true
		}
		dot := strings.LastIndex(value, ".")
		if dot < 0 || dot == len(value)-1 {
			return false
		}
		_, ok := allowed[strings.ToLower(value[dot+1:])]
		return ok
	}
}
