package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"subscription-tracker/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the singleton validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

var (
	hexColorPattern     = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("billing_cycle", validateBillingCycle)
	_ = v.RegisterValidation("hex_color", validateHexColor)
	_ = v.RegisterValidation("currency_code", validateCurrencyCode)
	_ = v.RegisterValidation("money_amount", validateMoneyAmount)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates a struct against its validate tags
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Validate lets the Validator serve as echo's c.Validate
func (v *Validator) Validate(i interface{}) error {
	return v.Struct(i)
}

// FieldErrors flattens validator errors into a field -> message map
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[fe.Field()] = describe(fe)
	}
	return fields
}

func describe(fe validator.FieldError) string {
	// "x|eq=" accepts an empty string as well; the validator reports it as "x|eq"
	if base, ok := strings.CutSuffix(strings.TrimSuffix(fe.Tag(), "="), "|eq"); ok {
		tag, param, _ := strings.Cut(base, "=")
		return describeTag(tag, param) + " or empty"
	}
	return describeTag(fe.Tag(), fe.Param())
}

func describeTag(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "billing_cycle":
		return "must be one of monthly, quarterly, yearly"
	case "hex_color":
		return "must be a hex color like #3b82f6"
	case "currency_code":
		return "must be a 3-letter uppercase currency code"
	case "money_amount":
		return "must be a positive amount with at most 2 decimal places"
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", param)
	case "uuid":
		return "must be a valid UUID"
	case "min", "max":
		return fmt.Sprintf("must satisfy %s=%s", tag, param)
	default:
		return fmt.Sprintf("failed %s validation", tag)
	}
}

// Custom validation functions

// validateBillingCycle validates that the billing cycle is monthly, quarterly or yearly
func validateBillingCycle(fl validator.FieldLevel) bool {
	return models.IsValidBillingCycle(fl.Field().String())
}

// validateHexColor validates a #rrggbb color
func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorPattern.MatchString(fl.Field().String())
}

// validateCurrencyCode validates an ISO 4217 style code such as GBP
func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodePattern.MatchString(fl.Field().String())
}

// validateMoneyAmount validates that a decimal string is positive and has at most 2 decimal places
func validateMoneyAmount(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return false
	}
	return amount.Exponent() >= -2 || amount.Equal(amount.Round(2))
}
