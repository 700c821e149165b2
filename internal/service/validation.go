package service

import (
	"errors"
	"reflect"
	"strings"

	"finance_tracker/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so errors line up with request bodies
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("txtype", validateTransactionType)
	return v
}

// validateMoney accepts positive decimals below domain.MaxAmount with at most two fractional digits
func validateMoney(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.IsPositive() && d.LessThan(domain.MaxAmount) && d.Equal(d.Round(2))
}

// checkBalance rejects balances the storage column cannot hold
func checkBalance(balance decimal.Decimal) error {
	if balance.Abs().LessThan(domain.MaxAmount) {
		return nil
	}
	return invalid("amount", "balance", "Resulting balance is out of the supported range")
}

func validateTransactionType(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(domain.TransactionType)
	return ok && t.Valid()
}

// validateStruct runs the struct tags and converts failures into domain.ValidationErrors
func validateStruct(obj any) error {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, domain.FieldError{
			Field:   fieldPath(fe),
			Message: errorMessage(fe),
			Type:    fe.Tag(),
		})
	}
	return out
}

// fieldPath drops the struct name prefix, keeping indexes like categoryIds[1]
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "At least " + fe.Param() + " item(s) required"
		}
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gt":
		return "Value must be greater than " + fe.Param()
	case "gte":
		return "Value must be greater than or equal to " + fe.Param()
	case "money":
		return "Amount must be positive, below 1000000000000, with at most 2 decimal places"
	case "txtype":
		return "Type must be 0 (consumable) or 1 (profitable)"
	default:
		return "Invalid value"
	}
}

// invalid builds a single field validation error
func invalid(field, tag, message string) error {
	return domain.ValidationErrors{{Field: field, Message: message, Type: tag}}
}

// normalizeName trims names before validation
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

// normalizeEmail trims and lower-cases emails before lookup or storage
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
