package http

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/utils"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Money fields are checked as numbers.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// fieldErrors collects struct tag violations plus any extra problems found
// while converting the request.
type fieldErrors []domain.FieldError

func (f *fieldErrors) add(field, message string) {
	*f = append(*f, domain.FieldError{Field: field, Message: message})
}

// check runs the validator on req and records every violation.
func (f *fieldErrors) check(req any) {
	err := validate.Struct(req)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		f.add("body", err.Error())
		return
	}
	for _, fe := range verrs {
		f.add(fieldPath(fe), fieldMessage(fe))
	}
}

// date parses an ISO date or timestamp. It returns nil for an empty value and
// records a problem when the value is malformed.
func (f *fieldErrors) date(field, value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := utils.ParseDateTime(value)
	if err != nil {
		f.add(field, fmt.Sprintf("%s must be an ISO-8601 date", field))
		return nil
	}
	return &t
}

// covers reports whether field, or a parent of it, already has a problem.
func (f fieldErrors) covers(field string) bool {
	for _, fe := range f {
		if fe.Field == field || strings.HasPrefix(field, fe.Field+".") || strings.HasPrefix(field, fe.Field+"[") {
			return true
		}
	}
	return false
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return domain.NewValidationError(domain.CodeValidationFailed, "Validation failed", f...)
}

// fieldPath drops the root struct name: "extras[0].dailyCost".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// queryInt reads an optional positive integer query parameter.
func (f *fieldErrors) queryInt(values url.Values, name string) int32 {
	raw := values.Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 1 {
		f.add(name, fmt.Sprintf("%s must be a positive integer", name))
		return 0
	}
	return int32(n)
}
