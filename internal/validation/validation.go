// Package validation validates decoded request payloads and renders failures
// as a single "Invalid data: field: message, ..." string.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fekuna/orderflow-service/internal/apperror"
)

var validate = newValidator()

// Defaulter is implemented by payloads that fill declared defaults before validation.
type Defaulter interface {
	ApplyDefaults()
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			f, _ := d.Float64()
			return f
		case decimal.NullDecimal:
			if !d.Valid {
				return nil
			}
			f, _ := d.Decimal.Float64()
			return f
		case OptionalDecimal:
			if !d.Value.Valid {
				return nil
			}
			f, _ := d.Value.Decimal.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{}, decimal.NullDecimal{}, OptionalDecimal{})

	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	return v
}

// Struct applies defaults (when supported) and validates v.
func Struct(v interface{}) error {
	if d, ok := v.(Defaulter); ok {
		d.ApplyDefaults()
	}
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Validation("Invalid data: " + err.Error())
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldPath(fe.Namespace())+": "+message(fe))
	}
	return apperror.Validation("Invalid data: " + strings.Join(parts, ", "))
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// fieldPath turns "CreateOrderInput.items[0].quantity" into "items.0.quantity".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return indexPattern.ReplaceAllString(ns, ".$1")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "uuid", "uuid4":
		return "Invalid uuid"
	case "oneof":
		return "Invalid enum value. Expected " + strings.Join(strings.Fields(fe.Param()), " | ")
	case "min", "gte":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.String {
			return fmt.Sprintf("Must contain at least %s element(s)", fe.Param())
		}
		return "Must be greater than or equal to " + fe.Param()
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must contain at most %s character(s)", fe.Param())
		}
		return "Must be less than or equal to " + fe.Param()
	case "isodate":
		return "Invalid date"
	default:
		return "Invalid value (" + fe.Tag() + ")"
	}
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts calendar dates and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
