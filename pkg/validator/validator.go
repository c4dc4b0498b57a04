package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError campo que no pasó la validación.
type FieldError struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"param,omitempty"`
}

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como número: permite gt=0, gte=0, lte=100 en cantidades y porcentajes.
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})
}

// ValidateStruct valida los tags `validate` de data. Devuelve nil si no hay errores.
func ValidateStruct(data interface{}) []*FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*FieldError{{FailedField: "body", Tag: err.Error()}}
	}
	out := make([]*FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &FieldError{
			FailedField: fe.StructNamespace(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		})
	}
	return out
}

// Message resume los errores en una línea para dto.ErrorResponse.
func Message(errs []*FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Value != "" {
			parts = append(parts, fmt.Sprintf("%s (%s=%s)", e.FailedField, e.Tag, e.Value))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", e.FailedField, e.Tag))
	}
	return "datos inválidos: " + strings.Join(parts, ", ")
}
