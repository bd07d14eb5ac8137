package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every struct in this package. A *validator.Validate
// caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so FieldError.Field matches the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("latlng", validLatLng); err != nil {
		panic(fmt.Sprintf("domain: register latlng validation: %v", err))
	}
	return v
}

// validLatLng backs the "latlng" tag: a two-element Coordinates value whose
// latitude and longitude are within range.
func validLatLng(fl validator.FieldLevel) bool {
	c, ok := fl.Field().Interface().(Coordinates)
	if !ok {
		return false
	}
	return c.Valid()
}

// validateStruct runs the struct-tag constraints on s and collects every
// violation into a *ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: s is not a struct. Programming error, not user input.
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr
}

// fieldMessage renders a human-readable message for one failed constraint.
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		if field == "coordinates" {
			return "coordinates are required"
		}
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		if field == "coordinates" {
			return "coordinates must contain exactly 2 numbers [latitude, longitude]"
		}
		return fmt.Sprintf("%s must have length %s", field, fe.Param())
	case "latlng":
		return "coordinates must be [latitude, longitude] with latitude between -90 and 90 and longitude between -180 and 180"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return field + " must be a valid date in YYYY-MM-DD format"
	case "excludesall":
		return fmt.Sprintf("%s must not contain any of %q", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	default:
		return field + " is invalid"
	}
}
