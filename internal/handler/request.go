package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/places-api/internal/domain"
)

// requestError is a client error detected before the service layer is
// reached: an unreadable body or a malformed parameter.
type requestError struct {
	status  int
	message string
	fields  []domain.FieldError
}

func (e *requestError) Error() string { return e.message }

func badRequest(message string, fields ...domain.FieldError) *requestError {
	return &requestError{status: http.StatusBadRequest, message: message, fields: fields}
}

// decodeJSON reads a single JSON value from the request body into dst.
// Unknown fields are ignored. The body size is capped by middleware; hitting
// the cap yields 413.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}

	var (
		maxErr    *http.MaxBytesError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &maxErr):
		return &requestError{
			status:  http.StatusRequestEntityTooLarge,
			message: fmt.Sprintf("Request body must not exceed %d bytes", maxErr.Limit),
		}
	case errors.Is(err, io.EOF):
		return badRequest("Request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return badRequest("Request body is not valid JSON")
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return badRequest("Request body must be a JSON object")
		}
		// Errors inside coordinates report the element path, e.g. "coordinates.0".
		field, _, _ = strings.Cut(field, ".")
		return badRequest(msgInvalidData, domain.FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s must be of type %s", field, jsonTypeName(typeErr.Type.Kind())),
		})
	}
	return badRequest("Request body could not be decoded")
}

// jsonTypeName names the JSON type a Go kind decodes from.
func jsonTypeName(k reflect.Kind) string {
	switch k {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int32, reflect.Int64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Bool:
		return "boolean"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return k.String()
}

// pathParam binds a required path parameter using the OpenAPI "simple" style,
// the same binding generated servers use.
func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || strings.TrimSpace(v) == "" {
		return "", badRequest("Invalid parameters", domain.FieldError{Field: name, Message: name + " is required"})
	}
	return v, nil
}

// queryParam binds a form-style query parameter into dst, which must be a
// pointer (a pointer to a pointer for optional values).
func queryParam(r *http.Request, name string, required bool, dst any) error {
	q := r.URL.Query()
	if required && strings.TrimSpace(q.Get(name)) == "" {
		return domain.NewValidationError(name, name+" is required")
	}
	if err := runtime.BindQueryParameter("form", true, required, name, q, dst); err != nil {
		return domain.NewValidationError(name, name+" is invalid")
	}
	return nil
}
