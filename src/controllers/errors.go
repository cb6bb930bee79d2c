package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"uservice/src/types"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse maps a service or binding error to a status code and body.
// The second return is false for errors that must not reach the client.
func ErrorResponse(err error) (int, gin.H, bool) {
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, gin.H{"error": "validation failed", "errors": verr.Errors}, true
	}
	var conflict *types.ConflictError
	if errors.As(err, &conflict) {
		return http.StatusBadRequest, gin.H{"error": conflict.Message, "field": conflict.Field}, true
	}
	switch {
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusUnauthorized, gin.H{"error": err.Error()}, true
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden, gin.H{"error": err.Error()}, true
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}, true
	case errors.Is(err, types.ErrInvalidArgument),
		errors.Is(err, types.ErrInvalidState),
		errors.Is(err, types.ErrNotAvailable),
		errors.Is(err, types.ErrConflict):
		return http.StatusBadRequest, gin.H{"error": err.Error()}, true
	}
	return http.StatusInternalServerError, gin.H{"error": "internal server error"}, false
}

// BindingError converts a gin binding failure into a ValidationError keyed by JSON field names.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &types.ValidationError{}
		for _, fe := range verrs {
			out.Add(fieldName(fe), fieldMessage(fe))
		}
		return out
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return types.NewFieldError(field, "must be of type "+typeErr.Type.String())
	}
	return types.NewFieldError("body", "malformed request: "+err.Error())
}

// fieldName drops Go type segments (the request struct, embedded structs) from the namespace.
func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" && unicode.IsUpper([]rune(p)[0]) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

func fieldMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind().String() == "string" {
		unit = " characters"
	} else if k := fe.Kind().String(); k == "slice" || k == "array" {
		unit = " items"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "futuredate":
		return "must be a future date"
	case "personname":
		return "may only contain letters, spaces, hyphens and apostrophes"
	case "strongpassword":
		return "must contain an uppercase letter, a lowercase letter and a number"
	case "calendardate":
		return "must be a date in YYYY-MM-DD format"
	}
	return "is invalid"
}
