package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/anonto42/vidtube/backend/internal/apperror"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EchoValidator adapts go-playground/validator to echo.Validator.
type EchoValidator struct {
	validate *validator.Validate
}

// New creates a validator shared by all handlers.
func New() *EchoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fieldName(fld.Tag.Get("json"), fld.Name)
	})
	return &EchoValidator{validate: v}
}

// Validate implements echo.Validator. Failures are returned as BadInput
// errors listing one entry per invalid field.
func (v *EchoValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.BadRequest("Invalid request payload").WithCause(err)
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, describe(fe))
	}
	return apperror.BadRequest("All fields are required").WithErrors(details...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func fieldName(jsonTag, goName string) string {
	name := strings.SplitN(jsonTag, ",", 2)[0]
	if name == "" || name == "-" {
		return goName
	}
	return name
}

// IsValidID reports whether s is a 24 character hex entity reference.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// ParseID converts a raw path parameter into an ObjectID. label names the
// entity in the error message, e.g. "Video" yields "Video Id is not an ObjectId".
func ParseID(raw, label string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperror.Newf(apperror.BadInput, "%s Id is not an ObjectId", label)
	}
	return id, nil
}
