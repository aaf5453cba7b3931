package validator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator"

	"regdesk/internal/model"
)

const DateLayout = "2006-01-02"

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrInvalidEmail       = "Invalid email address"
	ErrInvalidDate        = "Date must be in YYYY-MM-DD format"
	ErrInvalidSlug        = "Slug may contain only lowercase letters, digits and single hyphens"
	ErrInvalidPhone       = "Invalid phone number"
	ErrInvalidChoice      = "Value is not one of the allowed options"
	ErrUnknownValidation  = "Unknown validation error"
)

var (
	global     *validator.Validate
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{5,19}$`)
)

// customTags are registered on every validator built by New.
var customTags = map[string]validator.Func{
	"slug":      matches(slugRegex),
	"phone":     matches(phoneRegex),
	"date":      isDate,
	"imagetype": isImageType,
}

var tagMessages = map[string]string{
	"required":  ErrFieldRequired,
	"max":       ErrFieldExceedsMaxLen,
	"min":       ErrFieldBelowMinLen,
	"lt":        ErrFieldExceedsMaxVal,
	"lte":       ErrFieldExceedsMaxVal,
	"gt":        ErrFieldBelowMinVal,
	"gte":       ErrFieldBelowMinVal,
	"email":     ErrInvalidEmail,
	"url":       ErrInvalidFormat,
	"date":      ErrInvalidDate,
	"slug":      ErrInvalidSlug,
	"phone":     ErrInvalidPhone,
	"oneof":     ErrInvalidChoice,
	"imagetype": ErrInvalidChoice,
}

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	for tag, fn := range customTags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %q validation: %v", tag, err))
		}
	}
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// isDate accepts "" so optional dates combine with omitempty or required.
func isDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func isImageType(fl validator.FieldLevel) bool {
	return model.ImageType(fl.Field().String()).Valid()
}

// Validate checks structure and reports the first failing field as "<message>: <namespace>".
func Validate(ctx context.Context, structure any) error {
	err := Validator().StructCtx(ctx, structure)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return nil
	}
	first := fields[0]
	msg, ok := tagMessages[first.Tag()]
	if !ok {
		msg = ErrUnknownValidation
	}
	return errors.New(msg + ": " + first.Namespace())
}
