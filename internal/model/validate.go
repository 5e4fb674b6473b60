package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("timestamp", func(fl validator.FieldLevel) bool {
			_, ok := ParseTimestamp(fl.Field().String())
			return ok
		})
	})
	return validate
}

// Validate checks the create payload. Every field except Number is required
// and departure/arrival must be valid timestamps.
func (d CreateTrainDto) Validate() error {
	return describe(validatorInstance().Struct(d))
}

// Validate checks the update payload. All fields are optional; departure
// and arrival must be valid timestamps when set.
func (p UpdateTrainDto) Validate() error {
	return describe(validatorInstance().Struct(p))
}

// describe turns validator output into one readable error.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "timestamp":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid date", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
