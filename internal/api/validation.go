package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"example.com/backstage/services/routedelivery/internal/model"
)

// RegisterValidators adds the domain validation tags to gin's validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterTagNameFunc(jsonFieldName)

	validations := map[string]validator.Func{
		"order_status":   validateOrderStatus,
		"return_channel": validateReturnChannel,
		"weekly_pattern": validateWeeklyPattern,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

// jsonFieldName reports fields by their JSON name so messages match the request body
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return name
}

// bindingErrorMessage turns a bind failure into a client-facing message
func bindingErrorMessage(err error) string {
	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
		syntaxErr      *json.SyntaxError
	)
	switch {
	case errors.As(err, &validationErrs):
		messages := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			messages = append(messages, fieldErrorMessage(fe))
		}
		return strings.Join(messages, "; ")
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("invalid value for field %s", typeErr.Field)
		}
		return "invalid value in request body"
	case errors.As(err, &syntaxErr):
		return "malformed JSON body"
	}
	return "invalid request body"
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	_, ok := model.OrderStatusFromString(fl.Field().String())
	return ok
}

func validateReturnChannel(fl validator.FieldLevel) bool {
	switch model.ReturnChannel(fl.Field().String()) {
	case model.WarehouseReturnChannel, model.WMSReturnChannel:
		return true
	}
	return false
}

// validateWeeklyPattern accepts seven days, Monday first
func validateWeeklyPattern(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	return field.Len() == 7
}
