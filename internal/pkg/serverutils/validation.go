package serverutils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a request DTO and converts
// the first failure into a 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		first := validationErrors[0]
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("field %s failed on the %s rule", first.Field(), first.Tag()))
	}
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}
