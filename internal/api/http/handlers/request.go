package handlers

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/diet-tracker/pkg/util/errorutil"
)

type validatable interface {
	Validate() error
}

// parseAndValidate decodes the JSON body into req and runs its rules.
// Both failures surface as 422.
func parseAndValidate(c *fiber.Ctx, req validatable) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError(apperrors.MsgInvalidInputs, err)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(apperrors.MsgInvalidInputs, err)
	}
	return nil
}
