package fibermw

import (
	"github.com/gofiber/fiber/v2"

	"github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/middleware"
)

const localsKey = "nodeskema.instance"

// Validate decodes the request body (JSON, or YAML when the Content-Type says
// so), instantiates s from it and stores the instance for the next handlers.
// On failure it answers 400 with middleware.ErrorPayload.
func Validate(s *nodeskema.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := middleware.FormatFor(c.Get(fiber.HeaderContentType))
		raw, err := nodeskema.Decode(c.Body(), f)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorPayload(err))
		}
		inst, err := s.Instantiate(c.UserContext(), raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorPayload(err))
		}
		c.Locals(localsKey, inst)
		c.SetUserContext(middleware.ContextWithInstance(c.UserContext(), inst))
		return c.Next()
	}
}

// InstanceOf fetches the instance stored by Validate.
func InstanceOf(c *fiber.Ctx) (*nodeskema.Instance, bool) {
	inst, ok := c.Locals(localsKey).(*nodeskema.Instance)
	return inst, ok && inst != nil
}
