package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/middleware"
)

// Validate instantiates s from the request body and stores the instance in
// the request context, or returns 400 with middleware.ErrorPayload.
func Validate(s *nodeskema.Schema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			f := middleware.FormatFor(req.Header.Get(echo.HeaderContentType))
			inst, err := nodeskema.InstantiateReader(req.Context(), s, req.Body, f)
			if err != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			}
			c.SetRequest(req.WithContext(middleware.ContextWithInstance(req.Context(), inst)))
			return next(c)
		}
	}
}

// InstanceOf fetches the instance stored by Validate.
func InstanceOf(c echo.Context) (*nodeskema.Instance, bool) {
	return middleware.InstanceFromContext(c.Request().Context())
}
