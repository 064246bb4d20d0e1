package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reoring/nodeskema"
	"github.com/reoring/nodeskema/middleware"
)

// Validate instantiates s from the request body (JSON, or YAML when the
// Content-Type says so) and stores the instance in the request context. On
// failure it aborts with 400 and middleware.ErrorPayload.
func Validate(s *nodeskema.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := middleware.FormatFor(c.ContentType())
		inst, err := nodeskema.InstantiateReader(c.Request.Context(), s, c.Request.Body, f)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithInstance(c.Request.Context(), inst))
		c.Next()
	}
}

// InstanceOf fetches the instance stored by Validate.
func InstanceOf(c *gin.Context) (*nodeskema.Instance, bool) {
	return middleware.InstanceFromContext(c.Request.Context())
}
