package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xrage/tparams"
	"github.com/xrage/tparams/middleware"
)

// BindParams runs the incoming JSON body through the pipeline for schema s,
// stores the built value in the request context, and on validation failure
// returns 400 with the error-tree payload.
func BindParams(s *tparams.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := middleware.Bind(s, c.Request)
		if err != nil {
			if ve, ok := tparams.AsValidationError(err); ok {
				c.JSON(http.StatusBadRequest, middleware.ErrorPayload(ve))
				c.Abort()
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithBuilt(c.Request.Context(), v))
		c.Next()
	}
}

// GetBuilt fetches the built value from gin.Context.
func GetBuilt(c *gin.Context) (any, bool) {
	return middleware.BuiltFromContext(c.Request.Context())
}

// GetInstance fetches the built value as a *tparams.Instance.
func GetInstance(c *gin.Context) (*tparams.Instance, bool) {
	return middleware.InstanceFromContext(c.Request.Context())
}
