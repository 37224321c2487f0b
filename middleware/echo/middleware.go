package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/xrage/tparams"
	"github.com/xrage/tparams/middleware"
)

// BindParams runs request JSON through the pipeline for schema s, stores the
// built value in context on success, or returns 400 with the error-tree
// payload when validation fails.
func BindParams(s *tparams.Schema) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v, err := middleware.Bind(s, c.Request())
			if err != nil {
				if ve, ok := tparams.AsValidationError(err); ok {
					return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(ve))
				}
				return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
			}
			ctx := middleware.ContextWithBuilt(c.Request().Context(), v)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetBuilt fetches the built value from echo.Context.
func GetBuilt(c echo.Context) (any, bool) {
	return middleware.BuiltFromContext(c.Request().Context())
}

// GetInstance fetches the built value as a *tparams.Instance.
func GetInstance(c echo.Context) (*tparams.Instance, bool) {
	return middleware.InstanceFromContext(c.Request().Context())
}
