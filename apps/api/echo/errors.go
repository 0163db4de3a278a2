package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	errUnauthorized       = echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	errHttpForbidden      = echo.NewHTTPError(http.StatusForbidden, "Unauthorized access")
	errRefreshExpired     = echo.NewHTTPError(http.StatusForbidden, "Refresh has expired")
	errInvalidCredentials = core.NewAuthenticationError("Invalid credentials")
)

// errResponse is the uniform error envelope. Details is only set for field
// validation failures.
type errResponse struct {
	Success bool              `json:"success"`
	Message interface{}       `json:"message"`
	Details []core.FieldError `json:"details,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that maps our errors
// to status codes and the uniform error envelope.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		resp := errResponse{Success: false}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				resp.Message = errUnauthorized.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			resp.Message = origErr.Message
		case validator.ValidationErrors:
			flds := make([]core.FieldError, 0, len(origErr))
			for _, vErr := range origErr {
				flds = append(flds, core.FieldError{Field: vErr.Field(), Message: vErr.Translate(core.Translator)})
			}
			code = http.StatusBadRequest
			resp.Message = "Validation failed"
			resp.Details = flds
		case *core.ValidationError:
			code = http.StatusBadRequest
			if origErr.Fields != nil {
				resp.Message = "Validation failed"
				resp.Details = origErr.Fields
			} else {
				resp.Message = origErr.Error()
			}
		case *core.AuthenticationError:
			code = http.StatusUnauthorized
			resp.Message = origErr.Error()
		case *core.PermissionError:
			code = http.StatusForbidden
			resp.Message = origErr.Error()
		case *core.NotFoundError:
			code = http.StatusNotFound
			resp.Message = origErr.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := "Internal server error"
			resp.Message = msg

			logger.Error(msg, errors.Wrap(err, msg))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
